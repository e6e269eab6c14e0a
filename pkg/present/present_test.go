package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elonfeng/techcast/pkg/palette"
	"github.com/elonfeng/techcast/pkg/trend"
)

func sanitized(t *testing.T, r trend.Record) trend.Sanitized {
	t.Helper()
	s, err := trend.Sanitize(r)
	require.NoError(t, err)
	return s
}

func TestBuildMarksProjectedTail(t *testing.T) {
	rec := sanitized(t, trend.Record{
		EntityID: "python",
		Years:    []int{2022, 2023, 2024, 2025},
		Counts:   []float64{100, 200, 300, 400},
	})

	s := Builder{ForecastYear: 2025, ProjectedSpan: 2}.Build(rec, "#3776AB")

	require.Len(t, s.Points, 4)
	assert.Equal(t, []bool{false, false, true, true}, projectedFlags(s))
	assert.Equal(t, "PYTHON", s.Label)
	assert.Equal(t, "#3776AB", s.Color)
	assert.Equal(t, 300.0, s.Points[2].Value)
}

func TestBuildLabelsOnlyForecastYear(t *testing.T) {
	rec := sanitized(t, trend.Record{
		EntityID: "go",
		Years:    []int{2022, 2023, 2024, 2025},
		Counts:   []float64{1, 2, 3, 4},
	})

	s := Builder{ForecastYear: 2025}.Build(rec, palette.Fallback)

	assert.Equal(t, "2022", s.Points[0].Label)
	assert.Equal(t, "2023", s.Points[1].Label)
	assert.Equal(t, "2024", s.Points[2].Label)
	assert.Equal(t, "2025 (Predicted)", s.Points[3].Label)
	assert.True(t, s.Points[3].IsForecast)
	assert.False(t, s.Points[2].IsForecast)
}

func TestBuildForecastYearIsExplicit(t *testing.T) {
	rec := sanitized(t, trend.Record{
		EntityID: "rust",
		Years:    []int{2024, 2025, 2026},
		Counts:   []float64{1, 2, 3},
	})

	s := Builder{ForecastYear: 2026, ProjectedSpan: 1}.Build(rec, "#000000")

	assert.Equal(t, "2025", s.Points[1].Label)
	assert.Equal(t, "2026 (Predicted)", s.Points[2].Label)
	assert.Equal(t, []bool{false, false, true}, projectedFlags(s))
}

func TestBuildShortSeriesIsAllProjected(t *testing.T) {
	rec := sanitized(t, trend.Record{EntityID: "sql", Years: []int{2025}, Counts: []float64{9}})

	s := Builder{}.Build(rec, "#777777")

	assert.Equal(t, []bool{true}, projectedFlags(s))
	assert.Empty(t, s.ObservedPoints())
	assert.Len(t, s.ProjectedPoints(), 1)
}

func TestObservedAndProjectedSplit(t *testing.T) {
	rec := sanitized(t, trend.Record{
		EntityID: "java",
		Years:    []int{2021, 2022, 2023, 2024, 2025},
		Counts:   []float64{5, 4, 3, 2, 1},
	})

	s := Builder{}.Build(rec, "#EA2D2E")

	assert.Len(t, s.ObservedPoints(), 3)
	require.Len(t, s.ProjectedPoints(), 2)
	assert.Equal(t, 2024, s.ProjectedPoints()[0].Year)
}

func TestTooltip(t *testing.T) {
	s := Series{Label: "PYTHON"}
	assert.Equal(t, "PYTHON: 12,345", Tooltip(s, Point{Value: 12345, IsProjected: true}))
	assert.Equal(t, "PYTHON: 1,234,567 (Projection)", Tooltip(s, Point{Value: 1234567, IsProjected: true, IsForecast: true}))
	assert.Equal(t, "PYTHON: 12.5", Tooltip(s, Point{Value: 12.5}))
}

func TestTooltipsAtSortsByValue(t *testing.T) {
	series := []Series{
		{Label: "GO", Points: []Point{{Year: 2025, Value: 10, IsForecast: true}}},
		{Label: "PYTHON", Points: []Point{{Year: 2025, Value: 500, IsForecast: true}}},
		{Label: "RUST", Points: []Point{{Year: 2024, Value: 900}}},
	}

	assert.Equal(t, []string{"PYTHON: 500 (Projection)", "GO: 10 (Projection)"}, TooltipsAt(series, 2025))
	assert.Empty(t, TooltipsAt(series, 1990))
}

func TestCards(t *testing.T) {
	ds, err := trend.Process([]trend.Record{
		{EntityID: "go", Years: []int{2025}, Counts: []float64{1}, Prediction: 15000, Accuracy: 91.25, Verdict: "Growing Steady 📈"},
		{EntityID: "cobol", Years: []int{2025}, Counts: []float64{1}, Prediction: 1234567, Accuracy: 40, Verdict: "Plateauing"},
	})
	require.NoError(t, err)

	cards := Cards(ds.Ranked(), palette.Default(), 2025)
	require.Len(t, cards, 2)

	assert.Equal(t, "cobol", cards[0].EntityID)
	assert.Equal(t, 1, cards[0].Rank)
	assert.Equal(t, palette.Fallback, cards[0].Color)
	assert.Equal(t, "1,234,567", cards[0].ProjectedDisplay)
	assert.Equal(t, "2025: 1,234,567", cards[0].Headline)
	assert.Equal(t, "40%", cards[0].ConfidenceDisplay)

	assert.Equal(t, 2, cards[1].Rank)
	assert.Equal(t, "#00ADD8", cards[1].Color)
	assert.Equal(t, "15,000", cards[1].ProjectedDisplay)
	assert.Equal(t, "91.3%", cards[1].ConfidenceDisplay)
	assert.Equal(t, "Growing Steady 📈", cards[1].Verdict)
}

func TestBuildPresentation(t *testing.T) {
	ds, err := trend.Process([]trend.Record{
		{EntityID: "python", Years: []int{2023, 2024, 2025}, Counts: []float64{3, 2, 1}, Prediction: 1},
		{EntityID: "go", Years: []int{2022, 2024, 2025}, Counts: []float64{1, 2, 3}, Prediction: 3},
		{EntityID: "java", Years: []int{2024}, Counts: []float64{1, 2}},
	})
	require.NoError(t, err)

	p := Build(ds, Options{ForecastYear: 2025, Palette: palette.Default()})

	require.Len(t, p.Series, 2)
	assert.Equal(t, "PYTHON", p.Series[0].Label, "series keep deduplicated order")
	require.Len(t, p.Cards, 2)
	assert.Equal(t, "go", p.Cards[0].EntityID, "cards follow rank order")
	assert.Equal(t, []int{2022, 2023, 2024, 2025}, p.Years)
	assert.Equal(t, "Dropped 1 malformed record(s)", p.Notice)
}

func projectedFlags(s Series) []bool {
	flags := make([]bool, len(s.Points))
	for i, p := range s.Points {
		flags[i] = p.IsProjected
	}
	return flags
}
