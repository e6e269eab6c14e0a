package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/elonfeng/techcast/pkg/palette"
	"github.com/elonfeng/techcast/pkg/present"
	"github.com/elonfeng/techcast/pkg/trend"
)

func dataset(t *testing.T, goLast float64) trend.Dataset {
	t.Helper()
	ds, err := trend.Process([]trend.Record{
		{EntityID: "python", Years: []int{2022, 2023, 2024, 2025}, Counts: []float64{210000, 190000, 150000, 140000}, Prediction: 140000, Accuracy: 96.4, Verdict: "Declining 📉"},
		{EntityID: "go", Years: []int{2022, 2023, 2024, 2025}, Counts: []float64{7000, 7500, 8100, goLast}, Prediction: goLast, Accuracy: 88, Verdict: "Growing Steady 📈"},
		{EntityID: "cobol", Years: []int{2024, 2025}, Counts: []float64{12, 10}, Prediction: 10, Accuracy: 20, Verdict: "Plateauing ⚖️"},
	})
	require.NoError(t, err)
	return ds
}

func TestRenderEmptyDataset(t *testing.T) {
	r := New(Options{})
	_, err := r.Render(trend.Dataset{})
	assert.ErrorIs(t, err, trend.ErrEmptyInput)
	assert.Nil(t, r.Current())
}

func TestRenderProducesChartAndCards(t *testing.T) {
	r := New(Options{ForecastYear: 2025, Palette: palette.Default()})

	view, err := r.Render(dataset(t, 8600))
	require.NoError(t, err)

	require.Len(t, view.Series, 3)
	require.Len(t, view.Cards, 3)
	assert.Equal(t, "python", view.Cards[0].EntityID)
	assert.Equal(t, "140,000", view.Cards[0].ProjectedDisplay)
	assert.Equal(t, palette.Fallback, view.Series[2].Color)
	assert.Equal(t, []int{2022, 2023, 2024, 2025}, view.Years)

	assert.Equal(t, []string{
		"PYTHON: 140,000 (Projection)",
		"GO: 8,600 (Projection)",
		"COBOL: 10 (Projection)",
	}, view.Tooltips[2025])
	assert.Equal(t, []string{"PYTHON: 210,000", "GO: 7,000"}, view.Tooltips[2022])

	assert.True(t, bytes.Contains(view.SVG, []byte("<svg")))
	assert.True(t, bytes.HasPrefix(view.PNG, []byte("\x89PNG")))
	assert.NotEmpty(t, view.Fingerprint)
}

func TestRenderSingleYear(t *testing.T) {
	ds, err := trend.Process([]trend.Record{
		{EntityID: "go", Years: []int{2025}, Counts: []float64{5}, Prediction: 5, Accuracy: 80},
		{EntityID: "rust", Years: []int{2025}, Counts: []float64{3}, Prediction: 3, Accuracy: 70},
	})
	require.NoError(t, err)

	view, err := New(Options{}).Render(ds)
	require.NoError(t, err)

	assert.Equal(t, []int{2025}, view.Years)
	assert.Equal(t, "2025 (Predicted)", view.Series[0].Points[0].Label)
	assert.True(t, bytes.Contains(view.SVG, []byte("<svg")))
	assert.True(t, bytes.HasPrefix(view.PNG, []byte("\x89PNG")))
}

func TestXAxisPadsEdges(t *testing.T) {
	ds, err := trend.Process([]trend.Record{
		{EntityID: "go", Years: []int{2025}, Counts: []float64{5}, Prediction: 5},
	})
	require.NoError(t, err)

	ax := xAxis(present.Build(ds, present.Options{}))
	require.Len(t, ax.Ticks, 3)
	assert.Equal(t, 2024.5, ax.Ticks[0].Value)
	assert.Empty(t, ax.Ticks[0].Label)
	assert.Equal(t, "2025 (Predicted)", ax.Ticks[1].Label)
	assert.Equal(t, 2025.5, ax.Ticks[2].Value)
}

func TestRenderCachesIdenticalData(t *testing.T) {
	r := New(Options{})

	first, err := r.Render(dataset(t, 8600))
	require.NoError(t, err)
	second, err := r.Render(dataset(t, 8600))
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestRenderRebuildsOnSameLengthChange(t *testing.T) {
	r := New(Options{})

	first, err := r.Render(dataset(t, 8600))
	require.NoError(t, err)
	second, err := r.Render(dataset(t, 8601))
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, "8,600", first.Cards[1].ProjectedDisplay, "earlier view is left untouched")
	assert.Equal(t, "8,601", second.Cards[1].ProjectedDisplay)
	assert.Same(t, second, r.Current())
}

func TestFingerprintCoversOptions(t *testing.T) {
	ds := dataset(t, 8600)

	a, err := Fingerprint(ds, Options{ForecastYear: 2025})
	require.NoError(t, err)
	b, err := Fingerprint(ds, Options{ForecastYear: 2026})
	require.NoError(t, err)
	c, err := Fingerprint(ds, Options{ForecastYear: 2025, Palette: palette.New(map[string]string{"cobol": "#ff0000"}, "")})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFingerprintCoversDropped(t *testing.T) {
	ds := dataset(t, 8600)
	withDrop := ds
	withDrop.Dropped = []*trend.MalformedRecordError{{Index: 3, EntityID: "java", Code: trend.CodeLengthMismatch}}

	a, err := Fingerprint(ds, Options{})
	require.NoError(t, err)
	b, err := Fingerprint(withDrop, Options{})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNiceCeil(t *testing.T) {
	assert.Equal(t, 1.0, niceCeil(0))
	assert.Equal(t, 250000.0, niceCeil(210000))
	assert.Equal(t, 10000.0, niceCeil(8600))
	assert.Equal(t, 100.0, niceCeil(100))
}

func TestBuildChartSplitsSegments(t *testing.T) {
	r := New(Options{})
	view, err := r.Render(dataset(t, 8600))
	require.NoError(t, err)

	ch := buildChart(view.Presentation, Options{})
	// Python and Go get a solid and a dashed part; COBOL has only the
	// projected span and is drawn dashed only.
	require.Len(t, ch.Series, 5)
	assert.Equal(t, "PYTHON", ch.Series[0].GetName())
	assert.Equal(t, "PYTHON (projected)", ch.Series[1].GetName())
	assert.Empty(t, ch.Series[0].GetStyle().StrokeDashArray)
	assert.Equal(t, projectedDash, ch.Series[1].GetStyle().StrokeDashArray)
	assert.Equal(t, "COBOL (projected)", ch.Series[4].GetName())

	solid, ok := ch.Series[0].(chart.ContinuousSeries)
	require.True(t, ok)
	assert.Equal(t, []float64{2022, 2023, 2024}, solid.XValues, "solid line runs into the first projected point")
}
