package trend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string, prediction float64, counts ...float64) Record {
	years := make([]int, len(counts))
	for i := range counts {
		years[i] = 2025 - len(counts) + 1 + i
	}
	return Record{EntityID: id, Years: years, Counts: counts, Prediction: prediction, Verdict: "Growing Steady"}
}

func predictions(in []Sanitized) []float64 {
	out := make([]float64, len(in))
	for i, s := range in {
		out[i] = s.Prediction()
	}
	return out
}

func TestProcessEmptyInput(t *testing.T) {
	_, err := Process(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Process([]Record{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestProcessAllMalformedIsEmpty(t *testing.T) {
	ds, err := Process([]Record{
		{EntityID: "go", Years: []int{2024}, Counts: []float64{1, 2}},
		{EntityID: "rust"},
	})
	assert.ErrorIs(t, err, ErrEmptyInput)
	require.Len(t, ds.Dropped, 2)
	assert.Equal(t, 0, ds.Dropped[0].Index)
	assert.Equal(t, 1, ds.Dropped[1].Index)
	assert.Equal(t, "rust", ds.Dropped[1].EntityID)
}

func TestProcessDedupesFirstWins(t *testing.T) {
	first := rec("SQL", 100, 1, 2, 3)
	second := rec("sql", 900, 9, 9, 9)

	ds, err := Process([]Record{first, second})
	require.NoError(t, err)

	require.Len(t, ds.Records, 1)
	assert.Equal(t, "SQL", ds.Records[0].EntityID())
	assert.Equal(t, 100.0, ds.Records[0].Prediction())
	assert.Equal(t, []float64{1, 2, 3}, ds.Records[0].Counts())
	assert.Equal(t, 1, ds.Duplicates)
}

func TestProcessDedupeIgnoresWhitespace(t *testing.T) {
	ds, err := Process([]Record{rec(" Go", 1, 1), rec("go ", 2, 2), rec("GO", 3, 3)})
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, 2, ds.Duplicates)
}

func TestProcessDropsMalformedAndKeepsRest(t *testing.T) {
	ds, err := Process([]Record{
		rec("python", 10, 1, 2),
		{EntityID: "java", Years: []int{2024, 2025}, Counts: []float64{1}},
		rec("go", 20, 3, 4),
	})
	require.NoError(t, err)

	require.Len(t, ds.Records, 2)
	assert.Equal(t, "python", ds.Records[0].EntityID())
	assert.Equal(t, "go", ds.Records[1].EntityID())
	require.Len(t, ds.Dropped, 1)
	assert.Equal(t, 1, ds.Dropped[0].Index)
	assert.True(t, errors.Is(ds.Dropped[0], ErrMalformedRecord))
}

func TestProcessIsIdempotent(t *testing.T) {
	raw := []Record{
		rec("Python", -5, -1, 20, 30),
		rec("python", 7, 1, 1, 1),
		rec("TypeScript", 12, 5, -5, 6),
	}

	once, err := Process(raw)
	require.NoError(t, err)

	twice, err := Process(Records(once.Records))
	require.NoError(t, err)

	assert.Equal(t, once.Records, twice.Records)
	assert.Empty(t, twice.Dropped)
	assert.Zero(t, twice.Duplicates)
}

func TestProcessInvariants(t *testing.T) {
	raw := []Record{
		rec("a", -1, -1, -2, -3),
		rec("b", 5, 0, -0.5, 10),
		rec("c", -1000, 3),
	}
	ds, err := Process(raw)
	require.NoError(t, err)

	for _, s := range ds.Records {
		assert.GreaterOrEqual(t, s.Prediction(), 0.0)
		assert.Len(t, s.Counts(), len(s.Years()))
		for _, c := range s.Counts() {
			assert.GreaterOrEqual(t, c, 0.0)
		}
	}
}

func TestRankDescendingStable(t *testing.T) {
	ds, err := Process([]Record{rec("a", 10, 1), rec("b", 50, 1), rec("c", 30, 1)})
	require.NoError(t, err)

	ranked := ds.Ranked()
	assert.Equal(t, []float64{50, 30, 10}, predictions(ranked))
	// The deduplicated order is untouched.
	assert.Equal(t, []float64{10, 50, 30}, predictions(ds.Records))
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	ds, err := Process([]Record{rec("x", 5, 1), rec("y", 9, 1), rec("z", 5, 1), rec("w", 5, 1)})
	require.NoError(t, err)

	ranked := ds.Ranked()
	ids := make([]string, len(ranked))
	for i, s := range ranked {
		ids[i] = s.EntityID()
	}
	assert.Equal(t, []string{"y", "x", "z", "w"}, ids)
}
