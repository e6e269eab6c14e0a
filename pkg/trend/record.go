package trend

import "strings"

// Record is a raw trend record as delivered by the analytics service.
// Nothing in this package mutates a Record it receives.
type Record struct {
	EntityID   string    `json:"language"`
	Years      []int     `json:"years"`
	Counts     []float64 `json:"counts"`
	GrowthRate float64   `json:"growth_rate"`
	Verdict    string    `json:"verdict"`
	Prediction float64   `json:"prediction"`
	Accuracy   float64   `json:"accuracy"`
}

// Sanitized is a Record whose invariants hold: equal-length non-empty
// sequences, strictly increasing years, non-negative counts and prediction,
// accuracy within [0,100]. Its slices are never shared with the Record it
// was built from. Use the accessors; callers must treat the returned slices
// as read-only.
type Sanitized struct {
	entityID   string
	years      []int
	counts     []float64
	growthRate float64
	verdict    string
	prediction float64
	accuracy   float64
}

func (s Sanitized) EntityID() string    { return s.entityID }
func (s Sanitized) Years() []int        { return s.years }
func (s Sanitized) Counts() []float64   { return s.counts }
func (s Sanitized) GrowthRate() float64 { return s.growthRate }
func (s Sanitized) Verdict() string     { return s.verdict }
func (s Sanitized) Prediction() float64 { return s.prediction }
func (s Sanitized) Accuracy() float64   { return s.accuracy }

// Key returns the normalized identity of the entity.
func (s Sanitized) Key() string { return NormalizeKey(s.entityID) }

// Record returns a fresh Record carrying the sanitized values.
func (s Sanitized) Record() Record {
	return Record{
		EntityID:   s.entityID,
		Years:      append([]int(nil), s.years...),
		Counts:     append([]float64(nil), s.counts...),
		GrowthRate: s.growthRate,
		Verdict:    s.verdict,
		Prediction: s.prediction,
		Accuracy:   s.accuracy,
	}
}

// NormalizeKey is the case-insensitive identity used for deduplication
// and palette lookups.
func NormalizeKey(entityID string) string {
	return strings.ToLower(strings.TrimSpace(entityID))
}

// Records converts a sanitized slice back into raw records.
func Records(in []Sanitized) []Record {
	out := make([]Record, len(in))
	for i, s := range in {
		out[i] = s.Record()
	}
	return out
}
