package trend

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrEmptyInput means there is nothing to render.
	ErrEmptyInput = errors.New("no data available")

	// ErrMalformedRecord is matched by every *MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed record")
)

// Codes classifying a MalformedRecordError.
const (
	CodeEmptyID        = "empty_entity_id"
	CodeEmptySequence  = "empty_sequence"
	CodeLengthMismatch = "length_mismatch"
	CodeYearOrder      = "years_not_increasing"
	CodeNonFinite      = "non_finite"
)

// MalformedRecordError describes why a single record was rejected.
type MalformedRecordError struct {
	Index    int
	EntityID string
	Code     string
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %d (%q): %s", e.Index, e.EntityID, e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// Sanitize validates r and returns a repaired copy. Negative counts and a
// negative prediction are clamped to zero; accuracy is clamped into [0,100].
// Shape violations are not repaired and yield a *MalformedRecordError.
func Sanitize(r Record) (Sanitized, error) {
	if code, reason := shapeProblem(r); code != "" {
		return Sanitized{}, &MalformedRecordError{EntityID: r.EntityID, Code: code, Reason: reason}
	}

	counts := make([]float64, len(r.Counts))
	for i, c := range r.Counts {
		counts[i] = math.Max(c, 0)
	}

	return Sanitized{
		entityID:   strings.TrimSpace(r.EntityID),
		years:      append([]int(nil), r.Years...),
		counts:     counts,
		growthRate: r.GrowthRate,
		verdict:    r.Verdict,
		prediction: math.Max(r.Prediction, 0),
		accuracy:   clampAccuracy(r.Accuracy),
	}, nil
}

// shapeProblem returns an empty code when r can be sanitized.
func shapeProblem(r Record) (code, reason string) {
	switch {
	case strings.TrimSpace(r.EntityID) == "":
		return CodeEmptyID, "empty entity id"
	case len(r.Years) == 0 || len(r.Counts) == 0:
		return CodeEmptySequence, "empty years or counts"
	case len(r.Years) != len(r.Counts):
		return CodeLengthMismatch, fmt.Sprintf("years/counts length mismatch (%d != %d)", len(r.Years), len(r.Counts))
	case !isFinite(r.Prediction):
		return CodeNonFinite, "prediction is not a finite number"
	}
	for i := 1; i < len(r.Years); i++ {
		if r.Years[i] <= r.Years[i-1] {
			return CodeYearOrder, fmt.Sprintf("years not strictly increasing at index %d", i)
		}
	}
	for i, c := range r.Counts {
		if !isFinite(c) {
			return CodeNonFinite, fmt.Sprintf("count %d is not a finite number", i)
		}
	}
	return "", ""
}

func clampAccuracy(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 100)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
