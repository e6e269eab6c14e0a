package trend

import "errors"

// Dataset is the sanitized, deduplicated view of one batch of raw records.
type Dataset struct {
	// Records in first-seen order, one per entity.
	Records []Sanitized
	// Dropped lists malformed records that were rejected.
	Dropped []*MalformedRecordError
	// Duplicates is the number of records discarded by deduplication.
	Duplicates int
}

// Ranked returns the records ordered for summary presentation.
func (d Dataset) Ranked() []Sanitized { return Rank(d.Records) }

// Process sanitizes and deduplicates raw. Malformed records are dropped and
// reported in Dataset.Dropped rather than failing the batch. ErrEmptyInput
// is returned when raw is empty or when no record survives; the Dataset is
// still populated in the latter case so callers can report what was dropped.
func Process(raw []Record) (Dataset, error) {
	if len(raw) == 0 {
		return Dataset{}, ErrEmptyInput
	}

	var ds Dataset
	clean := make([]Sanitized, 0, len(raw))
	for i, r := range raw {
		s, err := Sanitize(r)
		if err != nil {
			var merr *MalformedRecordError
			if errors.As(err, &merr) {
				merr.Index = i
				ds.Dropped = append(ds.Dropped, merr)
				continue
			}
			return Dataset{}, err
		}
		clean = append(clean, s)
	}

	ds.Records, ds.Duplicates = dedupe(clean)
	if len(ds.Records) == 0 {
		return ds, ErrEmptyInput
	}
	return ds, nil
}
