package trend

import "sort"

// Rank returns a copy of in ordered by prediction, highest first.
// Ties keep their relative input order.
func Rank(in []Sanitized) []Sanitized {
	ranked := make([]Sanitized, len(in))
	copy(ranked, in)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].prediction > ranked[j].prediction
	})
	return ranked
}
