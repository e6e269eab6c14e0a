package trend

// Dedupe keeps the first record seen for each normalized entity key and
// drops the rest. The result is a new slice in first-seen order.
func Dedupe(in []Sanitized) []Sanitized {
	out, _ := dedupe(in)
	return out
}

func dedupe(in []Sanitized) ([]Sanitized, int) {
	seen := make(map[string]bool, len(in))
	out := make([]Sanitized, 0, len(in))
	dropped := 0
	for _, s := range in {
		key := s.Key()
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out, dropped
}
