package present

import (
	"math"
	"sort"

	"github.com/dustin/go-humanize"
)

const projectionSuffix = " (Projection)"

// FormatValue renders v with thousands separators and at most two decimals.
func FormatValue(v float64) string {
	return humanize.Commaf(math.Round(v*100) / 100)
}

// FormatPercent renders a confidence score such as "93.4%".
func FormatPercent(v float64) string {
	return humanize.FtoaWithDigits(math.Round(v*10)/10, 1) + "%"
}

// Tooltip is the hover text for p. Only the forecast point is annotated as
// a projection; observed counts are shown as plain values.
func Tooltip(s Series, p Point) string {
	text := s.Label + ": " + FormatValue(p.Value)
	if p.IsForecast {
		text += projectionSuffix
	}
	return text
}

// TooltipsAt collects the hover lines of every series at year, highest
// value first. Series without a point for that year are skipped.
func TooltipsAt(series []Series, year int) []string {
	type entry struct {
		value float64
		text  string
	}
	var entries []entry
	for _, s := range series {
		for _, p := range s.Points {
			if p.Year == year {
				entries = append(entries, entry{value: p.Value, text: Tooltip(s, p)})
				break
			}
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value > entries[j].value
	})

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.text
	}
	return lines
}
