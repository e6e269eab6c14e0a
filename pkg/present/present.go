package present

import (
	"fmt"
	"sort"

	"github.com/elonfeng/techcast/pkg/palette"
	"github.com/elonfeng/techcast/pkg/trend"
)

// Options controls how a dataset is presented.
type Options struct {
	ForecastYear  int
	ProjectedSpan int
	Palette       palette.Palette
}

// Presentation is everything a renderer needs for one pass.
type Presentation struct {
	Series []Series `json:"series"`
	Cards  []Card   `json:"cards"`
	// Years is the sorted union of all series years.
	Years []int `json:"years"`
	// Notice is a user-facing line about dropped records, if any.
	Notice string `json:"notice,omitempty"`
}

// Build derives series in deduplicated order and cards in ranked order.
func Build(ds trend.Dataset, opts Options) Presentation {
	b := Builder{ForecastYear: opts.ForecastYear, ProjectedSpan: opts.ProjectedSpan}

	series := make([]Series, len(ds.Records))
	yearSet := make(map[int]bool)
	for i, r := range ds.Records {
		series[i] = b.Build(r, opts.Palette.Resolve(r.EntityID()))
		for _, y := range r.Years() {
			yearSet[y] = true
		}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	p := Presentation{
		Series: series,
		Cards:  Cards(ds.Ranked(), opts.Palette, b.forecastYear()),
		Years:  years,
	}
	if n := len(ds.Dropped); n > 0 {
		p.Notice = fmt.Sprintf("Dropped %d malformed record(s)", n)
	}
	return p
}
