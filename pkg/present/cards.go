package present

import (
	"strconv"

	"github.com/elonfeng/techcast/pkg/palette"
	"github.com/elonfeng/techcast/pkg/trend"
)

// Card summarizes one entity for the ranked card list.
type Card struct {
	EntityID          string  `json:"entity_id"`
	Color             string  `json:"color"`
	Rank              int     `json:"rank"`
	ProjectedValue    float64 `json:"projected_value"`
	ProjectedDisplay  string  `json:"projected_display"`
	Confidence        float64 `json:"confidence"`
	ConfidenceDisplay string  `json:"confidence_display"`
	Verdict           string  `json:"verdict"`
	Headline          string  `json:"headline"`
}

// Cards derives one card per record. ranked must already be in rank order;
// ranks are assigned 1..n in that order.
func Cards(ranked []trend.Sanitized, pal palette.Palette, forecastYear int) []Card {
	if forecastYear == 0 {
		forecastYear = DefaultForecastYear
	}
	cards := make([]Card, len(ranked))
	for i, r := range ranked {
		projected := FormatValue(r.Prediction())
		cards[i] = Card{
			EntityID:          r.EntityID(),
			Color:             pal.Resolve(r.EntityID()),
			Rank:              i + 1,
			ProjectedValue:    r.Prediction(),
			ProjectedDisplay:  projected,
			Confidence:        r.Accuracy(),
			ConfidenceDisplay: FormatPercent(r.Accuracy()),
			Verdict:           r.Verdict(),
			Headline:          strconv.Itoa(forecastYear) + ": " + projected,
		}
	}
	return cards
}
