// Package present turns sanitized trend records into chart series and
// summary cards.
package present

import (
	"strconv"
	"strings"

	"github.com/elonfeng/techcast/pkg/trend"
)

const (
	DefaultForecastYear  = 2025
	DefaultProjectedSpan = 2

	predictedSuffix = " (Predicted)"
)

// Point is one year of a rendered series.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
	// IsProjected marks the visually distinct tail segment. It covers the
	// last ProjectedSpan points so the line into the forecast is styled too.
	IsProjected bool `json:"is_projected"`
	// IsForecast is set only on the point for the forecast year.
	IsForecast bool   `json:"is_forecast"`
	Label      string `json:"label"`
}

// Series is a chart-ready line for one entity.
type Series struct {
	EntityID string  `json:"entity_id"`
	Color    string  `json:"color"`
	Label    string  `json:"label"`
	Points   []Point `json:"points"`
}

// Builder converts sanitized records into series. ForecastYear and
// ProjectedSpan are explicit; zero values select the defaults.
type Builder struct {
	ForecastYear  int
	ProjectedSpan int
}

func (b Builder) forecastYear() int {
	if b.ForecastYear == 0 {
		return DefaultForecastYear
	}
	return b.ForecastYear
}

func (b Builder) projectedSpan() int {
	if b.ProjectedSpan <= 0 {
		return DefaultProjectedSpan
	}
	return b.ProjectedSpan
}

// Build produces the series for rec drawn in color.
func (b Builder) Build(rec trend.Sanitized, color string) Series {
	years, counts := rec.Years(), rec.Counts()
	forecast := b.forecastYear()
	firstProjected := len(years) - b.projectedSpan()

	points := make([]Point, len(years))
	for i, y := range years {
		points[i] = Point{
			Year:        y,
			Value:       counts[i],
			IsProjected: i >= firstProjected,
			IsForecast:  y == forecast,
			Label:       YearLabel(y, forecast),
		}
	}

	return Series{
		EntityID: rec.EntityID(),
		Color:    color,
		Label:    DisplayName(rec.EntityID()),
		Points:   points,
	}
}

// YearLabel renders an axis label, flagging the forecast year.
func YearLabel(year, forecastYear int) string {
	label := strconv.Itoa(year)
	if year == forecastYear {
		label += predictedSuffix
	}
	return label
}

// DisplayName is the upper-cased form used for legends and tooltips.
func DisplayName(entityID string) string {
	return strings.ToUpper(strings.TrimSpace(entityID))
}

// ObservedPoints returns the points before the projected tail.
func (s Series) ObservedPoints() []Point {
	for i, p := range s.Points {
		if p.IsProjected {
			return s.Points[:i]
		}
	}
	return s.Points
}

// ProjectedPoints returns the projected tail.
func (s Series) ProjectedPoints() []Point {
	return s.Points[len(s.ObservedPoints()):]
}
