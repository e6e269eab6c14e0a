package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/elonfeng/techcast/pkg/present"
)

const (
	defaultTitle  = "Tech Stack Popularity (Polynomial Regression Projection)"
	defaultWidth  = 1024
	defaultHeight = 576

	yTickCount = 5
)

var projectedDash = []float64{6, 6}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 3,
		DotColor:    col,
		DotWidth:    4,
	}
}

// buildChart lays out one solid line per entity for the observed history
// and a dashed line for the projected tail. The solid part runs up to the
// first projected point so the two segments join.
func buildChart(p present.Presentation, opts Options) chart.Chart {
	var series, legend []chart.Series
	maxY := 0.0

	for _, s := range p.Series {
		col := drawing.ColorFromHex(strings.TrimPrefix(s.Color, "#"))
		observed, projected := s.ObservedPoints(), s.ProjectedPoints()

		solid := observed
		if len(observed) > 0 && len(projected) > 0 {
			solid = append(append([]present.Point(nil), observed...), projected[0])
		}

		st := lineStyle(col)
		if len(solid) > 0 {
			series = append(series, continuous(s.Label, solid, st))
		}
		if len(projected) > 0 {
			dashed := st
			dashed.StrokeDashArray = projectedDash
			series = append(series, continuous(s.Label+" (projected)", projected, dashed))
		}
		legend = append(legend, chart.ContinuousSeries{Name: s.Label, Style: st})

		for _, pt := range s.Points {
			maxY = math.Max(maxY, pt.Value)
		}
	}

	ch := chart.Chart{
		Title:      opts.title(),
		Width:      opts.width(),
		Height:     opts.height(),
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis(p),
		YAxis:      yAxis(maxY),
		Series:     series,
	}

	// The legend lists each entity once, not once per segment.
	legendChart := ch
	legendChart.Series = legend
	ch.Elements = []chart.Renderable{chart.Legend(&legendChart)}
	return ch
}

func continuous(name string, pts []present.Point, st chart.Style) chart.ContinuousSeries {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, pt := range pts {
		xs[i] = float64(pt.Year)
		ys[i] = pt.Value
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: st}
}

func xAxis(p present.Presentation) chart.XAxis {
	labels := make(map[int]string)
	for _, s := range p.Series {
		for _, pt := range s.Points {
			labels[pt.Year] = pt.Label
		}
	}

	first, last := float64(p.Years[0]), float64(p.Years[len(p.Years)-1])

	// go-chart derives the x range from the ticks when any are set, so the
	// unlabeled edge ticks keep a single-year chart from collapsing to a
	// zero-width range.
	ticks := make([]chart.Tick, 0, len(p.Years)+2)
	ticks = append(ticks, chart.Tick{Value: first - 0.5})
	for _, y := range p.Years {
		ticks = append(ticks, chart.Tick{Value: float64(y), Label: labels[y]})
	}
	ticks = append(ticks, chart.Tick{Value: last + 0.5})

	return chart.XAxis{
		Range: &chart.ContinuousRange{Min: first - 0.5, Max: last + 0.5},
		Ticks: ticks,
	}
}

// yAxis pins the minimum at zero; counts are never negative.
func yAxis(maxY float64) chart.YAxis {
	top := niceCeil(maxY)
	step := top / yTickCount

	ticks := make([]chart.Tick, 0, yTickCount+1)
	for i := 0; i <= yTickCount; i++ {
		v := step * float64(i)
		ticks = append(ticks, chart.Tick{Value: v, Label: present.FormatValue(v)})
	}
	return chart.YAxis{
		Range: &chart.ContinuousRange{Min: 0, Max: top},
		Ticks: ticks,
	}
}

// niceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*mag >= v {
			return m * mag
		}
	}
	return 10 * mag
}

func renderChart(ch chart.Chart, format chart.RendererProvider) ([]byte, error) {
	var buf bytes.Buffer
	if err := ch.Render(format, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
