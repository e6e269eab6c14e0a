// Package render rebuilds the forecast chart and card list from a
// processed dataset. There is no partial update path: any change to the
// dataset or the render options produces an entirely new View.
package render

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/elonfeng/techcast/internal/metrics"
	"github.com/elonfeng/techcast/pkg/palette"
	"github.com/elonfeng/techcast/pkg/present"
	"github.com/elonfeng/techcast/pkg/trend"
)

// Options configures a Renderer. Zero values select defaults.
type Options struct {
	ForecastYear  int
	ProjectedSpan int
	Palette       palette.Palette
	Width         int
	Height        int
	Title         string
}

func (o Options) width() int {
	if o.Width <= 0 {
		return defaultWidth
	}
	return o.Width
}

func (o Options) height() int {
	if o.Height <= 0 {
		return defaultHeight
	}
	return o.Height
}

func (o Options) title() string {
	if o.Title == "" {
		return defaultTitle
	}
	return o.Title
}

func (o Options) present() present.Options {
	return present.Options{
		ForecastYear:  o.ForecastYear,
		ProjectedSpan: o.ProjectedSpan,
		Palette:       o.Palette,
	}
}

// View is one complete rendering pass. Views are never modified after
// Render returns them.
type View struct {
	Fingerprint string `json:"fingerprint"`
	present.Presentation
	// Tooltips holds the hover lines for each year, highest value first.
	Tooltips   map[int][]string `json:"tooltips"`
	Dropped    int              `json:"dropped"`
	RenderedAt time.Time        `json:"rendered_at"`
	SVG        []byte           `json:"-"`
	PNG        []byte           `json:"-"`
}

// Renderer caches the last View under the fingerprint of the data it was
// built from. It is safe for concurrent use.
type Renderer struct {
	opts Options

	mu          sync.Mutex
	fingerprint string
	view        *View
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render returns the View for ds. When the fingerprint of ds matches the
// previous call the cached View is returned; otherwise chart and cards are
// rebuilt from scratch. An empty dataset yields trend.ErrEmptyInput.
func (r *Renderer) Render(ds trend.Dataset) (*View, error) {
	if len(ds.Records) == 0 {
		return nil, trend.ErrEmptyInput
	}

	fp, err := Fingerprint(ds, r.opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.view != nil && fp == r.fingerprint {
		metrics.RenderTotal.WithLabelValues("cached").Inc()
		return r.view, nil
	}

	view, err := build(ds, r.opts, fp)
	if err != nil {
		return nil, err
	}
	metrics.RenderTotal.WithLabelValues("rebuild").Inc()

	r.fingerprint = fp
	r.view = view
	return view, nil
}

// Current returns the last rendered View, or nil.
func (r *Renderer) Current() *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

type fingerprintInput struct {
	Records       []trend.Record `json:"records"`
	Colors        []string       `json:"colors"`
	Dropped       int            `json:"dropped"`
	ForecastYear  int            `json:"forecast_year"`
	ProjectedSpan int            `json:"projected_span"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	Title         string         `json:"title"`
}

// Fingerprint hashes the full sanitized dataset together with everything
// in opts that affects the output.
func Fingerprint(ds trend.Dataset, opts Options) (string, error) {
	colors := make([]string, len(ds.Records))
	for i, rec := range ds.Records {
		colors[i] = opts.Palette.Resolve(rec.EntityID())
	}

	data, err := json.Marshal(fingerprintInput{
		Records:       trend.Records(ds.Records),
		Colors:        colors,
		Dropped:       len(ds.Dropped),
		ForecastYear:  opts.ForecastYear,
		ProjectedSpan: opts.ProjectedSpan,
		Width:         opts.width(),
		Height:        opts.height(),
		Title:         opts.title(),
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint dataset: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func build(ds trend.Dataset, opts Options, fp string) (*View, error) {
	p := present.Build(ds, opts.present())

	tooltips := make(map[int][]string, len(p.Years))
	for _, y := range p.Years {
		tooltips[y] = present.TooltipsAt(p.Series, y)
	}

	ch := buildChart(p, opts)
	svg, err := renderChart(ch, chart.SVG)
	if err != nil {
		return nil, err
	}
	png, err := renderChart(ch, chart.PNG)
	if err != nil {
		return nil, err
	}

	return &View{
		Fingerprint:  fp,
		Presentation: p,
		Tooltips:     tooltips,
		Dropped:      len(ds.Dropped),
		RenderedAt:   time.Now().UTC(),
		SVG:          svg,
		PNG:          png,
	}, nil
}
