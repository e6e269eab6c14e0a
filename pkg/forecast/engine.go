// Package forecast wires a record source to the trend pipeline and the
// renderer.
package forecast

import (
	"context"
	"errors"
	"log/slog"

	"github.com/elonfeng/techcast/internal/metrics"
	"github.com/elonfeng/techcast/pkg/render"
	"github.com/elonfeng/techcast/pkg/source"
	"github.com/elonfeng/techcast/pkg/trend"
)

// Result is the outcome of one refresh.
type Result struct {
	View    *render.View
	Dataset trend.Dataset
	// Changed reports whether this call rebuilt the view rather than
	// serving it from the renderer's cache. It says nothing about callers
	// sharing the renderer, which may have rebuilt it first; compare
	// View.Fingerprint to track changes across calls.
	Changed bool
}

// Engine fetches raw records, runs them through the pipeline and renders
// the result.
type Engine struct {
	source   source.Source
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewEngine creates a new forecast engine. A nil logger uses slog.Default.
func NewEngine(src source.Source, renderer *render.Renderer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: src, renderer: renderer, logger: logger}
}

// Refresh fetches, processes and renders. A failed fetch degrades to an
// empty input, so callers see trend.ErrEmptyInput instead of a transport
// error.
func (e *Engine) Refresh(ctx context.Context) (Result, error) {
	raw := e.fetch(ctx)

	ds, err := trend.Process(raw)
	e.report(ds)
	if err != nil {
		return Result{Dataset: ds}, err
	}

	previous := e.renderer.Current()
	view, err := e.renderer.Render(ds)
	if err != nil {
		return Result{Dataset: ds}, err
	}

	return Result{View: view, Dataset: ds, Changed: view != previous}, nil
}

// Current returns the last rendered view, or nil if nothing has rendered.
func (e *Engine) Current() *render.View {
	return e.renderer.Current()
}

func (e *Engine) fetch(ctx context.Context) []trend.Record {
	name := string(e.source.Name())
	raw, err := e.source.Fetch(ctx)
	if err != nil {
		metrics.FetchTotal.WithLabelValues(name, "error").Inc()
		e.logger.Warn("fetch trends failed", "source", name, "error", err)
		return nil
	}
	metrics.FetchTotal.WithLabelValues(name, "ok").Inc()
	e.logger.Debug("fetched trends", "source", name, "records", len(raw))
	return raw
}

func (e *Engine) report(ds trend.Dataset) {
	for _, d := range ds.Dropped {
		metrics.RecordsDropped.WithLabelValues(d.Code).Inc()
		e.logger.Warn("dropped malformed record", "index", d.Index, "entity", d.EntityID, "reason", d.Reason)
	}
	if ds.Duplicates > 0 {
		metrics.DuplicatesDropped.Add(float64(ds.Duplicates))
		e.logger.Info("discarded duplicate records", "count", ds.Duplicates)
	}
}

// IsNoData reports whether err means there is nothing to show.
func IsNoData(err error) bool {
	return errors.Is(err, trend.ErrEmptyInput)
}
