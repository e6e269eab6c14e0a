package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/elonfeng/techcast/internal/config"
	"github.com/elonfeng/techcast/internal/logging"
	"github.com/elonfeng/techcast/internal/scheduler"
	"github.com/elonfeng/techcast/internal/store"
	"github.com/elonfeng/techcast/pkg/alert"
	"github.com/elonfeng/techcast/pkg/forecast"
	"github.com/elonfeng/techcast/pkg/palette"
	"github.com/elonfeng/techcast/pkg/render"
	"github.com/elonfeng/techcast/pkg/server"
	"github.com/elonfeng/techcast/pkg/source"
)

func loadConfig() (*config.Config, *slog.Logger, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logging.Init(cfg.Log.Level, cfg.Log.Format), nil
}

func buildRenderer(cfg *config.Config) *render.Renderer {
	return render.New(render.Options{
		ForecastYear:  cfg.Forecast.Year,
		ProjectedSpan: cfg.Forecast.ProjectedSpan,
		Palette:       palette.New(cfg.Palette.Colors, cfg.Palette.Fallback),
		Width:         cfg.Chart.Width,
		Height:        cfg.Chart.Height,
		Title:         cfg.Chart.Title,
	})
}

// buildSource returns the configured source and a cleanup func that must
// be called once the source is no longer needed.
func buildSource(cfg *config.Config) (source.Source, func(), error) {
	switch source.Kind(cfg.Source.Kind) {
	case source.KindFile:
		return source.NewFile(cfg.Source.Path), func() {}, nil
	case source.KindSnapshot:
		db, err := store.New(cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return source.NewSnapshot(db), func() { db.Close() }, nil
	default:
		return source.NewAnalytics(cfg.Source.URL), func() {}, nil
	}
}

func buildEngine(cfg *config.Config, logger *slog.Logger) (*forecast.Engine, func(), error) {
	src, cleanup, err := buildSource(cfg)
	if err != nil {
		return nil, nil, err
	}
	return forecast.NewEngine(src, buildRenderer(cfg), logger), cleanup, nil
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runForecast(out io.Writer, jsonOutput bool) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	engine, cleanup, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := engine.Refresh(context.Background())
	if forecast.IsNoData(err) {
		printNoData(out, len(res.Dataset.Dropped))
		return nil
	}
	if err != nil {
		return fmt.Errorf("refresh forecast: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.View)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tLANGUAGE\tCOLOR\tFORECAST\tCONFIDENCE\tVERDICT")
	for _, c := range res.View.Cards {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.Rank, c.EntityID, c.Color, c.Headline, c.ConfidenceDisplay, c.Verdict)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if res.View.Notice != "" {
		fmt.Fprintf(out, "\n%s\n", res.View.Notice)
	}
	return nil
}

func runRender(out io.Writer, outDir, format string) error {
	var wantSVG, wantPNG bool
	switch format {
	case "svg":
		wantSVG = true
	case "png":
		wantPNG = true
	case "both", "":
		wantSVG, wantPNG = true, true
	default:
		return fmt.Errorf("unknown format %q (want svg, png or both)", format)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	engine, cleanup, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := engine.Refresh(context.Background())
	if forecast.IsNoData(err) {
		printNoData(out, len(res.Dataset.Dropped))
		return nil
	}
	if err != nil {
		return fmt.Errorf("refresh forecast: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if wantSVG {
		if err := writeFile(filepath.Join(outDir, "chart.svg"), res.View.SVG); err != nil {
			return err
		}
	}
	if wantPNG {
		if err := writeFile(filepath.Join(outDir, "chart.png"), res.View.PNG); err != nil {
			return err
		}
	}
	logger.Info("chart rendered", "dir", outDir, "fingerprint", res.View.Fingerprint, "languages", len(res.View.Series))
	return nil
}

func runSnapshot(out io.Writer, list bool) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if list {
		return listSnapshots(out, cfg)
	}
	if source.Kind(cfg.Source.Kind) == source.KindSnapshot {
		return fmt.Errorf("source kind %q cannot be snapshotted; use analytics or file", cfg.Source.Kind)
	}

	src, cleanup, err := buildSource(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	records, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch trends from %s: %w", src.Name(), err)
	}
	if len(records) == 0 {
		printNoData(out, 0)
		return nil
	}

	snap, err := db.SaveSnapshot(ctx, string(src.Name()), records)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	pruned, err := db.PruneSnapshots(ctx, cfg.Database.Keep)
	if err != nil {
		logger.Warn("prune snapshots failed", "error", err)
	}

	logger.Info("snapshot saved", "id", snap.ID, "records", snap.RecordCount, "source", snap.Source, "pruned", pruned)
	return nil
}

func listSnapshots(out io.Writer, cfg *config.Config) error {
	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	snaps, err := db.ListSnapshots(context.Background(), 0)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No snapshots stored.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tRECORDS\tFETCHED")
	for _, sn := range snaps {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", sn.ID, sn.Source, sn.RecordCount, sn.FetchedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runServe(port int) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	engine, cleanup, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(engine, port, cfg.Server.CORSOrigins, logger)
	return srv.ListenAndServe(ctx)
}

func runDaemon(port int) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	engine, cleanup, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(engine, buildAlertManager(cfg),
		cfg.Schedule.ParseRefreshInterval(),
		cfg.Alerts.TopN,
		logger,
	)

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	srv := server.New(engine, port, cfg.Server.CORSOrigins, logger)
	return srv.ListenAndServe(ctx)
}

func printNoData(out io.Writer, dropped int) {
	fmt.Fprintln(out, "no data available")
	if dropped > 0 {
		fmt.Fprintf(out, "(%d malformed record(s) dropped)\n", dropped)
	}
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
