package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/elonfeng/techcast/pkg/alert"
	"github.com/elonfeng/techcast/pkg/forecast"
)

// Refresher is the part of forecast.Engine the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) (forecast.Result, error)
}

// Scheduler periodically refreshes the forecast and announces changes.
type Scheduler struct {
	engine   Refresher
	alertMgr *alert.Manager
	interval time.Duration
	topN     int
	logger   *slog.Logger

	// lastFingerprint is the last view announced; only Run touches it.
	lastFingerprint string
}

// New creates a new scheduler.
func New(engine Refresher, alertMgr *alert.Manager, interval time.Duration, topN int, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if alertMgr == nil {
		alertMgr = alert.NewManager(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		engine:   engine,
		alertMgr: alertMgr,
		interval: interval,
		topN:     topN,
		logger:   logger,
	}
}

// Run starts the refresh loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler: initial refresh")
	s.refresh(ctx)
	s.logger.Info("scheduler: running", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh runs one pass and alerts when the view differs from the last
// one announced. The renderer is shared with the HTTP server, so the
// fingerprint decides instead of Result.Changed. The first successful
// render counts as a change, so subscribers learn about the initial
// forecast.
func (s *Scheduler) refresh(ctx context.Context) {
	res, err := s.engine.Refresh(ctx)
	if forecast.IsNoData(err) {
		s.logger.Warn("scheduler: no data available", "dropped", len(res.Dataset.Dropped))
		return
	}
	if err != nil {
		s.logger.Error("scheduler: refresh failed", "error", err)
		return
	}
	if res.View.Fingerprint == s.lastFingerprint {
		s.logger.Debug("scheduler: forecast unchanged", "fingerprint", res.View.Fingerprint)
		return
	}
	s.lastFingerprint = res.View.Fingerprint

	s.logger.Info("scheduler: forecast rebuilt", "fingerprint", res.View.Fingerprint, "languages", len(res.View.Cards))
	if !s.alertMgr.HasNotifiers() {
		return
	}
	if err := s.alertMgr.Broadcast(ctx, alert.NewNotification(res.View, s.topN)); err != nil {
		s.logger.Error("scheduler: alert failed", "error", err)
	}
}
