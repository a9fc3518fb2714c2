// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 5 * time.Minute

// Sweeper removes uploads older than maxAge.
type Sweeper interface {
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

// SweepObserver receives the number of uploads removed per run.
type SweepObserver interface {
	ObserveSweep(removed int)
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron      *cron.Cron
	sweeper   Sweeper
	observer  SweepObserver
	schedule  string
	retention time.Duration
	logger    *slog.Logger
}

// NewScheduler creates a new job scheduler. observer may be nil.
func NewScheduler(sweeper Sweeper, observer SweepObserver, schedule string, retention time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		sweeper:   sweeper,
		observer:  observer,
		schedule:  schedule,
		retention: retention,
		logger:    logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() { s.RunNow(context.Background()) })
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
		slog.String("schedule", s.schedule),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs. The returned context is done
// once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow sweeps stale uploads synchronously and returns how many were removed.
func (s *Scheduler) RunNow(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	removed, err := s.sweeper.Sweep(ctx, s.retention)
	if err != nil {
		s.logger.Warn("upload sweep incomplete",
			slog.Int("removed", removed),
			slog.Any("error", err),
		)
	}

	if s.observer != nil {
		s.observer.ObserveSweep(removed)
	}

	if removed > 0 {
		s.logger.Info("stale uploads removed",
			slog.Int("removed", removed),
			slog.Duration("retention", s.retention),
		)
	}
	return removed
}
