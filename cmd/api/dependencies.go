package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/handler"
	"github.com/FACorreiaa/card-statement-parser/internal/domain/statement/service"
	"github.com/FACorreiaa/card-statement-parser/pkg/config"
	"github.com/FACorreiaa/card-statement-parser/pkg/cron"
	"github.com/FACorreiaa/card-statement-parser/pkg/metrics"
	"github.com/FACorreiaa/card-statement-parser/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	Metrics     *metrics.Metrics
	FileStorage storage.Storage
	Scheduler   *cron.Scheduler

	// Services
	Extractor *service.Extractor

	// Handlers
	RateLimiter      *handler.RateLimiter
	StatementHandler *handler.StatementHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Observability.MetricsEnabled {
		deps.Metrics = metrics.New()
	}

	if err := deps.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initStorage prepares the upload directory and its sweeper
func (d *Dependencies) initStorage() error {
	fileStorage, err := storage.NewLocalStorage(d.Config.Upload.Dir, d.Config.Upload.MaxBytes)
	if err != nil {
		return err
	}
	d.FileStorage = fileStorage

	d.Scheduler = cron.NewScheduler(fileStorage, d.Metrics,
		d.Config.Upload.SweepSchedule, d.Config.Upload.Retention, d.Logger)

	d.Logger.Info("upload storage ready", slog.String("dir", d.Config.Upload.Dir))
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() {
	d.Extractor = service.NewExtractor(d.Logger, service.Options{
		Sequential: d.Config.Extraction.Sequential,
	})

	d.Logger.Info("services initialized")
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.RateLimiter = handler.NewRateLimiter(d.Config.Server.RateLimitPerSecond, d.Config.Server.RateLimitBurst)
	d.StatementHandler = handler.NewStatementHandler(d.Extractor, d.FileStorage, d.Metrics, d.Config.Upload.MaxBytes, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Cleanup stops background jobs and removes leftover uploads
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
		d.Scheduler.RunNow(context.Background())
	}
	d.Logger.Info("cleanup completed")
}
