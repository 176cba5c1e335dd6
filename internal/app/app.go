// Package app runs the standing daily report on a schedule, the
// long-running counterpart to the one-shot report command.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quantfolio/quantfolio/internal/notifier"
	"github.com/quantfolio/quantfolio/internal/report"
)

// App periodically generates, archives, and delivers the daily report.
type App struct {
	generator *report.Generator
	notifiers *notifier.Registry
	reportCfg report.Config
	interval  time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates the scheduler. The notifier registry may be empty.
func New(generator *report.Generator, notifiers *notifier.Registry, cfg report.Config, interval time.Duration, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifiers == nil {
		notifiers = notifier.NewRegistry()
	}
	return &App{
		generator: generator,
		notifiers: notifiers,
		reportCfg: cfg,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the schedule loop. The first run happens after one
// full interval, not immediately.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("scheduler already running")
	}
	if a.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %v", a.interval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.running = true

	go a.loop(ctx)

	a.logger.Info("report scheduler started", zap.Duration("interval", a.interval))
	return nil
}

// Stop halts the schedule loop.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.cancel()
	a.running = false
	a.logger.Info("report scheduler stopped")
}

// Running reports whether the loop is active.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func (a *App) loop(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.RunOnce(ctx); err != nil {
				a.logger.Error("scheduled report failed", zap.Error(err))
			}
		}
	}
}

// RunOnce generates one report, archives it, and notifies all
// channels. Notification failures are logged, not fatal: the report is
// already archived by then.
func (a *App) RunOnce(ctx context.Context) error {
	rep, err := a.generator.Generate(ctx, a.reportCfg)
	if err != nil {
		return fmt.Errorf("generating report: %w", err)
	}

	if err := a.generator.Store(ctx, rep); err != nil {
		return fmt.Errorf("archiving report: %w", err)
	}

	for name, err := range a.notifiers.NotifyAll(ctx, rep) {
		a.logger.Warn("report delivery failed",
			zap.String("notifier", name), zap.Error(err))
	}

	a.logger.Info("scheduled report complete", zap.String("report_id", rep.ID))
	return nil
}
