package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfolio/quantfolio/internal/api"
	"github.com/quantfolio/quantfolio/internal/api/job"
	"github.com/quantfolio/quantfolio/internal/app"
	"github.com/quantfolio/quantfolio/internal/backtest"
	"github.com/quantfolio/quantfolio/internal/logger"
	"github.com/quantfolio/quantfolio/internal/metrics"
	"github.com/quantfolio/quantfolio/internal/notifier"
	"github.com/quantfolio/quantfolio/internal/notifier/webhook"
	"github.com/quantfolio/quantfolio/internal/portfolio"
	"github.com/quantfolio/quantfolio/internal/report"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quantfolio API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}

	store, err := buildArchive(cfg)
	if err != nil {
		return fmt.Errorf("configuring archive storage: %w", err)
	}

	provider := buildProvider(cfg)
	jobStore := job.NewStore(cfg.Server.MaxJobs, time.Duration(cfg.Server.JobTTLHours)*time.Hour)

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		provider.WithMetrics(reg)
		jobStore.WithMetrics(reg)
	}

	generator := report.NewGenerator(provider, store, log)
	reportCfg := buildReportConfig(cfg)

	deps := api.Dependencies{
		Provider:   provider,
		Backtester: backtest.New(log),
		Rebalancer: portfolio.New(log),
		Strategies: engine,
		Reporter:   generator,
		ReportCfg:  reportCfg,
		JobStore:   jobStore,
		Metrics:    reg,
	}

	server, err := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: cfg.Metrics.Path,
	}, deps, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.Info("starting quantfolio server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	// Scheduled daily reports run alongside the API.
	if cfg.Report.Interval > 0 {
		notifiers := notifier.NewRegistry()
		if cfg.Report.Webhook.Enabled {
			if err := notifiers.Register(webhook.New(cfg.Report.Webhook.URL, cfg.Report.Webhook.Headers)); err != nil {
				return fmt.Errorf("registering webhook notifier: %w", err)
			}
		}

		scheduler := app.New(generator, notifiers, reportCfg, cfg.Report.Interval, log)
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("starting report scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down quantfolio server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
