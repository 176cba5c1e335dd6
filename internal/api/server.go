// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/quantfolio/quantfolio/internal/api/handler/api"
	"github.com/quantfolio/quantfolio/internal/api/job"
	"github.com/quantfolio/quantfolio/internal/api/middleware"
	"github.com/quantfolio/quantfolio/internal/backtest"
	"github.com/quantfolio/quantfolio/internal/collector"
	"github.com/quantfolio/quantfolio/internal/metrics"
	"github.com/quantfolio/quantfolio/internal/portfolio"
	"github.com/quantfolio/quantfolio/internal/report"
	"github.com/quantfolio/quantfolio/internal/strategy"
)

// Server is the quantfolio HTTP API.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string
}

// Dependencies are the wired components the handlers need.
type Dependencies struct {
	Provider   collector.Provider
	Backtester *backtest.Backtester
	Rebalancer *portfolio.Rebalancer
	Strategies *strategy.Engine
	Reporter   *report.Generator
	ReportCfg  report.Config
	JobStore   *job.Store
	Metrics    *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.JobStore == nil {
		deps.JobStore = job.NewStore(100, time.Hour)
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, deps)

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	backtestHandler := apihandler.NewBacktestHandler(
		deps.JobStore, deps.Provider, deps.Backtester, deps.Strategies, deps.Metrics)
	portfolioHandler := apihandler.NewPortfolioHandler(deps.Provider, deps.Rebalancer, deps.Metrics)
	forecastHandler := apihandler.NewForecastHandler(deps.Provider, deps.Metrics, s.logger)
	quoteHandler := apihandler.NewQuoteHandler(deps.Provider)
	strategiesHandler := apihandler.NewStrategiesHandler(deps.Strategies)
	jobsHandler := apihandler.NewJobsHandler(deps.JobStore)

	api := http.NewServeMux()
	api.HandleFunc("/api/health", s.handleHealth)
	api.HandleFunc("/api/backtest", methodOnly(http.MethodPost, backtestHandler.Create))
	api.HandleFunc("/api/jobs", methodOnly(http.MethodGet, jobsHandler.List))
	api.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		backtestHandler.GetStatus(w, r, jobID)
	})
	api.HandleFunc("/api/portfolio/simulate", methodOnly(http.MethodPost, portfolioHandler.Simulate))
	api.HandleFunc("/api/forecast", methodOnly(http.MethodPost, forecastHandler.Predict))
	api.HandleFunc("/api/quote", methodOnly(http.MethodGet, quoteHandler.Get))
	api.HandleFunc("/api/strategies", methodOnly(http.MethodGet, strategiesHandler.List))

	if deps.Reporter != nil {
		reportHandler := apihandler.NewReportHandler(deps.JobStore, deps.Reporter, deps.ReportCfg, deps.Metrics)
		api.HandleFunc("/api/report", methodOnly(http.MethodPost, reportHandler.Trigger))
	}

	var handler http.Handler = api
	handler = middleware.APIKeyAuth(cfg.APIKey)(handler)
	handler = metrics.LoggingMiddleware(s.logger)(handler)
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)

		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle(path, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	s.mux.Handle("/api/", handler)
}

// methodOnly rejects requests with the wrong HTTP method.
func methodOnly(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
