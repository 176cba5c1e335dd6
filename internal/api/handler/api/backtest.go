// internal/api/handler/api/backtest.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/quantfolio/quantfolio/internal/api/job"
	"github.com/quantfolio/quantfolio/internal/api/response"
	"github.com/quantfolio/quantfolio/internal/backtest"
	"github.com/quantfolio/quantfolio/internal/collector"
	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/metrics"
	"github.com/quantfolio/quantfolio/internal/strategy"
)

const backtestTimeout = 2 * time.Minute

// BacktestRequest is the request body for starting a backtest.
type BacktestRequest struct {
	Asset    string `json:"asset"`
	Strategy string `json:"strategy"`
	Days     int    `json:"days"`
}

// BacktestHandler handles backtest API requests.
type BacktestHandler struct {
	jobStore   *job.Store
	provider   collector.Provider
	backtester *backtest.Backtester
	strategies *strategy.Engine
	metrics    *metrics.Registry
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(
	jobStore *job.Store,
	provider collector.Provider,
	backtester *backtest.Backtester,
	strategies *strategy.Engine,
	reg *metrics.Registry,
) *BacktestHandler {
	return &BacktestHandler{
		jobStore:   jobStore,
		provider:   provider,
		backtester: backtester,
		strategies: strategies,
		metrics:    reg,
	}
}

// Create starts a new backtest job.
func (h *BacktestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	if req.Asset == "" || req.Strategy == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigMissing, nil))
		return
	}
	if req.Days <= 0 {
		req.Days = 365
	}

	strat, ok := h.strategies.Get(req.Strategy)
	if !ok {
		response.Error(w, http.StatusBadRequest, core.ErrStrategyNotFound)
		return
	}

	j := h.jobStore.Create("backtest")

	// Copy values before starting goroutine to avoid race
	jobID := j.ID
	status := j.Status

	go h.runBacktest(jobID, strat, req.Asset, req.Days)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

// runBacktest executes the backtest and updates job status.
func (h *BacktestHandler) runBacktest(jobID string, strat strategy.Strategy, asset string, days int) {
	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})

	ctx, cancel := context.WithTimeout(context.Background(), backtestTimeout)
	defer cancel()

	start := time.Now()
	result, err := h.run(ctx, strat, asset, days)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordBacktest(strat.Name(), "error", elapsed)
		}
		h.jobStore.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = core.WrapError(core.ErrProviderFailed, err)
		})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordBacktest(strat.Name(), "success", elapsed)
	}
	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = result
	})
}

func (h *BacktestHandler) run(ctx context.Context, strat strategy.Strategy, asset string, days int) (*backtest.Result, error) {
	series, err := h.provider.FetchDailyHistory(ctx, asset, days)
	if err != nil {
		return nil, err
	}
	return h.backtester.Run(asset, series, strat)
}

// GetStatus returns the status of a backtest job.
func (h *BacktestHandler) GetStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	j, err := h.jobStore.Get(jobID)
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}
