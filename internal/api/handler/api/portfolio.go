// internal/api/handler/api/portfolio.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/quantfolio/quantfolio/internal/api/response"
	"github.com/quantfolio/quantfolio/internal/backtest"
	"github.com/quantfolio/quantfolio/internal/collector"
	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/metrics"
	"github.com/quantfolio/quantfolio/internal/portfolio"
)

// SimulateRequest is the request body for a portfolio simulation.
type SimulateRequest struct {
	Assets         []string           `json:"assets"`
	Weights        map[string]float64 `json:"weights"`
	Days           int                `json:"days"`
	Frequency      string             `json:"frequency"`
	InitialCapital float64            `json:"initial_capital"`
}

// SimulateResponse summarizes a simulation run. The full state history
// is included so clients can chart the trajectory.
type SimulateResponse struct {
	FinalValue  float64           `json:"final_value"`
	Stats       backtest.Stats    `json:"stats"`
	Rebalances  int               `json:"rebalances"`
	Correlation [][]float64       `json:"correlation"`
	Assets      []string          `json:"assets"`
	States      []portfolio.State `json:"states"`
}

// PortfolioHandler handles portfolio simulation API requests.
type PortfolioHandler struct {
	provider   collector.Provider
	rebalancer *portfolio.Rebalancer
	metrics    *metrics.Registry
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(provider collector.Provider, rebalancer *portfolio.Rebalancer, reg *metrics.Registry) *PortfolioHandler {
	return &PortfolioHandler{
		provider:   provider,
		rebalancer: rebalancer,
		metrics:    reg,
	}
}

// Simulate runs a rebalanced portfolio simulation synchronously.
func (h *PortfolioHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	if len(req.Assets) == 0 {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigMissing, nil))
		return
	}
	if req.Days <= 0 {
		req.Days = 365
	}
	if req.InitialCapital == 0 {
		req.InitialCapital = 10000
	}

	freq, err := portfolio.ParseFrequency(req.Frequency)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	prices := make(map[string]core.PriceSeries, len(req.Assets))
	for _, asset := range req.Assets {
		series, fetchErr := h.provider.FetchDailyHistory(r.Context(), asset, req.Days)
		if fetchErr != nil {
			h.record("error")
			response.Error(w, http.StatusBadGateway,
				core.WrapError(core.ErrProviderFailed, fetchErr))
			return
		}
		prices[asset] = series
	}

	states, err := h.rebalancer.Simulate(prices, req.Weights, freq, req.InitialCapital)
	if err != nil {
		h.record("error")
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	rebalances := 0
	for _, s := range states {
		if s.Rebalanced {
			rebalances++
		}
	}

	resp := SimulateResponse{
		FinalValue: states[len(states)-1].TotalValue,
		Stats:      backtest.StatsFromPrices(portfolio.ValueSeries(states).Prices()),
		Rebalances: rebalances,
		States:     states,
	}

	if assets, matrix, corrErr := portfolio.Correlation(prices); corrErr == nil {
		resp.Assets = assets
		resp.Correlation = matrix
	}

	h.record("success")
	response.JSON(w, http.StatusOK, resp)
}

func (h *PortfolioHandler) record(status string) {
	if h.metrics != nil {
		h.metrics.RecordSimulation(status)
	}
}
