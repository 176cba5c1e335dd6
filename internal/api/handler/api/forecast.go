// internal/api/handler/api/forecast.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quantfolio/quantfolio/internal/api/response"
	"github.com/quantfolio/quantfolio/internal/collector"
	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/forecast"
	"github.com/quantfolio/quantfolio/internal/metrics"
	"go.uber.org/zap"
)

// ForecastRequest is the request body for a next-day forecast.
type ForecastRequest struct {
	Asset string `json:"asset"`
	Days  int    `json:"days"`
}

// ForecastResponse carries the prediction and its out-of-sample
// evaluation.
type ForecastResponse struct {
	Asset      string               `json:"asset"`
	Forecast   *forecast.Forecast   `json:"forecast"`
	Evaluation *forecast.Evaluation `json:"evaluation"`
}

// ForecastHandler handles forecast API requests.
type ForecastHandler struct {
	provider collector.Provider
	metrics  *metrics.Registry
	logger   *zap.Logger
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(provider collector.Provider, reg *metrics.Registry, logger *zap.Logger) *ForecastHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForecastHandler{provider: provider, metrics: reg, logger: logger}
}

// Predict produces a next-day price forecast synchronously.
func (h *ForecastHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	if req.Asset == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigMissing, nil))
		return
	}
	if req.Days <= 0 {
		req.Days = 365
	}

	series, err := h.provider.FetchDailyHistory(r.Context(), req.Asset, req.Days)
	if err != nil {
		h.record("error")
		response.Error(w, http.StatusBadGateway,
			core.WrapError(core.ErrProviderFailed, err))
		return
	}

	predictor := forecast.NewPredictor(h.logger)

	table, err := forecast.BuildFeatureTable(series)
	if err != nil {
		h.record("error")
		response.Error(w, h.statusFor(err), err)
		return
	}
	eval, err := predictor.Evaluate(table)
	if err != nil {
		h.record("error")
		response.Error(w, h.statusFor(err), err)
		return
	}
	f, err := predictor.PredictNext(series)
	if err != nil {
		h.record("error")
		response.Error(w, h.statusFor(err), err)
		return
	}

	h.record("success")
	response.JSON(w, http.StatusOK, ForecastResponse{
		Asset:      req.Asset,
		Forecast:   f,
		Evaluation: eval,
	})
}

func (h *ForecastHandler) statusFor(err error) int {
	if errors.Is(err, core.ErrInsufficientData) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *ForecastHandler) record(status string) {
	if h.metrics != nil {
		h.metrics.RecordForecast(status)
	}
}
