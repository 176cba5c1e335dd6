package forecast

import (
	"time"

	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/indicator"
)

// Feature windows. Lags look back 1, 2, 3 and 5 days; volatility and
// the SMA distance use a 5-day trailing window.
const (
	maxLag    = 5
	volWindow = 5
	smaWindow = 5
)

// Row is one training example: the log return at Time, explained by
// features that were all observable strictly before Time.
type Row struct {
	Time        time.Time `json:"time"`
	LagReturn1  float64   `json:"lag_return_1"`
	LagReturn2  float64   `json:"lag_return_2"`
	LagReturn3  float64   `json:"lag_return_3"`
	LagReturn5  float64   `json:"lag_return_5"`
	Volatility5 float64   `json:"volatility_5"`
	SMADistance float64   `json:"sma_distance"`
	Target      float64   `json:"target_log_return"`
}

// Features returns the explanatory values in model column order.
func (r Row) Features() []float64 {
	return []float64{
		r.LagReturn1,
		r.LagReturn2,
		r.LagReturn3,
		r.LagReturn5,
		r.Volatility5,
		r.SMADistance,
	}
}

// NumFeatures is the width of the feature vector.
const NumFeatures = 6

// FeatureTable is the chronologically ordered training set derived
// from one price series.
type FeatureTable struct {
	Rows []Row
}

// BuildFeatureTable derives the feature rows from a price series.
// Rows whose trailing windows are not fully covered by history are
// dropped, not zero-filled: partial windows would bias training.
func BuildFeatureTable(series core.PriceSeries) (*FeatureTable, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	// First usable target needs maxLag returns before it, and returns
	// start at index 1.
	if len(series) < maxLag+2 {
		return nil, core.ErrInsufficientData
	}

	prices := series.Prices()
	logReturns := series.LogReturns() // logReturns[i] is the return at series index i+1

	// Both std and SMA are trailing, computed per candidate row below
	// so the window never includes the target day.
	rows := make([]Row, 0, len(series)-maxLag-1)

	// ret(idx) is the log return at series index idx.
	ret := func(idx int) float64 { return logReturns[idx-1] }

	for t := maxLag + 1; t < len(series); t++ {
		// Volatility over the 5 returns ending at t-1.
		vol := indicator.RollingStd(logReturns[t-1-volWindow:t-1], volWindow)
		// SMA over the 5 prices ending at t-1.
		sma := indicator.SMA(prices[t-smaWindow:t], smaWindow)
		if len(vol) == 0 || len(sma) == 0 {
			continue
		}

		dist := 0.0
		if sma[0] != 0 {
			dist = (prices[t-1] - sma[0]) / sma[0]
		}

		rows = append(rows, Row{
			Time:        series[t].Time,
			LagReturn1:  ret(t - 1),
			LagReturn2:  ret(t - 2),
			LagReturn3:  ret(t - 3),
			LagReturn5:  ret(t - 5),
			Volatility5: vol[0],
			SMADistance: dist,
			Target:      ret(t),
		})
	}

	if len(rows) == 0 {
		return nil, core.ErrInsufficientData
	}
	return &FeatureTable{Rows: rows}, nil
}

// NextFeatures builds the feature vector for the day after the last
// observation, using only observed data. The same windows as
// BuildFeatureTable apply, shifted to end at the final price.
func NextFeatures(series core.PriceSeries) ([]float64, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if len(series) < maxLag+1 {
		return nil, core.ErrInsufficientData
	}

	prices := series.Prices()
	logReturns := series.LogReturns()
	n := len(logReturns)

	vol := indicator.RollingStd(logReturns[n-volWindow:], volWindow)
	sma := indicator.SMA(prices[len(prices)-smaWindow:], smaWindow)
	if len(vol) == 0 || len(sma) == 0 {
		return nil, core.ErrInsufficientData
	}

	dist := 0.0
	if sma[0] != 0 {
		dist = (prices[len(prices)-1] - sma[0]) / sma[0]
	}

	return []float64{
		logReturns[n-1],
		logReturns[n-2],
		logReturns[n-3],
		logReturns[n-5],
		vol[0],
		dist,
	}, nil
}
