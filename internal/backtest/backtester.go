package backtest

import (
	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/strategy"
	"go.uber.org/zap"
)

// Backtester runs position-signal strategies against daily price
// series. It is stateless and safe for concurrent use.
type Backtester struct {
	logger *zap.Logger
}

// New creates a new Backtester
func New(logger ...*zap.Logger) *Backtester {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Backtester{logger: l}
}

// Run computes the lagged signal for the strategy, applies it to the
// asset's daily returns, and summarizes the resulting equity curve.
// The input series is never mutated.
func (b *Backtester) Run(asset string, series core.PriceSeries, strat strategy.Strategy) (*Result, error) {
	if len(series) < 2 {
		return nil, core.ErrInsufficientData
	}

	signal, err := strategy.Compute(strat, series)
	if err != nil {
		return nil, err
	}

	returns := series.Returns()

	// Strategy return on day t = signal[t] * asset return[t].
	strategyReturns := make([]float64, len(returns))
	for i := range returns {
		strategyReturns[i] = float64(signal[i+1]) * returns[i]
	}

	equity := make([]float64, len(series))
	equity[0] = 1
	for i, r := range strategyReturns {
		equity[i+1] = equity[i] * (1 + r)
	}

	result := &Result{
		Strategy:        strat.Name(),
		Asset:           asset,
		Start:           series[0].Time,
		End:             series[len(series)-1].Time,
		Signal:          signal,
		StrategyReturns: strategyReturns,
		Equity:          equity,
		Stats:           CalculateStats(strategyReturns),
	}

	b.logger.Debug("backtest complete",
		zap.String("strategy", strat.Name()),
		zap.String("asset", asset),
		zap.Int("observations", len(series)),
		zap.Float64("total_return", result.Stats.TotalReturn),
	)

	return result, nil
}
