package rsirev

import (
	"fmt"

	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/indicator"
)

// RSIRev is a contrarian mean-reversion strategy: enter when RSI drops
// below the oversold threshold, exit when it rises above the
// overbought threshold, and hold the previous position while RSI sits
// between the two.
type RSIRev struct {
	period     int
	oversold   float64
	overbought float64
}

// New creates a new RSI mean-reversion strategy
func New(period int, oversold, overbought float64) (*RSIRev, error) {
	if period <= 0 || oversold <= 0 || overbought >= 100 || oversold >= overbought {
		return nil, core.WrapError(core.ErrInvalidParams,
			fmt.Errorf("rsi params period=%d oversold=%.1f overbought=%.1f", period, oversold, overbought))
	}
	return &RSIRev{
		period:     period,
		oversold:   oversold,
		overbought: overbought,
	}, nil
}

func (r *RSIRev) Name() string {
	return "rsi_reversion"
}

func (r *RSIRev) Description() string {
	return fmt.Sprintf("RSI Mean Reversion (%d, %.0f/%.0f)", r.period, r.oversold, r.overbought)
}

func (r *RSIRev) MinHistory() int {
	return r.period + 1
}

// Raw walks the RSI series carrying state: inside the band the
// previous position is held, and before any threshold has been
// touched the position defaults to flat.
func (r *RSIRev) Raw(prices []float64) []int {
	signal := make([]int, len(prices))
	rsi := indicator.RSI(prices, r.period)
	if len(rsi) == 0 {
		return signal
	}

	position := 0
	for i, v := range rsi {
		switch {
		case v < r.oversold:
			position = 1
		case v > r.overbought:
			position = 0
		}
		// rsi[0] corresponds to prices[period]
		signal[r.period+i] = position
	}
	return signal
}
