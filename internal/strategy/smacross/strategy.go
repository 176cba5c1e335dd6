package smacross

import (
	"fmt"

	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/indicator"
)

// SMACross is a trend-following strategy: long while the short moving
// average sits above the long one, flat otherwise.
type SMACross struct {
	shortWindow int
	longWindow  int
}

// New creates a new SMA Crossover strategy
func New(shortWindow, longWindow int) (*SMACross, error) {
	if shortWindow <= 0 || longWindow <= 0 || shortWindow >= longWindow {
		return nil, core.WrapError(core.ErrInvalidParams,
			fmt.Errorf("sma windows %d/%d: short must be positive and smaller than long", shortWindow, longWindow))
	}
	return &SMACross{
		shortWindow: shortWindow,
		longWindow:  longWindow,
	}, nil
}

func (s *SMACross) Name() string {
	return "sma_crossover"
}

func (s *SMACross) Description() string {
	return fmt.Sprintf("SMA Crossover (%d/%d)", s.shortWindow, s.longWindow)
}

func (s *SMACross) MinHistory() int {
	return s.longWindow
}

// Raw is 1 wherever SMA(short) > SMA(long). Positions before the long
// window has filled are undefined and stay flat.
func (s *SMACross) Raw(prices []float64) []int {
	signal := make([]int, len(prices))
	if len(prices) < s.longWindow {
		return signal
	}

	shortMA := indicator.SMA(prices, s.shortWindow)
	longMA := indicator.SMA(prices, s.longWindow)

	// Both slices are trailing-aligned to the end of the price series.
	shortOffset := s.shortWindow - 1
	longOffset := s.longWindow - 1
	for t := longOffset; t < len(prices); t++ {
		if shortMA[t-shortOffset] > longMA[t-longOffset] {
			signal[t] = 1
		}
	}
	return signal
}
