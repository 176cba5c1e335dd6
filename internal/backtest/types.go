package backtest

import (
	"time"
)

// Result holds the complete backtest output for one asset/strategy pair.
type Result struct {
	Strategy string    `json:"strategy"`
	Asset    string    `json:"asset"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`

	// Signal is the lagged position per input timestamp (0 flat, 1 long).
	Signal []int `json:"signal"`

	// StrategyReturns[i] is the position-weighted return of day i+1.
	StrategyReturns []float64 `json:"strategy_returns"`

	// Equity is the cumulative value of 1 unit of capital, aligned 1:1
	// with the input series (Equity[0] == 1).
	Equity []float64 `json:"equity"`

	Stats Stats `json:"stats"`
}

// FinalValue returns the terminal equity multiple.
func (r *Result) FinalValue() float64 {
	if len(r.Equity) == 0 {
		return 1
	}
	return r.Equity[len(r.Equity)-1]
}
