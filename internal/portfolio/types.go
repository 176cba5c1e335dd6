package portfolio

import (
	"time"

	"github.com/quantfolio/quantfolio/internal/core"
)

// State is the simulated portfolio at one timestamp: total value,
// exact per-asset coin quantities, and the weights those quantities
// actually represent at that day's prices.
type State struct {
	Time       time.Time          `json:"time"`
	TotalValue float64            `json:"total_value"`
	Quantities map[string]float64 `json:"quantities"`
	Weights    map[string]float64 `json:"weights"`
	Rebalanced bool               `json:"rebalanced"`
}

// ValueSeries converts a simulation history into a price series so the
// portfolio trajectory can feed the same stats pipeline as a single
// asset.
func ValueSeries(states []State) core.PriceSeries {
	out := make(core.PriceSeries, len(states))
	for i, s := range states {
		out[i] = core.PricePoint{Time: s.Time, Price: s.TotalValue}
	}
	return out
}
