package portfolio

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/quantfolio/quantfolio/internal/core"
	"go.uber.org/zap"
)

// weightTolerance is how far the target weights may drift from summing
// to exactly 1 before the run is rejected.
const weightTolerance = 1e-6

// Rebalancer simulates a multi-asset portfolio with periodic
// re-targeting and exact coin-quantity bookkeeping.
type Rebalancer struct {
	logger *zap.Logger
}

// New creates a new Rebalancer
func New(logger ...*zap.Logger) *Rebalancer {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Rebalancer{logger: l}
}

// Simulate walks the aligned price history day by day. Quantities only
// change at rebalance events; between them the weights drift with
// prices. The full state history is returned.
func (r *Rebalancer) Simulate(
	prices map[string]core.PriceSeries,
	targetWeights map[string]float64,
	freq Frequency,
	initialCapital float64,
) ([]State, error) {
	assets, err := validateAligned(prices)
	if err != nil {
		return nil, err
	}
	if err := validateWeights(assets, targetWeights); err != nil {
		return nil, err
	}
	if initialCapital <= 0 || math.IsNaN(initialCapital) || math.IsInf(initialCapital, 0) {
		return nil, core.ErrInvalidCapital
	}

	index := prices[assets[0]].Times()
	days := len(index)

	// t=0: split capital by target weight, convert to coins.
	quantities := make(map[string]float64, len(assets))
	for _, a := range assets {
		quantities[a] = initialCapital * targetWeights[a] / prices[a][0].Price
	}

	states := make([]State, 0, days)
	states = append(states, newState(index[0], assets, prices, quantities, 0, false))

	for t := 1; t < days; t++ {
		rebalanced := false
		total := totalValue(assets, prices, quantities, t)

		if freq.ShouldRebalance(index[t]) {
			// Sell overweight, buy underweight at today's price,
			// zero transaction cost.
			for _, a := range assets {
				quantities[a] = total * targetWeights[a] / prices[a][t].Price
			}
			rebalanced = true
		}

		states = append(states, newState(index[t], assets, prices, quantities, t, rebalanced))
	}

	r.logger.Debug("portfolio simulation complete",
		zap.Int("assets", len(assets)),
		zap.Int("days", days),
		zap.String("frequency", string(freq)),
		zap.Float64("final_value", states[len(states)-1].TotalValue),
	)

	return states, nil
}

func totalValue(assets []string, prices map[string]core.PriceSeries, quantities map[string]float64, t int) float64 {
	var total float64
	for _, a := range assets {
		total += quantities[a] * prices[a][t].Price
	}
	return total
}

// newState snapshots the current quantities and the weights they
// represent at day t's prices. Maps are copied; the history must not
// alias the working state.
func newState(
	ts time.Time,
	assets []string,
	prices map[string]core.PriceSeries,
	quantities map[string]float64,
	t int,
	rebalanced bool,
) State {
	total := totalValue(assets, prices, quantities, t)

	qty := make(map[string]float64, len(assets))
	weights := make(map[string]float64, len(assets))
	for _, a := range assets {
		qty[a] = quantities[a]
		if total > 0 {
			weights[a] = quantities[a] * prices[a][t].Price / total
		}
	}

	return State{
		Time:       ts,
		TotalValue: total,
		Quantities: qty,
		Weights:    weights,
		Rebalanced: rebalanced,
	}
}

// validateAligned checks every series individually and then checks the
// shared contract: identical lengths and identical timestamp indices.
// Misalignment is the data layer's bug and is rejected, never patched
// over by reindexing. Returns the asset names in deterministic order.
func validateAligned(prices map[string]core.PriceSeries) ([]string, error) {
	if len(prices) == 0 {
		return nil, core.ErrNoData
	}

	assets := make([]string, 0, len(prices))
	for a := range prices {
		assets = append(assets, a)
	}
	sort.Strings(assets)

	for _, a := range assets {
		if err := prices[a].Validate(); err != nil {
			return nil, core.WrapError(core.ErrZeroPrice, fmt.Errorf("asset %s: %w", a, err))
		}
	}

	ref := prices[assets[0]]
	for _, a := range assets[1:] {
		s := prices[a]
		if len(s) != len(ref) {
			return nil, core.WrapError(core.ErrSeriesMisaligned,
				fmt.Errorf("asset %s has %d points, %s has %d", a, len(s), assets[0], len(ref)))
		}
		for i := range s {
			if !s[i].Time.Equal(ref[i].Time) {
				return nil, core.WrapError(core.ErrSeriesMisaligned,
					fmt.Errorf("asset %s timestamp mismatch at index %d", a, i))
			}
		}
	}

	return assets, nil
}

func validateWeights(assets []string, weights map[string]float64) error {
	var sum float64
	for _, a := range assets {
		w, ok := weights[a]
		if !ok {
			return core.WrapError(core.ErrInvalidWeights,
				fmt.Errorf("missing weight for asset %s", a))
		}
		if w < 0 || math.IsNaN(w) {
			return core.WrapError(core.ErrInvalidWeights,
				fmt.Errorf("negative weight for asset %s", a))
		}
		sum += w
	}
	if len(weights) != len(assets) {
		return core.WrapError(core.ErrInvalidWeights,
			fmt.Errorf("weights reference %d assets, prices have %d", len(weights), len(assets)))
	}
	if math.Abs(sum-1) > weightTolerance {
		return core.WrapError(core.ErrInvalidWeights,
			fmt.Errorf("weights sum to %.8f", sum))
	}
	return nil
}
