package backtest

import (
	"math"

	"github.com/montanaflynn/stats"
)

// PeriodsPerYear is the annualization factor. Crypto trades every
// calendar day, so 365 rather than the 252 used for equities.
const PeriodsPerYear = 365

// Stats holds the summary performance metrics for a return series.
// Every field is a finite real: degenerate inputs (flat series, too
// few observations, zero denominators) collapse to the metric's
// neutral value instead of NaN or Inf.
type Stats struct {
	TotalReturn float64 `json:"total_return"`
	Volatility  float64 `json:"volatility"`   // annualized
	SharpeRatio float64 `json:"sharpe_ratio"` // 0% risk-free, annualized
	MaxDrawdown float64 `json:"max_drawdown"` // <= 0
}

// CalculateStats computes performance metrics from a period-return
// series.
func CalculateStats(returns []float64) Stats {
	if len(returns) == 0 {
		return Stats{}
	}

	cumulative := 1.0
	for _, r := range returns {
		cumulative *= 1 + r
	}

	mean, _ := stats.Mean(returns)
	std := 0.0
	if len(returns) >= 2 {
		std, _ = stats.StandardDeviationSample(returns)
	}

	return Stats{
		TotalReturn: sanitize(cumulative - 1),
		Volatility:  sanitize(std * math.Sqrt(PeriodsPerYear)),
		SharpeRatio: safeRatio(mean, std) * math.Sqrt(PeriodsPerYear),
		MaxDrawdown: maxDrawdown(returns),
	}
}

// StatsFromPrices derives simple returns first. Series shorter than
// two points are degenerate and yield the neutral Stats.
func StatsFromPrices(prices []float64) Stats {
	if len(prices) < 2 {
		return Stats{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = safeRatio(prices[i]-prices[i-1], prices[i-1])
	}

	s := CalculateStats(returns)
	// Total return straight from the endpoints, per the price contract.
	s.TotalReturn = safeRatio(prices[len(prices)-1]-prices[0], prices[0])
	return s
}

// maxDrawdown is the largest decline of the cumulative value from its
// running peak, expressed as a non-positive fraction.
func maxDrawdown(returns []float64) float64 {
	cumulative := 1.0
	peak := 1.0
	var worst float64

	for _, r := range returns {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		dd := safeRatio(cumulative, peak) - 1
		if dd < worst {
			worst = dd
		}
	}
	return sanitize(worst)
}

// safeRatio is the single place the neutral-value policy lives:
// num/den with every degenerate case (zero denominator, NaN, Inf)
// mapped to 0.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return sanitize(num / den)
}

// sanitize coerces NaN and Inf to 0 so no metric ever surfaces them.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
