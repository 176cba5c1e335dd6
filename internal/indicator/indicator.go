package indicator

import "math"

// SMA calculates Simple Moving Average
// Returns slice of length: len(prices) - period + 1
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)

	// Calculate first SMA
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	result = append(result, sum/float64(period))

	// Rolling calculation
	for i := period; i < len(prices); i++ {
		sum = sum - prices[i-period] + prices[i]
		result = append(result, sum/float64(period))
	}

	return result
}

// EMA calculates Exponential Moving Average
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)
	multiplier := 2.0 / float64(period+1)

	// Start with SMA as first EMA value
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)
	result = append(result, ema)

	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		result = append(result, ema)
	}

	return result
}

// RSI calculates the Relative Strength Index over simple-average gains
// and losses of period returns.
// Returns slice of length: len(prices) - period. The first value
// corresponds to prices[period]. A window with no losses reads 100,
// a window with no moves at all reads the neutral 50.
func RSI(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) <= period {
		return []float64{}
	}

	gains := make([]float64, len(prices)-1)
	losses := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		var change float64
		if prices[i-1] != 0 {
			change = prices[i]/prices[i-1] - 1
		}
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	result := make([]float64, 0, len(prices)-period)
	var gainSum, lossSum float64
	for i := 0; i < period; i++ {
		gainSum += gains[i]
		lossSum += losses[i]
	}
	result = append(result, rsiValue(gainSum, lossSum))

	for i := period; i < len(gains); i++ {
		gainSum += gains[i] - gains[i-period]
		lossSum += losses[i] - losses[i-period]
		result = append(result, rsiValue(gainSum, lossSum))
	}

	return result
}

func rsiValue(gainSum, lossSum float64) float64 {
	if lossSum == 0 {
		if gainSum == 0 {
			return 50 // flat window
		}
		return 100
	}
	rs := gainSum / lossSum
	return 100 - 100/(1+rs)
}

// RollingStd calculates the trailing sample standard deviation.
// Returns slice of length: len(values) - window + 1
func RollingStd(values []float64, window int) []float64 {
	if window <= 1 || len(values) < window {
		return []float64{}
	}

	result := make([]float64, 0, len(values)-window+1)
	for i := window - 1; i < len(values); i++ {
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(window)

		var variance float64
		for j := i - window + 1; j <= i; j++ {
			variance += (values[j] - mean) * (values[j] - mean)
		}
		result = append(result, math.Sqrt(variance/float64(window-1)))
	}

	return result
}
