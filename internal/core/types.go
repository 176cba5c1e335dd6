package core

import (
	"math"
	"time"
)

// PricePoint is a single daily observation of an asset price.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// PriceSeries is a date-ordered sequence of price points for one asset.
// Series are treated as immutable once built; all derivations allocate.
type PriceSeries []PricePoint

// Validate checks the series contract: non-empty, strictly increasing
// timestamps, strictly positive finite prices.
func (s PriceSeries) Validate() error {
	if len(s) == 0 {
		return ErrNoData
	}
	for i, p := range s {
		if p.Price <= 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return ErrZeroPrice
		}
		if i > 0 && !s[i-1].Time.Before(p.Time) {
			return ErrSeriesUnordered
		}
	}
	return nil
}

// Prices returns just the price values, in order.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// Times returns just the timestamps, in order.
func (s PriceSeries) Times() []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Time
	}
	return out
}

// Returns computes simple period returns price[t]/price[t-1]-1.
// The result has len(s)-1 elements; the first observation has no return.
func (s PriceSeries) Returns() []float64 {
	if len(s) < 2 {
		return []float64{}
	}
	out := make([]float64, len(s)-1)
	for i := 1; i < len(s); i++ {
		if s[i-1].Price == 0 {
			out[i-1] = 0
			continue
		}
		out[i-1] = s[i].Price/s[i-1].Price - 1
	}
	return out
}

// LogReturns computes ln(price[t]/price[t-1]), the form used for
// forecast model targets.
func (s PriceSeries) LogReturns() []float64 {
	if len(s) < 2 {
		return []float64{}
	}
	out := make([]float64, len(s)-1)
	for i := 1; i < len(s); i++ {
		if s[i-1].Price <= 0 || s[i].Price <= 0 {
			out[i-1] = 0
			continue
		}
		out[i-1] = math.Log(s[i].Price / s[i-1].Price)
	}
	return out
}

// SimpleReturns computes simple returns from a bare price slice.
func SimpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			out[i-1] = 0
			continue
		}
		out[i-1] = prices[i]/prices[i-1] - 1
	}
	return out
}

// Quote is a real-time price snapshot used by the display layer.
type Quote struct {
	Asset     string    `json:"asset"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change_24h"` // percent
	Time      time.Time `json:"time"`
}

// IsValid checks the quote has the required fields.
func (q Quote) IsValid() bool {
	return q.Asset != "" && q.Price > 0
}
