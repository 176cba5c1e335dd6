package backtest

import (
	"math"
	"testing"
)

func assertFinite(t *testing.T, s Stats) {
	t.Helper()
	for name, v := range map[string]float64{
		"total_return": s.TotalReturn,
		"volatility":   s.Volatility,
		"sharpe_ratio": s.SharpeRatio,
		"max_drawdown": s.MaxDrawdown,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s is not finite: %f", name, v)
		}
	}
}

func TestCalculateStats_Empty(t *testing.T) {
	s := CalculateStats(nil)
	if s != (Stats{}) {
		t.Errorf("empty input should yield neutral stats, got %+v", s)
	}
}

func TestCalculateStats_SingleReturn(t *testing.T) {
	s := CalculateStats([]float64{0.10})

	if math.Abs(s.TotalReturn-0.10) > 1e-12 {
		t.Errorf("TotalReturn = %f, want 0.10", s.TotalReturn)
	}
	// One observation: no spread, both risk metrics neutral.
	if s.Volatility != 0 || s.SharpeRatio != 0 {
		t.Errorf("risk metrics should be 0 for a single return, got vol=%f sharpe=%f", s.Volatility, s.SharpeRatio)
	}
	assertFinite(t, s)
}

func TestCalculateStats_FlatReturns(t *testing.T) {
	s := CalculateStats([]float64{0, 0, 0, 0})

	// Zero std must give Sharpe 0, not Inf/NaN.
	if s.SharpeRatio != 0 {
		t.Errorf("SharpeRatio = %f, want 0 for flat series", s.SharpeRatio)
	}
	if s.Volatility != 0 || s.TotalReturn != 0 || s.MaxDrawdown != 0 {
		t.Errorf("flat series should yield all-zero stats, got %+v", s)
	}
	assertFinite(t, s)
}

func TestCalculateStats_Volatility(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.01, -0.01}
	s := CalculateStats(returns)

	// Sample std of [.01,-.01,.01,-.01]: mean 0, var = 4*1e-4/3
	want := math.Sqrt(4e-4/3) * math.Sqrt(365)
	if math.Abs(s.Volatility-want) > 1e-9 {
		t.Errorf("Volatility = %f, want %f", s.Volatility, want)
	}
}

func TestMaxDrawdown(t *testing.T) {
	// +10%, +5%, -20%, +10%: peak 1.155, trough 0.924 -> DD -20%
	returns := []float64{0.10, 0.05, -0.20, 0.10}
	s := CalculateStats(returns)

	if math.Abs(s.MaxDrawdown-(-0.20)) > 1e-9 {
		t.Errorf("MaxDrawdown = %f, want -0.20", s.MaxDrawdown)
	}
	if s.MaxDrawdown > 0 {
		t.Error("max drawdown must never be positive")
	}
}

func TestStatsFromPrices_ConstantSeries(t *testing.T) {
	s := StatsFromPrices([]float64{50, 50, 50, 50, 50})

	if s != (Stats{}) {
		t.Errorf("constant prices should yield all-zero stats, got %+v", s)
	}
}

func TestStatsFromPrices_MonotonicIncrease(t *testing.T) {
	s := StatsFromPrices([]float64{100, 105, 111, 118, 126})

	if s.TotalReturn <= 0 {
		t.Errorf("TotalReturn = %f, want > 0 for a rising series", s.TotalReturn)
	}
	if s.MaxDrawdown != 0 {
		t.Errorf("MaxDrawdown = %f, want 0 with no decline from peak", s.MaxDrawdown)
	}
	if math.Abs(s.TotalReturn-0.26) > 1e-12 {
		t.Errorf("TotalReturn = %f, want 0.26", s.TotalReturn)
	}
	assertFinite(t, s)
}

func TestStatsFromPrices_TooShort(t *testing.T) {
	if s := StatsFromPrices([]float64{100}); s != (Stats{}) {
		t.Errorf("single-point series should yield neutral stats, got %+v", s)
	}
	if s := StatsFromPrices(nil); s != (Stats{}) {
		t.Errorf("empty series should yield neutral stats, got %+v", s)
	}
}

func TestSafeRatio(t *testing.T) {
	if got := safeRatio(1, 0); got != 0 {
		t.Errorf("division by zero should yield 0, got %f", got)
	}
	if got := safeRatio(math.NaN(), 2); got != 0 {
		t.Errorf("NaN numerator should yield 0, got %f", got)
	}
	if got := safeRatio(10, 4); got != 2.5 {
		t.Errorf("safeRatio(10,4) = %f, want 2.5", got)
	}
}
