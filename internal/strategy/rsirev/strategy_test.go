package rsirev

import (
	"testing"

	"github.com/quantfolio/quantfolio/internal/strategy"
)

func TestRSIRev_ImplementsStrategy(t *testing.T) {
	var _ strategy.Strategy = (*RSIRev)(nil)
}

func TestNew_ValidatesParams(t *testing.T) {
	if _, err := New(0, 30, 70); err == nil {
		t.Error("zero period should be rejected")
	}
	if _, err := New(14, 70, 30); err == nil {
		t.Error("oversold >= overbought should be rejected")
	}
	if _, err := New(14, 30, 70); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
}

// A monotonically rising series keeps RSI pinned at 100, so the
// oversold entry never fires.
func TestRSIRev_MonotonicNeverEnters(t *testing.T) {
	s, _ := New(14, 30, 70)

	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	raw := s.Raw(prices)
	for i, v := range raw {
		if v != 0 {
			t.Errorf("raw[%d] = %d, want 0 on a monotonic rise", i, v)
		}
	}
}

func TestRSIRev_EntersOnCrash(t *testing.T) {
	s, _ := New(5, 30, 70)

	// Flat warm-up, then a steady crash drives RSI to 0.
	prices := []float64{100, 100, 100, 100, 100, 90, 80, 70, 60, 50}
	raw := s.Raw(prices)

	if raw[len(raw)-1] != 1 {
		t.Error("sustained decline should trigger the oversold entry")
	}
}

// Between the thresholds the previous position is carried.
func TestRSIRev_HoldsInBand(t *testing.T) {
	s, _ := New(3, 30, 70)

	// Crash to enter (RSI 0 at t=3), then small mixed moves:
	// +1.0%, -1.2%, +0.5%. The last window holds gains 0.015 vs losses
	// 0.012, RSI ~= 55.6 -- inside the 30/70 band, so the long position
	// from the crash must be carried.
	prices := []float64{100, 80, 60, 40, 40.4, 39.9152, 40.1148}
	raw := s.Raw(prices)

	for i := 3; i < len(raw); i++ {
		if raw[i] != 1 {
			t.Errorf("raw[%d] = %d, want 1 (entry then held in band)", i, raw[i])
		}
	}
}

// No threshold touched yet: the first in-band observations stay flat.
func TestRSIRev_FirstInBandIsFlat(t *testing.T) {
	s, _ := New(3, 30, 70)

	// Small alternating moves keep RSI near 50 from the start.
	prices := []float64{100, 101, 100, 101, 100, 101}
	raw := s.Raw(prices)

	for i, v := range raw {
		if v != 0 {
			t.Errorf("raw[%d] = %d, want 0 before any threshold crossing", i, v)
		}
	}
}
