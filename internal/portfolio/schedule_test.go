package portfolio

import (
	"testing"
	"time"
)

func TestParseFrequency(t *testing.T) {
	for _, s := range []string{"none", "daily", "weekly", "monthly"} {
		f, err := ParseFrequency(s)
		if err != nil {
			t.Errorf("ParseFrequency(%q) failed: %v", s, err)
		}
		if string(f) != s {
			t.Errorf("ParseFrequency(%q) = %q", s, f)
		}
	}

	if _, err := ParseFrequency("hourly"); err == nil {
		t.Error("unknown frequency should be rejected")
	}
}

func TestShouldRebalance(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	firstOfMonth := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		freq Frequency
		date time.Time
		want bool
	}{
		{FreqNone, monday, false},
		{FreqNone, firstOfMonth, false},
		{FreqDaily, tuesday, true},
		{FreqWeekly, monday, true},
		{FreqWeekly, tuesday, false},
		{FreqMonthly, firstOfMonth, true},
		{FreqMonthly, firstOfMonth.AddDate(0, 0, 1), false},
	}

	for _, tt := range tests {
		if got := tt.freq.ShouldRebalance(tt.date); got != tt.want {
			t.Errorf("%s.ShouldRebalance(%s) = %v, want %v",
				tt.freq, tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}
