package portfolio

import (
	"fmt"
	"time"

	"github.com/quantfolio/quantfolio/internal/core"
)

// Frequency selects how often the simulation resets quantities back to
// the target weights.
type Frequency string

const (
	FreqNone    Frequency = "none"
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
)

// ParseFrequency converts a user-supplied string to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FreqNone, FreqDaily, FreqWeekly, FreqMonthly:
		return Frequency(s), nil
	default:
		return "", core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown rebalance frequency %q", s))
	}
}

// ShouldRebalance is a pure function of the calendar date: weekly
// fires on Mondays, monthly on the first of the month. It never looks
// at portfolio history.
func (f Frequency) ShouldRebalance(date time.Time) bool {
	switch f {
	case FreqDaily:
		return true
	case FreqWeekly:
		return date.Weekday() == time.Monday
	case FreqMonthly:
		return date.Day() == 1
	default:
		return false
	}
}
