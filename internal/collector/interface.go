package collector

import (
	"context"

	"github.com/quantfolio/quantfolio/internal/core"
)

// Provider fetches price data for one asset. Implementations must
// return a validated, daily, strictly date-ordered series; the
// computation layers downstream assume that contract and fail fast
// when it is broken.
type Provider interface {
	Name() string

	// FetchDailyHistory returns up to `days` daily closing prices,
	// oldest first.
	FetchDailyHistory(ctx context.Context, asset string, days int) (core.PriceSeries, error)

	// FetchQuote returns the current price and 24h change. Consumed by
	// the display layer only, never by the simulation core.
	FetchQuote(ctx context.Context, asset string) (*core.Quote, error)
}
