package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quantfolio/quantfolio/internal/core"
)

// Default cache lifetimes. History moves once a day, so a short TTL is
// only there to bound staleness after midnight; quotes go stale fast.
const (
	DefaultHistoryTTL = 5 * time.Minute
	DefaultQuoteTTL   = 1 * time.Minute
)

type historyEntry struct {
	series   core.PriceSeries
	cachedAt time.Time
}

type quoteEntry struct {
	quote    *core.Quote
	cachedAt time.Time
}

// Metrics receives cache outcomes and upstream fetch results. The
// prometheus registry in internal/metrics implements it.
type Metrics interface {
	RecordProviderRequest(provider, status string)
	RecordCacheEvent(outcome string)
}

// CachedProvider wraps a provider with in-memory TTL caching. Safe for
// concurrent use.
type CachedProvider struct {
	provider   Provider
	historyTTL time.Duration
	quoteTTL   time.Duration
	now        func() time.Time
	metrics    Metrics

	mu      sync.Mutex
	history map[string]historyEntry
	quotes  map[string]quoteEntry
}

// NewCachedProvider creates a cached provider with the default TTLs.
func NewCachedProvider(provider Provider) *CachedProvider {
	return &CachedProvider{
		provider:   provider,
		historyTTL: DefaultHistoryTTL,
		quoteTTL:   DefaultQuoteTTL,
		now:        time.Now,
		history:    make(map[string]historyEntry),
		quotes:     make(map[string]quoteEntry),
	}
}

// WithTTL overrides the cache lifetimes.
func (p *CachedProvider) WithTTL(history, quote time.Duration) *CachedProvider {
	p.historyTTL = history
	p.quoteTTL = quote
	return p
}

// WithClock overrides the time source (for testing).
func (p *CachedProvider) WithClock(now func() time.Time) *CachedProvider {
	p.now = now
	return p
}

// WithMetrics attaches a metrics sink for cache and fetch outcomes.
func (p *CachedProvider) WithMetrics(m Metrics) *CachedProvider {
	p.metrics = m
	return p
}

func (p *CachedProvider) cacheEvent(outcome string) {
	if p.metrics != nil {
		p.metrics.RecordCacheEvent(outcome)
	}
}

func (p *CachedProvider) fetchOutcome(err error) {
	if p.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	p.metrics.RecordProviderRequest(p.provider.Name(), status)
}

func (p *CachedProvider) Name() string {
	return p.provider.Name()
}

// FetchDailyHistory returns a cached series or fetches from the
// underlying provider. Errors are never cached.
func (p *CachedProvider) FetchDailyHistory(ctx context.Context, asset string, days int) (core.PriceSeries, error) {
	key := fmt.Sprintf("%s:%d", asset, days)

	p.mu.Lock()
	if entry, ok := p.history[key]; ok && p.now().Sub(entry.cachedAt) < p.historyTTL {
		p.mu.Unlock()
		p.cacheEvent("hit")
		return entry.series, nil
	}
	p.mu.Unlock()
	p.cacheEvent("miss")

	series, err := p.provider.FetchDailyHistory(ctx, asset, days)
	p.fetchOutcome(err)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.history[key] = historyEntry{series: series, cachedAt: p.now()}
	p.mu.Unlock()
	return series, nil
}

// FetchQuote returns a cached quote or fetches from the underlying
// provider.
func (p *CachedProvider) FetchQuote(ctx context.Context, asset string) (*core.Quote, error) {
	p.mu.Lock()
	if entry, ok := p.quotes[asset]; ok && p.now().Sub(entry.cachedAt) < p.quoteTTL {
		p.mu.Unlock()
		p.cacheEvent("hit")
		return entry.quote, nil
	}
	p.mu.Unlock()
	p.cacheEvent("miss")

	quote, err := p.provider.FetchQuote(ctx, asset)
	p.fetchOutcome(err)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.quotes[asset] = quoteEntry{quote: quote, cachedAt: p.now()}
	p.mu.Unlock()
	return quote, nil
}
