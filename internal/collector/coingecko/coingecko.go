package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quantfolio/quantfolio/internal/core"
)

const baseURL = "https://api.coingecko.com/api/v3"

// CoinGecko fetches daily price history and live quotes. Assets are
// addressed by CoinGecko coin IDs ("bitcoin", "ethereum", "solana"),
// quoted in USD.
type CoinGecko struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new CoinGecko provider
func New(apiKey string) *CoinGecko {
	return &CoinGecko{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// NewWithBaseURL creates a CoinGecko provider with custom base URL (for testing)
func NewWithBaseURL(apiKey, url string) *CoinGecko {
	c := New(apiKey)
	c.baseURL = url
	return c
}

func (c *CoinGecko) Name() string {
	return "coingecko"
}

// FetchDailyHistory fetches the market chart and normalizes it to one
// closing price per calendar day. CoinGecko auto-selects granularity
// below 90 days, so intra-day points are collapsed to the last
// observation of each day.
func (c *CoinGecko) FetchDailyHistory(ctx context.Context, asset string, days int) (core.PriceSeries, error) {
	if asset == "" || days < 1 {
		return nil, core.ErrInvalidParams
	}

	url := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d", c.baseURL, asset, days)
	if days > 90 {
		// Explicit daily interval keeps large responses small.
		url += "&interval=daily"
	}

	var payload struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if len(payload.Prices) == 0 {
		return nil, core.WrapError(core.ErrAssetNotFound, fmt.Errorf("no price data for %s", asset))
	}

	series := make(core.PriceSeries, 0, len(payload.Prices))
	for _, p := range payload.Prices {
		if len(p) < 2 {
			continue
		}
		point := core.PricePoint{
			Time:  time.UnixMilli(int64(p[0])).UTC().Truncate(24 * time.Hour),
			Price: p[1],
		}
		if n := len(series); n > 0 && series[n-1].Time.Equal(point.Time) {
			series[n-1] = point // keep the day's last observation
			continue
		}
		series = append(series, point)
	}

	if err := series.Validate(); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}
	return series, nil
}

// FetchQuote fetches the current USD price and 24h change.
func (c *CoinGecko) FetchQuote(ctx context.Context, asset string) (*core.Quote, error) {
	if asset == "" {
		return nil, core.ErrInvalidParams
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true", c.baseURL, asset)

	var payload map[string]map[string]float64
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	data, ok := payload[asset]
	if !ok {
		return nil, core.WrapError(core.ErrAssetNotFound, fmt.Errorf("no quote for %s", asset))
	}

	quote := &core.Quote{
		Asset:     asset,
		Price:     data["usd"],
		Change24h: data["usd_24h_change"],
		Time:      time.Now().UTC(),
	}
	if !quote.IsValid() {
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("invalid quote for %s", asset))
	}
	return quote, nil
}

func (c *CoinGecko) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.WrapError(core.ErrProviderFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.WrapError(core.ErrProviderFailed, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.WrapError(core.ErrProviderFailed, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
