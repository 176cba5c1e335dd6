package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quantfolio/quantfolio/internal/core"
)

func TestFetchDailyHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/coins/bitcoin/market_chart") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("vs_currency"); got != "usd" {
			t.Errorf("vs_currency = %q, want usd", got)
		}
		// Three days, one point per day (ms since epoch).
		fmt.Fprint(w, `{"prices":[[1704067200000,42000.5],[1704153600000,42500.0],[1704240000000,43100.25]]}`)
	}))
	defer server.Close()

	c := NewWithBaseURL("", server.URL)
	series, err := c.FetchDailyHistory(context.Background(), "bitcoin", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(series) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series))
	}
	if series[0].Price != 42000.5 {
		t.Errorf("first price = %f, want 42000.5", series[0].Price)
	}
	if !series[0].Time.Before(series[2].Time) {
		t.Error("series should be date-ordered")
	}
}

func TestFetchDailyHistory_CollapsesIntraDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Hourly granularity: two points on day one, one on day two.
		// The last observation of each day should win.
		fmt.Fprint(w, `{"prices":[[1704067200000,42000.0],[1704110400000,42800.0],[1704153600000,43000.0]]}`)
	}))
	defer server.Close()

	c := NewWithBaseURL("", server.URL)
	series, err := c.FetchDailyHistory(context.Background(), "bitcoin", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(series) != 2 {
		t.Fatalf("expected 2 daily points, got %d", len(series))
	}
	if series[0].Price != 42800.0 {
		t.Errorf("day one price = %f, want last observation 42800.0", series[0].Price)
	}
}

func TestFetchDailyHistory_LongRangeUsesDailyInterval(t *testing.T) {
	var sawInterval string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawInterval = r.URL.Query().Get("interval")
		fmt.Fprint(w, `{"prices":[[1704067200000,42000.0],[1704153600000,43000.0]]}`)
	}))
	defer server.Close()

	c := NewWithBaseURL("", server.URL)
	if _, err := c.FetchDailyHistory(context.Background(), "bitcoin", 365); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawInterval != "daily" {
		t.Errorf("interval = %q, want daily for ranges over 90 days", sawInterval)
	}
}

func TestFetchDailyHistory_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"prices":[]}`)
	}))
	defer server.Close()

	c := NewWithBaseURL("", server.URL)
	_, err := c.FetchDailyHistory(context.Background(), "nope", 7)
	if !errors.Is(err, core.ErrAssetNotFound) {
		t.Errorf("got %v, want ErrAssetNotFound", err)
	}
}

func TestFetchDailyHistory_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewWithBaseURL("", server.URL)
	_, err := c.FetchDailyHistory(context.Background(), "bitcoin", 7)
	if !errors.Is(err, core.ErrProviderFailed) {
		t.Errorf("got %v, want ErrProviderFailed", err)
	}
}

func TestFetchQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("include_24hr_change"); got != "true" {
			t.Errorf("include_24hr_change = %q, want true", got)
		}
		fmt.Fprint(w, `{"ethereum":{"usd":2250.75,"usd_24h_change":-1.82}}`)
	}))
	defer server.Close()

	c := NewWithBaseURL("", server.URL)
	quote, err := c.FetchQuote(context.Background(), "ethereum")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.Price != 2250.75 {
		t.Errorf("price = %f, want 2250.75", quote.Price)
	}
	if quote.Change24h != -1.82 {
		t.Errorf("change = %f, want -1.82", quote.Change24h)
	}
}

func TestFetchQuote_UnknownAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	c := NewWithBaseURL("", server.URL)
	_, err := c.FetchQuote(context.Background(), "nope")
	if !errors.Is(err, core.ErrAssetNotFound) {
		t.Errorf("got %v, want ErrAssetNotFound", err)
	}
}

func TestAPIKeyHeader(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-cg-demo-api-key")
		fmt.Fprint(w, `{"bitcoin":{"usd":42000.0,"usd_24h_change":0.5}}`)
	}))
	defer server.Close()

	c := NewWithBaseURL("secret", server.URL)
	if _, err := c.FetchQuote(context.Background(), "bitcoin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("api key header = %q, want secret", gotKey)
	}
}
