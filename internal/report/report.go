// Package report builds the daily portfolio report: live quotes,
// per-asset trend stance and performance, a rebalanced portfolio
// simulation, and optional next-day forecasts. Reports are archived as
// JSON, rendered text, and an equity-curve chart.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantfolio/quantfolio/internal/backtest"
	"github.com/quantfolio/quantfolio/internal/collector"
	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/forecast"
	"github.com/quantfolio/quantfolio/internal/portfolio"
	"github.com/quantfolio/quantfolio/internal/storage/archive"
	"github.com/quantfolio/quantfolio/internal/strategy"
	"github.com/quantfolio/quantfolio/internal/strategy/smacross"
)

// Trend stance SMA windows, matching the strategy defaults used for
// daily reporting.
const (
	stanceShortWindow = 20
	stanceLongWindow  = 50
)

// Config selects what the report covers.
type Config struct {
	Assets         []string            `json:"assets"`
	Weights        map[string]float64  `json:"weights"`
	HistoryDays    int                 `json:"history_days"`
	Frequency      portfolio.Frequency `json:"frequency"`
	InitialCapital float64             `json:"initial_capital"`
}

// DefaultConfig is the standing daily report: a BTC-heavy three-coin
// portfolio, rebalanced weekly, over one year of history.
func DefaultConfig() Config {
	return Config{
		Assets:         []string{"bitcoin", "ethereum", "solana"},
		Weights:        map[string]float64{"bitcoin": 0.4, "ethereum": 0.3, "solana": 0.3},
		HistoryDays:    365,
		Frequency:      portfolio.FreqWeekly,
		InitialCapital: 10000,
	}
}

// AssetSummary is one asset's section of the report.
type AssetSummary struct {
	Asset     string             `json:"asset"`
	Price     float64            `json:"price"`
	Change24h float64            `json:"change_24h"`
	Stance    string             `json:"stance"` // "long" or "flat"
	Stats     backtest.Stats     `json:"stats"`  // buy-and-hold over the window
	Forecast  *forecast.Forecast `json:"forecast,omitempty"`
}

// DriftLine shows how far one asset's weight has drifted from target
// by the end of the simulation.
type DriftLine struct {
	Asset         string  `json:"asset"`
	TargetWeight  float64 `json:"target_weight"`
	FinalWeight   float64 `json:"final_weight"`
	FinalQuantity float64 `json:"final_quantity"`
}

// PortfolioSummary is the simulated portfolio section of the report.
type PortfolioSummary struct {
	InitialCapital float64             `json:"initial_capital"`
	FinalValue     float64             `json:"final_value"`
	Frequency      portfolio.Frequency `json:"frequency"`
	Rebalances     int                 `json:"rebalances"`
	Stats          backtest.Stats      `json:"stats"`
	Drift          []DriftLine         `json:"drift"`
}

// Report is the full daily report.
type Report struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Config      Config           `json:"config"`
	Assets      []AssetSummary   `json:"assets"`
	Portfolio   PortfolioSummary `json:"portfolio"`

	// States backs the equity chart; omitted from rendered text.
	States []portfolio.State `json:"-"`
}

// Generator assembles reports from live price data.
type Generator struct {
	provider   collector.Provider
	backtester *backtest.Backtester
	rebalancer *portfolio.Rebalancer
	storage    archive.Storage
	logger     *zap.Logger
}

// NewGenerator creates a report generator. Storage may be nil, in
// which case Store is unavailable.
func NewGenerator(provider collector.Provider, storage archive.Storage, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		provider:   provider,
		backtester: backtest.New(logger),
		rebalancer: portfolio.New(logger),
		storage:    storage,
		logger:     logger,
	}
}

// Generate fetches history for every configured asset and builds the
// report. A failed quote degrades to the last close; a failed history
// fetch fails the whole report.
func (g *Generator) Generate(ctx context.Context, cfg Config) (*Report, error) {
	if len(cfg.Assets) == 0 {
		return nil, core.ErrNoData
	}
	if cfg.HistoryDays < 2 {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("history_days %d too small", cfg.HistoryDays))
	}

	prices := make(map[string]core.PriceSeries, len(cfg.Assets))
	summaries := make([]AssetSummary, 0, len(cfg.Assets))

	for _, asset := range cfg.Assets {
		series, err := g.provider.FetchDailyHistory(ctx, asset, cfg.HistoryDays)
		if err != nil {
			return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("history for %s: %w", asset, err))
		}
		prices[asset] = series

		summary, err := g.summarizeAsset(ctx, asset, series)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	states, err := g.rebalancer.Simulate(prices, cfg.Weights, cfg.Frequency, cfg.InitialCapital)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Config:      cfg,
		Assets:      summaries,
		Portfolio:   summarizePortfolio(cfg, states),
		States:      states,
	}

	g.logger.Info("report generated",
		zap.String("report_id", report.ID),
		zap.Int("assets", len(report.Assets)),
		zap.Float64("final_value", report.Portfolio.FinalValue),
	)

	return report, nil
}

func (g *Generator) summarizeAsset(ctx context.Context, asset string, series core.PriceSeries) (AssetSummary, error) {
	summary := AssetSummary{
		Asset:  asset,
		Price:  series[len(series)-1].Price,
		Stance: "flat",
		Stats:  backtest.StatsFromPrices(series.Prices()),
	}

	if quote, err := g.provider.FetchQuote(ctx, asset); err == nil {
		summary.Price = quote.Price
		summary.Change24h = quote.Change24h
	} else {
		g.logger.Warn("quote unavailable, using last close",
			zap.String("asset", asset), zap.Error(err))
	}

	stance, err := smacross.New(stanceShortWindow, stanceLongWindow)
	if err != nil {
		return summary, err
	}
	signal, err := strategy.Compute(stance, series)
	if err != nil {
		return summary, err
	}
	if signal[len(signal)-1] == strategy.Long {
		summary.Stance = "long"
	}

	forecaster := forecast.NewPredictor(g.logger)
	f, err := forecaster.PredictNext(series)
	switch {
	case err == nil:
		summary.Forecast = f
	case errors.Is(err, core.ErrInsufficientData):
		// Short histories simply get no forecast section.
	default:
		return summary, err
	}

	return summary, nil
}

func summarizePortfolio(cfg Config, states []portfolio.State) PortfolioSummary {
	final := states[len(states)-1]

	rebalances := 0
	for _, s := range states {
		if s.Rebalanced {
			rebalances++
		}
	}

	drift := make([]DriftLine, 0, len(cfg.Assets))
	for _, asset := range cfg.Assets {
		drift = append(drift, DriftLine{
			Asset:         asset,
			TargetWeight:  cfg.Weights[asset],
			FinalWeight:   final.Weights[asset],
			FinalQuantity: final.Quantities[asset],
		})
	}

	return PortfolioSummary{
		InitialCapital: cfg.InitialCapital,
		FinalValue:     final.TotalValue,
		Frequency:      cfg.Frequency,
		Rebalances:     rebalances,
		Stats:          backtest.StatsFromPrices(portfolio.ValueSeries(states).Prices()),
		Drift:          drift,
	}
}

// Store archives the report under reports/<date>/<id>/ as JSON, text,
// and a PNG equity chart.
func (g *Generator) Store(ctx context.Context, r *Report) error {
	if g.storage == nil {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("no archive storage configured"))
	}

	base := fmt.Sprintf("reports/%s/%s", r.GeneratedAt.Format("2006-01-02"), r.ID)

	if err := archive.WriteJSON(ctx, g.storage, base+"/report.json", r); err != nil {
		return err
	}
	if err := g.storage.Write(ctx, base+"/report.txt", []byte(r.Render())); err != nil {
		return err
	}

	chart, err := EquityChart(r.States)
	if err != nil {
		return err
	}
	if err := g.storage.Write(ctx, base+"/equity.png", chart); err != nil {
		return err
	}

	g.logger.Info("report archived", zap.String("report_id", r.ID), zap.String("path", base))
	return nil
}
