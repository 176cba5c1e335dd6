package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantfolio/quantfolio/internal/backtest"
	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/logger"
	"github.com/quantfolio/quantfolio/internal/portfolio"
)

var (
	portfolioDays      int
	portfolioFrequency string
	portfolioCapital   float64
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Simulate the configured rebalanced portfolio",
	RunE:  runPortfolio,
}

func init() {
	portfolioCmd.Flags().IntVar(&portfolioDays, "days", 0, "Days of history (default from config)")
	portfolioCmd.Flags().StringVar(&portfolioFrequency, "frequency", "", "Rebalance frequency: none, daily, weekly, monthly (default from config)")
	portfolioCmd.Flags().Float64Var(&portfolioCapital, "capital", 0, "Initial capital (default from config)")

	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	days := cfg.Portfolio.HistoryDays
	if portfolioDays > 0 {
		days = portfolioDays
	}
	freqStr := cfg.Portfolio.Frequency
	if portfolioFrequency != "" {
		freqStr = portfolioFrequency
	}
	freq, err := portfolio.ParseFrequency(freqStr)
	if err != nil {
		return err
	}
	capital := cfg.Portfolio.InitialCapital
	if portfolioCapital > 0 {
		capital = portfolioCapital
	}

	provider := buildProvider(cfg)
	ctx := context.Background()

	prices := make(map[string]core.PriceSeries, len(cfg.Portfolio.Assets))
	for _, asset := range cfg.Portfolio.Assets {
		series, err := provider.FetchDailyHistory(ctx, asset, days)
		if err != nil {
			return fmt.Errorf("fetching history for %s: %w", asset, err)
		}
		prices[asset] = series
	}

	states, err := portfolio.New(log).Simulate(prices, cfg.Portfolio.Weights, freq, capital)
	if err != nil {
		return fmt.Errorf("simulating portfolio: %w", err)
	}

	final := states[len(states)-1]
	stats := backtest.StatsFromPrices(portfolio.ValueSeries(states).Prices())

	rebalances := 0
	for _, s := range states {
		if s.Rebalanced {
			rebalances++
		}
	}

	fmt.Printf("%s portfolio, %s rebalancing, %d days\n",
		strings.Join(cfg.Portfolio.Assets, "/"), freq, len(states))
	fmt.Printf("  $%.2f -> $%.2f (%+.2f%%), %d rebalances\n",
		capital, final.TotalValue, stats.TotalReturn*100, rebalances)
	fmt.Printf("  vol %.2f%%  sharpe %.2f  max dd %.2f%%\n",
		stats.Volatility*100, stats.SharpeRatio, stats.MaxDrawdown*100)

	fmt.Println("  final holdings:")
	for _, asset := range cfg.Portfolio.Assets {
		fmt.Printf("    %-10s %.6f coins (%.1f%% of portfolio)\n",
			asset, final.Quantities[asset], final.Weights[asset]*100)
	}

	if assets, matrix, err := portfolio.Correlation(prices); err == nil {
		fmt.Println("  return correlation:")
		for i, a := range assets {
			cells := make([]string, len(assets))
			for j := range assets {
				cells[j] = fmt.Sprintf("%+.2f", matrix[i][j])
			}
			fmt.Printf("    %-10s %s\n", a, strings.Join(cells, " "))
		}
	}

	return nil
}
