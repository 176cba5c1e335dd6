package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfolio/quantfolio/internal/backtest"
	"github.com/quantfolio/quantfolio/internal/logger"
)

var (
	backtestAsset string
	backtestDays  int
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [strategy]",
	Short: "Run a strategy backtest",
	Long:  "Run a strategy against historical daily prices and show performance statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestAsset, "asset", "bitcoin", "CoinGecko asset ID")
	backtestCmd.Flags().IntVar(&backtestDays, "days", 365, "Days of history")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}
	strat, ok := engine.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown strategy %q (have: %v)", args[0], engine.Names())
	}

	provider := buildProvider(cfg)
	series, err := provider.FetchDailyHistory(context.Background(), backtestAsset, backtestDays)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	result, err := backtest.New(log).Run(backtestAsset, series, strat)
	if err != nil {
		return fmt.Errorf("running backtest: %w", err)
	}

	fmt.Printf("%s on %s, %s to %s (%d days)\n",
		result.Strategy, result.Asset,
		result.Start.Format("2006-01-02"), result.End.Format("2006-01-02"), len(series))
	fmt.Printf("  total return:  %+.2f%%\n", result.Stats.TotalReturn*100)
	fmt.Printf("  volatility:    %.2f%%\n", result.Stats.Volatility*100)
	fmt.Printf("  sharpe ratio:  %.2f\n", result.Stats.SharpeRatio)
	fmt.Printf("  max drawdown:  %.2f%%\n", result.Stats.MaxDrawdown*100)
	fmt.Printf("  final equity:  %.4f\n", result.FinalValue())

	return nil
}
