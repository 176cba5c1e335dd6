package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfolio/quantfolio/internal/forecast"
	"github.com/quantfolio/quantfolio/internal/logger"
)

var (
	forecastAsset string
	forecastDays  int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast an asset's next-day price",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().StringVar(&forecastAsset, "asset", "bitcoin", "CoinGecko asset ID")
	forecastCmd.Flags().IntVar(&forecastDays, "days", 0, "Days of history (default from config)")

	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	days := cfg.Forecast.HistoryDays
	if forecastDays > 0 {
		days = forecastDays
	}

	provider := buildProvider(cfg)
	series, err := provider.FetchDailyHistory(context.Background(), forecastAsset, days)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	predictor := forecast.NewPredictor(log)

	table, err := forecast.BuildFeatureTable(series)
	if err != nil {
		return fmt.Errorf("building features: %w", err)
	}
	eval, err := predictor.Evaluate(table)
	if err != nil {
		return fmt.Errorf("evaluating model: %w", err)
	}
	f, err := predictor.PredictNext(series)
	if err != nil {
		return fmt.Errorf("predicting: %w", err)
	}

	last := series[len(series)-1]
	fmt.Printf("%s: $%.2f as of %s\n", forecastAsset, last.Price, last.Time.Format("2006-01-02"))
	fmt.Printf("  next day: $%.2f (%+.2f%%)\n", f.Price, f.Change*100)
	fmt.Printf("  model: RMSE %.5f, directional accuracy %.0f%% on %d held-out days\n",
		eval.RMSE, eval.DirectionalAccuracy*100, eval.TestSize)

	return nil
}
