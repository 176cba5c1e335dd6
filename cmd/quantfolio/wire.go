package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quantfolio/quantfolio/internal/collector"
	"github.com/quantfolio/quantfolio/internal/collector/coingecko"
	"github.com/quantfolio/quantfolio/internal/config"
	"github.com/quantfolio/quantfolio/internal/portfolio"
	"github.com/quantfolio/quantfolio/internal/report"
	"github.com/quantfolio/quantfolio/internal/storage/archive"
	"github.com/quantfolio/quantfolio/internal/strategy"
	"github.com/quantfolio/quantfolio/internal/strategy/buyhold"
	"github.com/quantfolio/quantfolio/internal/strategy/rsirev"
	"github.com/quantfolio/quantfolio/internal/strategy/smacross"
)

func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func buildProvider(cfg *config.Config) *collector.CachedProvider {
	cached := collector.NewCachedProvider(coingecko.New(cfg.Provider.APIKey))
	if cfg.Provider.HistoryTTL > 0 || cfg.Provider.QuoteTTL > 0 {
		cached.WithTTL(cfg.Provider.HistoryTTL, cfg.Provider.QuoteTTL)
	}
	return cached
}

// buildEngine registers the built-in strategies, applying any window
// overrides from the config.
func buildEngine(cfg *config.Config, log *zap.Logger) (*strategy.Engine, error) {
	engine := strategy.NewEngine(log)
	engine.Register(buyhold.New())

	smaShort := intParam(cfg, "sma_crossover", "short_window", 20)
	smaLong := intParam(cfg, "sma_crossover", "long_window", 50)
	sma, err := smacross.New(smaShort, smaLong)
	if err != nil {
		return nil, fmt.Errorf("sma_crossover config: %w", err)
	}
	engine.Register(sma)

	rsi, err := rsirev.New(
		intParam(cfg, "rsi_reversion", "period", 14),
		floatParam(cfg, "rsi_reversion", "oversold", 30),
		floatParam(cfg, "rsi_reversion", "overbought", 70),
	)
	if err != nil {
		return nil, fmt.Errorf("rsi_reversion config: %w", err)
	}
	engine.Register(rsi)

	return engine, nil
}

func intParam(cfg *config.Config, strat, key string, fallback int) int {
	if f := floatParam(cfg, strat, key, float64(fallback)); f > 0 {
		return int(f)
	}
	return fallback
}

func floatParam(cfg *config.Config, strat, key string, fallback float64) float64 {
	s, ok := cfg.Strategies[strat]
	if !ok || s.Params == nil {
		return fallback
	}
	switch v := s.Params[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return fallback
	}
}

func buildArchive(cfg *config.Config) (archive.Storage, error) {
	switch cfg.Storage.Archive.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.Storage.Archive.S3.Bucket,
			Endpoint:  cfg.Storage.Archive.S3.Endpoint,
			Region:    cfg.Storage.Archive.S3.Region,
			AccessKey: cfg.Storage.Archive.S3.AccessKey,
			SecretKey: cfg.Storage.Archive.S3.SecretKey,
			Prefix:    cfg.Storage.Archive.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Storage.Archive.Path)
	}
}

func buildReportConfig(cfg *config.Config) report.Config {
	freq, err := portfolio.ParseFrequency(cfg.Portfolio.Frequency)
	if err != nil {
		freq = portfolio.FreqWeekly
	}
	return report.Config{
		Assets:         cfg.Portfolio.Assets,
		Weights:        cfg.Portfolio.Weights,
		HistoryDays:    cfg.Portfolio.HistoryDays,
		Frequency:      freq,
		InitialCapital: cfg.Portfolio.InitialCapital,
	}
}
