package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server     Server              `mapstructure:"server"`
	Provider   Provider            `mapstructure:"provider"`
	Portfolio  Portfolio           `mapstructure:"portfolio"`
	Strategies map[string]Strategy `mapstructure:"strategies"`
	Forecast   Forecast            `mapstructure:"forecast"`
	Report     Report              `mapstructure:"report"`
	Storage    Storage             `mapstructure:"storage"`
	Metrics    Metrics             `mapstructure:"metrics"`
}

type Server struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	APIKey      string `mapstructure:"api_key"`
	JobTTLHours int    `mapstructure:"job_ttl_hours"`
	MaxJobs     int    `mapstructure:"max_jobs"`
}

// Provider configures the upstream price source and its cache.
type Provider struct {
	APIKey     string        `mapstructure:"api_key"`
	HistoryTTL time.Duration `mapstructure:"history_ttl"`
	QuoteTTL   time.Duration `mapstructure:"quote_ttl"`
}

// Portfolio is the standing portfolio the report and default
// simulation use.
type Portfolio struct {
	Assets         []string           `mapstructure:"assets"`
	Weights        map[string]float64 `mapstructure:"weights"`
	Frequency      string             `mapstructure:"frequency"`
	InitialCapital float64            `mapstructure:"initial_capital"`
	HistoryDays    int                `mapstructure:"history_days"`
}

type Strategy struct {
	Enabled bool           `mapstructure:"enabled"`
	Params  map[string]any `mapstructure:"params"`
}

type Forecast struct {
	HistoryDays int `mapstructure:"history_days"`
}

// Report configures the scheduled daily report and its delivery.
type Report struct {
	Interval time.Duration `mapstructure:"interval"` // 0 disables the scheduler
	Webhook  Webhook       `mapstructure:"webhook"`
}

type Webhook struct {
	Enabled bool              `mapstructure:"enabled"`
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

type Storage struct {
	Archive Archive `mapstructure:"archive"`
}

type Archive struct {
	Type string `mapstructure:"type"` // "localfs" or "s3"
	Path string `mapstructure:"path"` // For localfs
	S3   S3     `mapstructure:"s3"`   // For S3
}

type S3 struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type Metrics struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: Server{
			Host:        "0.0.0.0",
			Port:        8080,
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Provider: Provider{
			HistoryTTL: 5 * time.Minute,
			QuoteTTL:   time.Minute,
		},
		Portfolio: Portfolio{
			Assets:         []string{"bitcoin", "ethereum", "solana"},
			Weights:        map[string]float64{"bitcoin": 0.4, "ethereum": 0.3, "solana": 0.3},
			Frequency:      "weekly",
			InitialCapital: 10000,
			HistoryDays:    365,
		},
		Forecast: Forecast{
			HistoryDays: 365,
		},
		Report: Report{
			Interval: 24 * time.Hour,
		},
		Storage: Storage{
			Archive: Archive{
				Type: "localfs",
				Path: "data/archive",
			},
		},
		Metrics: Metrics{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	// Provider validation
	if c.Provider.HistoryTTL < 0 || c.Provider.QuoteTTL < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("cache TTLs cannot be negative"))
	}

	// Portfolio validation
	if len(c.Portfolio.Assets) > 0 {
		switch c.Portfolio.Frequency {
		case "none", "daily", "weekly", "monthly":
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown rebalance frequency %q", c.Portfolio.Frequency))
		}
		if c.Portfolio.InitialCapital <= 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("initial_capital must be positive, got %f", c.Portfolio.InitialCapital))
		}
		var sum float64
		for _, a := range c.Portfolio.Assets {
			w, ok := c.Portfolio.Weights[a]
			if !ok {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("no weight configured for asset %s", a))
			}
			sum += w
		}
		if math.Abs(sum-1) > 1e-6 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("portfolio weights sum to %.8f, want 1", sum))
		}
	}

	// Report validation
	if c.Report.Webhook.Enabled && c.Report.Webhook.URL == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("report webhook enabled without a url"))
	}

	// Storage validation
	switch c.Storage.Archive.Type {
	case "", "localfs", "s3":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive storage type %q", c.Storage.Archive.Type))
	}

	return nil
}
