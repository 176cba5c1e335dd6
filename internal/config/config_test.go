package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090

provider:
  history_ttl: 10m

portfolio:
  assets: [bitcoin, ethereum]
  weights:
    bitcoin: 0.5
    ethereum: 0.5
  frequency: monthly

storage:
  archive:
    type: localfs
    path: "/tmp/quantfolio/archive"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Provider.HistoryTTL != 10*time.Minute {
		t.Errorf("expected history_ttl 10m, got %v", cfg.Provider.HistoryTTL)
	}
	if cfg.Portfolio.Frequency != "monthly" {
		t.Errorf("expected monthly, got %s", cfg.Portfolio.Frequency)
	}
	if cfg.Storage.Archive.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Storage.Archive.Type)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("CG_TEST_KEY", "demo-key-123")

	content := []byte(`
provider:
  api_key: "${CG_TEST_KEY}"
`)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Provider.APIKey != "demo-key-123" {
		t.Errorf("expected expanded api key, got %q", cfg.Provider.APIKey)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Portfolio.Frequency != "weekly" {
		t.Errorf("expected weekly default, got %s", cfg.Portfolio.Frequency)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := *Defaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port - zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port - too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "unknown frequency",
			mutate:  func(c *Config) { c.Portfolio.Frequency = "hourly" },
			wantErr: true,
		},
		{
			name:    "weights do not sum to 1",
			mutate:  func(c *Config) { c.Portfolio.Weights["bitcoin"] = 0.9 },
			wantErr: true,
		},
		{
			name:    "missing weight",
			mutate:  func(c *Config) { delete(c.Portfolio.Weights, "solana") },
			wantErr: true,
		},
		{
			name:    "negative capital",
			mutate:  func(c *Config) { c.Portfolio.InitialCapital = -1 },
			wantErr: true,
		},
		{
			name:    "unknown storage type",
			mutate:  func(c *Config) { c.Storage.Archive.Type = "ftp" },
			wantErr: true,
		},
		{
			name:    "webhook without url",
			mutate:  func(c *Config) { c.Report.Webhook.Enabled = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
