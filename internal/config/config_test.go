package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Provider != defaultProvider {
		t.Fatalf("expected default provider %s, got %s", defaultProvider, cfg.Provider)
	}
	if cfg.Balldontlie.BaseURL != defaultBdlBaseURL {
		t.Fatalf("expected default balldontlie base url %s, got %s", defaultBdlBaseURL, cfg.Balldontlie.BaseURL)
	}
	if cfg.Balldontlie.APIKey != "" {
		t.Fatalf("expected empty balldontlie api key by default, got %s", cfg.Balldontlie.APIKey)
	}
	if cfg.Prediction.Season != 2022 || cfg.Prediction.PlayerCount != 200 || cfg.Prediction.TopN != 10 {
		t.Fatalf("unexpected prediction defaults %+v", cfg.Prediction)
	}
	if cfg.Warmer.Season != cfg.Prediction.Season {
		t.Fatalf("expected warm season to follow prediction season, got %d", cfg.Warmer.Season)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.Size != 32 {
		t.Fatalf("unexpected cache defaults %+v", cfg.Cache)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors origin, got %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envProvider, "BallDontLie")
	t.Setenv(envBdlBaseURL, "http://example.com/api")
	t.Setenv(envBdlAPIKey, "secret-key")
	t.Setenv(envUpstreamRate, "0.5")
	t.Setenv(envCacheBackend, "redis")
	t.Setenv(envCacheTTL, "45s")
	t.Setenv(envDefaultSeason, "2019")
	t.Setenv(envCORSOrigins, "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.Provider != "balldontlie" {
		t.Fatalf("expected provider balldontlie, got %s", cfg.Provider)
	}
	if cfg.Balldontlie.BaseURL != "http://example.com/api" {
		t.Fatalf("expected balldontlie base url override, got %s", cfg.Balldontlie.BaseURL)
	}
	if cfg.Balldontlie.APIKey != "secret-key" {
		t.Fatalf("expected balldontlie api key override, got %s", cfg.Balldontlie.APIKey)
	}
	if cfg.Upstream.RatePerSecond != 0.5 {
		t.Fatalf("expected rate override, got %v", cfg.Upstream.RatePerSecond)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.TTL != 45*time.Second {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.Prediction.Season != 2019 || cfg.Warmer.Season != 2019 {
		t.Fatalf("expected season override to reach warmer, got %+v / %+v", cfg.Prediction, cfg.Warmer)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envWarmInterval, "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Warmer.Interval != defaultWarmInterval {
		t.Fatalf("expected default warm interval on invalid value, got %s", cfg.Warmer.Interval)
	}
}

func TestLoadNonPositiveDurationFallsBack(t *testing.T) {
	t.Setenv(envRequestTimeout, "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("expected default request timeout on non-positive value, got %s", cfg.RequestTimeout)
	}
}

func TestLoadReadsConfigFileAndEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
port: "7000"
provider: balldontlie
requestTimeout: 5s
cache:
  backend: bolt
  boltPath: /tmp/cache.db
  ttl: 1h
prediction:
  season: 2018
  topN: 5
warmer:
  enabled: false
metrics:
  enabled: false
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envConfigFile, path)
	t.Setenv(envPort, "7100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != "7100" {
		t.Fatalf("expected env to win over file, got %s", cfg.Port)
	}
	if cfg.Provider != "balldontlie" || cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("expected file values, got provider=%s timeout=%s", cfg.Provider, cfg.RequestTimeout)
	}
	if cfg.Cache.Backend != "bolt" || cfg.Cache.BoltPath != "/tmp/cache.db" || cfg.Cache.TTL != time.Hour {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.Prediction.Season != 2018 || cfg.Prediction.TopN != 5 || cfg.Prediction.PlayerCount != defaultPlayerCount {
		t.Fatalf("unexpected prediction config %+v", cfg.Prediction)
	}
	if cfg.Warmer.Enabled || cfg.Metrics.Enabled {
		t.Fatalf("expected file booleans to disable warmer and metrics")
	}
}

func TestLoadRejectsBadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Setenv(envConfigFile, filepath.Join(dir, "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("cache:\n  ttl: forever\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envConfigFile, bad)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
