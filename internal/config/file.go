package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for YAML files. Durations are strings ("30s") and
// optional booleans are pointers so an omitted key keeps the default.
type fileConfig struct {
	Port           string   `yaml:"port"`
	Provider       string   `yaml:"provider"`
	RequestTimeout string   `yaml:"requestTimeout"`
	CORSOrigins    []string `yaml:"corsOrigins"`
	Log            struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Balldontlie struct {
		BaseURL  string `yaml:"baseURL"`
		APIKey   string `yaml:"apiKey"`
		Timeout  string `yaml:"timeout"`
		MaxPages int    `yaml:"maxPages"`
	} `yaml:"balldontlie"`
	Upstream struct {
		RatePerSecond float64 `yaml:"ratePerSecond"`
		Burst         int     `yaml:"burst"`
		MaxAttempts   int     `yaml:"maxAttempts"`
		Backoff       string  `yaml:"backoff"`
	} `yaml:"upstream"`
	Cache struct {
		Backend   string `yaml:"backend"`
		TTL       string `yaml:"ttl"`
		Size      int    `yaml:"size"`
		KeyPrefix string `yaml:"keyPrefix"`
		RedisURL  string `yaml:"redisURL"`
		BoltPath  string `yaml:"boltPath"`
	} `yaml:"cache"`
	Prediction struct {
		Season      int `yaml:"season"`
		PlayerCount int `yaml:"playerCount"`
		TopN        int `yaml:"topN"`
	} `yaml:"prediction"`
	Warmer struct {
		Enabled  *bool  `yaml:"enabled"`
		Interval string `yaml:"interval"`
		Season   int    `yaml:"season"`
	} `yaml:"warmer"`
	Metrics struct {
		Enabled      *bool  `yaml:"enabled"`
		Port         string `yaml:"port"`
		OtlpEndpoint string `yaml:"otlpEndpoint"`
		ServiceName  string `yaml:"serviceName"`
		OtlpInsecure *bool  `yaml:"otlpInsecure"`
	} `yaml:"metrics"`
}

func loadFile(path string, base Config) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc.apply(base)
}

func (fc fileConfig) apply(cfg Config) (Config, error) {
	setString(&cfg.Port, fc.Port)
	setString(&cfg.Provider, fc.Provider)
	if len(fc.CORSOrigins) > 0 {
		cfg.CORSOrigins = fc.CORSOrigins
	}
	setString(&cfg.Log.Level, fc.Log.Level)
	setString(&cfg.Log.Format, fc.Log.Format)

	setString(&cfg.Balldontlie.BaseURL, fc.Balldontlie.BaseURL)
	setString(&cfg.Balldontlie.APIKey, fc.Balldontlie.APIKey)
	setInt(&cfg.Balldontlie.MaxPages, fc.Balldontlie.MaxPages)

	if fc.Upstream.RatePerSecond > 0 {
		cfg.Upstream.RatePerSecond = fc.Upstream.RatePerSecond
	}
	setInt(&cfg.Upstream.Burst, fc.Upstream.Burst)
	setInt(&cfg.Upstream.MaxAttempts, fc.Upstream.MaxAttempts)

	setString(&cfg.Cache.Backend, fc.Cache.Backend)
	setInt(&cfg.Cache.Size, fc.Cache.Size)
	setString(&cfg.Cache.KeyPrefix, fc.Cache.KeyPrefix)
	setString(&cfg.Cache.RedisURL, fc.Cache.RedisURL)
	setString(&cfg.Cache.BoltPath, fc.Cache.BoltPath)

	setInt(&cfg.Prediction.Season, fc.Prediction.Season)
	setInt(&cfg.Prediction.PlayerCount, fc.Prediction.PlayerCount)
	setInt(&cfg.Prediction.TopN, fc.Prediction.TopN)

	setBool(&cfg.Warmer.Enabled, fc.Warmer.Enabled)
	setInt(&cfg.Warmer.Season, fc.Warmer.Season)

	setBool(&cfg.Metrics.Enabled, fc.Metrics.Enabled)
	setString(&cfg.Metrics.Port, fc.Metrics.Port)
	setString(&cfg.Metrics.OtlpEndpoint, fc.Metrics.OtlpEndpoint)
	setString(&cfg.Metrics.ServiceName, fc.Metrics.ServiceName)
	setBool(&cfg.Metrics.OtlpInsecure, fc.Metrics.OtlpInsecure)

	durations := []struct {
		name string
		raw  string
		dest *Duration
	}{
		{"requestTimeout", fc.RequestTimeout, &cfg.RequestTimeout},
		{"balldontlie.timeout", fc.Balldontlie.Timeout, &cfg.Balldontlie.Timeout},
		{"upstream.backoff", fc.Upstream.Backoff, &cfg.Upstream.Backoff},
		{"cache.ttl", fc.Cache.TTL, &cfg.Cache.TTL},
		{"warmer.interval", fc.Warmer.Interval, &cfg.Warmer.Interval},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("config file: invalid duration for %s: %q", d.name, d.raw)
		}
		*d.dest = parsed
	}
	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
