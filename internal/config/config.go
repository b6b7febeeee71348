package config

import (
	"os"
	"strings"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port           string
	Provider       string
	RequestTimeout Duration
	CORSOrigins    []string
	Log            LogConfig
	Balldontlie    BalldontlieConfig
	Upstream       UpstreamConfig
	Cache          CacheConfig
	Prediction     PredictionConfig
	Warmer         WarmerConfig
	Metrics        MetricsConfig
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  string
	Format string
}

// Defaults returns the built-in configuration before file and env overrides.
func Defaults() Config {
	return Config{
		Port:           defaultPort,
		Provider:       defaultProvider,
		RequestTimeout: defaultRequestTimeout,
		CORSOrigins:    splitList(defaultCORSOrigins),
		Log:            LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Balldontlie:    defaultBalldontlie(),
		Upstream:       defaultUpstream(),
		Cache:          defaultCache(),
		Prediction:     defaultPrediction(),
		Warmer:         defaultWarmer(),
		Metrics:        defaultMetrics(),
	}
}

// Load reads configuration with sensible defaults. When CONFIG_FILE points at a
// YAML file its values replace the defaults; environment variables win over both.
func Load() (Config, error) {
	base := Defaults()
	if path := strings.TrimSpace(os.Getenv(envConfigFile)); path != "" {
		fromFile, err := loadFile(path, base)
		if err != nil {
			return Config{}, err
		}
		base = fromFile
	}
	return fromEnv(base), nil
}

func fromEnv(base Config) Config {
	prediction := loadPrediction(base.Prediction)
	return Config{
		Port:           envOrDefault(envPort, base.Port),
		Provider:       strings.ToLower(envOrDefault(envProvider, base.Provider)),
		RequestTimeout: durationEnvOrDefault(envRequestTimeout, base.RequestTimeout),
		CORSOrigins:    listEnvOrDefault(envCORSOrigins, base.CORSOrigins),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, base.Log.Level),
			Format: envOrDefault(envLogFormat, base.Log.Format),
		},
		Balldontlie: loadBalldontlie(base.Balldontlie),
		Upstream:    loadUpstream(base.Upstream),
		Cache:       loadCache(base.Cache),
		Prediction:  prediction,
		Warmer:      loadWarmer(base.Warmer, prediction),
		Metrics:     loadMetrics(base.Metrics),
	}
}
