package config

import "time"

const (
	envConfigFile     = "CONFIG_FILE"
	envPort           = "PORT"
	envProvider       = "PROVIDER"
	envRequestTimeout = "REQUEST_TIMEOUT"
	envCORSOrigins    = "CORS_ALLOWED_ORIGINS"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	envUpstreamRate     = "UPSTREAM_RATE_PER_SEC"
	envUpstreamBurst    = "UPSTREAM_BURST"
	envUpstreamAttempts = "UPSTREAM_MAX_ATTEMPTS"
	envUpstreamBackoff  = "UPSTREAM_BACKOFF"

	envCacheBackend  = "CACHE_BACKEND"
	envCacheTTL      = "CACHE_TTL"
	envCacheSize     = "CACHE_SIZE"
	envCachePrefix   = "CACHE_KEY_PREFIX"
	envRedisURL      = "REDIS_URL"
	envCacheBoltPath = "CACHE_BOLT_PATH"

	envDefaultSeason      = "DEFAULT_SEASON"
	envDefaultPlayerCount = "DEFAULT_PLAYER_COUNT"
	envDefaultTopN        = "DEFAULT_TOP_N"

	envWarmEnabled  = "WARM_ENABLED"
	envWarmInterval = "WARM_INTERVAL"
	envWarmSeason   = "WARM_SEASON"

	defaultPort           = "4000"
	defaultProvider       = "fixture"
	defaultRequestTimeout = 30 * Duration(time.Second)
	defaultCORSOrigins    = "*"
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultMetricsPort    = "9090"
	defaultServiceName    = "nba-improvement-service"

	// balldontlie's free tier allows a handful of calls per minute; one prediction costs ~4.
	defaultUpstreamRate     = 1.0
	defaultUpstreamBurst    = 4
	defaultUpstreamAttempts = 3
	defaultUpstreamBackoff  = 200 * Duration(time.Millisecond)

	defaultCacheBackend  = "memory"
	defaultCacheTTL      = 6 * Duration(time.Hour)
	defaultCacheSize     = 32
	defaultCachePrefix   = "nba-improvement:"
	defaultRedisURL      = "redis://localhost:6379/0"
	defaultCacheBoltPath = "data/cache.db"

	defaultSeason      = 2022
	defaultPlayerCount = 200
	defaultTopN        = 10

	defaultWarmEnabled  = true
	defaultWarmInterval = 6 * Duration(time.Hour)
)
