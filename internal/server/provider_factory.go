package server

import (
	"log/slog"

	"github.com/preston-bernstein/nba-improvement-service/internal/cache"
	"github.com/preston-bernstein/nba-improvement-service/internal/config"
	"github.com/preston-bernstein/nba-improvement-service/internal/metrics"
	"github.com/preston-bernstein/nba-improvement-service/internal/providers"
)

// providerFactory assembles the provider with shared wrappers: cache, retry, then rate limit.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

// build wraps base (or the configured provider when base is nil). store may be nil to skip caching.
func (f providerFactory) build(cfg config.Config, base providers.StatsProvider, store cache.Cache, backend string) providers.StatsProvider {
	if base == nil {
		base = selectProvider(cfg, f.logger)
	}
	name := normalizeProviderName(cfg.Provider, base)
	limited := providers.NewRateLimitedProvider(base, cfg.Upstream.RatePerSecond, cfg.Upstream.Burst, f.logger)
	retrying := providers.NewRetryingProvider(limited, f.logger, f.metrics, name, cfg.Upstream.MaxAttempts, cfg.Upstream.Backoff)
	return providers.NewCachingProvider(retrying, store, cfg.Cache.TTL, f.logger, f.metrics, backend)
}
