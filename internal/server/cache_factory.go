package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/nba-improvement-service/internal/cache"
	"github.com/preston-bernstein/nba-improvement-service/internal/config"
	"github.com/preston-bernstein/nba-improvement-service/internal/logging"
)

// buildCache opens the configured backend. A backend that fails to open degrades to the
// in-memory cache so the service still starts. The returned name labels cache metrics.
func buildCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (cache.Cache, string) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = cache.BackendMemory
	}
	store, err := openCache(ctx, backend, cfg)
	if err != nil {
		logging.Warn(logger, "cache backend unavailable, falling back to memory",
			"backend", backend,
			"err", err,
		)
		return cache.NewMemory(cfg.Size), cache.BackendMemory
	}
	if store == nil {
		logging.Info(logger, "season average cache disabled")
		return nil, cache.BackendNone
	}
	logging.Info(logger, "season average cache ready", "backend", backend)
	return store, backend
}

func openCache(ctx context.Context, backend string, cfg config.CacheConfig) (cache.Cache, error) {
	switch backend {
	case cache.BackendNone:
		return nil, nil
	case cache.BackendMemory:
		return cache.NewMemory(cfg.Size), nil
	case cache.BackendRedis:
		return cache.NewRedisFromURL(ctx, cfg.RedisURL, cfg.KeyPrefix)
	case cache.BackendBolt:
		return cache.OpenBolt(cfg.BoltPath)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
