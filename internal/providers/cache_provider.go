package providers

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/preston-bernstein/nba-improvement-service/internal/cache"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/logging"
	"github.com/preston-bernstein/nba-improvement-service/internal/metrics"
)

const cachingName = "cache"

// cachingProvider memoizes season averages; player listings pass through.
type cachingProvider struct {
	next     StatsProvider
	store    cache.Cache
	ttl      time.Duration
	logger   *slog.Logger
	recorder *metrics.Recorder
	backend  string
}

// NewCachingProvider wraps next with a season-average cache. Cache failures are logged and
// treated as misses so the upstream stays authoritative.
func NewCachingProvider(next StatsProvider, store cache.Cache, ttl time.Duration, logger *slog.Logger, recorder *metrics.Recorder, backend string) StatsProvider {
	if store == nil {
		return next
	}
	return &cachingProvider{
		next:     next,
		store:    store,
		ttl:      ttl,
		logger:   logger,
		recorder: recorder,
		backend:  backend,
	}
}

func (p *cachingProvider) ListPlayers(ctx context.Context, maxPlayers int) ([]players.Player, error) {
	return p.next.ListPlayers(ctx, maxPlayers)
}

func (p *cachingProvider) SeasonAverages(ctx context.Context, season int, playerIDs []int) ([]stats.SeasonAverage, error) {
	key := SeasonAveragesKey(season, playerIDs)
	logger := logging.FromContext(ctx, p.logger)

	if cached, ok := p.lookup(ctx, logger, key); ok {
		p.recorder.RecordCacheLookup(p.backend, true)
		logWithProvider(ctx, logger, slog.LevelDebug, cachingName, "season averages cache hit",
			slog.String(logging.FieldCacheKey, key),
			slog.Int(logging.FieldCount, len(cached)),
		)
		return cached, nil
	}
	p.recorder.RecordCacheLookup(p.backend, false)

	averages, err := p.next.SeasonAverages(ctx, season, playerIDs)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(averages)
	if err == nil {
		err = p.store.Set(ctx, key, raw, p.ttl)
	}
	if err != nil {
		logWithProvider(ctx, logger, slog.LevelWarn, cachingName, "cache store failed",
			slog.String(logging.FieldCacheKey, key), slog.Any("err", err))
	}
	return averages, nil
}

func (p *cachingProvider) lookup(ctx context.Context, logger *slog.Logger, key string) ([]stats.SeasonAverage, bool) {
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logWithProvider(ctx, logger, slog.LevelWarn, cachingName, "cache lookup failed",
				slog.String(logging.FieldCacheKey, key), slog.Any("err", err))
		}
		return nil, false
	}
	var cached []stats.SeasonAverage
	if err := json.Unmarshal(raw, &cached); err != nil {
		logWithProvider(ctx, logger, slog.LevelWarn, cachingName, "discarding undecodable cache entry",
			slog.String(logging.FieldCacheKey, key), slog.Any("err", err))
		return nil, false
	}
	return cached, true
}

// SeasonAveragesKey derives a stable key from the season and the set of player ids.
// Order and duplicates in playerIDs do not change the key.
func SeasonAveragesKey(season int, playerIDs []int) string {
	ids := append([]int(nil), playerIDs...)
	sort.Ints(ids)

	digest := xxhash.New()
	var buf [8]byte
	prev, first := 0, true
	for _, id := range ids {
		if !first && id == prev {
			continue
		}
		binary.BigEndian.PutUint64(buf[:], uint64(int64(id)))
		_, _ = digest.Write(buf[:])
		prev, first = id, false
	}
	return fmt.Sprintf("season_averages:%d:%016x", season, digest.Sum64())
}
