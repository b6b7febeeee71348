package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/logging"
	"github.com/preston-bernstein/nba-improvement-service/internal/providers"
)

// Builder assembles the supervised training table for a season from a stats provider.
type Builder struct {
	provider providers.StatsProvider
	logger   *slog.Logger
}

func NewBuilder(provider providers.StatsProvider, logger *slog.Logger) *Builder {
	return &Builder{provider: provider, logger: logger}
}

// Build fetches up to playerCount players, their averages for season and season+1, and joins
// them into a training table. Upstream errors are returned wrapped; see ErrDataUnavailable and
// ErrEmptyJoinResult for dataset failures.
func (b *Builder) Build(ctx context.Context, playerCount, season int) (stats.TrainingTable, error) {
	logger := logging.FromContext(ctx, b.logger)

	roster, err := b.provider.ListPlayers(ctx, playerCount)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("%w: zero players listed", ErrDataUnavailable)
	}

	byID := make(map[int]players.Player, len(roster))
	for _, p := range roster {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var currentRaw, nextRaw []stats.SeasonAverage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := b.provider.SeasonAverages(gctx, season, ids)
		if err != nil {
			return fmt.Errorf("season %d averages: %w", season, err)
		}
		currentRaw = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.provider.SeasonAverages(gctx, season+1, ids)
		if err != nil {
			return fmt.Errorf("season %d averages: %w", season+1, err)
		}
		nextRaw = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	current := NormalizeSeason(currentRaw, byID, season)
	next := NormalizeSeason(nextRaw, byID, season+1)
	if len(current) == 0 || len(next) == 0 {
		logging.Warn(logger, "season data unavailable",
			logging.FieldSeason, season,
			"current_rows", len(current),
			"next_rows", len(next),
		)
		return nil, ErrDataUnavailable
	}

	table := Join(current, next)
	if len(table) == 0 {
		logging.Warn(logger, "join produced no rows",
			logging.FieldSeason, season,
			"current_rows", len(current),
			"next_rows", len(next),
		)
		return nil, ErrEmptyJoinResult
	}

	logging.Info(logger, "training table built",
		logging.FieldSeason, season,
		logging.FieldPlayerCount, len(roster),
		logging.FieldSamples, len(table),
	)
	return table, nil
}
