package providers

import (
	"context"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
)

// StatsProvider fetches players and per-season averages from an upstream stats source.
// ListPlayers may return fewer than maxPlayers when the source has fewer records.
// SeasonAverages returns raw rows; callers normalize and filter them.
type StatsProvider interface {
	ListPlayers(ctx context.Context, maxPlayers int) ([]players.Player, error)
	SeasonAverages(ctx context.Context, season int, playerIDs []int) ([]stats.SeasonAverage, error)
}
