package balldontlie

import (
	"strings"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
)

func mapPlayer(p playerResponse) players.Player {
	return players.Player{
		ID:        p.ID,
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
	}
}

func mapSeasonAverage(a seasonAverageResponse) stats.SeasonAverage {
	return stats.SeasonAverage{
		PlayerID:    a.PlayerID,
		Season:      a.Season,
		GamesPlayed: a.GamesPlayed,
		Pts:         a.Pts,
		Ast:         a.Ast,
		Reb:         a.Reb,
		Min:         a.Min,
	}
}
