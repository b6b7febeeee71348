package dataset

import (
	"math"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
)

// NormalizeSeason converts raw averages into stat rows. Rows for players outside roster are
// discarded, as are repeated rows for the same player after the first. Missing values become NaN.
func NormalizeSeason(raw []stats.SeasonAverage, roster map[int]players.Player, season int) []stats.SeasonStatRow {
	rows := make([]stats.SeasonStatRow, 0, len(raw))
	seen := make(map[int]struct{}, len(raw))
	for _, avg := range raw {
		player, ok := roster[avg.PlayerID]
		if !ok {
			continue
		}
		if _, dup := seen[avg.PlayerID]; dup {
			continue
		}
		seen[avg.PlayerID] = struct{}{}

		minutes, err := ParseMinutes(avg.Min.Value())
		if err != nil {
			minutes = math.NaN()
		}
		rows = append(rows, stats.SeasonStatRow{
			PlayerID:   avg.PlayerID,
			PlayerName: player.FullName(),
			Season:     season,
			Pts:        valueOrNaN(avg.Pts),
			Ast:        valueOrNaN(avg.Ast),
			Reb:        valueOrNaN(avg.Reb),
			Min:        minutes,
		})
	}
	return rows
}

// Join inner-joins current-season rows with the next season's points, keeping current-season
// order and dropping rows with a missing feature or target.
func Join(current, next []stats.SeasonStatRow) stats.TrainingTable {
	nextPts := make(map[int]float64, len(next))
	for _, r := range next {
		if _, ok := nextPts[r.PlayerID]; !ok {
			nextPts[r.PlayerID] = r.Pts
		}
	}

	table := make(stats.TrainingTable, 0, len(current))
	for _, r := range current {
		target, ok := nextPts[r.PlayerID]
		if !ok {
			continue
		}
		row := stats.TrainingRow{
			PlayerID:   r.PlayerID,
			PlayerName: r.PlayerName,
			Pts:        r.Pts,
			Ast:        r.Ast,
			Reb:        r.Reb,
			Min:        r.Min,
			NextPts:    target,
		}
		if row.HasMissing() {
			continue
		}
		table = append(table, row)
	}
	return table
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
