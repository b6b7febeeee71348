package fixture

import (
	"context"
	"fmt"
	"math"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
)

const (
	// LeagueSize is the number of synthetic players the fixture knows about.
	LeagueSize = 120
	baseSeason = 2015
)

var (
	firstNames = []string{"Jane", "Marcus", "Theo", "Luka", "Devin", "Andre", "Kofi", "Rui", "Tariq", "Jalen", "Nico", "Omar"}
	lastNames  = []string{"Doe", "Hill", "Ortega", "Brooks", "Mensah", "Sato", "Walker", "Ivanov", "Reyes", "Adeyemi"}
)

// Provider serves a deterministic synthetic league, useful for local runs and tests.
// Every (player, season) pair always yields the same averages. Some pairs are absent and
// some players never report rebounds, so callers see realistic gaps.
type Provider struct{}

// New creates a fixture provider.
func New() *Provider {
	return &Provider{}
}

// ListPlayers returns up to maxPlayers synthetic players in id order.
func (p *Provider) ListPlayers(ctx context.Context, maxPlayers int) ([]players.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := maxPlayers
	if n > LeagueSize {
		n = LeagueSize
	}
	if n < 0 {
		n = 0
	}
	result := make([]players.Player, 0, n)
	for id := 1; id <= n; id++ {
		result = append(result, playerFor(id))
	}
	return result, nil
}

// SeasonAverages returns synthetic averages for the requested players that played in season.
func (p *Provider) SeasonAverages(ctx context.Context, season int, playerIDs []int) ([]stats.SeasonAverage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make([]stats.SeasonAverage, 0, len(playerIDs))
	for _, id := range playerIDs {
		if avg, ok := averageFor(id, season); ok {
			result = append(result, avg)
		}
	}
	return result, nil
}

func playerFor(id int) players.Player {
	return players.Player{
		ID:        id,
		FirstName: firstNames[(id-1)%len(firstNames)],
		LastName:  lastNames[((id-1)/len(firstNames))%len(lastNames)],
	}
}

func averageFor(id, season int) (stats.SeasonAverage, bool) {
	if id < 1 || id > LeagueSize || (id+season)%13 == 0 {
		return stats.SeasonAverage{}, false
	}

	base := 4 + float64((id*37)%220)/10
	growth := float64((id*11)%9-3) * 0.6
	noise := float64((id*7+season*3)%11-5) / 10
	pts := clamp(base+growth*float64(season-baseSeason)+noise, 1.5, 36)
	ast := round1(0.22*pts + float64(id%5)*0.4)
	reb := round1(0.3*pts + float64(id%7)*0.5)
	pts = round1(pts)

	minutes := math.Min(10+pts*0.9, 40)
	whole := int(minutes)
	secs := (id * season) % 60

	avg := stats.SeasonAverage{
		PlayerID:    id,
		Season:      season,
		GamesPlayed: 20 + (id*season)%62,
		Pts:         &pts,
		Ast:         &ast,
		Reb:         &reb,
		Min:         stats.MinutesOf(fmt.Sprintf("%02d:%02d", whole, secs)),
	}
	if id%17 == 0 {
		avg.Reb = nil
	}
	return avg, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
