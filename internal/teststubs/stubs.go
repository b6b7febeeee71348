package teststubs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
)

// StubStatsProvider is a test double for providers.StatsProvider.
type StubStatsProvider struct {
	Players   []players.Player
	Averages  map[int][]stats.SeasonAverage // keyed by season
	ListErr   error
	SeasonErr map[int]error // keyed by season
	Notify    chan struct{}

	ListCalls   atomic.Int32
	SeasonCalls atomic.Int32

	mu           sync.Mutex
	requestedIDs map[int][]int
}

// ListPlayers returns up to maxPlayers configured players.
func (s *StubStatsProvider) ListPlayers(ctx context.Context, maxPlayers int) ([]players.Player, error) {
	s.ListCalls.Add(1)
	s.notify()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	if maxPlayers < len(s.Players) {
		return append([]players.Player(nil), s.Players[:maxPlayers]...), nil
	}
	return append([]players.Player(nil), s.Players...), nil
}

// SeasonAverages returns the configured rows for season and records the requested ids.
func (s *StubStatsProvider) SeasonAverages(ctx context.Context, season int, playerIDs []int) ([]stats.SeasonAverage, error) {
	s.SeasonCalls.Add(1)
	s.mu.Lock()
	if s.requestedIDs == nil {
		s.requestedIDs = make(map[int][]int)
	}
	s.requestedIDs[season] = append([]int(nil), playerIDs...)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.SeasonErr[season]; err != nil {
		return nil, err
	}
	return s.Averages[season], nil
}

// RequestedIDs returns the player ids last requested for season.
func (s *StubStatsProvider) RequestedIDs(season int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.requestedIDs[season]...)
}

func (s *StubStatsProvider) notify() {
	if s.Notify == nil {
		return
	}
	select {
	case <-s.Notify:
	default:
		close(s.Notify)
	}
}

// Average builds a season average with every stat present.
func Average(playerID, season int, pts, ast, reb float64, min string) stats.SeasonAverage {
	return stats.SeasonAverage{
		PlayerID: playerID,
		Season:   season,
		Pts:      &pts,
		Ast:      &ast,
		Reb:      &reb,
		Min:      stats.MinutesOf(min),
	}
}

// SampleTable returns n deterministic training rows with a mostly linear target and small noise.
func SampleTable(n int) stats.TrainingTable {
	table := make(stats.TrainingTable, 0, n)
	for i := 0; i < n; i++ {
		pts := 5 + float64((i*7)%20)
		ast := 1 + float64((i*3)%8)
		reb := 2 + float64((i*3)%13)
		min := 15 + float64((i*11)%20)
		noise := float64((i*37)%11-5) * 0.2
		table = append(table, stats.TrainingRow{
			PlayerID:   i + 1,
			PlayerName: fmt.Sprintf("Player %03d", i+1),
			Pts:        pts,
			Ast:        ast,
			Reb:        reb,
			Min:        min,
			NextPts:    0.9*pts + 0.3*ast + 0.1*reb + 0.05*min + noise,
		})
	}
	return table
}
