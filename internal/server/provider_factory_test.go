package server

import (
	"context"
	"testing"

	"github.com/preston-bernstein/nba-improvement-service/internal/cache"
	"github.com/preston-bernstein/nba-improvement-service/internal/config"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/metrics"
	"github.com/preston-bernstein/nba-improvement-service/internal/teststubs"
)

func TestProviderFactoryBuildsConfiguredProvider(t *testing.T) {
	factory := newProviderFactory(nil, nil)
	prov := factory.build(config.Config{Provider: "fixture"}, nil, nil, cache.BackendNone)
	if prov == nil {
		t.Fatalf("expected provider")
	}
	players, err := prov.ListPlayers(context.Background(), 5)
	if err != nil || len(players) != 5 {
		t.Fatalf("expected 5 fixture players, got %d (%v)", len(players), err)
	}
}

func TestProviderFactoryWrapsInjectedProviderWithCache(t *testing.T) {
	stub := &teststubs.StubStatsProvider{
		Averages: map[int][]stats.SeasonAverage{2022: {teststubs.Average(1, 2022, 10, 2, 3, "20:00")}},
	}
	rec := metrics.NewRecorder()
	cfg := testConfig()
	prov := newProviderFactory(nil, rec).build(cfg, stub, cache.NewMemory(4), cache.BackendMemory)

	for i := 0; i < 3; i++ {
		got, err := prov.SeasonAverages(context.Background(), 2022, []int{1})
		if err != nil || len(got) != 1 {
			t.Fatalf("unexpected averages %+v err %v", got, err)
		}
	}
	if calls := stub.SeasonCalls.Load(); calls != 1 {
		t.Fatalf("expected one upstream call behind the cache, got %d", calls)
	}
	if hits := rec.CacheHits(cache.BackendMemory); hits != 2 {
		t.Fatalf("expected 2 cache hits, got %d", hits)
	}
}
