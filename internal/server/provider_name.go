package server

import (
	"strings"

	"github.com/preston-bernstein/nba-improvement-service/internal/providers"
	"github.com/preston-bernstein/nba-improvement-service/internal/providers/balldontlie"
	"github.com/preston-bernstein/nba-improvement-service/internal/providers/fixture"
)

// normalizeProviderName returns a lower-cased provider name, deriving from the instance when
// not explicitly configured. Keeps metric and log labels consistent.
func normalizeProviderName(raw string, provider providers.StatsProvider) string {
	if raw = strings.TrimSpace(raw); raw != "" {
		return strings.ToLower(raw)
	}
	switch provider.(type) {
	case *balldontlie.Client:
		return "balldontlie"
	case *fixture.Provider:
		return "fixture"
	}
	return "provider"
}
