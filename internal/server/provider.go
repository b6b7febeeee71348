package server

import (
	"log/slog"

	"github.com/preston-bernstein/nba-improvement-service/internal/config"
	"github.com/preston-bernstein/nba-improvement-service/internal/logging"
	"github.com/preston-bernstein/nba-improvement-service/internal/providers"
	"github.com/preston-bernstein/nba-improvement-service/internal/providers/balldontlie"
	"github.com/preston-bernstein/nba-improvement-service/internal/providers/fixture"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.StatsProvider {
	switch cfg.Provider {
	case "fixture", "":
		return fixture.New()
	case "balldontlie":
		if cfg.Balldontlie.APIKey == "" {
			logging.Warn(logger, "BALLDONTLIE_API_KEY is empty; upstream calls will be rejected")
		}
		return balldontlie.NewClient(balldontlie.Config{
			BaseURL:  cfg.Balldontlie.BaseURL,
			APIKey:   cfg.Balldontlie.APIKey,
			Timeout:  cfg.Balldontlie.Timeout,
			MaxPages: cfg.Balldontlie.MaxPages,
		})
	default:
		logging.Warn(logger, "unknown provider, falling back to fixture", slog.String(logging.FieldProvider, cfg.Provider))
		return fixture.New()
	}
}
