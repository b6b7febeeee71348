package providers

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
)

const (
	rateLimitedName    = "rate-limited"
	defaultRatePerSec  = 1.0
	defaultBurstTokens = 1
)

// rateLimitedProvider wraps a StatsProvider with a token bucket shared by all callers.
type rateLimitedProvider struct {
	next    StatsProvider
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedProvider returns a StatsProvider that spaces upstream calls to perSecond with the given burst.
// Calls block until a token is available or the context ends.
func NewRateLimitedProvider(next StatsProvider, perSecond float64, burst int, logger *slog.Logger) StatsProvider {
	if perSecond <= 0 {
		perSecond = defaultRatePerSec
	}
	if burst <= 0 {
		burst = defaultBurstTokens
	}
	return &rateLimitedProvider{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
	}
}

func (p *rateLimitedProvider) ListPlayers(ctx context.Context, maxPlayers int) ([]players.Player, error) {
	if err := p.wait(ctx, "list_players"); err != nil {
		return nil, err
	}
	return p.next.ListPlayers(ctx, maxPlayers)
}

func (p *rateLimitedProvider) SeasonAverages(ctx context.Context, season int, playerIDs []int) ([]stats.SeasonAverage, error) {
	if err := p.wait(ctx, "season_averages"); err != nil {
		return nil, err
	}
	return p.next.SeasonAverages(ctx, season, playerIDs)
}

func (p *rateLimitedProvider) wait(ctx context.Context, op string) error {
	if p == nil || p.next == nil {
		if p != nil {
			logWithProvider(ctx, p.logger, slog.LevelWarn, rateLimitedName, "provider unavailable")
		}
		return ErrUpstreamUnavailable
	}
	if err := ctx.Err(); err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, rateLimitedName, "rate-limited call canceled", slog.String("op", op))
		return err
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, rateLimitedName, "rate-limited call aborted", slog.String("op", op), slog.Any("err", err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// Wait fails fast when the deadline would pass before a token frees up.
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, rateLimitedName, "rate-limited provider call", slog.String("op", op))
	return nil
}
