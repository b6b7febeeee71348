package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/logging"
	"github.com/preston-bernstein/nba-improvement-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	maxBackoff           = 5 * time.Second
	fallbackProviderName = "provider"
)

// retryingProvider wraps a StatsProvider with retry/backoff behavior.
type retryingProvider struct {
	inner          StatsProvider
	logger         *slog.Logger
	recorder       *metrics.Recorder
	providerName   string
	maxAttempts    int
	backoffFactory func() backoff.BackOff
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingProvider(inner StatsProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, initial time.Duration) StatsProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	if providerName == "" {
		providerName = fallbackProviderName
	}
	return &retryingProvider{
		inner:        inner,
		logger:       logger,
		recorder:     recorder,
		providerName: providerName,
		maxAttempts:  maxAttempts,
		backoffFactory: func() backoff.BackOff {
			return backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(initial),
				backoff.WithMaxInterval(maxBackoff),
				backoff.WithMaxElapsedTime(0),
			)
		},
	}
}

func (r *retryingProvider) ListPlayers(ctx context.Context, maxPlayers int) ([]players.Player, error) {
	return retryCall(ctx, r, "list_players", func(ctx context.Context) ([]players.Player, error) {
		return r.inner.ListPlayers(ctx, maxPlayers)
	})
}

func (r *retryingProvider) SeasonAverages(ctx context.Context, season int, playerIDs []int) ([]stats.SeasonAverage, error) {
	return retryCall(ctx, r, "season_averages", func(ctx context.Context) ([]stats.SeasonAverage, error) {
		return r.inner.SeasonAverages(ctx, season, playerIDs)
	})
}

func retryCall[T any](ctx context.Context, r *retryingProvider, op string, call func(context.Context) (T, error)) (T, error) {
	if r.inner == nil {
		var zero T
		return zero, ErrUpstreamUnavailable
	}

	policy := &retryAfterBackOff{next: r.backoffFactory()}
	attempt := 0

	operation := func() (T, error) {
		attempt++
		start := time.Now()
		out, err := call(ctx)
		r.recorder.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return out, nil
		}
		if rlErr, ok := AsRateLimitError(err); ok {
			r.recorder.RecordRateLimit(r.providerName, rlErr.RetryAfter)
		}
		if !retryable(err) {
			return out, backoff.Permanent(err)
		}
		policy.lastErr = err
		return out, err
	}
	notify := func(err error, delay time.Duration) {
		r.logWarn(ctx, "provider call retry",
			slog.String("op", op),
			slog.Int(logging.FieldAttempt, attempt),
			slog.Int("max_attempts", r.maxAttempts),
			slog.Duration("delay", delay),
			slog.Any("err", err),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)
	result, err := backoff.RetryNotifyWithData(operation, b, notify)
	if err != nil {
		r.logWarn(ctx, "provider call failed",
			slog.String("op", op),
			slog.Int("attempts", attempt),
			slog.Any("err", err),
		)
		var zero T
		return zero, err
	}
	return result, nil
}

// retryable reports whether another attempt may succeed.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrUnauthorized) {
		return false
	}
	if _, ok := AsRateLimitError(err); ok {
		return true
	}
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Temporary()
	}
	return true
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	logWithProvider(ctx, logger, slog.LevelWarn, r.providerName, msg, args...)
}

// retryAfterBackOff prefers the upstream Retry-After hint over the computed backoff.
type retryAfterBackOff struct {
	next    backoff.BackOff
	lastErr error
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	delay := b.next.NextBackOff()
	if delay == backoff.Stop {
		return delay
	}
	if rlErr, ok := AsRateLimitError(b.lastErr); ok && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}
	return delay
}

func (b *retryAfterBackOff) Reset() {
	b.lastErr = nil
	b.next.Reset()
}
