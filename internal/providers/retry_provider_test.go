package providers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/players"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/metrics"
)

type flakeyProvider struct {
	failures int
	err      error
	calls    int
}

func (f *flakeyProvider) fail() error {
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return f.err
		}
		return errors.New("boom")
	}
	return nil
}

func (f *flakeyProvider) ListPlayers(ctx context.Context, maxPlayers int) ([]players.Player, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return []players.Player{{ID: 1, FirstName: "Ok", LastName: "Player"}}, nil
}

func (f *flakeyProvider) SeasonAverages(ctx context.Context, season int, playerIDs []int) ([]stats.SeasonAverage, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return []stats.SeasonAverage{{PlayerID: 1, Season: season}}, nil
}

func newTestRetrying(inner StatsProvider, rec *metrics.Recorder, attempts int) *retryingProvider {
	rp := NewRetryingProvider(inner, nil, rec, "flakey", attempts, time.Millisecond).(*retryingProvider)
	rp.backoffFactory = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return rp
}

func TestRetryingProviderRetriesAndSucceeds(t *testing.T) {
	fp := &flakeyProvider{failures: 2}
	rp := NewRetryingProvider(fp, slog.Default(), metrics.NewRecorder(), "flakey", 3, time.Millisecond)

	list, err := rp.ListPlayers(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if len(list) != 1 || list[0].ID != 1 {
		t.Fatalf("unexpected players %+v", list)
	}
	if fp.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", fp.calls)
	}
}

func TestRetryingProviderStopsAfterMaxAttempts(t *testing.T) {
	fp := &flakeyProvider{failures: 5}
	rp := newTestRetrying(fp, metrics.NewRecorder(), 2)

	_, err := rp.SeasonAverages(context.Background(), 2022, []int{1})
	if err == nil {
		t.Fatal("expected error after retries")
	}
	if fp.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", fp.calls)
	}
}

func TestRetryingProviderRespectsContextCancel(t *testing.T) {
	fp := &flakeyProvider{failures: 5}
	rp := NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rp.ListPlayers(ctx, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if fp.calls != 1 {
		t.Fatalf("expected a single attempt before giving up, got %d", fp.calls)
	}
}

func TestRetryingProviderDoesNotRetryUnauthorized(t *testing.T) {
	fp := &flakeyProvider{failures: 5, err: &UpstreamError{Provider: "p", StatusCode: http.StatusUnauthorized}}
	rec := metrics.NewRecorder()
	rp := newTestRetrying(fp, rec, 3)

	_, err := rp.ListPlayers(context.Background(), 10)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if fp.calls != 1 {
		t.Fatalf("expected no retries for 401, got %d calls", fp.calls)
	}
	if got := rec.ProviderErrors("flakey"); got != 1 {
		t.Fatalf("expected 1 recorded error, got %d", got)
	}
}

func TestRetryingProviderDoesNotRetryClientErrors(t *testing.T) {
	fp := &flakeyProvider{failures: 5, err: &UpstreamError{StatusCode: http.StatusBadRequest}}
	rp := newTestRetrying(fp, metrics.NewRecorder(), 3)

	if _, err := rp.SeasonAverages(context.Background(), 2022, []int{1}); err == nil {
		t.Fatalf("expected error")
	}
	if fp.calls != 1 {
		t.Fatalf("expected single attempt for 400, got %d", fp.calls)
	}
}

func TestRetryingProviderRecordsRateLimitMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	fp := &flakeyProvider{failures: 1, err: &RateLimitError{Provider: "test", StatusCode: 429, RetryAfter: time.Millisecond}}
	rp := newTestRetrying(fp, rec, 2)

	averages, err := rp.SeasonAverages(context.Background(), 2022, []int{1})
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if len(averages) != 1 || averages[0].Season != 2022 {
		t.Fatalf("unexpected averages %+v", averages)
	}

	if got := rec.RateLimitHits(rp.providerName); got != 1 {
		t.Fatalf("expected 1 rate limit hit, got %d", got)
	}
	if got := rec.ProviderCalls(rp.providerName); got != 2 {
		t.Fatalf("expected 2 provider calls, got %d", got)
	}
	if got := rec.ProviderErrors(rp.providerName); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.LastRetryAfter(rp.providerName); got != time.Millisecond {
		t.Fatalf("expected retry-after recorded, got %s", got)
	}
}

func TestRetryAfterBackOffPrefersHint(t *testing.T) {
	b := &retryAfterBackOff{next: backoff.NewConstantBackOff(50 * time.Millisecond)}

	if got := b.NextBackOff(); got != 50*time.Millisecond {
		t.Fatalf("expected base delay, got %s", got)
	}
	b.lastErr = &RateLimitError{RetryAfter: 3 * time.Second}
	if got := b.NextBackOff(); got != 3*time.Second {
		t.Fatalf("expected retry-after delay, got %s", got)
	}
	b.Reset()
	if got := b.NextBackOff(); got != 50*time.Millisecond {
		t.Fatalf("expected reset to clear hint, got %s", got)
	}

	stopped := &retryAfterBackOff{next: &backoff.StopBackOff{}, lastErr: &RateLimitError{RetryAfter: time.Second}}
	if got := stopped.NextBackOff(); got != backoff.Stop {
		t.Fatalf("expected stop to win over hint, got %s", got)
	}
}

func TestNewRetryingProviderDefaults(t *testing.T) {
	rp := NewRetryingProvider(nil, nil, metrics.NewRecorder(), "", 0, 0).(*retryingProvider)
	if rp.providerName != fallbackProviderName {
		t.Fatalf("expected fallback provider name, got %s", rp.providerName)
	}
	if rp.maxAttempts != defaultRetryAttempts {
		t.Fatalf("expected default attempts, got %d", rp.maxAttempts)
	}
	if got := rp.backoffFactory().NextBackOff(); got <= 0 || got > 2*defaultBackoff {
		t.Fatalf("expected first delay near default backoff, got %s", got)
	}
	if _, err := rp.ListPlayers(context.Background(), 1); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable for nil inner, got %v", err)
	}
}

func TestRetryingProviderBackoffStartsAtConfiguredInterval(t *testing.T) {
	initial := 20 * time.Millisecond
	rp := NewRetryingProvider(nil, nil, metrics.NewRecorder(), "", 0, initial).(*retryingProvider)

	for i := 0; i < 50; i++ {
		got := rp.backoffFactory().NextBackOff()
		if got < initial/2 || got > initial*3/2 {
			t.Fatalf("expected first delay within jitter of %s, got %s", initial, got)
		}
	}
}

func TestRetryableClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"generic", errors.New("boom"), true},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"unauthorized", ErrUnauthorized, false},
		{"rate_limited", &RateLimitError{StatusCode: 429}, true},
		{"server_error", &UpstreamError{StatusCode: 503}, true},
		{"not_found", &UpstreamError{StatusCode: 404}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryable(tt.err); got != tt.want {
				t.Fatalf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
