package warmer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/improvement"
	"github.com/preston-bernstein/nba-improvement-service/internal/metrics"
)

type stubPredictor struct {
	mu       sync.Mutex
	err      error
	lastReq  improvement.Request
	calls    atomic.Int32
	notify   chan struct{}
	deadline bool
}

func (s *stubPredictor) Predict(ctx context.Context, req improvement.Request) (stats.ModelResult, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReq = req
	_, s.deadline = ctx.Deadline()
	if s.notify != nil {
		select {
		case <-s.notify:
		default:
			close(s.notify)
		}
	}
	if s.err != nil {
		return stats.ModelResult{}, s.err
	}
	return stats.ModelResult{Season: req.Season, Samples: 42}, nil
}

func (s *stubPredictor) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

var warmRequest = improvement.Request{Season: 2022, PlayerCount: 200, TopN: 10}

func TestWarmerRunsImmediatelyOnStart(t *testing.T) {
	pred := &stubPredictor{notify: make(chan struct{})}
	w := New(pred, warmRequest, nil, metrics.NewRecorder(), time.Hour, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	select {
	case <-pred.notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial warm cycle")
	}
	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}

	pred.mu.Lock()
	defer pred.mu.Unlock()
	if pred.lastReq != warmRequest {
		t.Fatalf("expected configured request, got %+v", pred.lastReq)
	}
	if !pred.deadline {
		t.Fatalf("expected warm cycle to run with a deadline")
	}
	if status := w.Status(); !status.IsReady() || status.LastSamples != 42 {
		t.Fatalf("expected ready status after success, got %+v", status)
	}
}

func TestWarmerStopsOnContextCancel(t *testing.T) {
	pred := &stubPredictor{notify: make(chan struct{})}
	w := New(pred, warmRequest, nil, nil, 5*time.Millisecond, time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	w.Start(ctx)
	select {
	case <-pred.notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial warm cycle")
	}

	cancel()
	_ = w.Stop(context.Background())

	callsAfterStop := pred.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if pred.calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional cycles after stop; before=%d after=%d", callsAfterStop, pred.calls.Load())
	}
}

func TestWarmerStopIsIdempotent(t *testing.T) {
	w := New(&stubPredictor{}, warmRequest, nil, nil, time.Hour, 0)

	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestWarmerStartIsIdempotent(t *testing.T) {
	pred := &stubPredictor{}
	w := New(pred, warmRequest, nil, nil, time.Hour, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.Start(ctx)
	w.Start(ctx)

	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
	if got := pred.calls.Load(); got != 1 {
		t.Fatalf("expected a single initial cycle, got %d", got)
	}
}

func TestWarmerDefaults(t *testing.T) {
	w := New(&stubPredictor{}, warmRequest, nil, nil, 0, 0)
	if w.interval != defaultInterval {
		t.Fatalf("expected default interval %s, got %s", defaultInterval, w.interval)
	}
	if w.timeout != defaultTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultTimeout, w.timeout)
	}
}

func TestWarmerStatusTracksFailuresAndSuccess(t *testing.T) {
	pred := &stubPredictor{err: errors.New("boom")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := New(pred, warmRequest, logger, metrics.NewRecorder(), time.Minute, time.Second)

	w.warmOnce(context.Background())
	status := w.Status()
	if status.ConsecutiveFailures != 1 {
		t.Fatalf("expected 1 failure, got %d", status.ConsecutiveFailures)
	}
	if status.LastError == "" {
		t.Fatalf("expected last error recorded")
	}
	if !status.LastSuccess.IsZero() {
		t.Fatalf("expected no success recorded yet")
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}

	pred.setErr(nil)
	w.warmOnce(context.Background())
	status = w.Status()
	if status.ConsecutiveFailures != 0 || status.LastError != "" {
		t.Fatalf("expected failures reset, got %+v", status)
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestStatusIsReadyRequiresRecentSuccess(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name   string
		status Status
		want   bool
	}{
		{"never_succeeded", Status{}, false},
		{"healthy", Status{LastSuccess: now}, true},
		{"few_failures", Status{LastSuccess: now, ConsecutiveFailures: maxFailures - 1}, true},
		{"failing", Status{LastSuccess: now, ConsecutiveFailures: maxFailures}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.status.IsReady(); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestWarmerStopHonorsContext(t *testing.T) {
	block := make(chan struct{})
	pred := &blockingPredictor{release: block, started: make(chan struct{})}
	w := New(pred, warmRequest, nil, nil, time.Hour, time.Minute)
	w.Start(context.Background())
	<-pred.started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := w.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected stop to give up at deadline, got %v", err)
	}
	close(block)
	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("expected stop after release, got %v", err)
	}
}

type blockingPredictor struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingPredictor) Predict(ctx context.Context, req improvement.Request) (stats.ModelResult, error) {
	close(b.started)
	<-b.release
	return stats.ModelResult{}, nil
}

func BenchmarkWarmerWarmOnce(b *testing.B) {
	w := New(&stubPredictor{}, warmRequest, nil, nil, time.Second, time.Second)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		w.warmOnce(ctx)
	}
}
