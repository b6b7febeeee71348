package warmer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/improvement"
	"github.com/preston-bernstein/nba-improvement-service/internal/logging"
	"github.com/preston-bernstein/nba-improvement-service/internal/metrics"
)

const (
	defaultInterval = 6 * time.Hour
	defaultTimeout  = 30 * time.Second
	maxFailures     = 3
)

// Predictor runs the improvement pipeline.
type Predictor interface {
	Predict(ctx context.Context, req improvement.Request) (stats.ModelResult, error)
}

// Warmer re-runs a fixed prediction on an interval so the season-average cache stays hot.
type Warmer struct {
	predictor Predictor
	request   improvement.Request
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration
	timeout   time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	wg       sync.WaitGroup

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the warm loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastSamples         int
}

// IsReady reports whether the warmer has had a success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < maxFailures
}

// New constructs a Warmer. Non-positive interval and timeout fall back to defaults.
func New(predictor Predictor, req improvement.Request, logger *slog.Logger, recorder *metrics.Recorder, interval, timeout time.Duration) *Warmer {
	if interval <= 0 {
		interval = defaultInterval
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Warmer{
		predictor: predictor,
		request:   req,
		logger:    logger,
		metrics:   recorder,
		interval:  interval,
		timeout:   timeout,
		done:      make(chan struct{}),
	}
}

// Start warms once immediately, then on every tick until ctx ends or Stop is called.
func (w *Warmer) Start(ctx context.Context) {
	w.startMu.Lock()
	if w.started {
		w.startMu.Unlock()
		return
	}
	w.started = true
	w.startMu.Unlock()

	w.ticker = time.NewTicker(w.interval)
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer w.ticker.Stop()
		logging.Info(w.logger, "warmer started",
			logging.FieldSeason, w.request.Season,
			logging.FieldDurationMS, w.interval.Milliseconds(),
		)

		w.warmOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				logging.Info(w.logger, "warmer stopped")
				return
			case <-w.done:
				logging.Info(w.logger, "warmer stopped")
				return
			case <-w.ticker.C:
				w.warmOnce(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight cycle or ctx, whichever comes first.
func (w *Warmer) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() {
		close(w.done)
	})
	finished := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot of the warmer's recent health.
func (w *Warmer) Status() Status {
	w.statusMu.RLock()
	defer w.statusMu.RUnlock()
	return w.status
}

func (w *Warmer) warmOnce(ctx context.Context) {
	start := time.Now()
	w.recordAttempt(start)

	cycleCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	result, err := w.predictor.Predict(cycleCtx, w.request)
	w.metrics.RecordWarmCycle(time.Since(start), err)

	if err != nil {
		logging.Error(w.logger, "warm cycle failed", err,
			logging.FieldSeason, w.request.Season,
			logging.FieldDurationMS, time.Since(start).Milliseconds(),
		)
		w.recordFailure(err, start)
		return
	}

	w.recordSuccess(start, result.Samples)
	logging.Info(w.logger, "warm cycle complete",
		logging.FieldSeason, w.request.Season,
		logging.FieldSamples, result.Samples,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

func (w *Warmer) recordAttempt(at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.LastAttempt = at
}

func (w *Warmer) recordSuccess(at time.Time, samples int) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.ConsecutiveFailures = 0
	w.status.LastError = ""
	w.status.LastSuccess = at
	w.status.LastSamples = samples
}

func (w *Warmer) recordFailure(err error, at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.ConsecutiveFailures++
	if err != nil {
		w.status.LastError = err.Error()
	}
	w.status.LastAttempt = at
}
