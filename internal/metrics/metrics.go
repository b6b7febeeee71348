package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type cacheStats struct {
	hits   int
	misses int
}

type pipelineStats struct {
	runs        int
	failures    map[string]int
	lastSamples int
	lastR2      float64
}

// Recorder captures in-memory counters for provider calls, cache lookups and
// prediction runs, mirroring them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu       sync.Mutex
	stats    map[string]*providerStats
	caches   map[string]*cacheStats
	pipeline pipelineStats
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:    make(map[string]*providerStats),
		caches:   make(map[string]*cacheStats),
		pipeline: pipelineStats{failures: make(map[string]int)},
		otel:     otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(provider)
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordWarmCycle tracks cache warm cycles and errors.
func (r *Recorder) RecordWarmCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordWarm(duration, err)
}

// RecordCacheLookup counts a cache hit or miss for the given backend.
func (r *Recorder) RecordCacheLookup(backend string, hit bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats, ok := r.caches[backend]
	if !ok {
		stats = &cacheStats{}
		r.caches[backend] = stats
	}
	if hit {
		stats.hits++
	} else {
		stats.misses++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCacheLookup(backend, hit)
	}
}

// CacheHits returns the number of hits recorded for a backend.
func (r *Recorder) CacheHits(backend string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.caches[backend]; ok {
		return stats.hits
	}
	return 0
}

// CacheMisses returns the number of misses recorded for a backend.
func (r *Recorder) CacheMisses(backend string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.caches[backend]; ok {
		return stats.misses
	}
	return 0
}

// RecordPipelineRun tracks one prediction run. errClass is empty on success.
func (r *Recorder) RecordPipelineRun(duration time.Duration, samples int, r2 float64, errClass string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.pipeline.runs++
	if errClass != "" {
		r.pipeline.failures[errClass]++
	} else {
		r.pipeline.lastSamples = samples
		r.pipeline.lastR2 = r2
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordPipeline(duration, samples, r2, errClass)
	}
}

// PipelineSnapshot is a copy of the prediction run counters.
type PipelineSnapshot struct {
	Runs        int
	Failures    map[string]int
	LastSamples int
	LastR2      float64
}

// Pipeline returns a copy of the prediction run counters.
func (r *Recorder) Pipeline() PipelineSnapshot {
	if r == nil {
		return PipelineSnapshot{Failures: map[string]int{}}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	failures := make(map[string]int, len(r.pipeline.failures))
	for k, v := range r.pipeline.failures {
		failures[k] = v
	}
	return PipelineSnapshot{
		Runs:        r.pipeline.runs,
		Failures:    failures,
		LastSamples: r.pipeline.lastSamples,
		LastR2:      r.pipeline.lastR2,
	}
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}

func (r *Recorder) snapshot(provider string) providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[provider]; ok && stats != nil {
		return *stats
	}
	return providerStats{}
}
