package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksProviderAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordProviderAttempt("balldontlie", 10*time.Millisecond, nil)
	rec.RecordProviderAttempt("balldontlie", 15*time.Millisecond, errors.New("boom"))

	if got := rec.ProviderCalls("balldontlie"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.ProviderErrors("balldontlie"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.LastCallLatency("balldontlie"); got != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", got)
	}

	snap := rec.Snapshot("balldontlie")
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimit("balldontlie", 5*time.Second)
	rec.RecordRateLimit("balldontlie", 0)

	if got := rec.RateLimitHits("balldontlie"); got != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", got)
	}
	if got := rec.LastRetryAfter("balldontlie"); got != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", got)
	}
}

func TestRecorderTracksCacheLookups(t *testing.T) {
	rec := NewRecorder()
	rec.RecordCacheLookup("memory", true)
	rec.RecordCacheLookup("memory", false)
	rec.RecordCacheLookup("memory", true)

	if got := rec.CacheHits("memory"); got != 2 {
		t.Fatalf("expected 2 hits, got %d", got)
	}
	if got := rec.CacheMisses("memory"); got != 1 {
		t.Fatalf("expected 1 miss, got %d", got)
	}
	if got := rec.CacheHits("redis"); got != 0 {
		t.Fatalf("expected no hits for untouched backend, got %d", got)
	}
}

func TestRecorderTracksPipelineRuns(t *testing.T) {
	rec := NewRecorder()
	rec.RecordPipelineRun(5*time.Millisecond, 40, 0.7, "")
	rec.RecordPipelineRun(time.Millisecond, 0, 0, "insufficient_data")

	snap := rec.Pipeline()
	if snap.Runs != 2 {
		t.Fatalf("expected 2 runs, got %d", snap.Runs)
	}
	if snap.Failures["insufficient_data"] != 1 {
		t.Fatalf("expected failure class counted, got %+v", snap.Failures)
	}
	if snap.LastSamples != 40 || snap.LastR2 != 0.7 {
		t.Fatalf("expected last success kept, got %+v", snap)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordProviderAttempt("p", time.Millisecond, nil)
	rec.RecordRateLimit("p", time.Second)
	rec.RecordCacheLookup("memory", true)
	rec.RecordPipelineRun(time.Millisecond, 1, 1, "")
	rec.RecordWarmCycle(time.Millisecond, nil)
	if rec.CacheHits("memory") != 0 || rec.Pipeline().Runs != 0 || rec.ProviderCalls("p") != 0 {
		t.Fatalf("expected zero values from nil recorder")
	}
}
