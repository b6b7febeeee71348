package providers

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrUpstreamUnavailable covers transport failures, non-2xx responses and undecodable bodies.
	ErrUpstreamUnavailable = errors.New("upstream stats provider unavailable")
	// ErrUnauthorized is the authentication variant of ErrUpstreamUnavailable.
	ErrUnauthorized = fmt.Errorf("%w: unauthorized", ErrUpstreamUnavailable)
)

// UpstreamError carries diagnostics for a failed upstream call.
type UpstreamError struct {
	Provider   string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "upstream request failed"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s %s (status=%d)", ErrUpstreamUnavailable, e.Path, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s %s", ErrUpstreamUnavailable, e.Path, msg)
}

// Unwrap exposes the error kind alongside the underlying cause.
func (e *UpstreamError) Unwrap() []error {
	kind := ErrUpstreamUnavailable
	if e.StatusCode == http.StatusUnauthorized {
		kind = ErrUnauthorized
	}
	if e.Err == nil {
		return []error{kind}
	}
	return []error{kind, e.Err}
}

// Temporary reports whether retrying the call may succeed.
func (e *UpstreamError) Temporary() bool {
	if e.StatusCode == 0 {
		return true
	}
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusRequestTimeout {
		return true
	}
	return e.StatusCode >= 500
}

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

func (e *RateLimitError) Unwrap() error {
	return ErrUpstreamUnavailable
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}
