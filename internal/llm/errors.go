package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medclaim/internal/domain"
)

// defaultRetryAfter applies when a throttled backend gives no usable hint.
const defaultRetryAfter = time.Minute

// RateLimitError is a throttling reply (HTTP 429) from a named backend.
// FallbackBackend keeps that backend's circuit open for RetryAfter.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// NewRateLimitError wraps err in a 429 *domain.BackendError for provider.
// A non-positive retryAfterSecs falls back to one minute.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	wait := time.Duration(retryAfterSecs) * time.Second
	if wait <= 0 {
		wait = defaultRetryAfter
	}
	return &RateLimitError{
		Err:        &domain.BackendError{Provider: provider, StatusCode: http.StatusTooManyRequests, Err: err},
		RetryAfter: wait,
		Provider:   provider,
	}
}

// AsRateLimit reports whether err carries a *RateLimitError.
func AsRateLimit(err error) (*RateLimitError, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}

// ParseRetryAfterHeader turns a Retry-After value into whole seconds.
// Both delta-seconds and HTTP-date forms are accepted; anything else, or a
// date already in the past, yields 0.
func ParseRetryAfterHeader(val string) int {
	return parseRetryAfter(val, time.Now())
}

func parseRetryAfter(val string, now time.Time) int {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs < 0 {
			return 0
		}
		return secs
	}
	at, err := http.ParseTime(val)
	if err != nil || !at.After(now) {
		return 0
	}
	// Round up so a sub-second remainder still waits.
	return int((at.Sub(now) + time.Second - 1) / time.Second)
}
