package llm_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medclaim/internal/domain"
	"medclaim/internal/llm"
)

func TestNewRateLimitError_DefaultsRetryAfter(t *testing.T) {
	err := llm.NewRateLimitError("gemini", errors.New("slow down"), 0)

	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.Equal(t, "gemini", err.Provider)
	assert.Contains(t, err.Error(), "gemini rate limited")
}

func TestRateLimitError_UnwrapsToBackendError(t *testing.T) {
	var err error = llm.NewRateLimitError("openai", errors.New("429"), 5)

	var backendErr *domain.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, 429, backendErr.StatusCode)
	assert.Equal(t, "openai", backendErr.Provider)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, llm.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, llm.ParseRetryAfterHeader("soon"))
	assert.Equal(t, 0, llm.ParseRetryAfterHeader("-5"))
	assert.Equal(t, 30, llm.ParseRetryAfterHeader(" 30 "))
	// A date in the past means retry now.
	assert.Equal(t, 0, llm.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestParseRetryAfter_HTTPDate(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		val  string
		want int
	}{
		{"ninety seconds ahead", "Mon, 02 Mar 2026 10:01:30 GMT", 90},
		{"same instant", "Mon, 02 Mar 2026 10:00:00 GMT", 0},
		{"already passed", "Mon, 02 Mar 2026 09:59:00 GMT", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.ParseRetryAfter(tt.val, now))
		})
	}
}

func TestAsRateLimit(t *testing.T) {
	wrapped := fmt.Errorf("classify: %w", llm.NewRateLimitError("claude", errors.New("429"), 12))

	rl, ok := llm.AsRateLimit(wrapped)
	require.True(t, ok)
	assert.Equal(t, 12*time.Second, rl.RetryAfter)

	_, ok = llm.AsRateLimit(errors.New("boom"))
	assert.False(t, ok)
}
