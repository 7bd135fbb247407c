package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"medclaim/internal/logger"
	"medclaim/internal/port"
	"medclaim/internal/schema"
)

// circuitState tracks rate-limit backoff for a single backend.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackBackend tries backends in order, skipping those with open circuits.
// It implements port.LLMBackend.
type FallbackBackend struct {
	backends []port.LLMBackend
	circuits []*circuitState
	names    []string
	log      logger.Logger
}

// NewFallbackBackend creates a FallbackBackend from an ordered list of backends and their names.
func NewFallbackBackend(backends []port.LLMBackend, names []string, log logger.Logger) *FallbackBackend {
	if log == nil {
		log = logger.NewNop()
	}
	circuits := make([]*circuitState, len(backends))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackBackend{
		backends: backends,
		circuits: circuits,
		names:    names,
		log:      log.Named("llm.fallback"),
	}
}

func (f *FallbackBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	var out string
	err := f.try(ctx, func(b port.LLMBackend) error {
		var err error
		out, err = b.GenerateText(ctx, prompt)
		return err
	})
	return out, err
}

func (f *FallbackBackend) GenerateStructuredJSON(ctx context.Context, prompt string, obj *schema.Object) (map[string]any, error) {
	var out map[string]any
	err := f.try(ctx, func(b port.LLMBackend) error {
		var err error
		out, err = b.GenerateStructuredJSON(ctx, prompt, obj)
		return err
	})
	return out, err
}

func (f *FallbackBackend) try(ctx context.Context, call func(port.LLMBackend) error) error {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, b := range f.backends {
		if err := ctx.Err(); err != nil {
			return err
		}
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.log.Debug("llm.fallback.skip", logger.String("provider", f.names[i]), logger.String("reset_at", resetAt.Format(time.RFC3339)))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		err := call(b)
		if err == nil {
			return nil
		}

		f.log.Warn("llm.fallback.failed", logger.String("provider", f.names[i]), logger.Err(err))
		lastErr = err

		if rlErr, ok := AsRateLimit(err); ok {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return NewRateLimitError("all", fmt.Errorf("all backends rate limited"), int(retryAfter.Seconds()))
	}

	return fmt.Errorf("all backends failed: %w", lastErr)
}
