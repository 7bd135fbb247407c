package llm

import (
	"errors"
	"io"

	"medclaim/internal/port"
)

// Close releases every wrapped backend that holds resources.
func (f *FallbackBackend) Close() error { return closeBackends(f.backends...) }

// Close releases both wrapped backends.
func (m *MergeBackend) Close() error { return closeBackends(m.primary, m.secondary) }

func closeBackends(backends ...port.LLMBackend) error {
	var errs []error
	for _, b := range backends {
		if c, ok := b.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
