package llm

import (
	"fmt"
	"sort"
	"sync"

	"medclaim/internal/config"
	"medclaim/internal/logger"
	"medclaim/internal/port"
)

// ProviderFactory creates an LLMBackend from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.LLMBackend, error)

var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a backend provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// RegisteredProviders returns the names of all registered providers, sorted.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBackend creates an LLMBackend from a provider config using the registered factory.
func NewBackend(cfg *config.ProviderConfig) (port.LLMBackend, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig builds the backend chain described by cfg: a single backend,
// a FallbackBackend over all configured providers, or a MergeBackend over the
// primary and secondary.
func NewFromConfig(cfg *config.LLMConfig, log logger.Logger) (port.LLMBackend, error) {
	provCfgs := cfg.Providers()
	backends := make([]port.LLMBackend, 0, len(provCfgs))
	names := make([]string, 0, len(provCfgs))
	for _, pc := range provCfgs {
		b, err := NewBackend(pc)
		if err != nil {
			_ = closeBackends(backends...)
			return nil, fmt.Errorf("creating %s backend: %w", pc.Provider, err)
		}
		backends = append(backends, b)
		names = append(names, pc.Provider)
	}

	if cfg.Mode == config.ModeMerge {
		if len(backends) < 2 {
			return nil, fmt.Errorf("merge mode needs two providers, got %d", len(backends))
		}
		return NewMergeBackend(backends[0], backends[1], log), nil
	}
	if len(backends) == 1 {
		return backends[0], nil
	}
	return NewFallbackBackend(backends, names, log), nil
}
