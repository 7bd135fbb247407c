package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medclaim/internal/config"
	"medclaim/internal/llm"
	"medclaim/internal/port"
	"medclaim/mocks"
)

func registerFake(name string, b port.LLMBackend) {
	llm.RegisterProvider(name, func(*config.ProviderConfig) (port.LLMBackend, error) {
		return b, nil
	})
}

func TestNewBackend_UnknownProvider(t *testing.T) {
	_, err := llm.NewBackend(&config.ProviderConfig{Provider: "does-not-exist"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

func TestNewFromConfig_SingleProvider(t *testing.T) {
	fake := new(mocks.MockLLMBackend)
	registerFake("fake-single", fake)

	b, err := llm.NewFromConfig(&config.LLMConfig{
		Mode:    config.ModeFallback,
		Primary: config.ProviderConfig{Provider: "fake-single"},
	}, nil)

	require.NoError(t, err)
	assert.Same(t, fake, b)
	assert.Contains(t, llm.RegisteredProviders(), "fake-single")
}

func TestNewFromConfig_Fallback(t *testing.T) {
	registerFake("fake-a", new(mocks.MockLLMBackend))
	registerFake("fake-b", new(mocks.MockLLMBackend))

	b, err := llm.NewFromConfig(&config.LLMConfig{
		Mode:      config.ModeFallback,
		Primary:   config.ProviderConfig{Provider: "fake-a"},
		Secondary: config.ProviderConfig{Provider: "fake-b"},
	}, nil)

	require.NoError(t, err)
	assert.IsType(t, &llm.FallbackBackend{}, b)
}

func TestNewFromConfig_Merge(t *testing.T) {
	registerFake("fake-c", new(mocks.MockLLMBackend))
	registerFake("fake-d", new(mocks.MockLLMBackend))

	b, err := llm.NewFromConfig(&config.LLMConfig{
		Mode:      config.ModeMerge,
		Primary:   config.ProviderConfig{Provider: "fake-c"},
		Secondary: config.ProviderConfig{Provider: "fake-d"},
	}, nil)

	require.NoError(t, err)
	assert.IsType(t, &llm.MergeBackend{}, b)
}

func TestNewFromConfig_MergeNeedsSecondary(t *testing.T) {
	registerFake("fake-e", new(mocks.MockLLMBackend))

	_, err := llm.NewFromConfig(&config.LLMConfig{
		Mode:    config.ModeMerge,
		Primary: config.ProviderConfig{Provider: "fake-e"},
	}, nil)

	assert.Error(t, err)
}
