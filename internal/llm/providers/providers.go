// Package providers registers every built-in LLM backend with the llm registry.
package providers

import (
	"context"

	"medclaim/internal/config"
	"medclaim/internal/llm"
	"medclaim/internal/llm/claude"
	"medclaim/internal/llm/gemini"
	"medclaim/internal/llm/openai"
	"medclaim/internal/llm/vertex"
	"medclaim/internal/port"
)

// Register adds the gemini, openai, claude and vertex providers.
func Register() {
	llm.RegisterProvider("gemini", func(cfg *config.ProviderConfig) (port.LLMBackend, error) {
		return gemini.NewBackend(cfg), nil
	})
	llm.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.LLMBackend, error) {
		return openai.NewBackend(cfg), nil
	})
	llm.RegisterProvider("claude", func(cfg *config.ProviderConfig) (port.LLMBackend, error) {
		return claude.NewBackend(cfg), nil
	})
	llm.RegisterProvider("vertex", func(cfg *config.ProviderConfig) (port.LLMBackend, error) {
		return vertex.NewBackend(context.Background(), cfg)
	})
}
