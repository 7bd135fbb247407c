package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medclaim/internal/config"
	"medclaim/internal/domain"
	"medclaim/internal/llm"
	"medclaim/internal/schema"
)

const (
	apiURL       = "https://api.openai.com/v1/chat/completions"
	providerName = "openai"
)

// Backend implements port.LLMBackend using the OpenAI Chat Completions API.
type Backend struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewBackend creates an OpenAI backend from a provider config.
func NewBackend(cfg *config.ProviderConfig) *Backend {
	endpoint := apiURL
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	}
	return newBackend(cfg, endpoint)
}

// NewBackendWithEndpoint creates a backend pointing at a custom API endpoint (for testing).
func NewBackendWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Backend {
	return newBackend(cfg, endpoint)
}

func newBackend(cfg *config.ProviderConfig, endpoint string) *Backend {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Backend{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *Backend) GenerateText(ctx context.Context, prompt string) (string, error) {
	return b.complete(ctx, map[string]any{
		"model":    b.model,
		"messages": userMessages(prompt),
	})
}

func (b *Backend) GenerateStructuredJSON(ctx context.Context, prompt string, obj *schema.Object) (map[string]any, error) {
	jsonSchema := obj.JSONSchema()
	delete(jsonSchema, "$schema")

	text, err := b.complete(ctx, map[string]any{
		"model":    b.model,
		"messages": userMessages(prompt),
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   obj.Name,
				"schema": jsonSchema,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return llm.DecodeObject(providerName, text)
}

func (b *Backend) complete(ctx context.Context, reqBody map[string]any) (string, error) {
	respBody, err := llm.PostJSON(ctx, b.client, providerName, b.endpoint, map[string]string{
		"Authorization": "Bearer " + b.apiKey,
	}, reqBody)
	if err != nil {
		return "", err
	}
	return parseResponse(respBody)
}

func userMessages(prompt string) []map[string]any {
	return []map[string]any{{"role": "user", "content": prompt}}
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &domain.BackendError{Provider: providerName, Err: fmt.Errorf("unmarshaling response: %w", err)}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &domain.BackendError{Provider: providerName, Err: domain.ErrNoTextCandidate}
	}
	if resp.Choices[0].FinishReason == "length" {
		return "", &domain.BackendError{Provider: providerName, Err: fmt.Errorf("output truncated (finish_reason: length)")}
	}
	return resp.Choices[0].Message.Content, nil
}
