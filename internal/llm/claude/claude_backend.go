package claude

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
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	providerName = "claude"
	maxTokens    = 4096
)

// Backend implements port.LLMBackend using the Anthropic Messages API.
type Backend struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewBackend creates a Claude backend from a provider config.
func NewBackend(cfg *config.ProviderConfig) *Backend {
	endpoint := apiURL
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/v1/messages"
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
		model = "claude-sonnet-4-20250514"
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
	return b.message(ctx, prompt)
}

// GenerateStructuredJSON has no native schema mode on this API, so the schema
// travels in the prompt and the reply is decoded as JSON.
func (b *Backend) GenerateStructuredJSON(ctx context.Context, prompt string, obj *schema.Object) (map[string]any, error) {
	schemaJSON, err := json.MarshalIndent(obj.JSONSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	full := fmt.Sprintf("%s\n\nRespond with only a JSON object that conforms to this JSON Schema, with no other text:\n%s", prompt, schemaJSON)

	text, err := b.message(ctx, full)
	if err != nil {
		return nil, err
	}
	return llm.DecodeObject(providerName, text)
}

func (b *Backend) message(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":      b.model,
		"max_tokens": maxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	respBody, err := llm.PostJSON(ctx, b.client, providerName, b.endpoint, map[string]string{
		"x-api-key":         b.apiKey,
		"anthropic-version": apiVersion,
	}, reqBody)
	if err != nil {
		return "", err
	}
	return parseResponse(respBody)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &domain.BackendError{Provider: providerName, Err: fmt.Errorf("unmarshaling response: %w", err)}
	}
	if resp.StopReason == "max_tokens" {
		return "", &domain.BackendError{Provider: providerName, Err: fmt.Errorf("output truncated (stop_reason: max_tokens)")}
	}
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", &domain.BackendError{Provider: providerName, Err: domain.ErrNoTextCandidate}
}
