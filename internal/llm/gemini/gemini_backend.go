package gemini

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
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	providerName = "gemini"
)

// Backend implements port.LLMBackend using Google's Gemini generateContent API.
type Backend struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewBackend creates a Gemini backend.
func NewBackend(cfg *config.ProviderConfig) *Backend {
	return newBackend(cfg, "")
}

// NewBackendWithEndpoint creates a backend pointing at a custom API endpoint (for testing).
func NewBackendWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Backend {
	return newBackend(cfg, endpoint)
}

func newBackend(cfg *config.ProviderConfig, endpoint string) *Backend {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		base := strings.TrimRight(cfg.BaseURL, "/")
		if base == "" {
			base = apiBaseURL
		}
		endpoint = fmt.Sprintf("%s/%s:generateContent", base, model)
	}
	return &Backend{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *Backend) GenerateText(ctx context.Context, prompt string) (string, error) {
	return b.generate(ctx, map[string]any{
		"contents": userContents(prompt),
	})
}

func (b *Backend) GenerateStructuredJSON(ctx context.Context, prompt string, obj *schema.Object) (map[string]any, error) {
	text, err := b.generate(ctx, map[string]any{
		"contents": userContents(prompt),
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema(obj),
		},
	})
	if err != nil {
		return nil, err
	}
	return llm.DecodeObject(providerName, text)
}

func (b *Backend) generate(ctx context.Context, reqBody map[string]any) (string, error) {
	respBody, err := llm.PostJSON(ctx, b.client, providerName, b.endpoint, map[string]string{
		"x-goog-api-key": b.apiKey,
	}, reqBody)
	if err != nil {
		return "", err
	}
	return parseResponse(respBody)
}

func userContents(prompt string) []map[string]any {
	return []map[string]any{
		{
			"role":  "user",
			"parts": []map[string]any{{"text": prompt}},
		},
	}
}

// responseSchema renders obj in the OpenAPI subset accepted by responseSchema.
// Date formats are carried in the description since the API only accepts a
// few string formats.
func responseSchema(obj *schema.Object) map[string]any {
	props := make(map[string]any, len(obj.Fields))
	for _, f := range obj.Fields {
		p := map[string]any{
			"type":     strings.ToUpper(string(f.Type)),
			"nullable": true,
		}
		if f.Description != "" {
			p["description"] = f.Description
		}
		props[f.Name] = p
	}
	return map[string]any{
		"type":             "OBJECT",
		"properties":       props,
		"propertyOrdering": obj.FieldNames(),
	}
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &domain.BackendError{Provider: providerName, Err: fmt.Errorf("unmarshaling response: %w", err)}
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &domain.BackendError{Provider: providerName, Err: domain.ErrNoTextCandidate}
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", &domain.BackendError{Provider: providerName, Err: domain.ErrNoTextCandidate}
	}
	return text, nil
}
