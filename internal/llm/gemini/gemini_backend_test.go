package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medclaim/internal/config"
	"medclaim/internal/domain"
	"medclaim/internal/llm"
	"medclaim/internal/llm/gemini"
	"medclaim/internal/schema"
)

func newTestBackend(serverURL string) *gemini.Backend {
	cfg := &config.ProviderConfig{
		Provider:     "gemini",
		APIKey:       "test-gemini-key",
		DefaultModel: "gemini-2.0-flash",
		TimeoutSecs:  30,
	}
	return gemini.NewBackendWithEndpoint(cfg, serverURL)
}

func successResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGeminiBackend_GenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		contents := reqBody["contents"].([]any)
		assert.Len(t, contents, 1)
		msg := contents[0].(map[string]any)
		assert.Equal(t, "user", msg["role"])
		parts := msg["parts"].([]any)
		assert.Equal(t, "classify this", parts[0].(map[string]any)["text"])
		assert.NotContains(t, reqBody, "generationConfig")

		_ = json.NewEncoder(w).Encode(successResponse("'bill'"))
	}))
	defer server.Close()

	out, err := newTestBackend(server.URL).GenerateText(context.Background(), "classify this")

	require.NoError(t, err)
	assert.Equal(t, "'bill'", out)
}

func TestGeminiBackend_GenerateStructuredJSON(t *testing.T) {
	obj := schema.NewObject("bill",
		schema.Field{Name: "hospital_name", Type: schema.TypeString, Description: "Name of the hospital."},
		schema.Field{Name: "total_amount", Type: schema.TypeNumber},
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		genConfig := reqBody["generationConfig"].(map[string]any)
		assert.Equal(t, "application/json", genConfig["responseMimeType"])
		rs := genConfig["responseSchema"].(map[string]any)
		assert.Equal(t, "OBJECT", rs["type"])
		assert.Equal(t, []any{"hospital_name", "total_amount"}, rs["propertyOrdering"])
		props := rs["properties"].(map[string]any)
		amount := props["total_amount"].(map[string]any)
		assert.Equal(t, "NUMBER", amount["type"])
		assert.Equal(t, true, amount["nullable"])

		_ = json.NewEncoder(w).Encode(successResponse(`{"hospital_name":"City Hospital","total_amount":1250.5}`))
	}))
	defer server.Close()

	out, err := newTestBackend(server.URL).GenerateStructuredJSON(context.Background(), "extract", obj)

	require.NoError(t, err)
	assert.Equal(t, "City Hospital", out["hospital_name"])
	assert.Equal(t, 1250.5, out["total_amount"])
}

func TestGeminiBackend_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(successResponse("Sure! The hospital is City Hospital."))
	}))
	defer server.Close()

	obj := schema.NewObject("bill", schema.Field{Name: "hospital_name", Type: schema.TypeString})
	_, err := newTestBackend(server.URL).GenerateStructuredJSON(context.Background(), "extract", obj)

	var malformed *domain.MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "gemini", malformed.Provider)
}

func TestGeminiBackend_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestBackend(server.URL).GenerateText(context.Background(), "p")

	var backendErr *domain.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.ErrorIs(t, err, domain.ErrNoTextCandidate)
}

func TestGeminiBackend_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"internal"}}`))
	}))
	defer server.Close()

	_, err := newTestBackend(server.URL).GenerateText(context.Background(), "p")

	var backendErr *domain.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusInternalServerError, backendErr.StatusCode)
}

func TestGeminiBackend_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestBackend(server.URL).GenerateText(context.Background(), "p")

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 12*time.Second, rlErr.RetryAfter)
}
