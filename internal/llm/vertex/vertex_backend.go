// Package vertex provides an LLM backend on Vertex AI Gemini models.
package vertex

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"medclaim/internal/config"
	"medclaim/internal/domain"
	"medclaim/internal/llm"
	"medclaim/internal/schema"
)

const providerName = "vertex"

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Backend implements port.LLMBackend on the Vertex AI SDK.
type Backend struct {
	client   *genai.Client
	model    string
	newModel func(genai.GenerationConfig) contentGenerator
}

// NewBackend creates a Vertex AI backend using application default credentials.
func NewBackend(ctx context.Context, cfg *config.ProviderConfig) (*Backend, error) {
	if cfg.Project == "" || cfg.Location == "" {
		return nil, fmt.Errorf("vertex: project and location cannot be empty")
	}
	client, err := genai.NewClient(ctx, cfg.Project, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	b := &Backend{client: client, model: model}
	b.newModel = func(gc genai.GenerationConfig) contentGenerator {
		m := client.GenerativeModel(b.model)
		m.GenerationConfig = gc
		return m
	}
	return b, nil
}

// Close releases the underlying client.
func (b *Backend) Close() error {
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}

func (b *Backend) GenerateText(ctx context.Context, prompt string) (string, error) {
	m := b.newModel(genai.GenerationConfig{Temperature: genai.Ptr[float32](0)})
	return generate(ctx, m, prompt)
}

func (b *Backend) GenerateStructuredJSON(ctx context.Context, prompt string, obj *schema.Object) (map[string]any, error) {
	m := b.newModel(genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(obj),
		Temperature:      genai.Ptr[float32](0),
	})
	text, err := generate(ctx, m, prompt)
	if err != nil {
		return nil, err
	}
	return llm.DecodeObject(providerName, text)
}

func generate(ctx context.Context, m contentGenerator, prompt string) (string, error) {
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &domain.BackendError{Provider: providerName, Err: err}
	}
	return responseText(resp)
}

func toGenaiSchema(obj *schema.Object) *genai.Schema {
	props := make(map[string]*genai.Schema, len(obj.Fields))
	for _, f := range obj.Fields {
		t := genai.TypeString
		if f.Type == schema.TypeNumber {
			t = genai.TypeNumber
		}
		props[f.Name] = &genai.Schema{
			Type:        t,
			Description: f.Description,
			Nullable:    true,
		}
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props}
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &domain.BackendError{Provider: providerName, Err: domain.ErrNoTextCandidate}
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", &domain.BackendError{Provider: providerName, Err: domain.ErrNoTextCandidate}
	}
	return sb.String(), nil
}
