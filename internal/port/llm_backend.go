package port

import (
	"context"

	"medclaim/internal/schema"
)

// LLMBackend abstracts a text-generation backend used for classification and field extraction.
type LLMBackend interface {
	// GenerateText returns the model's free-text answer to prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateStructuredJSON asks for a JSON object shaped like obj and returns it decoded.
	// It fails with a *domain.BackendError or *domain.MalformedResponseError.
	GenerateStructuredJSON(ctx context.Context, prompt string, obj *schema.Object) (map[string]any, error)
}
