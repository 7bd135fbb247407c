// Package fields extracts structured records from classified claim documents.
package fields

import (
	"context"
	"fmt"

	"medclaim/internal/logger"
	"medclaim/internal/port"
	"medclaim/internal/schema"
)

// extract runs prompt against backend and decodes the reply into out using obj.
// Any failure leaves out untouched and is reported to the caller.
func extract(ctx context.Context, backend port.LLMBackend, obj *schema.Object, prompt string, out any) error {
	doc, err := backend.GenerateStructuredJSON(ctx, prompt, obj)
	if err != nil {
		return fmt.Errorf("generate %s fields: %w", obj.Name, err)
	}
	return obj.Decode(doc, out)
}

func named(log logger.Logger, name string) logger.Logger {
	if log == nil {
		log = logger.NewNop()
	}
	return log.Named(name)
}
