package port

import "context"

// TextExtractor converts raw document bytes into plain text.
// Unreadable input fails with a *domain.ExtractionError.
type TextExtractor interface {
	ExtractText(ctx context.Context, filename string, content []byte) (string, error)
}
