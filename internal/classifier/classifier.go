// Package classifier assigns a document type to claim documents.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"medclaim/internal/domain"
	"medclaim/internal/logger"
	"medclaim/internal/port"
)

// DefaultPrefixChars is how much of a document's text is shown to the backend.
const DefaultPrefixChars = 500

const promptTemplate = `Given the following document content and filename, classify the document into one of these types:
%s.

Document Content (first %d characters):
%s

Filename: %s

Return only the classified type string (e.g., 'bill').`

// Classifier implements port.DocumentClassifier on top of an LLM backend.
type Classifier struct {
	backend     port.LLMBackend
	prefixChars int
	log         logger.Logger
}

// New creates a Classifier. prefixChars <= 0 uses DefaultPrefixChars.
func New(backend port.LLMBackend, prefixChars int, log logger.Logger) *Classifier {
	if prefixChars <= 0 {
		prefixChars = DefaultPrefixChars
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Classifier{backend: backend, prefixChars: prefixChars, log: log.Named("classifier")}
}

// Classify asks the backend for a document type. Backend failures and labels
// outside the enumeration both yield domain.DocumentTypeUnknown.
func (c *Classifier) Classify(ctx context.Context, text, filename string) domain.DocumentType {
	out, err := c.backend.GenerateText(ctx, BuildPrompt(text, filename, c.prefixChars))
	if err != nil {
		c.log.Warn("classifier.backend_failed", logger.String("filename", filename), logger.Err(err))
		return domain.DocumentTypeUnknown
	}

	label := Normalize(out)
	docType, ok := domain.ParseDocumentType(label)
	if !ok {
		c.log.Warn("classifier.unrecognized_label", logger.String("filename", filename), logger.String("label", label))
		return domain.DocumentTypeUnknown
	}
	return docType
}

// BuildPrompt renders the classification prompt over the first prefixChars
// characters of text.
func BuildPrompt(text, filename string, prefixChars int) string {
	quoted := make([]string, 0, len(domain.AllDocumentTypes()))
	for _, t := range domain.AllDocumentTypes() {
		quoted = append(quoted, "'"+string(t)+"'")
	}
	return fmt.Sprintf(promptTemplate, strings.Join(quoted, ", "), prefixChars, prefix(text, prefixChars), filename)
}

// Normalize trims, lowercases and unquotes a raw backend label.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("'", "", `"`, "", "`", "").Replace(s)
	return strings.TrimSpace(s)
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
