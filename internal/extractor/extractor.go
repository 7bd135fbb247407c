// Package extractor turns raw claim document bytes into plain text.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"medclaim/internal/domain"
	"medclaim/internal/logger"
)

// Extractor implements port.TextExtractor for PDF and plain-text documents.
type Extractor struct {
	maxBytes int64
	log      logger.Logger
}

// New creates an Extractor. maxBytes <= 0 disables the size limit.
func New(maxBytes int64, log logger.Logger) *Extractor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Extractor{maxBytes: maxBytes, log: log.Named("extractor")}
}

// ExtractText returns the document's text layer. A document without a text
// layer yields "". Bytes that are not a readable document yield *domain.ExtractionError.
func (e *Extractor) ExtractText(ctx context.Context, filename string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", &domain.ExtractionError{Filename: filename, Err: fmt.Errorf("empty document")}
	}
	if e.maxBytes > 0 && int64(len(content)) > e.maxBytes {
		return "", &domain.ExtractionError{Filename: filename, Err: domain.ErrFileTooLarge}
	}

	kind, mime := detect(content)
	switch kind {
	case domain.ContentKindPDF:
		text, err := extractPDF(ctx, content)
		if err != nil {
			return "", &domain.ExtractionError{Filename: filename, Err: err}
		}
		e.log.Debug("extractor.pdf.done", logger.String("filename", filename), logger.Int("chars", utf8.RuneCountInString(text)))
		return text, nil
	case domain.ContentKindText:
		if !utf8.Valid(content) {
			return "", &domain.ExtractionError{Filename: filename, Err: fmt.Errorf("text document is not valid UTF-8")}
		}
		return string(content), nil
	default:
		return "", &domain.ExtractionError{
			Filename: filename,
			Err:      fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, mime),
		}
	}
}

// detect sniffs content and maps it onto a supported kind, walking up the MIME
// hierarchy so that e.g. text/csv is read as text.
func detect(content []byte) (domain.ContentKind, string) {
	detected := mimetype.Detect(content)
	for m := detected; m != nil; m = m.Parent() {
		for ct, kind := range domain.AllowedContentTypes {
			if m.Is(ct) {
				return kind, detected.String()
			}
		}
	}
	return "", detected.String()
}

func extractPDF(ctx context.Context, content []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var sb strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		// A page without a content stream contributes no text.
		if page.V.IsNull() || page.V.Key("Contents").IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", i, err)
		}
		if sb.Len() > 0 && pageText != "" {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}
