package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyClaim          = errors.New("claim contains no documents")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrNoTextCandidate     = errors.New("backend response contained no text")
	ErrStorageUnavailable  = errors.New("object storage is not configured")
	ErrInvalidDocumentRef  = errors.New("invalid document reference")
)

// ExtractionError reports that a document's bytes could not be read as a document.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("text extraction failed: %v", e.Err)
	}
	return fmt.Sprintf("text extraction failed for %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// BackendError reports a failed call to a text-generation backend.
type BackendError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s backend error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s backend error: %v", e.Provider, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// MalformedResponseError reports backend output that is not the JSON object that was asked for.
type MalformedResponseError struct {
	Provider string
	Raw      string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned malformed JSON: %v (raw: %s)", e.Provider, e.Err, truncate(e.Raw, 200))
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
