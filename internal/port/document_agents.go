package port

import (
	"context"

	"medclaim/internal/domain"
)

// DocumentClassifier assigns a DocumentType to a document. It never fails;
// anything it cannot decide is domain.DocumentTypeUnknown.
type DocumentClassifier interface {
	Classify(ctx context.Context, text, filename string) domain.DocumentType
}

// BillFieldExtractor pulls bill fields out of document text. On any failure it
// returns a record with every field nil.
type BillFieldExtractor interface {
	Extract(ctx context.Context, text string) domain.BillData
}

// DischargeFieldExtractor pulls discharge summary fields out of document text. On any
// failure it returns a record with every field nil.
type DischargeFieldExtractor interface {
	Extract(ctx context.Context, text string) domain.DischargeSummaryData
}

// ClaimValidator checks a claim's processed documents as a whole.
type ClaimValidator interface {
	Validate(ctx context.Context, docs []domain.ProcessedDocument) domain.ValidationResult
}
