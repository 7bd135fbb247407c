package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"medclaim/internal/decision"
	"medclaim/internal/domain"
	"medclaim/internal/logger"
	"medclaim/internal/port"
)

// ClaimService runs the claim pipeline.
type ClaimService interface {
	ProcessClaim(ctx context.Context, docs []domain.ClaimDocument) (*domain.ClaimProcessingResponse, error)
}

type claimService struct {
	extractor      port.TextExtractor
	classifier     port.DocumentClassifier
	billFields     port.BillFieldExtractor
	dischargeField port.DischargeFieldExtractor
	validator      port.ClaimValidator
	maxConcurrency int
	log            logger.Logger
}

// NewClaimService creates a new ClaimService implementation. maxConcurrency
// bounds how many documents are processed at once; <= 0 means one goroutine
// per document.
func NewClaimService(
	extractor port.TextExtractor,
	classifier port.DocumentClassifier,
	billFields port.BillFieldExtractor,
	dischargeFields port.DischargeFieldExtractor,
	validator port.ClaimValidator,
	maxConcurrency int,
	log logger.Logger,
) ClaimService {
	if log == nil {
		log = logger.NewNop()
	}
	return &claimService{
		extractor:      extractor,
		classifier:     classifier,
		billFields:     billFields,
		dischargeField: dischargeFields,
		validator:      validator,
		maxConcurrency: maxConcurrency,
		log:            log.Named("claim"),
	}
}

func (s *claimService) ProcessClaim(ctx context.Context, docs []domain.ClaimDocument) (*domain.ClaimProcessingResponse, error) {
	if len(docs) == 0 {
		return nil, domain.ErrEmptyClaim
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := s.log.With(logger.String("claim_id", uuid.New().String()))
	start := time.Now()
	log.Info("claim.started", logger.Int("documents", len(docs)))

	results := make([]domain.ProcessedDocument, len(docs))
	// The group has no derived context: one document never cancels its siblings.
	var g errgroup.Group
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}
	for i := range docs {
		g.Go(func() error {
			results[i] = s.processDocument(ctx, log, docs[i])
			return nil
		})
	}
	_ = g.Wait()
	// A cancelled claim has no verdict.
	if err := ctx.Err(); err != nil {
		log.Warn("claim.cancelled", logger.Err(err), logger.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	validation := s.validator.Validate(ctx, results)
	verdict := decision.Decide(validation)

	log.Info("claim.done",
		logger.String("status", string(verdict.Status)),
		logger.Int("missing_documents", len(validation.MissingDocuments)),
		logger.Int("discrepancies", len(validation.Discrepancies)),
		logger.Duration("elapsed", time.Since(start)))

	return &domain.ClaimProcessingResponse{
		Documents:     results,
		Validation:    validation,
		ClaimDecision: verdict,
	}, nil
}

// processDocument runs extraction, classification and field extraction for one
// document. It always produces a result.
func (s *claimService) processDocument(ctx context.Context, log logger.Logger, doc domain.ClaimDocument) domain.ProcessedDocument {
	log = log.With(logger.String("filename", doc.Filename))
	start := time.Now()

	text, err := s.extractor.ExtractText(ctx, doc.Filename, doc.Content)
	if err != nil {
		log.Warn("claim.document.extraction_failed", logger.Err(err))
		return domain.NewFailedDocument(doc.Filename)
	}

	docType := s.classifier.Classify(ctx, text, doc.Filename)

	var result domain.ProcessedDocument
	switch docType {
	case domain.DocumentTypeBill:
		result = domain.NewBillDocument(doc.Filename, text, s.billFields.Extract(ctx, text))
	case domain.DocumentTypeDischargeSummary:
		result = domain.NewDischargeSummaryDocument(doc.Filename, text, s.dischargeField.Extract(ctx, text))
	default:
		result = domain.NewUntypedDocument(doc.Filename, text, docType)
	}

	log.Debug("claim.document.done",
		logger.String("type", string(result.Type())),
		logger.Duration("elapsed", time.Since(start)))
	return result
}
