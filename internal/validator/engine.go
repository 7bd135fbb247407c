package validator

import (
	"context"
	"sort"

	"medclaim/internal/domain"
	"medclaim/internal/logger"
	"medclaim/internal/validator/claim"
)

// Engine evaluates every registered rule against a claim.
type Engine struct {
	registry *Registry
	log      logger.Logger
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{registry: registry, log: log.Named("validator")}
}

// Validate runs all rules over docs. The result does not depend on the order
// of docs: both collections are deduplicated, sorted and never nil.
func (e *Engine) Validate(ctx context.Context, docs []domain.ProcessedDocument) domain.ValidationResult {
	c := claim.New(docs)

	missing := make(map[domain.DocumentType]struct{})
	discrepancies := make(map[string]struct{})
	failed := 0

	for _, v := range e.registry.All() {
		for _, f := range v.Validate(ctx, c) {
			if f.Passed {
				continue
			}
			failed++
			if f.MissingDocument != "" {
				missing[f.MissingDocument] = struct{}{}
				continue
			}
			discrepancies[f.Message] = struct{}{}
		}
	}

	result := domain.ValidationResult{
		MissingDocuments: make([]domain.DocumentType, 0, len(missing)),
		Discrepancies:    make([]string, 0, len(discrepancies)),
	}
	for t := range missing {
		result.MissingDocuments = append(result.MissingDocuments, t)
	}
	for d := range discrepancies {
		result.Discrepancies = append(result.Discrepancies, d)
	}
	sort.Slice(result.MissingDocuments, func(i, j int) bool {
		return result.MissingDocuments[i] < result.MissingDocuments[j]
	})
	sort.Strings(result.Discrepancies)

	e.log.Debug("validator.done",
		logger.Int("documents", len(docs)),
		logger.Int("failed_findings", failed),
		logger.Bool("passed", result.Passed()))
	return result
}
