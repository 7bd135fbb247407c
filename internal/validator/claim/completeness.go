package claim

import (
	"context"
	"fmt"

	"medclaim/internal/domain"
)

// completenessValidator checks that a claim contains a document of a required type.
type completenessValidator struct {
	docType domain.DocumentType
}

func (v *completenessValidator) RuleKey() string { return "req.document." + string(v.docType) }
func (v *completenessValidator) RuleName() string {
	return fmt.Sprintf("Completeness: %s present", v.docType)
}
func (v *completenessValidator) RuleType() domain.ValidationRuleType {
	return domain.ValidationRuleCompleteness
}

func (v *completenessValidator) Validate(_ context.Context, c *Claim) []Finding {
	if c.Has(v.docType) {
		return []Finding{{Passed: true, FieldPath: "documents"}}
	}
	return []Finding{{
		FieldPath:       "documents",
		MissingDocument: v.docType,
		Message:         fmt.Sprintf("Missing required document: %s", v.docType),
	}}
}

// CompletenessValidators returns one rule per required document type.
func CompletenessValidators() []*completenessValidator {
	required := domain.RequiredDocumentTypes()
	out := make([]*completenessValidator, 0, len(required))
	for _, t := range required {
		out = append(out, &completenessValidator{docType: t})
	}
	return out
}
