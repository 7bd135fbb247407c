// Package validator runs cross-document validation rules over a claim.
package validator

import (
	"context"

	"medclaim/internal/domain"
	"medclaim/internal/validator/claim"
)

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(ctx context.Context, c *claim.Claim) []claim.Finding
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
}
