package claim

import (
	"context"

	"medclaim/internal/domain"
)

// BuiltinValidator wraps a validator function and its metadata for the registry.
type BuiltinValidator struct {
	key      string
	name     string
	ruleType domain.ValidationRuleType
	fn       func(context.Context, *Claim) []Finding
}

func (b *BuiltinValidator) Validate(ctx context.Context, c *Claim) []Finding {
	return b.fn(ctx, c)
}
func (b *BuiltinValidator) RuleKey() string                     { return b.key }
func (b *BuiltinValidator) RuleName() string                    { return b.name }
func (b *BuiltinValidator) RuleType() domain.ValidationRuleType { return b.ruleType }

type rule interface {
	Validate(context.Context, *Claim) []Finding
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
}

func wrap(v rule) *BuiltinValidator {
	return &BuiltinValidator{key: v.RuleKey(), name: v.RuleName(), ruleType: v.RuleType(), fn: v.Validate}
}

// BuiltinValidators returns every built-in claim rule.
func BuiltinValidators() []*BuiltinValidator {
	compVals := CompletenessValidators()
	reqVals := RequiredFieldValidators()
	logVals := LogicalValidators()
	all := make([]*BuiltinValidator, 0, len(compVals)+len(reqVals)+len(logVals))

	for _, v := range compVals {
		all = append(all, wrap(v))
	}
	for _, v := range reqVals {
		all = append(all, wrap(v))
	}
	for _, v := range logVals {
		all = append(all, wrap(v))
	}
	return all
}
