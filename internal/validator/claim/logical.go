package claim

import (
	"context"
	"fmt"
	"time"

	"medclaim/internal/domain"
)

const isoDate = "2006-01-02"

// logicalValidator checks logical constraints within a claim.
type logicalValidator struct {
	ruleKey  string
	ruleName string
	validate func(*Claim) []Finding
}

func (v *logicalValidator) RuleKey() string                     { return v.ruleKey }
func (v *logicalValidator) RuleName() string                    { return v.ruleName }
func (v *logicalValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleLogical }

func (v *logicalValidator) Validate(_ context.Context, c *Claim) []Finding {
	return v.validate(c)
}

// LogicalValidators returns all logical validators.
func LogicalValidators() []*logicalValidator {
	return []*logicalValidator{
		{
			ruleKey: "logic.discharge.date_order", ruleName: "Logical: Discharge Not Before Admission",
			validate: func(c *Claim) []Finding {
				var results []Finding
				for _, s := range c.DischargeSummaries {
					if !hasText(s.Data.AdmissionDate) || !hasText(s.Data.DischargeDate) {
						continue
					}
					results = append(results, dateOrder(*s.Data.AdmissionDate, *s.Data.DischargeDate))
				}
				return results
			},
		},
	}
}

// dateOrder compares ISO dates as strings once both are known to parse, since
// lexicographic order matches chronological order for that layout.
func dateOrder(admission, discharge string) Finding {
	const fp = "discharge_summary.discharge_date"
	_, aErr := time.Parse(isoDate, admission)
	_, dErr := time.Parse(isoDate, discharge)
	if aErr != nil || dErr != nil {
		return Finding{
			FieldPath: fp,
			Message:   fmt.Sprintf("Invalid date format in discharge summary: Admission=%s, Discharge=%s.", admission, discharge),
		}
	}
	if discharge < admission {
		return Finding{
			FieldPath: fp,
			Message:   fmt.Sprintf("Discharge date (%s) is before admission date (%s) in discharge summary.", discharge, admission),
		}
	}
	return Finding{Passed: true, FieldPath: fp}
}
