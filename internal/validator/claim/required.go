package claim

import (
	"context"
	"fmt"
	"strings"

	"medclaim/internal/domain"
)

// requiredFieldValidator checks that a field is present on every record of
// one document type.
type requiredFieldValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	message   string
	bill      func(*domain.BillData) bool
	discharge func(*domain.DischargeSummaryData) bool
}

func (v *requiredFieldValidator) RuleKey() string  { return v.ruleKey }
func (v *requiredFieldValidator) RuleName() string { return v.ruleName }
func (v *requiredFieldValidator) RuleType() domain.ValidationRuleType {
	return domain.ValidationRuleRequired
}

func (v *requiredFieldValidator) Validate(_ context.Context, c *Claim) []Finding {
	var results []Finding
	if v.bill != nil {
		for i := range c.Bills {
			results = append(results, v.finding(v.bill(&c.Bills[i].Data), c.Bills[i].Filename))
		}
	}
	if v.discharge != nil {
		for i := range c.DischargeSummaries {
			results = append(results, v.finding(v.discharge(&c.DischargeSummaries[i].Data), c.DischargeSummaries[i].Filename))
		}
	}
	return results
}

func (v *requiredFieldValidator) finding(present bool, filename string) Finding {
	if present {
		return Finding{Passed: true, FieldPath: v.fieldPath}
	}
	return Finding{FieldPath: v.fieldPath, Message: fmt.Sprintf(v.message, filename)}
}

func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// RequiredFieldValidators returns the per-record presence rules.
func RequiredFieldValidators() []*requiredFieldValidator {
	return []*requiredFieldValidator{
		{
			ruleKey: "req.bill.hospital_name", ruleName: "Required: Hospital Name",
			fieldPath: "bill.hospital_name", message: "Missing hospital name in bill document: %s",
			bill: func(d *domain.BillData) bool { return hasText(d.HospitalName) },
		},
		{
			ruleKey: "req.bill.total_amount", ruleName: "Required: Total Amount",
			fieldPath: "bill.total_amount", message: "Missing total amount in bill document: %s",
			bill: func(d *domain.BillData) bool { return d.TotalAmount != nil },
		},
		{
			ruleKey: "req.bill.date_of_service", ruleName: "Required: Date of Service",
			fieldPath: "bill.date_of_service", message: "Missing date of service in bill document: %s",
			bill: func(d *domain.BillData) bool { return hasText(d.DateOfService) },
		},
		{
			ruleKey: "req.discharge.patient_name", ruleName: "Required: Patient Name",
			fieldPath: "discharge_summary.patient_name", message: "Missing patient name in discharge summary: %s",
			discharge: func(d *domain.DischargeSummaryData) bool { return hasText(d.PatientName) },
		},
		{
			ruleKey: "req.discharge.diagnosis", ruleName: "Required: Diagnosis",
			fieldPath: "discharge_summary.diagnosis", message: "Missing diagnosis in discharge summary: %s",
			discharge: func(d *domain.DischargeSummaryData) bool { return hasText(d.Diagnosis) },
		},
		{
			ruleKey: "req.discharge.admission_date", ruleName: "Required: Admission Date",
			fieldPath: "discharge_summary.admission_date", message: "Missing admission date in discharge summary: %s",
			discharge: func(d *domain.DischargeSummaryData) bool { return hasText(d.AdmissionDate) },
		},
		{
			ruleKey: "req.discharge.discharge_date", ruleName: "Required: Discharge Date",
			fieldPath: "discharge_summary.discharge_date", message: "Missing discharge date in discharge summary: %s",
			discharge: func(d *domain.DischargeSummaryData) bool { return hasText(d.DischargeDate) },
		},
	}
}
