package fields

import (
	"context"
	"fmt"

	"medclaim/internal/domain"
	"medclaim/internal/logger"
	"medclaim/internal/port"
	"medclaim/internal/schema"
)

const dischargePrompt = `Extract the following information from the provided discharge summary text and return it as a JSON object:
- Patient Name
- Diagnosis
- Admission Date (in YYYY-MM-DD format)
- Discharge Date (in YYYY-MM-DD format)

If a field is not found, use null.

Discharge Summary Text:
%s`

// DischargeSummarySchema describes the record returned for discharge summaries.
var DischargeSummarySchema = schema.NewObject("discharge_summary",
	schema.Field{Name: "patient_name", Type: schema.TypeString, Description: "Name of the patient."},
	schema.Field{Name: "diagnosis", Type: schema.TypeString, Description: "Medical diagnosis."},
	schema.Field{Name: "admission_date", Type: schema.TypeString, Format: "date", Description: "Date of admission in YYYY-MM-DD format."},
	schema.Field{Name: "discharge_date", Type: schema.TypeString, Format: "date", Description: "Date of discharge in YYYY-MM-DD format."},
)

// DischargeSummaryExtractor implements port.DischargeFieldExtractor.
type DischargeSummaryExtractor struct {
	backend port.LLMBackend
	log     logger.Logger
}

// NewDischargeSummaryExtractor creates a DischargeSummaryExtractor.
func NewDischargeSummaryExtractor(backend port.LLMBackend, log logger.Logger) *DischargeSummaryExtractor {
	return &DischargeSummaryExtractor{backend: backend, log: named(log, "fields.discharge_summary")}
}

// Extract returns the discharge summary fields found in text, or an all-nil
// record when extraction fails.
func (e *DischargeSummaryExtractor) Extract(ctx context.Context, text string) domain.DischargeSummaryData {
	var data domain.DischargeSummaryData
	if err := extract(ctx, e.backend, DischargeSummarySchema, fmt.Sprintf(dischargePrompt, text), &data); err != nil {
		e.log.Warn("fields.discharge_summary.fallback", logger.Err(err))
		return domain.DischargeSummaryData{}
	}
	return data
}
