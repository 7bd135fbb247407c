package fields

import (
	"context"
	"fmt"

	"medclaim/internal/domain"
	"medclaim/internal/logger"
	"medclaim/internal/port"
	"medclaim/internal/schema"
)

const billPrompt = `Extract the following information from the provided medical bill text and return it as a JSON object:
- Hospital Name
- Total Amount
- Date of Service (in YYYY-MM-DD format)

If a field is not found, use null.

Medical Bill Text:
%s`

// BillSchema describes the record returned for bill documents.
var BillSchema = schema.NewObject("bill",
	schema.Field{Name: "hospital_name", Type: schema.TypeString, Description: "Name of the hospital."},
	schema.Field{Name: "total_amount", Type: schema.TypeNumber, Description: "Total amount of the bill."},
	schema.Field{Name: "date_of_service", Type: schema.TypeString, Format: "date", Description: "Date of service in YYYY-MM-DD format."},
)

// BillExtractor implements port.BillFieldExtractor.
type BillExtractor struct {
	backend port.LLMBackend
	log     logger.Logger
}

// NewBillExtractor creates a BillExtractor.
func NewBillExtractor(backend port.LLMBackend, log logger.Logger) *BillExtractor {
	return &BillExtractor{backend: backend, log: named(log, "fields.bill")}
}

// Extract returns the bill fields found in text. When the backend fails or
// replies with something that does not fit BillSchema, every field is nil.
func (e *BillExtractor) Extract(ctx context.Context, text string) domain.BillData {
	var data domain.BillData
	if err := extract(ctx, e.backend, BillSchema, fmt.Sprintf(billPrompt, text), &data); err != nil {
		e.log.Warn("fields.bill.fallback", logger.Err(err))
		return domain.BillData{}
	}
	return data
}
