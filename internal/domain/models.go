package domain

import (
	"encoding/json"
	"fmt"
)

// ClaimDocument is one uploaded document of a claim.
type ClaimDocument struct {
	Filename string
	Content  []byte
}

// BillData holds the fields extracted from a hospital bill. Every field is optional.
type BillData struct {
	HospitalName  *string  `json:"hospital_name"`
	TotalAmount   *float64 `json:"total_amount"`
	DateOfService *string  `json:"date_of_service"`
}

// DischargeSummaryData holds the fields extracted from a discharge summary. Every field is optional.
type DischargeSummaryData struct {
	PatientName   *string `json:"patient_name"`
	Diagnosis     *string `json:"diagnosis"`
	AdmissionDate *string `json:"admission_date"`
	DischargeDate *string `json:"discharge_date"`
}

func (b BillData) clone() BillData {
	return BillData{
		HospitalName:  clonePtr(b.HospitalName),
		TotalAmount:   clonePtr(b.TotalAmount),
		DateOfService: clonePtr(b.DateOfService),
	}
}

func (d DischargeSummaryData) clone() DischargeSummaryData {
	return DischargeSummaryData{
		PatientName:   clonePtr(d.PatientName),
		Diagnosis:     clonePtr(d.Diagnosis),
		AdmissionDate: clonePtr(d.AdmissionDate),
		DischargeDate: clonePtr(d.DischargeDate),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ProcessedDocument is the per-document result of the claim pipeline.
// The data payload always agrees with the document type: bills carry BillData,
// discharge summaries carry DischargeSummaryData, everything else carries nothing.
type ProcessedDocument struct {
	docType   DocumentType
	bill      *BillData
	discharge *DischargeSummaryData
	rawText   string
	filename  string
}

// NewBillDocument creates a bill document carrying data.
func NewBillDocument(filename, rawText string, data BillData) ProcessedDocument {
	data = data.clone()
	return ProcessedDocument{
		docType:  DocumentTypeBill,
		bill:     &data,
		rawText:  rawText,
		filename: filename,
	}
}

// NewDischargeSummaryDocument creates a discharge summary document carrying data.
func NewDischargeSummaryDocument(filename, rawText string, data DischargeSummaryData) ProcessedDocument {
	data = data.clone()
	return ProcessedDocument{
		docType:   DocumentTypeDischargeSummary,
		discharge: &data,
		rawText:   rawText,
		filename:  filename,
	}
}

// NewUntypedDocument creates a document of a type that carries no data record.
// Data-bearing types are downgraded to unknown since they would have no payload.
func NewUntypedDocument(filename, rawText string, docType DocumentType) ProcessedDocument {
	if docType.HasData() {
		docType = DocumentTypeUnknown
	}
	return ProcessedDocument{
		docType:  docType,
		rawText:  rawText,
		filename: filename,
	}
}

// NewFailedDocument creates the result recorded for a document whose text could not be extracted.
func NewFailedDocument(filename string) ProcessedDocument {
	return ProcessedDocument{docType: DocumentTypeUnknown, filename: filename}
}

func (d ProcessedDocument) Type() DocumentType { return d.docType }
func (d ProcessedDocument) Filename() string   { return d.filename }
func (d ProcessedDocument) RawText() string    { return d.rawText }

// Bill returns a deep copy of the bill record, if this is a bill.
func (d ProcessedDocument) Bill() (BillData, bool) {
	if d.bill == nil {
		return BillData{}, false
	}
	return d.bill.clone(), true
}

// DischargeSummary returns a deep copy of the discharge summary record, if this is a discharge summary.
func (d ProcessedDocument) DischargeSummary() (DischargeSummaryData, bool) {
	if d.discharge == nil {
		return DischargeSummaryData{}, false
	}
	return d.discharge.clone(), true
}

type processedDocumentJSON struct {
	Type     DocumentType    `json:"type"`
	Data     json.RawMessage `json:"data"`
	RawText  string          `json:"raw_text"`
	Filename string          `json:"filename"`
}

func (d ProcessedDocument) MarshalJSON() ([]byte, error) {
	var data any
	switch {
	case d.bill != nil:
		data = d.bill
	case d.discharge != nil:
		data = d.discharge
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(processedDocumentJSON{
		Type:     d.docType,
		Data:     raw,
		RawText:  d.rawText,
		Filename: d.filename,
	})
}

func (d *ProcessedDocument) UnmarshalJSON(b []byte) error {
	var aux processedDocumentJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if _, ok := ParseDocumentType(string(aux.Type)); !ok {
		return fmt.Errorf("unknown document type %q", aux.Type)
	}
	hasData := len(aux.Data) > 0 && string(aux.Data) != "null"

	switch aux.Type {
	case DocumentTypeBill:
		if !hasData {
			return fmt.Errorf("bill document %q has no data", aux.Filename)
		}
		var bill BillData
		if err := json.Unmarshal(aux.Data, &bill); err != nil {
			return fmt.Errorf("decoding bill data: %w", err)
		}
		*d = NewBillDocument(aux.Filename, aux.RawText, bill)
	case DocumentTypeDischargeSummary:
		if !hasData {
			return fmt.Errorf("discharge summary document %q has no data", aux.Filename)
		}
		var ds DischargeSummaryData
		if err := json.Unmarshal(aux.Data, &ds); err != nil {
			return fmt.Errorf("decoding discharge summary data: %w", err)
		}
		*d = NewDischargeSummaryDocument(aux.Filename, aux.RawText, ds)
	default:
		if hasData {
			return fmt.Errorf("%s document %q cannot carry data", aux.Type, aux.Filename)
		}
		*d = NewUntypedDocument(aux.Filename, aux.RawText, aux.Type)
	}
	return nil
}

// ValidationResult is the cross-document validation outcome. Both slices are
// deduplicated and sorted.
type ValidationResult struct {
	MissingDocuments []DocumentType `json:"missing_documents"`
	Discrepancies    []string       `json:"discrepancies"`
}

// Passed reports whether nothing is missing and nothing is inconsistent.
func (v ValidationResult) Passed() bool {
	return len(v.MissingDocuments) == 0 && len(v.Discrepancies) == 0
}

// ClaimDecision is the final verdict on a claim.
type ClaimDecision struct {
	Status ClaimStatus `json:"status"`
	Reason string      `json:"reason"`
}

// ClaimProcessingResponse is the complete result of processing one claim.
// Documents are in input order.
type ClaimProcessingResponse struct {
	Documents     []ProcessedDocument `json:"documents"`
	Validation    ValidationResult    `json:"validation"`
	ClaimDecision ClaimDecision       `json:"claim_decision"`
}
