package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medclaim/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestProcessedDocument_MarshalJSON(t *testing.T) {
	doc := domain.NewBillDocument("bill.pdf", "text", domain.BillData{
		HospitalName: ptr("City Hospital"),
		TotalAmount:  ptr(100.0),
	})

	b, err := json.Marshal(doc)

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "bill",
		"data": {"hospital_name": "City Hospital", "total_amount": 100, "date_of_service": null},
		"raw_text": "text",
		"filename": "bill.pdf"
	}`, string(b))
}

func TestProcessedDocument_RecordsAreCopies(t *testing.T) {
	in := domain.BillData{HospitalName: ptr("City Hospital"), TotalAmount: ptr(100.0)}
	doc := domain.NewBillDocument("bill.pdf", "text", in)

	*in.HospitalName = "changed by caller"
	out, ok := doc.Bill()
	require.True(t, ok)
	*out.TotalAmount = 1

	again, _ := doc.Bill()
	assert.Equal(t, "City Hospital", *again.HospitalName)
	assert.Equal(t, 100.0, *again.TotalAmount)

	ds := domain.NewDischargeSummaryDocument("d.pdf", "text", domain.DischargeSummaryData{PatientName: ptr("John Doe")})
	got, ok := ds.DischargeSummary()
	require.True(t, ok)
	*got.PatientName = "Jane Roe"
	again2, _ := ds.DischargeSummary()
	assert.Equal(t, "John Doe", *again2.PatientName)
}

func TestProcessedDocument_MarshalJSON_NoData(t *testing.T) {
	b, err := json.Marshal(domain.NewFailedDocument("scan.png"))

	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "unknown", "data": null, "raw_text": "", "filename": "scan.png"}`, string(b))
}

func TestProcessedDocument_UnmarshalJSON(t *testing.T) {
	var doc domain.ProcessedDocument
	err := json.Unmarshal([]byte(`{
		"type": "discharge_summary",
		"data": {"patient_name": "John Doe", "diagnosis": null},
		"raw_text": "summary",
		"filename": "d.pdf"
	}`), &doc)

	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypeDischargeSummary, doc.Type())
	ds, ok := doc.DischargeSummary()
	require.True(t, ok)
	require.NotNil(t, ds.PatientName)
	assert.Equal(t, "John Doe", *ds.PatientName)
	assert.Nil(t, ds.Diagnosis)
	_, isBill := doc.Bill()
	assert.False(t, isBill)
}

func TestProcessedDocument_UnmarshalJSON_RejectsDisagreement(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "bill without data", in: `{"type": "bill", "data": null, "filename": "b.pdf"}`},
		{name: "id card with data", in: `{"type": "id_card", "data": {"x": 1}, "filename": "i.pdf"}`},
		{name: "unknown type", in: `{"type": "receipt", "data": null, "filename": "r.pdf"}`},
		{name: "wrong field type", in: `{"type": "bill", "data": {"total_amount": "ten"}, "filename": "b.pdf"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc domain.ProcessedDocument
			assert.Error(t, json.Unmarshal([]byte(tt.in), &doc))
		})
	}
}

func TestNewUntypedDocument_DowngradesDataTypes(t *testing.T) {
	doc := domain.NewUntypedDocument("b.pdf", "text", domain.DocumentTypeBill)

	assert.Equal(t, domain.DocumentTypeUnknown, doc.Type())
	assert.Equal(t, "text", doc.RawText())
}

func TestClaimProcessingResponse_JSONShape(t *testing.T) {
	resp := domain.ClaimProcessingResponse{
		Documents: []domain.ProcessedDocument{domain.NewUntypedDocument("id.pdf", "", domain.DocumentTypeIDCard)},
		Validation: domain.ValidationResult{
			MissingDocuments: []domain.DocumentType{domain.DocumentTypeBill},
			Discrepancies:    []string{},
		},
		ClaimDecision: domain.ClaimDecision{Status: domain.ClaimStatusRejected, Reason: "Missing required documents: bill."},
	}

	b, err := json.Marshal(resp)

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"documents": [{"type": "id_card", "data": null, "raw_text": "", "filename": "id.pdf"}],
		"validation": {"missing_documents": ["bill"], "discrepancies": []},
		"claim_decision": {"status": "rejected", "reason": "Missing required documents: bill."}
	}`, string(b))
}

func TestParseDocumentType(t *testing.T) {
	got, ok := domain.ParseDocumentType("discharge_summary")
	assert.True(t, ok)
	assert.Equal(t, domain.DocumentTypeDischargeSummary, got)

	got, ok = domain.ParseDocumentType("Bill")
	assert.False(t, ok)
	assert.Equal(t, domain.DocumentTypeUnknown, got)
}

func TestValidationResult_Passed(t *testing.T) {
	assert.True(t, domain.ValidationResult{}.Passed())
	assert.False(t, domain.ValidationResult{Discrepancies: []string{"x"}}.Passed())
	assert.False(t, domain.ValidationResult{MissingDocuments: []domain.DocumentType{domain.DocumentTypeBill}}.Passed())
}
