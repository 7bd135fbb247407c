package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medclaim/internal/classifier"
	"medclaim/internal/domain"
	"medclaim/internal/extractor"
	"medclaim/internal/extractor/pdftest"
	"medclaim/internal/fields"
	"medclaim/internal/service"
	"medclaim/internal/validator"
	"medclaim/mocks"
)

var billLines = []string{
	"CITY GENERAL HOSPITAL",
	"Patient: John Doe",
	"Date of Service: 2024-01-10",
	"Total Amount Due: 1250.50",
}

func newPipeline(backend *mocks.MockLLMBackend) service.ClaimService {
	return service.NewClaimService(
		extractor.New(0, nil),
		classifier.New(backend, 0, nil),
		fields.NewBillExtractor(backend, nil),
		fields.NewDischargeSummaryExtractor(backend, nil),
		validator.NewEngine(validator.NewBuiltinRegistry(), nil),
		0, nil,
	)
}

func TestProcessClaim_BillOnlyClaimIsRejected(t *testing.T) {
	backend := new(mocks.MockLLMBackend)
	backend.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Filename: hospital_bill.pdf")
	})).Return("'bill'", nil)
	backend.On("GenerateStructuredJSON", mock.Anything, mock.Anything, fields.BillSchema).Return(map[string]any{
		"hospital_name":   "City General Hospital",
		"total_amount":    1250.5,
		"date_of_service": "2024-01-10",
	}, nil)

	resp, err := newPipeline(backend).ProcessClaim(context.Background(), []domain.ClaimDocument{
		{Filename: "hospital_bill.pdf", Content: pdftest.Text(billLines...)},
	})

	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
	doc := resp.Documents[0]
	assert.Equal(t, domain.DocumentTypeBill, doc.Type())
	assert.Equal(t, strings.Join(billLines, "\n"), doc.RawText())
	bill, ok := doc.Bill()
	require.True(t, ok)
	require.NotNil(t, bill.HospitalName)
	require.NotNil(t, bill.TotalAmount)
	require.NotNil(t, bill.DateOfService)
	assert.Equal(t, []domain.DocumentType{domain.DocumentTypeDischargeSummary}, resp.Validation.MissingDocuments)
	assert.Empty(t, resp.Validation.Discrepancies)
	assert.Equal(t, domain.ClaimStatusRejected, resp.ClaimDecision.Status)
	assert.Contains(t, resp.ClaimDecision.Reason, "discharge_summary")
	backend.AssertExpectations(t)
}

func TestProcessClaim_ScannedPDFIsClassifiedNotFailed(t *testing.T) {
	backend := new(mocks.MockLLMBackend)
	backend.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Filename: hospital_bill.pdf")
	})).Return("bill", nil)
	backend.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Filename: discharge_scan.pdf")
	})).Return("unknown", nil)
	backend.On("GenerateStructuredJSON", mock.Anything, mock.Anything, fields.BillSchema).Return(map[string]any{
		"hospital_name":   "City General Hospital",
		"total_amount":    1250.5,
		"date_of_service": "2024-01-10",
	}, nil)

	resp, err := newPipeline(backend).ProcessClaim(context.Background(), []domain.ClaimDocument{
		{Filename: "hospital_bill.pdf", Content: pdftest.Text(billLines...)},
		{Filename: "discharge_scan.pdf", Content: pdftest.Build(pdftest.BlankPage(), pdftest.GraphicsPage())},
	})

	require.NoError(t, err)
	require.Len(t, resp.Documents, 2)
	scan := resp.Documents[1]
	assert.Equal(t, "discharge_scan.pdf", scan.Filename())
	assert.Equal(t, domain.DocumentTypeUnknown, scan.Type())
	assert.Empty(t, scan.RawText())
	assert.Equal(t, domain.DocumentTypeBill, resp.Documents[0].Type())
	assert.Equal(t, []domain.DocumentType{domain.DocumentTypeDischargeSummary}, resp.Validation.MissingDocuments)
	assert.Equal(t, domain.ClaimStatusRejected, resp.ClaimDecision.Status)
	backend.AssertExpectations(t)
}

func TestProcessClaim_BackendDownDegradesEveryDocument(t *testing.T) {
	backend := new(mocks.MockLLMBackend)
	backend.On("GenerateText", mock.Anything, mock.Anything).Return("", &domain.BackendError{Provider: "gemini", StatusCode: 503})

	resp, err := newPipeline(backend).ProcessClaim(context.Background(), []domain.ClaimDocument{
		{Filename: "a.txt", Content: []byte("first")},
		{Filename: "b.txt", Content: []byte("second")},
		{Filename: "c.png", Content: append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)},
	})

	require.NoError(t, err)
	require.Len(t, resp.Documents, 3)
	for _, d := range resp.Documents {
		assert.Equal(t, domain.DocumentTypeUnknown, d.Type())
	}
	assert.Equal(t, "first", resp.Documents[0].RawText())
	assert.Empty(t, resp.Documents[2].RawText())
	assert.Equal(t, domain.ClaimStatusRejected, resp.ClaimDecision.Status)
	assert.Equal(t, "Missing required documents: bill, discharge_summary.", resp.ClaimDecision.Reason)
}

func TestProcessClaim_BadStructuredReplyBecomesDiscrepancies(t *testing.T) {
	backend := new(mocks.MockLLMBackend)
	backend.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Filename: bill.txt")
	})).Return("bill", nil)
	backend.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Filename: summary.txt")
	})).Return("discharge_summary", nil)
	backend.On("GenerateStructuredJSON", mock.Anything, mock.Anything, fields.BillSchema).
		Return(map[string]any{"total_amount": "lots"}, nil)
	backend.On("GenerateStructuredJSON", mock.Anything, mock.Anything, fields.DischargeSummarySchema).
		Return(map[string]any{
			"patient_name":   "John Doe",
			"diagnosis":      "Appendicitis",
			"admission_date": "2024-01-10",
			"discharge_date": "2024-01-05",
		}, nil)

	resp, err := newPipeline(backend).ProcessClaim(context.Background(), []domain.ClaimDocument{
		{Filename: "bill.txt", Content: []byte("bill body")},
		{Filename: "summary.txt", Content: []byte("summary body")},
	})

	require.NoError(t, err)
	bill, ok := resp.Documents[0].Bill()
	require.True(t, ok)
	assert.Equal(t, domain.BillData{}, bill)
	assert.Empty(t, resp.Validation.MissingDocuments)
	assert.Equal(t, []string{
		"Discharge date (2024-01-05) is before admission date (2024-01-10) in discharge summary.",
		"Missing date of service in bill document: bill.txt",
		"Missing hospital name in bill document: bill.txt",
		"Missing total amount in bill document: bill.txt",
	}, resp.Validation.Discrepancies)
	assert.Equal(t, domain.ClaimStatusRejected, resp.ClaimDecision.Status)
}
