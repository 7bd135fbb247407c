package decision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medclaim/internal/decision"
	"medclaim/internal/domain"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		in         domain.ValidationResult
		wantStatus domain.ClaimStatus
		wantReason string
	}{
		{
			name:       "nothing wrong",
			in:         domain.ValidationResult{MissingDocuments: []domain.DocumentType{}, Discrepancies: []string{}},
			wantStatus: domain.ClaimStatusApproved,
			wantReason: "All required documents present and data is consistent.",
		},
		{
			name:       "nil collections",
			in:         domain.ValidationResult{},
			wantStatus: domain.ClaimStatusApproved,
			wantReason: decision.ApprovedReason,
		},
		{
			name:       "missing discharge summary",
			in:         domain.ValidationResult{MissingDocuments: []domain.DocumentType{domain.DocumentTypeDischargeSummary}},
			wantStatus: domain.ClaimStatusRejected,
			wantReason: "Missing required documents: discharge_summary.",
		},
		{
			name: "missing both",
			in: domain.ValidationResult{MissingDocuments: []domain.DocumentType{
				domain.DocumentTypeBill, domain.DocumentTypeDischargeSummary,
			}},
			wantStatus: domain.ClaimStatusRejected,
			wantReason: "Missing required documents: bill, discharge_summary.",
		},
		{
			name:       "discrepancies only",
			in:         domain.ValidationResult{Discrepancies: []string{"a", "b"}},
			wantStatus: domain.ClaimStatusRejected,
			wantReason: "Discrepancies found: a; b.",
		},
		{
			name: "both",
			in: domain.ValidationResult{
				MissingDocuments: []domain.DocumentType{domain.DocumentTypeBill},
				Discrepancies:    []string{"Missing diagnosis in discharge summary: d.pdf"},
			},
			wantStatus: domain.ClaimStatusRejected,
			wantReason: "Missing required documents: bill. Discrepancies found: Missing diagnosis in discharge summary: d.pdf.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decision.Decide(tt.in)

			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}
