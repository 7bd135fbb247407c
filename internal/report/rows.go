// Package report renders a processed claim as CSV or an Excel workbook.
package report

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"medclaim/internal/domain"
)

// columns defines the per-document header row.
var columns = []string{
	"Filename",
	"Document Type",
	"Hospital Name",
	"Total Amount",
	"Date of Service",
	"Patient Name",
	"Diagnosis",
	"Admission Date",
	"Discharge Date",
	"Text Length",
}

// documentRow converts a document to a row matching columns. Fields that do
// not apply to the document's type are left empty.
func documentRow(doc *domain.ProcessedDocument) []string {
	row := make([]string, len(columns))
	row[0] = doc.Filename()
	row[1] = string(doc.Type())
	row[9] = strconv.Itoa(utf8.RuneCountInString(doc.RawText()))

	if b, ok := doc.Bill(); ok {
		row[2] = str(b.HospitalName)
		row[3] = money(b.TotalAmount)
		row[4] = str(b.DateOfService)
	}
	if s, ok := doc.DischargeSummary(); ok {
		row[5] = str(s.PatientName)
		row[6] = str(s.Diagnosis)
		row[7] = str(s.AdmissionDate)
		row[8] = str(s.DischargeDate)
	}
	return row
}

// summaryRows lists the validation outcome and decision as label/value pairs.
func summaryRows(resp *domain.ClaimProcessingResponse) [][]string {
	rows := [][]string{
		{"Status", string(resp.ClaimDecision.Status)},
		{"Reason", resp.ClaimDecision.Reason},
		{"Missing Documents", joinTypes(resp.Validation.MissingDocuments)},
	}
	for _, d := range resp.Validation.Discrepancies {
		rows = append(rows, []string{"Discrepancy", d})
	}
	return rows
}

func joinTypes(types []domain.DocumentType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func money(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}
