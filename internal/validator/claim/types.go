// Package claim holds the built-in claim validation rules and the read-only
// claim view they evaluate.
package claim

import "medclaim/internal/domain"

// Claim is a read-only view of a claim's processed documents, grouped by type.
type Claim struct {
	Types              map[domain.DocumentType]bool
	Bills              []Bill
	DischargeSummaries []DischargeSummary
}

// Bill is a bill record and the file it came from.
type Bill struct {
	Filename string
	Data     domain.BillData
}

// DischargeSummary is a discharge summary record and the file it came from.
type DischargeSummary struct {
	Filename string
	Data     domain.DischargeSummaryData
}

// New builds the view. Documents whose type carries data but whose record is
// absent contribute their type only.
func New(docs []domain.ProcessedDocument) *Claim {
	c := &Claim{Types: make(map[domain.DocumentType]bool, len(docs))}
	for _, d := range docs {
		c.Types[d.Type()] = true
		if b, ok := d.Bill(); ok {
			c.Bills = append(c.Bills, Bill{Filename: d.Filename(), Data: b})
		}
		if s, ok := d.DischargeSummary(); ok {
			c.DischargeSummaries = append(c.DischargeSummaries, DischargeSummary{Filename: d.Filename(), Data: s})
		}
	}
	return c
}

// Has reports whether any document in the claim was classified as t.
func (c *Claim) Has(t domain.DocumentType) bool {
	return c.Types[t]
}

// Finding is one outcome of a rule. A failing finding either names a missing
// document type or carries a discrepancy message.
type Finding struct {
	Passed          bool
	FieldPath       string
	MissingDocument domain.DocumentType
	Message         string
}
