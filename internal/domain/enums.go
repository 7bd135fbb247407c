package domain

// DocumentType is the closed set of document kinds a claim document can be classified as.
type DocumentType string

const (
	DocumentTypeBill             DocumentType = "bill"
	DocumentTypeIDCard           DocumentType = "id_card"
	DocumentTypeDischargeSummary DocumentType = "discharge_summary"
	DocumentTypeUnknown          DocumentType = "unknown"
)

// AllDocumentTypes returns every DocumentType in declaration order.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentTypeBill,
		DocumentTypeIDCard,
		DocumentTypeDischargeSummary,
		DocumentTypeUnknown,
	}
}

// RequiredDocumentTypes returns the document types every claim must contain.
func RequiredDocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypeBill, DocumentTypeDischargeSummary}
}

// ParseDocumentType matches s exactly against the enumeration values.
func ParseDocumentType(s string) (DocumentType, bool) {
	for _, t := range AllDocumentTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return DocumentTypeUnknown, false
}

// HasData reports whether documents of this type carry an extracted data record.
func (t DocumentType) HasData() bool {
	return t == DocumentTypeBill || t == DocumentTypeDischargeSummary
}

// ClaimStatus is the outcome of a claim decision.
type ClaimStatus string

const (
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// ValidationRuleType categorizes claim validation rules.
type ValidationRuleType string

const (
	ValidationRuleCompleteness ValidationRuleType = "completeness"
	ValidationRuleRequired     ValidationRuleType = "required_field"
	ValidationRuleLogical      ValidationRuleType = "logical"
)

// ContentKind is the sniffed kind of raw document bytes.
type ContentKind string

const (
	ContentKindPDF  ContentKind = "pdf"
	ContentKindText ContentKind = "text"
)

// AllowedContentTypes maps MIME content types to the kinds the text extractor reads.
var AllowedContentTypes = map[string]ContentKind{
	"application/pdf": ContentKindPDF,
	"text/plain":      ContentKindText,
}
