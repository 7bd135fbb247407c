package report

import (
	"encoding/csv"
	"io"

	"medclaim/internal/domain"
)

// BOM is the UTF-8 byte order mark, written first so Excel on Windows reads UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer wraps csv.Writer for exporting claim results.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the per-document header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocuments writes one row per document.
func (w *Writer) WriteDocuments(docs []domain.ProcessedDocument) error {
	for i := range docs {
		if err := w.csv.Write(documentRow(&docs[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary writes the decision and validation rows.
func (w *Writer) WriteSummary(resp *domain.ClaimProcessingResponse) error {
	for _, row := range summaryRows(resp) {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes the whole claim result to out.
func WriteCSV(out io.Writer, resp *domain.ClaimProcessingResponse) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteDocuments(resp.Documents); err != nil {
		return err
	}
	if err := w.WriteSummary(resp); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
