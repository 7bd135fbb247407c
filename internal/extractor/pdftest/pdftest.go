// Package pdftest renders tiny uncompressed PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Page describes one page. A nil Content leaves out the /Contents entry,
// as blank pages and some scanners do.
type Page struct {
	Content *string
}

// TextPage is a page whose text layer is lines, one per line.
func TextPage(lines ...string) Page {
	var sb strings.Builder
	sb.WriteString("BT\n/F1 12 Tf\n14 TL\n72 720 Td\n")
	for i, l := range lines {
		if i > 0 {
			sb.WriteString("T*\n")
		}
		fmt.Fprintf(&sb, "(%s) Tj\n", l)
	}
	sb.WriteString("ET")
	s := sb.String()
	return Page{Content: &s}
}

// GraphicsPage draws a box and carries no text layer.
func GraphicsPage() Page {
	s := "0.5 w\n72 72 468 648 re\nS"
	return Page{Content: &s}
}

// BlankPage has no content stream at all.
func BlankPage() Page { return Page{} }

// Text renders a single-page PDF whose text layer is lines.
func Text(lines ...string) []byte { return Build(TextPage(lines...)) }

// Build renders pages into a PDF with a valid cross-reference table.
func Build(pages ...Page) []byte {
	const fontRef = 3
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in once the kids are numbered
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	kids := make([]string, 0, len(pages))
	for _, p := range pages {
		pageNum := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
		contents := ""
		if p.Content != nil {
			contents = fmt.Sprintf(" /Contents %d 0 R", pageNum+1)
		}
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]%s /Resources << /Font << /F1 %d 0 R >> >> >>",
			contents, fontRef))
		if p.Content != nil {
			objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(*p.Content), *p.Content))
		}
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
