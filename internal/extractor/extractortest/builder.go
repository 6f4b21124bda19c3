// Package extractortest builds small valid PDFs for tests.
package extractortest

import (
	"bytes"
	"fmt"
)

// Page describes one generated page. Width doubles as a page fingerprint.
type Page struct {
	Width  int
	Height int
	Text   string
}

// Pages returns n pages with widths 110, 120, ... and text "page N".
func Pages(n int) []Page {
	out := make([]Page, n)
	for i := range out {
		out[i] = Page{Width: Width(i + 1), Height: 792, Text: fmt.Sprintf("page %d", i+1)}
	}
	return out
}

// Width is the MediaBox width Pages assigns to 1-based page i.
func Width(i int) int { return 100 + i*10 }

// Build returns a PDF 1.4 document with one page per entry.
func Build(pages ...Page) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [ %s] /Count %d >>", kids, len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, p := range pages {
		h := p.Height
		if h == 0 {
			h = 792
		}
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			p.Width, h, 5+2*i))
		content := fmt.Sprintf("BT /F1 24 Tf 72 720 Td (%s) Tj ET", p.Text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}
