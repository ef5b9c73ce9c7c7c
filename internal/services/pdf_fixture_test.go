package services

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// buildPDF writes a minimal uncompressed PDF with one page per entry. A
// non-empty entry becomes the page's text layer.
func buildPDF(t testing.TB, pageTexts ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	var offsets []int
	writeObj := func(body string) int {
		offsets = append(offsets, buf.Len())
		id := len(offsets)
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
		return id
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")

	// Page objects follow the page tree; content streams follow the pages.
	pageCount := len(pageTexts)
	kids := make([]string, pageCount)
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount))

	nextContent := 3 + pageCount
	var streams []string
	for _, text := range pageTexts {
		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]"
		if text != "" {
			page += fmt.Sprintf(" /Contents %d 0 R", nextContent)
			nextContent++
			streams = append(streams, fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text))
		}
		writeObj(page + " >>")
	}
	for _, s := range streams {
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(s), s))
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

func blankPages(n int) []string {
	return make([]string, n)
}
