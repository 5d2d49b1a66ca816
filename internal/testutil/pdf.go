// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
)

// BuildTextPDF returns a minimal, well-formed PDF with one page per element
// of pages. Each string becomes one line of Helvetica text, laid out top to
// bottom in its own text object.
func BuildTextPDF(pages ...[]string) []byte {
	streams := make([]string, len(pages))
	for i, lines := range pages {
		streams[i] = contentStream(lines)
	}
	return BuildPDF(streams...)
}

// BuildPDF returns a minimal, well-formed PDF with one page per content
// stream. The streams may use the Helvetica font resource /F1. Cross
// reference offsets are exact so strict parsers accept it.
func BuildPDF(streams ...string) []byte {
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	// 1: catalog, 2: page tree, 3: font, then a page and a content stream
	// object per page.
	objCount := 3 + 2*len(streams)
	offsets := make([]int, objCount+1)

	writeObj := func(n int, body string) {
		offsets[n] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	kids := make([]string, len(streams))
	for i := range streams {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(streams)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, stream := range streams {
		pageObj, contentObj := 4+2*i, 5+2*i
		writeObj(pageObj, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>",
			contentObj))
		writeObj(contentObj, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", objCount+1)
	b.WriteString("0000000000 65535 f \n")
	for n := 1; n <= objCount; n++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[n])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", objCount+1, xref)

	return []byte(b.String())
}

func contentStream(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "BT\n/F1 10 Tf\n50 %d Td\n(%s) Tj\nET\n", 750-14*i, escapePDFString(line))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func escapePDFString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
