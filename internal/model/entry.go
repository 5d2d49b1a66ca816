package model

import "strings"

// RawDocument holds the bytes of a downloaded PDF for the lifetime of one
// request.
type RawDocument struct {
	// URL is the final URL the document was served from.
	URL string

	// ContentType is the Content-Type header reported by the server.
	ContentType string

	// Data is the PDF byte stream, starting with "%PDF-".
	Data []byte
}

// TextPage is the ordered text of one PDF page. Line order is the reading
// order reported by the PDF renderer and is never re-sorted.
type TextPage struct {
	// Number is the 1-based page number.
	Number int `json:"number"`

	// Lines are the non-empty text lines of the page.
	Lines []string `json:"lines"`
}

// Entry is one case row of the cause list: a serial number or case number
// line followed by the party and advocate lines that belong to it.
type Entry struct {
	// Page is the page the entry starts on.
	Page int `json:"page"`

	// Lines are the original lines, delimiter line first.
	Lines []string `json:"lines"`
}

// Text returns the entry as newline-joined original lines.
func (e Entry) Text() string {
	return strings.Join(e.Lines, "\n")
}

// LineCount returns the total number of lines across pages.
func LineCount(pages []TextPage) int {
	n := 0
	for _, p := range pages {
		n += len(p.Lines)
	}
	return n
}
