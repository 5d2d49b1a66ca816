package pipeline

import (
	"github.com/nao1215/causelist/internal/model"
)

// Lookup carries the state of one request through the steps. Each step
// fills in the fields the next one needs. A Lookup is never shared
// between requests.
type Lookup struct {
	// Request is the validated input.
	Request model.FetchRequest

	// URL is the document URL built by the locate step.
	URL string

	// Document is the downloaded PDF.
	Document *model.RawDocument

	// Pages is the extracted text, one element per PDF page.
	Pages []model.TextPage

	// Entries are the segmented case entries of the whole document.
	Entries []model.Entry

	// Matches are the texts of the entries naming the advocate.
	Matches []string

	// Steps records the names of the steps that completed.
	Steps []string
}

// NewLookup creates the initial state for req.
func NewLookup(req model.FetchRequest) *Lookup {
	return &Lookup{Request: req}
}
