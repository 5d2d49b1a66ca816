package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/causelist/internal/model"
)

// CourtName is the heading printed on every report.
const CourtName = "In The High Court at Calcutta"

// MarkdownWriter outputs responses as a Markdown document that follows the
// layout of the published cause list: court, jurisdiction, hearing date,
// then each matching entry verbatim.
type MarkdownWriter struct {
	baseWriter

	// generator is printed in the footer.
	generator string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithGenerator sets the footer text, typically "causelist vX.Y.Z".
func WithGenerator(generator string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.generator = generator
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		generator:  "causelist",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs one section per response.
func (w *MarkdownWriter) Write(responses ...*model.Response) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(CourtName)
	md.PlainText("")

	for i, resp := range responses {
		if i > 0 {
			md.HorizontalRule()
			md.PlainText("")
		}
		w.writeResponse(md, resp)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeResponse(md *markdown.Markdown, resp *model.Response) {
	md.H2(jurisdiction(resp.Side))
	md.PlainText("")
	md.H3("Daily Supplementary List Of Cases For Hearing On " + FormatHearingDate(resp.Date))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Advocate", resp.Advocate},
			{"Side", resp.Side},
			{"Date", resp.Date},
			{"Court URL", resp.CourtURL},
		},
	})
	md.PlainText("")

	switch {
	case resp.Unavailable():
		md.Warningf("%s.", model.UnavailableMessage)
		md.PlainText("")
		return
	case len(resp.Output) == 0:
		md.Importantf("No matches found for %q.", resp.Advocate)
		md.PlainText("")
		return
	default:
		md.Note(fmt.Sprintf("Found %d match(es) for %q.", len(resp.Output), resp.Advocate))
		md.PlainText("")
	}

	for i, entry := range resp.Output {
		md.H4("Entry " + strconv.Itoa(i+1))
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlight("text"), entry)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by %s*", w.generator)
}
