package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/causelist/internal/model"
)

// SimpleWriter outputs plain text for the terminal.
type SimpleWriter struct {
	baseWriter

	// quiet prints only the entries, separated by blank lines.
	quiet bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithQuiet drops the header and summary lines.
func WithQuiet(quiet bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.quiet = quiet
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the responses in human-readable format.
func (w *SimpleWriter) Write(responses ...*model.Response) (int, error) {
	var sb strings.Builder

	for _, resp := range responses {
		if w.quiet {
			w.writeEntries(&sb, resp)
			continue
		}
		w.writeHeader(&sb, resp)
		w.writeEntries(&sb, resp)
		sb.WriteString(strings.Repeat("=", 70))
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the request details and the result summary.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, resp *model.Response) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "%s\n", strings.ToUpper(CourtName))
	fmt.Fprintf(sb, "%s\n", jurisdiction(resp.Side))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Hearing Date: %s\n", FormatHearingDate(resp.Date))
	fmt.Fprintf(sb, "Side:         %s\n", resp.Side)
	fmt.Fprintf(sb, "Advocate:     %s\n", resp.Advocate)
	fmt.Fprintf(sb, "Court URL:    %s\n", resp.CourtURL)

	switch {
	case resp.Unavailable():
		fmt.Fprintf(sb, "Status:       UNAVAILABLE - %s\n", model.UnavailableMessage)
	case len(resp.Output) == 0:
		sb.WriteString("Status:       No matches found\n")
	default:
		fmt.Fprintf(sb, "Status:       %d match(es) found\n", len(resp.Output))
	}
	sb.WriteString("\n")
}

// writeEntries writes each matching entry verbatim.
func (w *SimpleWriter) writeEntries(sb *strings.Builder, resp *model.Response) {
	if resp.Unavailable() {
		if w.quiet {
			sb.WriteString(model.UnavailableMessage)
			sb.WriteString("\n")
		}
		return
	}

	for i, entry := range resp.Output {
		if !w.quiet {
			sb.WriteString(strings.Repeat("-", 70))
			sb.WriteString("\n")
			fmt.Fprintf(sb, "[%d]\n", i+1)
		} else if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(entry)
		sb.WriteString("\n")
	}
	if !w.quiet && len(resp.Output) > 0 {
		sb.WriteString("\n")
	}
}
