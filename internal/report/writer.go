package report

import (
	"io"

	"github.com/nao1215/causelist/internal/model"
)

// Writer outputs lookup responses.
type Writer interface {
	// Write outputs the responses to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(responses ...*model.Response) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the responses to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(responses ...*model.Response) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(responses...)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
