package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/nao1215/causelist/internal/model"
)

// ErrNoPages is wrapped in a CorruptDocumentError when the document has
// a valid structure but zero pages.
var ErrNoPages = errors.New("document has no pages")

// disableConfigDir stops pdfcpu from creating its configuration directory
// under the user's home on first use.
var disableConfigDir sync.Once

// Extractor reads text lines out of PDF documents.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-page diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	disableConfigDir.Do(api.DisableConfigDir)

	e := &Extractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns one TextPage per page, in page order. Lines within a
// page are in reading order (top to bottom, left to right within a line),
// trimmed, whitespace-collapsed and never empty. A page without a text
// layer yields a TextPage with no lines.
//
// Malformed input returns *model.CorruptDocumentError.
func (e *Extractor) Extract(ctx context.Context, data []byte) ([]model.TextPage, error) {
	if !hasPDFHeader(data) {
		return nil, &model.CorruptDocumentError{Err: errors.New("missing %PDF header")}
	}

	pdfCtx, err := validate(data)
	if err != nil {
		return nil, &model.CorruptDocumentError{Err: err}
	}
	if pdfCtx.PageCount == 0 {
		return nil, &model.CorruptDocumentError{Err: ErrNoPages}
	}

	reader, err := openRowReader(data)
	if err != nil {
		e.logger.Debug("row reader unavailable, decoding content streams", "error", err)
	}

	pages := make([]model.TextPage, 0, pdfCtx.PageCount)
	for n := 1; n <= pdfCtx.PageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lines := e.pageLines(pdfCtx, reader, n)
		pages = append(pages, model.TextPage{Number: n, Lines: lines})
	}

	e.logger.Debug("extracted text", "pages", len(pages), "lines", model.LineCount(pages))
	return pages, nil
}

// pageLines extracts page n with the row reader, decoding the content
// stream instead when the row reader is unavailable, fails or finds no text.
func (e *Extractor) pageLines(pdfCtx *pdfmodel.Context, reader *pdf.Reader, n int) []string {
	if reader == nil || n > reader.NumPage() {
		return contentLines(pdfCtx, n)
	}
	lines, err := pageRows(reader, n)
	if err != nil {
		e.logger.Debug("row extraction failed, decoding content stream", "page", n, "error", err)
		return contentLines(pdfCtx, n)
	}
	if len(lines) == 0 {
		return contentLines(pdfCtx, n)
	}
	return lines
}

// hasPDFHeader reports whether data starts with the PDF magic, ignoring
// leading whitespace and a byte order mark.
func hasPDFHeader(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\xef\xbb\xbf\x00\t\r\n "), []byte("%PDF-"))
}

// validate parses the document structure with pdfcpu. pdfcpu panics on
// some malformed cross reference tables; those are reported as errors.
func validate(data []byte) (pdfCtx *pdfmodel.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			pdfCtx, err = nil, fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	pdfCtx, err = api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, err
	}
	return pdfCtx, nil
}

func openRowReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// Row grouping thresholds, as fractions of the glyph's font size.
const (
	// baselineTolerance is the vertical distance within which two glyphs
	// share a row.
	baselineTolerance = 0.3

	// wordGap is the horizontal gap that separates two fragments of a row
	// with a space.
	wordGap = 0.25
)

// pageRows reads page n and groups its glyphs into rows by baseline, top
// to bottom. The glyph positions follow the full text state (Td, TD, T*,
// Tm and the quote operators), so lines survive whichever operator the
// generator used to move between them.
func pageRows(r *pdf.Reader, n int) (lines []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			lines, err = nil, fmt.Errorf("page %d: pdf reader panic: %v", n, rec)
		}
	}()

	p := r.Page(n)
	if p.V.IsNull() {
		return nil, nil
	}
	return groupRows(p.Content().Text), nil
}

// textRow is the set of glyphs sharing one baseline.
type textRow struct {
	y     float64
	texts []pdf.Text
}

// groupRows turns positioned glyphs into normalized lines.
func groupRows(texts []pdf.Text) []string {
	var rows []*textRow
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		row := findRow(rows, t)
		if row == nil {
			row = &textRow{y: t.Y}
			rows = append(rows, row)
		}
		row.texts = append(row.texts, t)
	}

	// PDF y grows upwards.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := normalizeLine(row.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func findRow(rows []*textRow, t pdf.Text) *textRow {
	tolerance := max(t.FontSize, 1) * baselineTolerance
	for _, row := range rows {
		if math.Abs(row.y-t.Y) <= tolerance {
			return row
		}
	}
	return nil
}

// String joins the row's glyphs left to right. Glyphs drawn in one string
// keep their order; a visible gap between fragments becomes a space.
func (r *textRow) String() string {
	sort.SliceStable(r.texts, func(i, j int) bool { return r.texts[i].X < r.texts[j].X })

	var sb strings.Builder
	end := math.Inf(-1)
	for i, t := range r.texts {
		if i > 0 && t.X-end > max(t.FontSize, 1)*wordGap {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		end = max(end, t.X+t.W)
	}
	return sb.String()
}

// contentLines decodes page n's content stream from the pdfcpu context.
// Errors produce an empty page.
func contentLines(pdfCtx *pdfmodel.Context, n int) (lines []string) {
	defer func() {
		if rec := recover(); rec != nil {
			lines = nil
		}
	}()

	r, err := pdfcpu.ExtractPageContent(pdfCtx, n)
	if err != nil || r == nil {
		return nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil
	}
	return parseContentStream(data)
}

// normalizeLine trims s and collapses internal whitespace runs to one space.
// Non-printable characters are dropped.
func normalizeLine(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case r == unicode.ReplacementChar, !unicode.IsPrint(r):
			return -1
		default:
			return r
		}
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
