package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/causelist/internal/locator"
	"github.com/nao1215/causelist/internal/match"
	"github.com/nao1215/causelist/internal/model"
	"github.com/nao1215/causelist/internal/segment"
)

// DocumentFetcher downloads a document. *fetcher.Fetcher implements it.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*model.RawDocument, error)
}

// TextExtractor reads text pages out of PDF bytes. *extract.Extractor
// implements it.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) ([]model.TextPage, error)
}

// NewCauseList returns a pipeline running the five lookup steps in order.
func NewCauseList(loc *locator.Locator, f DocumentFetcher, x TextExtractor, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewLocateStep(loc),
		NewFetchStep(f, p.logger),
		NewExtractStep(x),
		NewSegmentStep(),
		NewMatchStep(),
	)
	return p
}

// LocateStep builds the document URL.
type LocateStep struct {
	locator *locator.Locator
}

// NewLocateStep creates a LocateStep. A nil locator uses the default
// side templates.
func NewLocateStep(loc *locator.Locator) *LocateStep {
	if loc == nil {
		loc = locator.Default()
	}
	return &LocateStep{locator: loc}
}

// Name returns the step name.
func (s *LocateStep) Name() string {
	return "locate"
}

// Do sets lookup.URL.
func (s *LocateStep) Do(_ context.Context, lookup *Lookup) error {
	req := lookup.Request
	url, err := s.locator.Locate(req.Date, req.Side, req.BaseURL)
	if err != nil {
		return err
	}
	lookup.URL = url
	return nil
}

// FetchStep downloads the document.
type FetchStep struct {
	fetcher DocumentFetcher
	logger  *slog.Logger
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(f DocumentFetcher, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{fetcher: f, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do sets lookup.Document.
func (s *FetchStep) Do(ctx context.Context, lookup *Lookup) error {
	doc, err := s.fetcher.Fetch(ctx, lookup.URL)
	if err != nil {
		return err
	}
	s.logger.Debug("document fetched", "url", doc.URL, "bytes", len(doc.Data))
	lookup.Document = doc
	return nil
}

// ExtractStep reads the document text. The document bytes are released
// once extracted.
type ExtractStep struct {
	extractor TextExtractor
}

// NewExtractStep creates an ExtractStep.
func NewExtractStep(x TextExtractor) *ExtractStep {
	return &ExtractStep{extractor: x}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do sets lookup.Pages.
func (s *ExtractStep) Do(ctx context.Context, lookup *Lookup) error {
	if lookup.Document == nil {
		return &model.CorruptDocumentError{}
	}
	pages, err := s.extractor.Extract(ctx, lookup.Document.Data)
	if err != nil {
		return err
	}
	lookup.Pages = pages
	lookup.Document.Data = nil
	return nil
}

// SegmentStep splits the text into entries.
type SegmentStep struct{}

// NewSegmentStep creates a SegmentStep.
func NewSegmentStep() *SegmentStep {
	return &SegmentStep{}
}

// Name returns the step name.
func (s *SegmentStep) Name() string {
	return "segment"
}

// Do sets lookup.Entries.
func (s *SegmentStep) Do(_ context.Context, lookup *Lookup) error {
	lookup.Entries = segment.Segment(lookup.Pages)
	return nil
}

// MatchStep keeps the entries naming the advocate.
type MatchStep struct{}

// NewMatchStep creates a MatchStep.
func NewMatchStep() *MatchStep {
	return &MatchStep{}
}

// Name returns the step name.
func (s *MatchStep) Name() string {
	return "match"
}

// Do sets lookup.Matches.
func (s *MatchStep) Do(_ context.Context, lookup *Lookup) error {
	matches, err := match.Match(lookup.Entries, lookup.Request.AdvocateName)
	if err != nil {
		return err
	}
	lookup.Matches = matches
	return nil
}
