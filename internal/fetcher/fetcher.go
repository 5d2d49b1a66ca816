package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/causelist/internal/model"
)

const (
	// DefaultMaxBodySize is the largest document read into memory.
	// Daily cause lists are well under this.
	DefaultMaxBodySize = 50 * 1024 * 1024

	// MaxRetries caps additional attempts after the first one.
	MaxRetries = 2

	// DefaultBackoff is the delay before the first retry; it doubles after
	// each attempt.
	DefaultBackoff = time.Second
)

// pdfMagic starts every PDF file.
var pdfMagic = []byte("%PDF-")

// Fetcher downloads documents and checks that they are PDFs.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	retries     int
	backoff     time.Duration
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the body size limit in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithRetries sets the number of retries on transient failures.
// Values above MaxRetries are clamped.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		f.retries = max(0, min(n, MaxRetries))
	}
}

// WithBackoff sets the initial retry delay.
func WithBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		if d >= 0 {
			f.backoff = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher around client. A nil client gets a default Client.
func New(client *http.Client, opts ...Option) *Fetcher {
	if client == nil {
		c, _ := NewClient() //nolint:errcheck // default options cannot fail
		client = c.HTTPClient()
	}
	f := &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		backoff:     DefaultBackoff,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url and returns the document when it is a PDF.
// Every failure is a *model.UnavailableError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*model.RawDocument, error) {
	delay := f.backoff
	var lastErr error

	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			f.logger.Debug("retrying fetch", "url", url, "attempt", attempt+1, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, model.NewUnavailableError("fetch cancelled", ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		doc, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		f.logger.Debug("fetch failed", "url", url, "attempt", attempt+1, "error", err)
		if !retryable || ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single GET. The boolean reports whether the failure
// is worth retrying.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*model.RawDocument, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, model.NewUnavailableError("invalid request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, true, model.NewUnavailableError("request timed out", err)
		}
		return nil, ctx.Err() == nil, model.NewUnavailableError("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, true, model.NewUnavailableError("failed to read response body", err)
	}

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, model.NewUnavailableError(describe(resp.StatusCode, contentType, body), nil)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, false, model.NewUnavailableError(
			fmt.Sprintf("response exceeds %d bytes", f.maxBodySize), nil)
	}
	if !IsPDF(body) {
		return nil, false, model.NewUnavailableError(describe(resp.StatusCode, contentType, body), nil)
	}

	return &model.RawDocument{
		URL:         resp.Request.URL.String(),
		ContentType: contentType,
		Data:        body,
	}, false, nil
}

// IsPDF reports whether data starts with the PDF header, ignoring leading
// whitespace and a byte order mark.
func IsPDF(data []byte) bool {
	trimmed := bytes.TrimLeft(data, "\xef\xbb\xbf\x00\t\r\n ")
	return bytes.HasPrefix(trimmed, pdfMagic)
}

// describe builds the diagnostic detail for a rejected response.
func describe(status int, contentType string, body []byte) string {
	var detail string
	if status == http.StatusOK {
		detail = "response is not a PDF"
	} else {
		detail = fmt.Sprintf("unexpected status %d", status)
	}
	if contentType != "" {
		detail += " (content-type " + contentType + ")"
	}
	if looksLikeHTML(contentType, body) {
		if title := pageTitle(body); title != "" {
			detail += ": " + title
		}
	}
	return detail
}

type timeoutError interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	var te timeoutError
	return errors.As(err, &te) && te.Timeout()
}
