// Package locator builds the download URL of a cause list PDF.
//
// The court publishes one document per side and date. Where that document
// lives is site-specific, so the path for each side is a template taken
// from configuration, for example:
//
//	/downloads/old_cause_lists/AS/cla{date}.pdf
//
// The locator performs no network access.
package locator

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nao1215/causelist/internal/model"
)

// DatePlaceholder is replaced by the DDMMYYYY date in a path template.
const DatePlaceholder = "{date}"

// Default path templates for the Calcutta High Court website.
const (
	DefaultOriginalTemplate  = "/downloads/old_cause_lists/OS/clo{date}.pdf"
	DefaultAppellateTemplate = "/downloads/old_cause_lists/AS/cla{date}.pdf"
)

// ErrInvalidTemplate is returned when a path template cannot produce a URL.
var ErrInvalidTemplate = errors.New("invalid path template")

// Locator maps a side to its path template.
type Locator struct {
	templates map[model.Side]string
}

// DefaultTemplates returns a fresh copy of the built-in side templates.
func DefaultTemplates() map[model.Side]string {
	return map[model.Side]string{
		model.SideOriginal:  DefaultOriginalTemplate,
		model.SideAppellate: DefaultAppellateTemplate,
	}
}

// New creates a Locator. Sides missing from templates fall back to the
// built-in defaults.
func New(templates map[model.Side]string) (*Locator, error) {
	merged := DefaultTemplates()
	for side, tmpl := range templates {
		if !side.Valid() {
			return nil, fmt.Errorf("%w: unknown side %d", ErrInvalidTemplate, int(side))
		}
		if err := ValidateTemplate(tmpl); err != nil {
			return nil, fmt.Errorf("%s: %w", side, err)
		}
		merged[side] = tmpl
	}
	return &Locator{templates: merged}, nil
}

// Default returns a Locator using the built-in templates.
func Default() *Locator {
	return &Locator{templates: DefaultTemplates()}
}

// ValidateTemplate checks that tmpl is an absolute path containing the date
// placeholder.
func ValidateTemplate(tmpl string) error {
	if !strings.HasPrefix(tmpl, "/") {
		return fmt.Errorf("%w: %q must start with /", ErrInvalidTemplate, tmpl)
	}
	if !strings.Contains(tmpl, DatePlaceholder) {
		return fmt.Errorf("%w: %q must contain %s", ErrInvalidTemplate, tmpl, DatePlaceholder)
	}
	return nil
}

// Template returns the path template used for side.
func (l *Locator) Template(side model.Side) (string, bool) {
	tmpl, ok := l.templates[side]
	return tmpl, ok
}

// Locate builds the document URL for the given date, side and base URL.
// The date is escaped for the part of the template it lands in (path or
// query string). An unrecognized side or malformed input yields an
// *model.InvalidInputError.
func (l *Locator) Locate(date string, side model.Side, baseURL string) (string, error) {
	tmpl, ok := l.templates[side]
	if !ok || !side.Valid() {
		return "", model.NewInvalidInputError("side", "no document path configured for %s", side)
	}
	if _, err := model.ParseDate(date); err != nil {
		return "", err
	}
	if err := model.ValidateBaseURL(baseURL); err != nil {
		return "", err
	}

	path, query, hasQuery := strings.Cut(tmpl, "?")
	path = strings.ReplaceAll(path, DatePlaceholder, url.PathEscape(date))

	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	b.WriteString(path)
	if hasQuery {
		b.WriteByte('?')
		b.WriteString(strings.ReplaceAll(query, DatePlaceholder, url.QueryEscape(date)))
	}

	located := b.String()
	if _, err := url.Parse(located); err != nil {
		return "", model.NewInvalidInputError("base_url", "cannot build document URL: %v", err)
	}
	return located, nil
}
