// Package match finds the cause list entries that mention an advocate.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/causelist/internal/model"
)

// titles are honorifics dropped before comparison.
var titles = map[string]struct{}{
	"mr":  {},
	"mrs": {},
	"ms":  {},
	"dr":  {},
}

// Matcher holds a normalized advocate name.
type Matcher struct {
	name   string
	tokens []string
}

// New normalizes advocate and returns a Matcher for it. A name that is
// empty after normalization is an *model.InvalidInputError.
func New(advocate string) (*Matcher, error) {
	tokens := tokenize(advocate)
	if len(tokens) == 0 {
		return nil, model.NewInvalidInputError("advocate", "name must contain at least one letter or digit")
	}
	return &Matcher{name: strings.Join(tokens, " "), tokens: tokens}, nil
}

// Name returns the normalized advocate name.
func (m *Matcher) Name() string {
	return m.name
}

// Matches reports whether text mentions the advocate. The normalized name
// must appear as a substring of the normalized text, or failing that every
// name token must appear somewhere in it, in any order. Substrings are
// enough, so a name glued to its neighbour by extraction ("AREFINFOR") or
// a partial name ("Sen" in "SENGUPTA") still matches.
func (m *Matcher) Matches(text string) bool {
	normalized := Normalize(text)
	if normalized == "" {
		return false
	}
	if strings.Contains(normalized, m.name) {
		return true
	}
	for _, tok := range m.tokens {
		if !strings.Contains(normalized, tok) {
			return false
		}
	}
	return true
}

// Filter returns the text of every entry that mentions the advocate, in
// input order. Duplicate entries are kept.
func (m *Matcher) Filter(entries []model.Entry) []string {
	matched := []string{}
	for _, e := range entries {
		text := e.Text()
		if m.Matches(text) {
			matched = append(matched, text)
		}
	}
	return matched
}

// Match is shorthand for New(advocate) followed by Filter(entries).
func Match(entries []model.Entry, advocate string) ([]string, error) {
	m, err := New(advocate)
	if err != nil {
		return nil, err
	}
	return m.Filter(entries), nil
}

// Normalize returns the comparison form of s: compatibility-normalized,
// case-folded, punctuation replaced by spaces, honorifics removed and
// whitespace collapsed.
func Normalize(s string) string {
	return strings.Join(tokenize(s), " ")
}

func tokenize(s string) []string {
	s = cases.Fold().String(norm.NFKC.String(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
			return r
		}
		return ' '
	}, s)

	fields := strings.Fields(s)
	tokens := fields[:0]
	for _, f := range fields {
		if _, ok := titles[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
