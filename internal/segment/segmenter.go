// Package segment splits extracted cause list text into case entries.
//
// A cause list is a table rendered as text: every row starts with the
// row's serial number, the case number, or both on one line, followed by
// the party names and the advocates on the lines below. Segment walks the
// flattened lines with a two-state machine:
//
//	SeekDelimiter    lines are discarded until a delimiter line is seen
//	AccumulateEntry  lines are appended to the open entry; a delimiter
//	                 line closes it and opens the next one
//
// A serial-only line immediately followed by a bare case number line forms
// a single delimiter, so layouts that print the two on separate lines are
// not split into a serial-only entry and a case entry.
package segment

import (
	"regexp"
	"strings"

	"github.com/nao1215/causelist/internal/model"
)

const caseNumber = `^[A-Z][A-Z0-9.()\-]*(?:\s[A-Z(][A-Z0-9.()\-]*)?(?:\s*/\s*|\s+)\d{1,6}\s*/\s*\d{4}\b`

var (
	// serialLine is a line holding only the row's serial number,
	// optionally followed by a dot: "12" or "12.".
	serialLine = regexp.MustCompile(`^\d{1,5}\.?$`)

	// bareCaseLine starts with a case number: an upper case type code,
	// the case number and the year, as in "FMAT/330/2023", "WPO 123 / 2025"
	// or "CRR (F) 5/2021".
	bareCaseLine = regexp.MustCompile(caseNumber)

	// caseLine is a case number line, optionally preceded by the serial
	// number.
	caseLine = regexp.MustCompile(`^(?:\d{1,5}\.?\s+)?` + caseNumber[1:])
)

type state int

const (
	seekDelimiter state = iota
	accumulateEntry
)

// IsDelimiter reports whether line starts a new entry.
func IsDelimiter(line string) bool {
	line = strings.TrimSpace(line)
	return serialLine.MatchString(line) || caseLine.MatchString(line)
}

// Segment groups the lines of pages into entries in document order.
// Lines before the first delimiter are discarded. Entries never start or
// end with a blank line. The result depends only on the flattened line
// sequence, so repeated calls on the same pages return equal entries.
func Segment(pages []model.TextPage) []model.Entry {
	m := &machine{state: seekDelimiter}
	for _, page := range pages {
		for _, line := range page.Lines {
			m.feed(page.Number, line)
		}
	}
	m.closeEntry()
	return m.entries
}

// machine holds the segmentation state for one Segment call.
type machine struct {
	state   state
	current model.Entry
	entries []model.Entry
}

func (m *machine) feed(page int, line string) {
	trimmed := strings.TrimSpace(line)

	switch m.state {
	case seekDelimiter:
		if trimmed == "" || !IsDelimiter(trimmed) {
			return
		}
		m.openEntry(page, line)

	case accumulateEntry:
		if trimmed != "" && IsDelimiter(trimmed) && !m.continuesSerial(trimmed) {
			m.closeEntry()
			m.openEntry(page, line)
			return
		}
		m.current.Lines = append(m.current.Lines, line)
	}
}

// continuesSerial reports whether a bare case number line belongs to an
// entry that so far holds only its serial number line.
func (m *machine) continuesSerial(trimmed string) bool {
	if len(m.current.Lines) != 1 || !serialLine.MatchString(strings.TrimSpace(m.current.Lines[0])) {
		return false
	}
	return bareCaseLine.MatchString(trimmed)
}

func (m *machine) openEntry(page int, line string) {
	m.current = model.Entry{Page: page, Lines: []string{line}}
	m.state = accumulateEntry
}

func (m *machine) closeEntry() {
	if m.state != accumulateEntry {
		return
	}
	if lines := trimBlank(m.current.Lines); len(lines) > 0 {
		m.entries = append(m.entries, model.Entry{Page: m.current.Page, Lines: lines})
	}
	m.current = model.Entry{}
	m.state = seekDelimiter
}

// trimBlank drops leading and trailing whitespace-only lines.
func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
