package report

import (
	"strconv"

	"github.com/nao1215/causelist/internal/model"
)

// FormatHearingDate renders a DDMMYYYY date the way the court prints it in
// list headings: "Thursday, 15th of May, 2025". An unparsable value is
// returned as "Date: <value>".
func FormatHearingDate(date string) string {
	t, err := model.ParseDate(date)
	if err != nil {
		return "Date: " + date
	}
	return t.Format("Monday") + ", " + ordinal(t.Day()) + " of " + t.Format("January, 2006")
}

// ordinal returns n with its English suffix: 1st, 2nd, 3rd, 11th, 22nd.
func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// jurisdiction returns the jurisdiction heading for a side label.
func jurisdiction(side string) string {
	s, err := model.ParseSide(side)
	if err != nil {
		return side
	}
	return s.Jurisdiction()
}
