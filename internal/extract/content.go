package extract

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

// pdfString matches literal strings in a content stream line: (text).
var pdfString = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// parseContentStream pulls text out of a decoded page content stream.
// It understands the text showing operators (Tj, TJ, ' and ") and breaks
// lines on BT/ET, T* and on Td/TD/Tm moves with a vertical component.
// Operators are expected one per line, which is how the generators used for
// cause lists write them.
func parseContentStream(data []byte) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		if line := normalizeLine(cur.String()); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}
	show := func(line []byte, spaced bool) {
		for _, m := range pdfString.FindAllSubmatch(line, -1) {
			text := decodePDFString(m[1])
			if text == "" {
				continue
			}
			if spaced && cur.Len() > 0 {
				cur.WriteByte(' ')
			}
			cur.WriteString(text)
		}
	}

	for _, raw := range bytes.Split(data, []byte{'\n'}) {
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}
		fields := bytes.Fields(line)
		op := string(fields[len(fields)-1])

		switch op {
		case "BT", "ET", "T*":
			flush()
		case "Td", "TD":
			if len(fields) >= 3 && movesVertically(fields[len(fields)-2]) {
				flush()
			} else if cur.Len() > 0 {
				cur.WriteByte(' ')
			}
		case "Tm":
			flush()
		case "Tj":
			show(line, true)
		case "TJ":
			show(line, false)
		case "'", "\"":
			flush()
			show(line, true)
		}
	}
	flush()

	return lines
}

// movesVertically reports whether a Td/TD y operand is non-zero.
func movesVertically(operand []byte) bool {
	y, err := strconv.ParseFloat(string(operand), 64)
	return err != nil || y != 0
}

// decodePDFString resolves the escape sequences of a PDF literal string.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n', 'r', 't':
			sb.WriteByte(' ')
		case '\\', '(', ')':
			sb.WriteByte(c)
		default:
			if c < '0' || c > '7' {
				sb.WriteByte(c)
				continue
			}
			val := int(c - '0')
			for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}
