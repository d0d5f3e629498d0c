// Package csvcodec converts between card collections and the semicolon
// delimited spreadsheet format, plus the older header-keyed layout.
package csvcodec

import "strings"

// Delimiters for the two layouts.
const (
	PrimaryDelimiter = ';'
	LegacyDelimiter  = ','
)

// SplitLine tokenizes one record. Fields are trimmed; a doubled quote inside
// quotes is a literal quote; an unterminated quote runs to the end.
// An empty line yields one empty field.
func SplitLine(line string, delim rune) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if quoted && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			quoted = !quoted
		case ch == delim && !quoted:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

// record is one physical line and its 1-based line number.
type record struct {
	row  int
	text string
}

// splitRecords trims the document and splits it into lines. A quote never
// carries over to the next line, so a stray quote only affects its own row.
func splitRecords(text string) []record {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := make([]record, 0, len(lines))
	for i, line := range lines {
		out = append(out, record{row: i + 1, text: strings.TrimSuffix(line, "\r")})
	}
	return out
}
