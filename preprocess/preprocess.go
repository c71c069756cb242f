// Package preprocess normalizes raw pattern text before it reaches the parser.
package preprocess

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"github.com/shibukawa/snapdomain/pattern"
)

const byteOrderMark = "\uFEFF"

// Prepare normalizes a single statement: a leading byte order mark and a
// trailing "#" comment are removed, full-width characters are narrowed to
// ASCII, letters are lowercased and surrounding whitespace is trimmed.
// Whitespace inside the statement is kept so the parser can report it.
func Prepare(text string) string {
	text = strings.TrimPrefix(text, byteOrderMark)

	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}

	text = width.Narrow.String(text)
	text = cases.Lower(language.Und).String(text)

	return strings.TrimSpace(text)
}

// PrepareDocument splits text into lines and prepares each of them. Lines that
// are empty after preparation are dropped; the rest keep their 1-based line
// numbers.
func PrepareDocument(text string) []pattern.Line {
	text = strings.TrimPrefix(text, byteOrderMark)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []pattern.Line

	for i, raw := range strings.Split(text, "\n") {
		prepared := Prepare(raw)
		if prepared == "" {
			continue
		}

		lines = append(lines, pattern.Line{Number: i + 1, Text: prepared})
	}

	return lines
}

// OffsetLines shifts line numbers by delta. Documents embedded in a larger
// file use it to report positions relative to the enclosing file.
func OffsetLines(lines []pattern.Line, delta int) []pattern.Line {
	result := make([]pattern.Line, len(lines))
	for i, ln := range lines {
		result[i] = pattern.Line{Number: ln.Number + delta, Text: ln.Text}
	}

	return result
}
