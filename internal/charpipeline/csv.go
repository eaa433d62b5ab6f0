package charpipeline

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`[\s]+`)

// PrepareForCSV trims text, doubles embedded double-quotes, collapses
// any run of newlines and whitespace into a single space, and never
// folds characters (diacritics are preserved verbatim; this is export
// sanitizing, not search normalization). On text without double
// quotes it is idempotent; each call doubles any double quote again.
func PrepareForCSV(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\"", "\"\"")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
