package charpipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"placescout/internal/localedata"
)

// fullFold maps characters with a conventional multi-letter transliteration
// (German/Scandinavian style) before any remaining accents are stripped.
var fullFold = map[rune]string{
	'ä': "ae", 'Ä': "Ae",
	'ö': "oe", 'Ö': "Oe",
	'ü': "ue", 'Ü': "Ue",
	'ß': "ss",
	'å': "aa", 'Å': "Aa",
	'æ': "ae", 'Æ': "Ae",
	'ø': "oe", 'Ø': "Oe",
}

// GenerateSearchVariants builds the ordered, deduplicated set of name
// spellings the scrape engine tries in its search strategies: the
// original text, a fully diacritic-folded form, a lightly-folded form
// (only ß expanded, all other accents simply dropped), and a
// legal-suffix-stripped form. Variants of length <= 1 are dropped, and
// duplicates are removed case-insensitively, keeping the first
// occurrence.
func GenerateSearchVariants(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	candidates := []string{
		name,
		foldFully(name),
		foldLightly(name),
		stripLegalSuffix(name),
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len([]rune(c)) <= 1 {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func foldFully(s string) string {
	var b strings.Builder
	for _, r := range s {
		if repl, ok := fullFold[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return stripDiacritics(b.String())
}

func foldLightly(s string) string {
	s = strings.ReplaceAll(s, "ß", "ss")
	s = strings.ReplaceAll(s, "ẞ", "Ss")
	return stripDiacritics(s)
}

// stripDiacritics removes combining marks left after Unicode NFD
// decomposition, turning e.g. "é" into "e" and "ä" into "a".
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// stripLegalSuffix removes a trailing legal-entity suffix (GmbH, AG,
// Ltd, ...) from name, using the shared suffix table so the scrape
// engine and the character pipeline stay in sync.
func stripLegalSuffix(name string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(name), ".,")
	lower := strings.ToLower(trimmed)
	for _, suffix := range localedata.Default.LegalSuffixes {
		ls := strings.ToLower(strings.TrimRight(suffix, "."))
		if strings.HasSuffix(lower, " "+ls) {
			return strings.TrimSpace(trimmed[:len(trimmed)-len(ls)-1])
		}
	}
	return trimmed
}
