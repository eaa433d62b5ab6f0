package scrapeengine

import (
	"strings"

	"placescout/internal/localedata"
)

// NormalizePhone strips formatting punctuation from raw and regroups
// the digits using the country's grouping rule. A +-prefixed number
// keeps its own country code: if that is the detected country's code
// the rest is regrouped, otherwise "+" and the digits are returned
// ungrouped. A national
// number has its single leading trunk zero dropped and the detected
// country's prefix applied instead. A result too short to be a real
// number is returned as best-effort cleaned digits, still prefixed.
func NormalizePhone(raw, country string) string {
	cleaned := stripPhonePunctuation(raw)
	if cleaned == "" {
		return ""
	}

	group := localedata.Default.Phone(country)

	if strings.HasPrefix(cleaned, "+") {
		digits := cleaned[1:]
		prefix, rest := splitKnownPrefix(digits, country)
		return regroup(prefix, rest, group.GroupSizes)
	}

	national := strings.TrimPrefix(cleaned, "0")
	return regroup(group.Prefix, national, group.GroupSizes)
}

func stripPhonePunctuation(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitKnownPrefix tries to recognize the country's own dialing code
// at the start of digits; if it isn't present, the whole number is
// returned as the prefix ("+" and all digits) with nothing to regroup,
// rather than guessing where a different country's code ends.
func splitKnownPrefix(digits, country string) (prefix, rest string) {
	group := localedata.Default.Phone(country)
	code := strings.TrimPrefix(group.Prefix, "+")
	if strings.HasPrefix(digits, code) {
		return group.Prefix, strings.TrimPrefix(digits, code)
	}
	return "+" + digits, ""
}

func regroup(prefix, digits string, sizes []int) string {
	if len(sizes) == 0 {
		sizes = []int{3, 3, 4}
	}

	var parts []string
	remaining := digits
	for _, size := range sizes {
		if remaining == "" {
			break
		}
		if size > len(remaining) {
			size = len(remaining)
		}
		parts = append(parts, remaining[:size])
		remaining = remaining[size:]
	}
	if remaining != "" {
		parts = append(parts, remaining)
	}

	if len(parts) == 0 {
		return prefix
	}
	return prefix + " " + strings.Join(parts, " ")
}
