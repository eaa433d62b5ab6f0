package scrapeengine

import (
	"regexp"
	"strconv"
	"strings"
)

// Field selector lists are tried in order; the first candidate that
// passes its validator wins. This is the selector-list-with-validator
// pattern spec §9 calls for: selectors alone are not trustworthy,
// since the live site reuses the same class names for unrelated
// widgets, so every candidate is checked against a cheap shape test
// before being accepted.
var (
	nameSelectors = []string{
		"h1",
		"div[role=main] h1",
		"span.fontHeadlineLarge",
	}
	addressSelectors = []string{
		"[data-item-id=address] .fontBodyMedium",
		"button[data-item-id^=address]",
		"[data-tooltip='Copy address']",
	}
	phoneSelectors = []string{
		"[data-item-id^=phone] .fontBodyMedium",
		"button[data-item-id^=phone]",
		"[data-tooltip='Copy phone number']",
	}
	ratingSelectors = []string{
		"div[role=main] span.fontDisplayLarge",
		"[role=img][aria-label*=star]",
		"span.ceNzKf",
	}
	reviewsCountSelectors = []string{
		"span[aria-label*=review]",
		"button[aria-label*=review]",
		"span.fontBodySmall",
	}
	websiteSelectors = []string{
		"a[data-item-id=authority]",
		"a[data-tooltip='Open website']",
	}
	categorySelectors = []string{
		"button[jsaction*=category]",
		"span.DkEaL",
	}
)

var (
	resultLiteralPattern = regexp.MustCompile(`(?i)^(results?|ergebnisse|r[ée]sultats?|risultati|resultados)\b`)
	pureNumericPattern   = regexp.MustCompile(`^[\d\s.,\-]+$`)
	starOrCurrencyRune   = regexp.MustCompile(`[★·$€£¥]`)
	reviewVocabPattern   = regexp.MustCompile(`(?i)\b(review|bewertung|avis|recensione|rese[ñn]a)s?\b`)
	phonePatterns        = []*regexp.Regexp{
		regexp.MustCompile(`^\+\d{1,3}[\d\s().\-]{5,}$`),
		regexp.MustCompile(`^0\d[\d\s().\-]{4,}$`),
		regexp.MustCompile(`^[\d\s().\-]{7,15}$`),
	}
	ratingNumberPattern  = regexp.MustCompile(`\d+[.,]\d+|\d+`)
	reviewsCountPattern  = regexp.MustCompile(`[\d.,\s]*\d`)
)

// ExtractName returns the first selector candidate that is not a
// results-list literal and not purely numeric.
func ExtractName(dom DOM) (string, bool) {
	for _, sel := range nameSelectors {
		text, ok := dom.Text(sel)
		if !ok || text == "" {
			continue
		}
		if resultLiteralPattern.MatchString(text) {
			continue
		}
		if pureNumericPattern.MatchString(text) {
			continue
		}
		return text, true
	}
	return "", false
}

// ExtractAddress returns the first non-empty address candidate. A
// valid address contains either a comma (street, city) or a digit
// (street number / postal code) -- a bare word is almost always a
// mis-selected unrelated label.
func ExtractAddress(dom DOM) (string, bool) {
	for _, sel := range addressSelectors {
		text, ok := dom.Text(sel)
		if !ok || text == "" {
			continue
		}
		if strings.ContainsAny(text, ",") || strings.ContainsAny(text, "0123456789") {
			return text, true
		}
	}
	return "", false
}

// ExtractPhoneRaw returns the first selector candidate that looks
// like a phone number before any normalization. Candidates containing
// review vocabulary, star ratings, or currency symbols are rejected,
// since the rating/review widgets sit immediately next to the phone
// button in the DOM and are easy to mis-select.
func ExtractPhoneRaw(dom DOM) (string, bool) {
	for _, sel := range phoneSelectors {
		text, ok := dom.Text(sel)
		if !ok || text == "" {
			continue
		}
		if candidate, ok := validatePhoneCandidate(text); ok {
			return candidate, true
		}
	}
	return "", false
}

// ExtractPhoneFromPage is the last-resort fallback: a regex scan of
// the full page HTML for anything shaped like a phone number.
func ExtractPhoneFromPage(dom DOM) (string, bool) {
	html, err := dom.HTML()
	if err != nil {
		return "", false
	}
	for _, pat := range phonePatterns {
		if loc := pat.FindString(html); loc != "" {
			if candidate, ok := validatePhoneCandidate(loc); ok {
				return candidate, true
			}
		}
	}
	return "", false
}

func validatePhoneCandidate(text string) (string, bool) {
	if len(text) > 50 {
		return "", false
	}
	if starOrCurrencyRune.MatchString(text) {
		return "", false
	}
	if reviewVocabPattern.MatchString(text) {
		return "", false
	}
	trimmed := strings.TrimSpace(text)
	for _, pat := range phonePatterns {
		if pat.MatchString(trimmed) {
			return trimmed, true
		}
	}
	return "", false
}

// ExtractRating parses the first decimal-or-integer number in [0,5]
// out of the rating selector candidates.
func ExtractRating(dom DOM) (float64, bool) {
	for _, sel := range ratingSelectors {
		text, ok := dom.Text(sel)
		if !ok || text == "" {
			continue
		}
		match := ratingNumberPattern.FindString(text)
		if match == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
		if err != nil {
			continue
		}
		if value < 0 || value > 5 {
			continue
		}
		return value, true
	}
	return 0, false
}

// ExtractReviewsCount parses the review count out of "(123)", "123
// reviews", localized equivalents, or a bare number, stripping
// thousand separators.
func ExtractReviewsCount(dom DOM) (int, bool) {
	for _, sel := range reviewsCountSelectors {
		text, ok := dom.Text(sel)
		if !ok || text == "" {
			continue
		}
		match := reviewsCountPattern.FindString(text)
		if match == "" {
			continue
		}
		cleaned := strings.NewReplacer(",", "", ".", "", " ", "").Replace(match)
		count, err := strconv.Atoi(cleaned)
		if err != nil {
			continue
		}
		return count, true
	}
	return 0, false
}

// ExtractWebsite prefers the href of the authority link; data-href is
// a secondary source. A candidate that resolves to a search-engine
// domain (the "search on Google" shortcut, not the business' own
// site) is rejected.
func ExtractWebsite(dom DOM) (string, bool) {
	for _, sel := range websiteSelectors {
		if href, ok := dom.Attr(sel, "href"); ok && href != "" {
			if candidate, ok := validateWebsiteCandidate(href); ok {
				return candidate, true
			}
		}
		if href, ok := dom.Attr(sel, "data-href"); ok && href != "" {
			if candidate, ok := validateWebsiteCandidate(href); ok {
				return candidate, true
			}
		}
	}
	return "", false
}

var searchEngineDomains = []string{"google.com", "google.", "/search?"}

func validateWebsiteCandidate(href string) (string, bool) {
	lower := strings.ToLower(href)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", false
	}
	for _, domain := range searchEngineDomains {
		if strings.Contains(lower, domain) {
			return "", false
		}
	}
	return href, true
}

// ExtractCategory rejects candidates that are purely numeric or look
// like a star rating ("4.5 stars"), both of which are adjacent
// selectors easily confused with the category chip.
func ExtractCategory(dom DOM) (string, bool) {
	for _, sel := range categorySelectors {
		text, ok := dom.Text(sel)
		if !ok || text == "" {
			continue
		}
		if pureNumericPattern.MatchString(text) {
			continue
		}
		if ratingNumberPattern.MatchString(text) && (len(text) < 6 || strings.Contains(strings.ToLower(text), "star")) {
			continue
		}
		return text, true
	}
	return "", false
}
