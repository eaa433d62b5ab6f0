package scrapeengine

import (
	"strings"

	"placescout/internal/localedata"
)

// titleSelectors and detail-indicator selectors are tried in order;
// the first that matches wins. Keeping them as ordered, immutable
// slices (rather than one clever selector) is the contract: each
// selector is a fallback for a DOM shape the live site has used at
// one point or another.
var (
	titleSelectors = []string{
		"h1",
		"[role=main] h1",
		"div[role=main] span.fontHeadlineLarge",
	}
	addressIndicatorSelectors = []string{
		"[data-item-id=address]",
		"button[data-item-id^=address]",
	}
	phoneIndicatorSelectors = []string{
		"[data-item-id^=phone]",
		"button[data-item-id^=phone]",
	}
	ratingIndicatorSelectors = []string{
		"[role=img][aria-label*=star]",
		"span.fontDisplayLarge",
	}
)

// IsDetailPage reports whether the current page looks like a
// business detail page rather than a results list. A heading
// containing a localized "results" word is a negative sentinel that
// fails immediately; otherwise the page is a detail page if it has a
// title and at least one of address/phone/rating.
func IsDetailPage(dom DOM) bool {
	title, ok := firstText(dom, titleSelectors)
	if !ok {
		return false
	}
	if looksLikeResultsLabel(title) {
		return false
	}

	return firstExists(dom, addressIndicatorSelectors) ||
		firstExists(dom, phoneIndicatorSelectors) ||
		firstExists(dom, ratingIndicatorSelectors)
}

func looksLikeResultsLabel(title string) bool {
	lower := strings.ToLower(title)
	for _, label := range resultPageLabelWords() {
		if strings.Contains(lower, strings.ToLower(label)) {
			return true
		}
	}
	return false
}

func firstText(dom DOM, selectors []string) (string, bool) {
	for _, sel := range selectors {
		if text, ok := dom.Text(sel); ok && text != "" {
			return text, true
		}
	}
	return "", false
}

func resultPageLabelWords() []string {
	return localedata.Default.ResultPageLabels
}

func firstExists(dom DOM, selectors []string) bool {
	for _, sel := range selectors {
		if dom.Exists(sel) {
			return true
		}
	}
	return false
}
