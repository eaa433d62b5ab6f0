package scrapeengine

import "regexp"

// resultLinkSelectors are tried in order against a results list page
// (the ResultsPage? state). The first match wins; whether its href is
// a place-detail URL decides whether a direct href navigation or a
// click is used to reach the detail page.
var resultLinkSelectors = []string{
	"a.hfpxzc",
	"div[role=feed] a[href]",
	"div[role=article] a[href]",
}

// detailPathPattern recognizes a Google Maps place-detail URL path,
// used to tell a directly-navigable result href apart from one that
// needs a click (e.g. a relative or javascript: href).
var detailPathPattern = regexp.MustCompile(`/maps/place/`)

// resultLinkCandidate is the pure, fixture-testable half of following
// a result link: given the current DOM, pick the first matching
// selector and report whether its href is a direct-navigation
// candidate. The caller (attempt, which owns the live *rod.Page) does
// the actual navigation or click.
func resultLinkCandidate(dom DOM) (selector string, href string, isDetailHref bool, found bool) {
	for _, sel := range resultLinkSelectors {
		if href, ok := dom.Attr(sel, "href"); ok && href != "" {
			return sel, href, detailPathPattern.MatchString(href), true
		}
		if dom.Exists(sel) {
			return sel, "", false, true
		}
	}
	return "", "", false, false
}
