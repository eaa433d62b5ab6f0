package scrapeengine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"placescout/internal/model"
)

// blockedResourceTypes are hijacked and failed outright: none of them
// are needed to read text content, and skipping them noticeably speeds
// up each navigation.
var blockedResourceTypes = map[proto.NetworkResourceType]bool{
	proto.NetworkResourceTypeImage:      true,
	proto.NetworkResourceTypeFont:       true,
	proto.NetworkResourceTypeStylesheet: true,
	proto.NetworkResourceTypeMedia:      true,
}

// Run drives one job attempt end to end: locale detection, ordered
// search-strategy navigation, detail-page detection, field extraction,
// normalization, and classification. browser is expected to be
// exclusively owned by the caller for the duration of the call (one
// browserpool.Acquire per attempt).
func Run(ctx context.Context, browser *rod.Browser, input model.InputRecord) (*model.ScrapeResult, error) {
	loc := DetectLocale(input)
	queries := BuildSearchQueries(input)
	if len(queries) == 0 {
		return &model.ScrapeResult{
			Status:    model.ResultFailed,
			Error:     "insufficient input fields to build a search query",
			ScrapedAt: time.Now(),
		}, nil
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("scrapeengine: open incognito context: %w", err)
	}

	for _, query := range queries {
		result, ok, err := attempt(ctx, incognito, query, loc)
		if err != nil {
			return nil, err
		}
		if ok {
			return result, nil
		}
	}

	return &model.ScrapeResult{
		Status:    model.ResultFailed,
		Error:     "no search strategy reached a business detail page",
		ScrapedAt: time.Now(),
	}, nil
}

// attempt navigates to a single search query's URL; if that is not a
// detail page, it follows the first result link and tests again. On a
// detail page it extracts and normalizes the result. ok=false means
// this strategy didn't reach a detail page and the caller should try
// the next one.
func attempt(ctx context.Context, browser *rod.Browser, query SearchQuery, loc Locale) (*model.ScrapeResult, bool, error) {
	navURL := BuildSearchURL(query, loc)

	page, err := browser.Page(proto.TargetCreateTarget{URL: navURL})
	if err != nil {
		return nil, false, fmt.Errorf("scrapeengine: open page: %w", err)
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx).Timeout(navigationTimeout)
	_ = page.SetExtraHeaders([]string{"Accept-Language", loc.AcceptLanguage})

	stopHijack := blockHeavyResources(page)
	defer stopHijack()

	if err := page.WaitLoad(); err != nil {
		return nil, false, nil //nolint:nilerr // a failed navigation just means this strategy didn't pan out
	}

	dom := NewRodDOM(page)
	if !IsDetailPage(dom) {
		// ResultsPage? state: a Maps search normally lands on a results
		// list rather than directly on a detail page. Try the ordered
		// result-link selectors before giving up on this strategy.
		if !followResultLink(dom, page) {
			return nil, false, nil
		}
		dom = NewRodDOM(page)
		if !IsDetailPage(dom) {
			return nil, false, nil
		}
	}

	result := extractResult(dom, page, loc)
	return result, true, nil
}

// followResultLink finds the first matching result-link selector and
// reaches its target: a direct-navigation href is followed with
// page.Navigate; otherwise the element is clicked in place. Returns
// whether a result link was followed (and the page re-settled), not
// whether the destination turned out to be a detail page; the caller
// re-tests that.
func followResultLink(dom DOM, page *rod.Page) bool {
	sel, href, isDetailHref, found := resultLinkCandidate(dom)
	if !found {
		return false
	}

	if isDetailHref {
		if err := page.Timeout(navigationTimeout).Navigate(href); err != nil {
			return false
		}
		_ = page.Timeout(navigationTimeout).WaitLoad()
		return true
	}

	if !dom.Click(sel) {
		return false
	}
	_ = page.Timeout(navigationTimeout).WaitLoad()
	return true
}

// blockHeavyResources hijacks image/font/stylesheet/media requests so
// navigation only waits on the document and script payloads that
// extraction actually depends on. The returned func stops the router.
func blockHeavyResources(page *rod.Page) func() {
	router := page.HijackRequests()
	router.MustAdd("*", func(h *rod.Hijack) {
		if blockedResourceTypes[h.Request.Type()] {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	return func() { _ = router.Stop() }
}

// extractResult runs every field extractor against dom and assembles
// the canonical ScrapeResult, classifying its completeness at the end.
func extractResult(dom DOM, page *rod.Page, loc Locale) *model.ScrapeResult {
	name, hasName := ExtractName(dom)
	address, _ := ExtractAddress(dom)
	phoneRaw, hasPhone := ExtractPhoneRaw(dom)
	if !hasPhone {
		phoneRaw, hasPhone = ExtractPhoneFromPage(dom)
	}
	rating, hasRating := ExtractRating(dom)
	reviewsCount, _ := ExtractReviewsCount(dom)
	website, _ := ExtractWebsite(dom)
	category, _ := ExtractCategory(dom)
	hours := ExtractOpeningHours(dom)
	social := ExtractSocialLinks(dom)

	coords, hasCoords := resolveCoordinates(dom, page)

	phone := ""
	if hasPhone {
		phone = NormalizePhone(phoneRaw, loc.Country)
	}

	status := Classify(Extracted{
		Name:      name,
		HasName:   hasName,
		Address:   address,
		HasPhone:  hasPhone,
		HasHours:  len(hours) > 0,
		HasRating: hasRating,
	})

	result := &model.ScrapeResult{
		Status:       status,
		FullName:     name,
		FullAddress:  address,
		Phone:        phone,
		Website:      website,
		Category:     category,
		OpeningHours: hours,
		SocialMedia:  socialMediaFromLinks(social),
		ScrapedAt:    time.Now(),
	}
	if hasRating {
		result.Rating = strconv.FormatFloat(rating, 'f', 1, 64)
	}
	if reviewsCount > 0 {
		result.ReviewsCount = strconv.Itoa(reviewsCount)
	}
	if hasCoords {
		result.Latitude = strconv.FormatFloat(coords.Lat, 'f', 6, 64)
		result.Longitude = strconv.FormatFloat(coords.Lng, 'f', 6, 64)
	}
	return result
}

// resolveCoordinates runs the four ordered coordinate strategies: URL
// @lat,lng, path-encoded !3d!4d, script/meta scan, and finally a click
// on the share control to read its generated URL.
func resolveCoordinates(dom DOM, page *rod.Page) (Coordinates, bool) {
	if c, ok := CoordinatesFromURL(dom.URL()); ok {
		return c, true
	}
	if c, ok := CoordinatesFromPathEncoding(dom.URL()); ok {
		return c, true
	}
	if c, ok := CoordinatesFromMeta(dom); ok {
		return c, true
	}
	if shareURL, ok := clickShareControl(page); ok {
		if c, ok := CoordinatesFromURL(shareURL); ok {
			return c, true
		}
		if c, ok := CoordinatesFromPathEncoding(shareURL); ok {
			return c, true
		}
	}
	return Coordinates{}, false
}

var shareButtonSelectors = []string{
	"button[data-value=Share]",
	"button[aria-label^=Share]",
}

// clickShareControl opens the "Share" dialog and reads the generated
// link out of its text input, as a last-resort way to recover
// coordinates when neither the URL nor the page's own markup carries
// them.
func clickShareControl(page *rod.Page) (string, bool) {
	timed := page.Timeout(clickTimeout)
	for _, sel := range shareButtonSelectors {
		el, err := timed.Element(sel)
		if err != nil || el == nil {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			continue
		}
		input, err := timed.Element("input[aria-label='Link to share']")
		if err != nil || input == nil {
			continue
		}
		value, err := input.Property("value")
		if err != nil {
			continue
		}
		if str := value.String(); str != "" {
			return str, true
		}
	}
	return "", false
}

func socialMediaFromLinks(links map[string]string) model.SocialMedia {
	return model.SocialMedia{
		Facebook:  links["facebook"],
		Instagram: links["instagram"],
		Twitter:   links["twitter"],
		LinkedIn:  links["linkedin"],
		YouTube:   links["youtube"],
	}
}
