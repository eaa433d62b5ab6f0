package scrapeengine

import "testing"

const detailFixture = `<html><body>
	<h1>Acme Bakery</h1>
	<div data-item-id="address"><div class="fontBodyMedium">Bahnhofstrasse 1, 8001 Zürich</div></div>
	<div data-item-id="phone:tel:+41441234567"><div class="fontBodyMedium">+41 44 123 45 67</div></div>
	<div role="main"><span class="fontDisplayLarge">4,5</span></div>
	<span aria-label="123 reviews">(123)</span>
	<a data-item-id="authority" href="https://acme-bakery.example.com">acme-bakery.example.com</a>
	<button jsaction="category.click">Bakery</button>
</body></html>`

func mustDOM(t *testing.T, html string) DOM {
	t.Helper()
	dom, err := NewGoqueryDOM(html, "https://www.google.com/maps/place/Acme")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return dom
}

func TestExtractName(t *testing.T) {
	dom := mustDOM(t, detailFixture)
	name, ok := ExtractName(dom)
	if !ok || name != "Acme Bakery" {
		t.Fatalf("got %q, %v", name, ok)
	}
}

func TestExtractName_RejectsResultsLiteral(t *testing.T) {
	dom := mustDOM(t, `<h1>Results for Acme</h1>`)
	if _, ok := ExtractName(dom); ok {
		t.Fatalf("expected a results-list literal to be rejected as a name")
	}
}

func TestExtractAddress(t *testing.T) {
	dom := mustDOM(t, detailFixture)
	address, ok := ExtractAddress(dom)
	if !ok || address != "Bahnhofstrasse 1, 8001 Zürich" {
		t.Fatalf("got %q, %v", address, ok)
	}
}

func TestExtractPhoneRaw(t *testing.T) {
	dom := mustDOM(t, detailFixture)
	phone, ok := ExtractPhoneRaw(dom)
	if !ok || phone != "+41 44 123 45 67" {
		t.Fatalf("got %q, %v", phone, ok)
	}
}

func TestExtractPhoneRaw_RejectsStarRating(t *testing.T) {
	dom := mustDOM(t, `<div data-item-id="phone:tel:x"><div class="fontBodyMedium">★ 4.5</div></div>`)
	if _, ok := ExtractPhoneRaw(dom); ok {
		t.Fatalf("expected a star-rating candidate to be rejected as a phone number")
	}
}

func TestExtractRating(t *testing.T) {
	dom := mustDOM(t, detailFixture)
	rating, ok := ExtractRating(dom)
	if !ok || rating != 4.5 {
		t.Fatalf("got %v, %v", rating, ok)
	}
}

func TestExtractRating_RejectsOutOfRange(t *testing.T) {
	dom := mustDOM(t, `<div role="main"><span class="fontDisplayLarge">123</span></div>`)
	if _, ok := ExtractRating(dom); ok {
		t.Fatalf("expected a rating above 5 to be rejected")
	}
}

func TestExtractReviewsCount(t *testing.T) {
	dom := mustDOM(t, detailFixture)
	count, ok := ExtractReviewsCount(dom)
	if !ok || count != 123 {
		t.Fatalf("got %v, %v", count, ok)
	}
}

func TestExtractReviewsCount_StripsThousandSeparator(t *testing.T) {
	dom := mustDOM(t, `<span aria-label="1,234 reviews">(1,234)</span>`)
	count, ok := ExtractReviewsCount(dom)
	if !ok || count != 1234 {
		t.Fatalf("got %v, %v", count, ok)
	}
}

func TestExtractWebsite(t *testing.T) {
	dom := mustDOM(t, detailFixture)
	website, ok := ExtractWebsite(dom)
	if !ok || website != "https://acme-bakery.example.com" {
		t.Fatalf("got %q, %v", website, ok)
	}
}

func TestExtractWebsite_RejectsSearchEngineDomain(t *testing.T) {
	dom := mustDOM(t, `<a data-item-id="authority" href="https://www.google.com/search?q=acme">Search</a>`)
	if _, ok := ExtractWebsite(dom); ok {
		t.Fatalf("expected a google.com search link to be rejected as the business website")
	}
}

func TestExtractCategory(t *testing.T) {
	dom := mustDOM(t, detailFixture)
	category, ok := ExtractCategory(dom)
	if !ok || category != "Bakery" {
		t.Fatalf("got %q, %v", category, ok)
	}
}

func TestExtractCategory_RejectsNumeric(t *testing.T) {
	dom := mustDOM(t, `<button jsaction="category.click">4.5</button>`)
	if _, ok := ExtractCategory(dom); ok {
		t.Fatalf("expected a decimal-looking candidate to be rejected as a category")
	}
}
