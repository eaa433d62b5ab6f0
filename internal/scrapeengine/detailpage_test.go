package scrapeengine

import "testing"

func TestIsDetailPage_TrueForBusinessPage(t *testing.T) {
	html := `<html><body>
		<h1>Acme Bakery</h1>
		<button data-item-id="address">Main St 1, Zürich</button>
		<button data-item-id="phone:tel:+41441234567">044 123 45 67</button>
	</body></html>`
	dom, err := NewGoqueryDOM(html, "https://www.google.com/maps/place/Acme")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if !IsDetailPage(dom) {
		t.Fatalf("expected a business page with address+phone to be detected as a detail page")
	}
}

func TestIsDetailPage_FalseForResultsList(t *testing.T) {
	html := `<html><body>
		<h1>Results for Acme Bakery</h1>
		<div data-item-id="address">123 Main St</div>
	</body></html>`
	dom, err := NewGoqueryDOM(html, "https://www.google.com/maps/search/Acme")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if IsDetailPage(dom) {
		t.Fatalf("expected a results-list heading to fail the detail-page heuristic regardless of other indicators")
	}
}

func TestIsDetailPage_FalseWithNoTitle(t *testing.T) {
	html := `<html><body><div data-item-id="address">123 Main St</div></body></html>`
	dom, err := NewGoqueryDOM(html, "https://www.google.com/maps/search/Acme")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if IsDetailPage(dom) {
		t.Fatalf("expected no title to mean not a detail page")
	}
}

func TestIsDetailPage_FalseWithNoIndicators(t *testing.T) {
	html := `<html><body><h1>Acme Bakery</h1></body></html>`
	dom, err := NewGoqueryDOM(html, "https://www.google.com/maps/place/Acme")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if IsDetailPage(dom) {
		t.Fatalf("expected a title with no address/phone/rating indicator to fail the heuristic")
	}
}
