// Package scrapeengine implements component C: the scrape state
// machine (locale pick, search strategies, detail-page detection,
// field extraction, normalization, and result classification).
package scrapeengine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DOM is the narrow view of a loaded page the extraction code needs.
// It is implemented by rodDOM against a live browser page, and by
// goqueryDOM against a static HTML fixture in tests, so selector and
// validator logic can be exercised without launching a browser.
type DOM interface {
	// Text returns the trimmed text of the first element matching
	// selector.
	Text(selector string) (string, bool)
	// AllText returns the trimmed text of every element matching
	// selector, in document order.
	AllText(selector string) []string
	// Attr returns the named attribute of the first element matching
	// selector.
	Attr(selector, attr string) (string, bool)
	// AllAttr returns the named attribute of every element matching
	// selector, in document order, skipping elements missing it.
	AllAttr(selector, attr string) []string
	// Exists reports whether any element matches selector.
	Exists(selector string) bool
	// Click finds the first element matching selector, scrolls it into
	// view, and clicks it. Reports whether an element was found and
	// the click was attempted.
	Click(selector string) bool
	// HTML returns the full page source.
	HTML() (string, error)
	// URL returns the page's current URL.
	URL() string
}

// goqueryDOM implements DOM over a parsed, static HTML document.
type goqueryDOM struct {
	doc *goquery.Document
	url string
}

// NewGoqueryDOM parses html and returns a DOM over that static
// document, as used by the package's tests.
func NewGoqueryDOM(html, url string) (DOM, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &goqueryDOM{doc: doc, url: url}, nil
}

func (g *goqueryDOM) Text(selector string) (string, bool) {
	sel := g.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

func (g *goqueryDOM) AllText(selector string) []string {
	var out []string
	g.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func (g *goqueryDOM) Attr(selector, attr string) (string, bool) {
	sel := g.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Attr(attr)
}

func (g *goqueryDOM) AllAttr(selector, attr string) []string {
	var out []string
	g.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if val, ok := s.Attr(attr); ok {
			out = append(out, val)
		}
	})
	return out
}

func (g *goqueryDOM) Exists(selector string) bool {
	return g.doc.Find(selector).Length() > 0
}

// Click on a static fixture document cannot mutate anything; it
// reports whether the selector matched, which is as much as a
// parsed-HTML fixture can stand in for a live click.
func (g *goqueryDOM) Click(selector string) bool {
	return g.Exists(selector)
}

func (g *goqueryDOM) HTML() (string, error) {
	return g.doc.Html()
}

func (g *goqueryDOM) URL() string {
	return g.url
}

// rodDOM implements DOM against a live go-rod page.
type rodDOM struct {
	page *rod.Page
}

// NewRodDOM wraps a live browser page.
func NewRodDOM(page *rod.Page) DOM {
	return &rodDOM{page: page}
}

func (r *rodDOM) Text(selector string) (string, bool) {
	el, err := r.page.Timeout(defaultElementTimeout).Element(selector)
	if err != nil || el == nil {
		return "", false
	}
	text, err := el.Text()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(text), true
}

func (r *rodDOM) AllText(selector string) []string {
	els, err := r.page.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			continue
		}
		out = append(out, strings.TrimSpace(text))
	}
	return out
}

func (r *rodDOM) Attr(selector, attr string) (string, bool) {
	el, err := r.page.Timeout(defaultElementTimeout).Element(selector)
	if err != nil || el == nil {
		return "", false
	}
	val, err := el.Attribute(attr)
	if err != nil || val == nil {
		return "", false
	}
	return *val, true
}

func (r *rodDOM) AllAttr(selector, attr string) []string {
	els, err := r.page.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		val, err := el.Attribute(attr)
		if err != nil || val == nil {
			continue
		}
		out = append(out, *val)
	}
	return out
}

func (r *rodDOM) Exists(selector string) bool {
	has, _, err := r.page.Has(selector)
	if err != nil {
		return false
	}
	return has
}

func (r *rodDOM) Click(selector string) bool {
	el, err := r.page.Timeout(clickTimeout).Element(selector)
	if err != nil || el == nil {
		return false
	}
	if err := el.ScrollIntoView(); err != nil {
		return false
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false
	}
	return true
}

func (r *rodDOM) HTML() (string, error) {
	return r.page.HTML()
}

func (r *rodDOM) URL() string {
	info, err := r.page.Info()
	if err != nil || info == nil {
		return ""
	}
	return info.URL
}
