package scrapeengine

import "testing"

func TestExtractOpeningHours_TableLayout(t *testing.T) {
	html := `<table>
		<tr><td>Monday</td><td>9 am - 5 pm</td></tr>
		<tr><td>Tuesday</td><td>Closed</td></tr>
	</table>`
	dom := mustDOM(t, html)
	hours := ExtractOpeningHours(dom)
	if hours["Monday"] != "09:00 - 17:00" {
		t.Errorf("Monday: got %q", hours["Monday"])
	}
	if hours["Tuesday"] != "Closed" {
		t.Errorf("Tuesday: got %q", hours["Tuesday"])
	}
}

func TestExtractOpeningHours_UnrecognizedDaySkipped(t *testing.T) {
	html := `<table>
		<tr><td>Someday</td><td>9 am - 5 pm</td></tr>
		<tr><td>Friday</td><td>9 am - 5 pm</td></tr>
	</table>`
	dom := mustDOM(t, html)
	hours := ExtractOpeningHours(dom)
	if _, ok := hours["Someday"]; ok {
		t.Fatalf("expected an unrecognized day label to be skipped")
	}
	if hours["Friday"] != "09:00 - 17:00" {
		t.Errorf("Friday: got %q", hours["Friday"])
	}
}

func TestExtractOpeningHours_NoTable(t *testing.T) {
	dom := mustDOM(t, `<div>nothing here</div>`)
	if hours := ExtractOpeningHours(dom); hours != nil {
		t.Fatalf("expected nil when no hours widget is present, got %+v", hours)
	}
}

// collapsedThenExpandedDOM simulates the live hours widget: only
// today's row is present until the expand button is clicked, at which
// point the full week becomes readable.
type collapsedThenExpandedDOM struct {
	collapsed DOM
	expanded  DOM
	expanded_ bool
}

func (d *collapsedThenExpandedDOM) active() DOM {
	if d.expanded_ {
		return d.expanded
	}
	return d.collapsed
}

func (d *collapsedThenExpandedDOM) Text(s string) (string, bool)      { return d.active().Text(s) }
func (d *collapsedThenExpandedDOM) AllText(s string) []string         { return d.active().AllText(s) }
func (d *collapsedThenExpandedDOM) Attr(s, a string) (string, bool)   { return d.active().Attr(s, a) }
func (d *collapsedThenExpandedDOM) AllAttr(s, a string) []string      { return d.active().AllAttr(s, a) }
func (d *collapsedThenExpandedDOM) Exists(s string) bool              { return d.active().Exists(s) }
func (d *collapsedThenExpandedDOM) HTML() (string, error)             { return d.active().HTML() }
func (d *collapsedThenExpandedDOM) URL() string                       { return d.active().URL() }
func (d *collapsedThenExpandedDOM) Click(selector string) bool {
	for _, sel := range hoursExpandSelectors {
		if sel == selector && d.collapsed.Exists(selector) {
			d.expanded_ = true
			return true
		}
	}
	return false
}

func TestExtractOpeningHours_ExpandsCollapsedWeeklyPanel(t *testing.T) {
	collapsed := mustDOM(t, `
		<button aria-label="Show open hours for the week">Show more</button>
		<table><tr><td>Monday</td><td>9 am - 5 pm</td></tr></table>`)
	expanded := mustDOM(t, `<table>
		<tr><td>Monday</td><td>9 am - 5 pm</td></tr>
		<tr><td>Tuesday</td><td>9 am - 5 pm</td></tr>
		<tr><td>Wednesday</td><td>Closed</td></tr>
	</table>`)
	dom := &collapsedThenExpandedDOM{collapsed: collapsed, expanded: expanded}

	hours := ExtractOpeningHours(dom)
	if len(hours) != 3 {
		t.Fatalf("expected the expand click to reveal all 3 rows, got %+v", hours)
	}
	if hours["Wednesday"] != "Closed" {
		t.Fatalf("Wednesday: got %q", hours["Wednesday"])
	}
}

func TestExtractOpeningHours_NoExpandButtonStillReadsVisibleRows(t *testing.T) {
	dom := mustDOM(t, `<table><tr><td>Friday</td><td>9 am - 5 pm</td></tr></table>`)
	hours := ExtractOpeningHours(dom)
	if hours["Friday"] != "09:00 - 17:00" {
		t.Fatalf("Friday: got %q", hours["Friday"])
	}
}
