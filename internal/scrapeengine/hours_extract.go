package scrapeengine

import "placescout/internal/model"

// dayCellSelectors and hoursCellSelectors are zipped by index: the
// Nth day label and the Nth hours cell, under the same row layout
// convention. Both a table-based and a flex-row-based hours widget are
// tried, since the live site has used both.
var (
	dayCellSelectors = []string{
		"table tr td:first-child",
		"div[role=row] div:first-child",
	}
	hoursCellSelectors = []string{
		"table tr td:last-child",
		"div[role=row] div:last-child",
	}
	// hoursExpandSelectors are localized aria-labels (en/de/fr/it/es)
	// for the button that expands the weekly hours panel. Only the
	// current day's row is present until one of these is clicked, so
	// the expand step must run before any day/hours cell is read.
	hoursExpandSelectors = []string{
		"button[aria-label^='Show open hours for the week']",
		"button[aria-label^='Öffnungszeiten für die Woche anzeigen']",
		"button[aria-label^='Afficher les horaires de la semaine']",
		"button[aria-label^='Mostra gli orari della settimana']",
		"button[aria-label^='Mostrar el horario de la semana']",
	}
)

// ExtractOpeningHours reads the opening-hours widget and returns a map
// keyed by canonical English day name with each value already run
// through the time-normalization pipeline. Rows whose day label isn't
// recognized are skipped rather than aborting the whole extraction.
func ExtractOpeningHours(dom DOM) model.OpeningHours {
	expandHoursPanel(dom)
	for i, daySel := range dayCellSelectors {
		days := dom.AllText(daySel)
		hours := dom.AllText(hoursCellSelectors[i])
		if len(days) == 0 || len(days) != len(hours) {
			continue
		}

		out := model.OpeningHours{}
		for j, day := range days {
			english, ok := NormalizeDayName(day)
			if !ok {
				continue
			}
			out[english] = NormalizeHoursText(hours[j])
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// expandHoursPanel clicks the first localized expand-button aria-label
// that matches. A page that is already expanded (or has no such
// button) is left untouched; the day/hours cell read afterward works
// either way.
func expandHoursPanel(dom DOM) {
	for _, sel := range hoursExpandSelectors {
		if dom.Click(sel) {
			return
		}
	}
}
