package scrapeengine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"placescout/internal/localedata"
	"placescout/internal/model"
)

// NormalizeDayName translates a localized day label (Montag, Lundi,
// Lunedì, ...) to its canonical English name. Unrecognized input is
// returned unchanged with ok=false so the caller can decide whether to
// keep or drop the row.
func NormalizeDayName(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, byLang := range localedata.Default.DayNames {
		for english, translated := range byLang {
			if strings.EqualFold(translated, trimmed) {
				return english, true
			}
		}
	}
	for _, english := range model.WeekDays {
		if strings.EqualFold(english, trimmed) {
			return english, true
		}
	}
	return trimmed, false
}

var (
	// Step 3: digit directly touching am/pm ("9am", "9Am") needs a
	// space inserted before the meridiem is matched case-insensitively
	// downstream.
	meridiemNoSpace = regexp.MustCompile(`(?i)(\d)(am|pm)`)
	// Step 3: two times concatenated with no separator at all
	// ("9:00am5:00pm") are split into two tokens before range/list
	// normalization can find a separator to rewrite.
	concatenatedTimes = regexp.MustCompile(`(?i)(am|pm)(\d)`)

	// Step 4: the 12-hour token, matched only after am/pm has its own
	// space and lowercase form. Hour-only ("9 am") and hour:minute
	// ("9:30 am") both match; minutes default to "00" via submatch 2.
	twelveHourPattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)

	// Word-shaped separators ("to", "bis", "a") need \b boundaries so
	// they don't fire inside ordinary words ("Saturday", "am", "data");
	// the dash glyphs don't, since they never appear mid-word here.
	rangeSeparatorPattern = regexp.MustCompile(`(?i)\s*(?:[-–—]|\bto\b|\bbis\b|\bà\b|\ba\b)\s*`)
	listSeparatorPattern  = regexp.MustCompile(`(?i)\s*(?:,|;|\band\b|\bund\b|\bet\b|\be\b)\s*`)
	whitespaceRun         = regexp.MustCompile(`\s+`)
)

// NormalizeHoursText applies the full time-normalization pipeline
// (spec §4.5.4) to one day's raw hours text. The ordering matters: the
// 24h conversion must happen before range-separator rewriting, or a
// "12-1:00" fragment would be misread as a range boundary instead of
// an hour that still needs conversion -- the historical "1221:00" bug
// this guards against.
func NormalizeHoursText(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return text
	}

	if canonical, ok := matchLiteral(text, localedata.Default.ClosedLiterals, "Closed"); ok {
		return canonical
	}
	if canonical, ok := matchLiteral(text, localedata.Default.Open24Literals, "Open 24 hours"); ok {
		return canonical
	}

	text = meridiemNoSpace.ReplaceAllString(text, "$1 $2")
	text = strings.ToLower(text)
	text = concatenatedTimes.ReplaceAllString(text, "$1 $2")

	text = convertTo24Hour(text)

	text = rangeSeparatorPattern.ReplaceAllString(text, " - ")
	text = listSeparatorPattern.ReplaceAllString(text, " & ")
	text = whitespaceRun.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

func matchLiteral(text string, literals []string, canonical string) (string, bool) {
	for _, literal := range literals {
		if strings.EqualFold(strings.TrimSpace(text), literal) {
			return canonical, true
		}
	}
	if strings.EqualFold(strings.TrimSpace(text), canonical) {
		return canonical, true
	}
	return "", false
}

func convertTo24Hour(text string) string {
	return twelveHourPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := twelveHourPattern.FindStringSubmatch(match)
		hour, err := strconv.Atoi(sub[1])
		if err != nil {
			return match
		}
		minute := sub[2]
		if minute == "" {
			minute = "00"
		}
		meridiem := strings.ToLower(sub[3])

		switch {
		case meridiem == "am" && hour == 12:
			hour = 0
		case meridiem == "pm" && hour != 12:
			hour += 12
		}

		return fmt.Sprintf("%02d:%s", hour, minute)
	})
}
