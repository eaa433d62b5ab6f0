package scrapeengine

import (
	"regexp"
	"strings"

	"placescout/internal/localedata"
	"placescout/internal/model"
)

// Locale captures the country/region guess used to build search URL
// parameters, plus the static city coordinate (if any) used for the
// optional center=lat,lng&zoom=13 hint.
type Locale struct {
	Country        string // ISO-ish country guess: CH, DE, FR, IT, ES, CO, "" if unknown
	BrowserLocale  string // always en-US, for extraction stability
	AcceptLanguage string // always en-US-based, for extraction stability
	CityCoord      *localedata.CityCoord
}

var chPrefixedPostal = regexp.MustCompile(`(?i)^CH-\s*\d{4}$`)

// DetectLocale guesses a country from postal-code shape, known city
// names, and address-token overrides (spec §4.5.1). The browser
// context locale is always en-US regardless of the detected country;
// only the search region (gl) parameter reflects it.
func DetectLocale(input model.InputRecord) Locale {
	loc := Locale{
		BrowserLocale:  "en-US",
		AcceptLanguage: "en-US,en;q=0.9",
	}

	if cc, ok := localedata.Default.City(input.City); ok {
		loc.CityCoord = &cc
	}

	if country, ok := tokenOverrideCountry(input); ok {
		loc.Country = country
		return loc
	}

	postal := strings.TrimSpace(input.PostalCode)
	if chPrefixedPostal.MatchString(postal) {
		loc.Country = "CH"
		return loc
	}

	digits := onlyDigits(postal)
	switch len(digits) {
	case 4:
		loc.Country = "CH"
	case 5:
		if country, ok := localedata.Default.CountryForCity(input.City); ok {
			loc.Country = country
		}
	}

	if loc.Country == "" {
		if country, ok := localedata.Default.CountryForCity(input.City); ok {
			loc.Country = country
		}
	}

	return loc
}

// tokenOverrideCountry scans the address and city for a locale token
// (strasse, rue, via, Cartagena, Bogotá, ...) that overrides the
// postal-code-shape guess.
func tokenOverrideCountry(input model.InputRecord) (string, bool) {
	haystack := strings.ToLower(input.Address + " " + input.City)
	for _, field := range strings.Fields(haystack) {
		field = strings.Trim(field, ".,;:")
		if country, ok := localedata.Default.CountryForToken(field); ok {
			return country, true
		}
	}
	return "", false
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
