package scrapeengine

import (
	"fmt"
	"net/url"
	"strings"

	"placescout/internal/model"
)

const searchBaseURL = "https://www.google.com/maps/search/"

// SearchQuery is one ordered attempt at locating a business' detail
// page (spec §4.5.2).
type SearchQuery struct {
	Text string
}

// BuildSearchQueries returns the ordered, non-applicable-skipped list
// of search strings for input. Search strategies stop being tried at
// the first one that reaches a detail page, so order is significant.
func BuildSearchQueries(input model.InputRecord) []SearchQuery {
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)
	city := strings.TrimSpace(input.City)

	var out []SearchQuery
	if name != "" && address != "" && city != "" {
		out = append(out, SearchQuery{Text: fmt.Sprintf("%s, %s, %s", name, address, city)})
	}
	if name != "" && city != "" {
		out = append(out, SearchQuery{Text: fmt.Sprintf("%s %s", name, city)})
	}
	if name != "" && address != "" {
		out = append(out, SearchQuery{Text: fmt.Sprintf("%s %s", name, address)})
	}
	if address != "" && city != "" {
		out = append(out, SearchQuery{Text: fmt.Sprintf("%s, %s", address, city)})
	}
	if name != "" && city != "" {
		out = append(out, SearchQuery{Text: fmt.Sprintf("%q %s", name, city)})
	}
	return out
}

// BuildSearchURL builds the navigable URL for a single search query,
// applying hl=en, gl={region}, and an optional center/zoom hint from
// the static city-coordinate table. No network call is made to
// resolve the city; the table lookup already happened in loc.
func BuildSearchURL(query SearchQuery, loc Locale) string {
	u := searchBaseURL + url.PathEscape(query.Text)

	params := url.Values{}
	params.Set("hl", "en")
	if loc.Country != "" {
		params.Set("gl", strings.ToLower(loc.Country))
	}
	if loc.CityCoord != nil {
		params.Set("center", fmt.Sprintf("%f,%f", loc.CityCoord.Lat, loc.CityCoord.Lng))
		params.Set("zoom", "13")
	}

	return u + "?" + params.Encode()
}
