// Package localedata loads the static reference tables used by the
// character pipeline and the scrape engine: city coordinates, legal
// business suffixes, per-language day names, closed/open-24h
// literals, and phone grouping rules. None of this is environment
// tunable, so it ships as an embedded YAML document decoded once at
// process start, rather than as environment-sourced config or
// scattered Go literals.
package localedata

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var rawData []byte

// CityCoord is a static latitude/longitude/country hint for a known
// city, used to fill the optional center=lat,lng&zoom=13 search
// parameter without making a network call.
type CityCoord struct {
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
	Country string  `yaml:"country"`
}

// PhoneGroup describes how to regroup a national phone number's
// digits once the country code has been identified.
type PhoneGroup struct {
	Prefix     string `yaml:"prefix"`
	GroupSizes []int  `yaml:"groupSizes"`
}

// Tables is the decoded form of data.yaml.
type Tables struct {
	Cities             map[string]CityCoord     `yaml:"cities"`
	SwissCities        []string                 `yaml:"swissCities"`
	LegalSuffixes      []string                 `yaml:"legalSuffixes"`
	CityTokenOverrides map[string]string        `yaml:"cityTokenOverrides"`
	DayNames           map[string]map[string]string `yaml:"dayNames"`
	ClosedLiterals     []string                 `yaml:"closedLiterals"`
	Open24Literals     []string                 `yaml:"open24Literals"`
	ResultPageLabels   []string                 `yaml:"resultPageLabels"`
	PhoneGrouping      map[string]PhoneGroup    `yaml:"phoneGrouping"`
}

// Default is the process-wide parsed table set, decoded once at
// package init from the embedded data.yaml.
var Default = mustLoad()

func mustLoad() *Tables {
	var t Tables
	if err := yaml.Unmarshal(rawData, &t); err != nil {
		panic(fmt.Sprintf("localedata: failed to decode embedded data.yaml: %v", err))
	}
	return &t
}

// City looks up a city by name, case-insensitively.
func (t *Tables) City(name string) (CityCoord, bool) {
	c, ok := t.Cities[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// IsSwissCity reports whether name (case-insensitive) is one of the
// cities used to disambiguate a 4-digit Swiss postal code.
func (t *Tables) IsSwissCity(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range t.SwissCities {
		if c == name {
			return true
		}
	}
	return false
}

// CountryForCity returns the country code associated with a known
// city, if any.
func (t *Tables) CountryForCity(name string) (string, bool) {
	c, ok := t.City(name)
	if !ok {
		return "", false
	}
	return c.Country, true
}

// CountryForToken looks up a locale-disambiguating token (e.g.
// "strasse", "rue", "via") case-insensitively.
func (t *Tables) CountryForToken(token string) (string, bool) {
	c, ok := t.CityTokenOverrides[strings.ToLower(token)]
	return c, ok
}

// Phone returns the grouping rule for a country code, defaulting to a
// generic 3-3-4 split when the country is unknown.
func (t *Tables) Phone(country string) PhoneGroup {
	if g, ok := t.PhoneGrouping[strings.ToUpper(country)]; ok {
		return g
	}
	return PhoneGroup{Prefix: "+" + country, GroupSizes: []int{3, 3, 4}}
}
