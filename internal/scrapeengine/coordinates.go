package scrapeengine

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	urlAtCoordPattern  = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+),(\d+(?:\.\d+)?)z`)
	pathCoordPattern   = regexp.MustCompile(`!3d(-?\d+\.\d+)!4d(-?\d+\.\d+)`)
	geoMetaSelectors   = []string{"meta[name='geo.position']", "meta[property='place:location:latitude']"}
	geoMetaLngSelector = "meta[property='place:location:longitude']"
)

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lng float64
}

// CoordinatesFromURL implements strategy (i): parse "@lat,lng,zoomz"
// out of a Google Maps URL.
func CoordinatesFromURL(rawURL string) (Coordinates, bool) {
	m := urlAtCoordPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return Coordinates{}, false
	}
	return parseLatLng(m[1], m[2])
}

// CoordinatesFromPathEncoding implements strategy (ii): parse the
// "!3d<lat>!4d<lng>" path-encoded fragment also present in most
// Google Maps detail URLs, which survives some redirects where the
// "@lat,lng,zoom" form does not.
func CoordinatesFromPathEncoding(rawURL string) (Coordinates, bool) {
	m := pathCoordPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return Coordinates{}, false
	}
	return parseLatLng(m[1], m[2])
}

// CoordinatesFromMeta implements strategy (iii): scan the page's
// meta tags for an embedded geo position, then the "!3d<lat>!4d<lng>"
// form anywhere in dom.HTML(). It queries whatever DOM it is given: the
// live rod page in the engine, a static goquery fixture in tests.
func CoordinatesFromMeta(dom DOM) (Coordinates, bool) {
	for _, sel := range geoMetaSelectors {
		content, ok := dom.Attr(sel, "content")
		if !ok || content == "" {
			continue
		}
		if lat, lng, ok := splitGeoPosition(content); ok {
			return Coordinates{Lat: lat, Lng: lng}, true
		}
	}

	latContent, latOK := dom.Attr("meta[property='place:location:latitude']", "content")
	lngContent, lngOK := dom.Attr(geoMetaLngSelector, "content")
	if latOK && lngOK {
		return parseLatLng(latContent, lngContent)
	}

	html, err := dom.HTML()
	if err != nil {
		return Coordinates{}, false
	}
	return CoordinatesFromPathEncoding(html)
}

func splitGeoPosition(content string) (float64, float64, bool) {
	parts := strings.Split(content, ";")
	if len(parts) != 2 {
		parts = strings.Split(content, ",")
	}
	if len(parts) != 2 {
		return 0, 0, false
	}
	coord, ok := parseLatLng(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	return coord.Lat, coord.Lng, ok
}

func parseLatLng(latStr, lngStr string) (Coordinates, bool) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Coordinates{}, false
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: lat, Lng: lng}, true
}
