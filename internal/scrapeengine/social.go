package scrapeengine

import "strings"

// socialDomains maps a domain stem to the SocialMedia field it fills.
// The first matching link per platform wins.
var socialDomains = []struct {
	stem  string
	field string
}{
	{"facebook.com", "facebook"},
	{"instagram.com", "instagram"},
	{"twitter.com", "twitter"},
	{"x.com", "twitter"},
	{"linkedin.com", "linkedin"},
	{"youtube.com", "youtube"},
}

// ExtractSocialLinks scans every anchor on the page and returns the
// first href seen for each recognized platform, keyed by field name
// ("facebook", "instagram", "twitter", "linkedin", "youtube").
func ExtractSocialLinks(dom DOM) map[string]string {
	out := make(map[string]string)
	for _, href := range dom.AllAttr("a[href]", "href") {
		lower := strings.ToLower(href)
		for _, domain := range socialDomains {
			if _, found := out[domain.field]; found {
				continue
			}
			if strings.Contains(lower, domain.stem) {
				out[domain.field] = href
			}
		}
	}
	return out
}
