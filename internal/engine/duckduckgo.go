package engine

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// DuckDuckGo targets the HTML endpoint, which renders without JavaScript
// and keeps a stable class scheme. DuckDuckGo has no date-range query
// qualifier, so dateRange is ignored.
func DuckDuckGo() *Adapter {
	return &Adapter{
		Name:      "duckduckgo",
		container: ".result",
		title:     ".result__title",
		snippet:   ".result__snippet",
		resultURL: duckduckgoResultURL,
		searchURL: func(query, _ string) string {
			return "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)
		},
	}
}

// duckduckgoResultURL reads the href of the .result__a anchor inside the
// title. DuckDuckGo wraps targets in a /l/?uddg= redirect; the real URL is
// the decoded uddg parameter.
func duckduckgoResultURL(container *html.Node) string {
	a := queryFirst(container, ".result__a")
	if a == nil {
		return ""
	}
	href := attrVal(a, "href")
	if href == "" {
		return ""
	}
	if i := strings.Index(href, "uddg="); i >= 0 {
		v := href[i+len("uddg="):]
		if j := strings.IndexByte(v, '&'); j >= 0 {
			v = v[:j]
		}
		if decoded, err := url.QueryUnescape(v); err == nil && decoded != "" {
			return decoded
		}
	}
	return href
}
