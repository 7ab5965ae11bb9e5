package engine

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Google is the only engine with a date-range query qualifier: the tbs
// parameter takes qdr:d/w/m/y for day/week/month/year.
func Google() *Adapter {
	return &Adapter{
		Name:      "google",
		container: "div.g",
		title:     "h3",
		snippet:   ".VwiC3b",
		resultURL: googleResultURL,
		searchURL: func(query, dateRange string) string {
			u := "https://www.google.com/search?q=" + url.QueryEscape(query)
			if code := dateRangeCode(dateRange); code != "" {
				u += "&tbs=qdr:" + code
			}
			return u
		},
	}
}

// googleResultURL takes the first absolute-URL anchor in the container.
// The title h3 is not itself a link; the enclosing anchor carries the
// target. Relative hrefs are internal Google navigation, not results.
func googleResultURL(container *html.Node) string {
	return firstAnchorHref(container, func(href string) bool {
		return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
	})
}
