package engine

import (
	"net/url"

	"golang.org/x/net/html"
)

// Bing has no date-range query qualifier; dateRange is ignored.
func Bing() *Adapter {
	return &Adapter{
		Name:      "bing",
		container: "li.b_algo",
		title:     "h2",
		snippet:   ".b_caption p",
		resultURL: bingResultURL,
		searchURL: func(query, _ string) string {
			return "https://www.bing.com/search?q=" + url.QueryEscape(query)
		},
	}
}

// bingResultURL reads the anchor inside the h2 title: on Bing the title
// element itself is the link.
func bingResultURL(container *html.Node) string {
	h2 := queryFirst(container, "h2")
	if h2 == nil {
		return ""
	}
	return firstAnchorHref(h2, nil)
}
