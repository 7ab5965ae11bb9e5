// CLAUDE:SUMMARY Per-engine search strategies: URL construction and rendered-DOM result parsing.
// Package engine defines one parsing strategy per supported search engine.
//
// Each adapter is pure data: a search URL builder (with engine-specific
// date-range handling), the selectors locating result containers, titles
// and snippets on the rendered page, and the engine's quirk for finding
// the canonical result URL inside a container.
package engine

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// Result is one parsed search result.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Adapter bundles one engine's URL construction and parsing rules.
type Adapter struct {
	Name string

	container string
	title     string
	snippet   string

	// resultURL extracts the canonical URL from a result container.
	// Engines disagree on where it lives: an anchor inside the title,
	// the first plain anchor of the container, or a redirect parameter.
	resultURL func(container *html.Node) string

	// searchURL builds the engine search URL for an already-qualified
	// query. dateRange is one of day/week/month/year or "". Engines
	// without a date qualifier ignore it.
	searchURL func(query, dateRange string) string
}

// ForName returns the adapter for an engine name.
func ForName(name string) (*Adapter, error) {
	switch name {
	case "duckduckgo":
		return DuckDuckGo(), nil
	case "google":
		return Google(), nil
	case "bing":
		return Bing(), nil
	default:
		return nil, fmt.Errorf("engine: unknown engine %q", name)
	}
}

// Names lists the supported engine names.
func Names() []string {
	return []string{"duckduckgo", "google", "bing"}
}

// SearchURL builds the full engine URL for query. Site and filetype
// qualifiers are appended to the query text itself (all engines understand
// them inline); the date range is passed to the engine-specific builder,
// which may ignore it.
func (a *Adapter) SearchURL(query, siteFilter, fileType, dateRange string) string {
	if siteFilter != "" {
		query += " site:" + siteFilter
	}
	if fileType != "" {
		query += " filetype:" + fileType
	}
	return a.searchURL(query, dateRange)
}

// Parse walks the rendered document and extracts results in document
// order. At most max result containers are processed, stopping early once
// that count is reached. A container missing its title or URL is skipped
// whole; partial records are never emitted.
func (a *Adapter) Parse(doc *html.Node, max int) []Result {
	var results []Result
	for i, c := range querySelectorAll(doc, a.container) {
		if i >= max {
			break
		}
		title := nodeText(queryFirst(c, a.title))
		u := a.resultURL(c)
		if title == "" || u == "" {
			continue
		}
		results = append(results, Result{
			Title:   title,
			URL:     u,
			Snippet: nodeText(queryFirst(c, a.snippet)),
		})
	}
	return results
}

// ParsePage parses raw rendered HTML and extracts results via Parse.
func (a *Adapter) ParsePage(rawHTML []byte, max int) ([]Result, error) {
	doc, err := html.Parse(bytes.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("engine: parse page: %w", err)
	}
	return a.Parse(doc, max), nil
}

// dateRangeCode maps the shared date-range names to Google's qdr codes.
func dateRangeCode(dateRange string) string {
	switch dateRange {
	case "day":
		return "d"
	case "week":
		return "w"
	case "month":
		return "m"
	case "year":
		return "y"
	default:
		return ""
	}
}
