package engine

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// The adapters only need a small CSS subset:
//   - tag: "li", "h3"
//   - .class: ".result", ".b_caption"
//   - #id: "#links"
//   - tag.class: "div.g", "li.b_algo"
//   - descendant combinator: ".b_caption p"

type simpleSelector struct {
	tag   string
	id    string
	class string
}

// parseSimpleSelector parses "tag.class", "#id", "tag#id", etc.
func parseSimpleSelector(sel string) simpleSelector {
	var s simpleSelector

	if idx := strings.IndexByte(sel, '#'); idx >= 0 {
		s.id = sel[idx+1:]
		sel = sel[:idx]
	}
	if idx := strings.IndexByte(sel, '.'); idx >= 0 {
		s.class = sel[idx+1:]
		sel = sel[:idx]
	}
	s.tag = sel
	return s
}

func matchesSelector(n *html.Node, s simpleSelector) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" && attrVal(n, "id") != s.id {
		return false
	}
	if s.class != "" && !hasClass(n, s.class) {
		return false
	}
	return true
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// querySelectorAll returns all nodes matching a selector, in document
// order. Space-separated parts are descendant combinators.
func querySelectorAll(root *html.Node, selector string) []*html.Node {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil
	}

	matches := matchSimple(root, parts[0])
	for i := 1; i < len(parts); i++ {
		var next []*html.Node
		for _, parent := range matches {
			next = append(next, matchSimple(parent, parts[i])...)
		}
		matches = next
	}
	return matches
}

// queryFirst returns the first node matching a selector, or nil.
func queryFirst(root *html.Node, selector string) *html.Node {
	matches := querySelectorAll(root, selector)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// matchSimple finds all descendants of root matching a single selector part.
func matchSimple(root *html.Node, sel string) []*html.Node {
	m := parseSimpleSelector(sel)
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n != root && matchesSelector(n, m) {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return results
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

var multiSpaceRe = regexp.MustCompile(`\s+`)

// nodeText returns the visible text of a subtree, whitespace-collapsed
// and trimmed. Returns "" for a nil node.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(b.String(), " "))
}

// firstAnchorHref returns the href of the first descendant anchor that
// satisfies accept, or "". A nil accept accepts any non-empty href.
func firstAnchorHref(root *html.Node, accept func(href string) bool) string {
	var found string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attrVal(n, "href")
			if href != "" && (accept == nil || accept(href)) {
				found = href
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}
