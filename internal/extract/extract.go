// CLAUDE:SUMMARY Turns a rendered page into a {text, links, images, markdown} bundle per requested kind.
// Package extract turns a rendered page into a structured content bundle.
//
// The caller requests a kind; the bundle carries only the matching keys:
//   - text:     page text with script/style/noscript excised, trimmed
//   - links:    anchors with a non-empty href and non-empty visible text
//   - images:   every image with a src, alt defaulting to ""
//   - markdown: sanitized body HTML converted to markdown
//   - all:      text, links and images, each by its own rule set
package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extraction kinds.
const (
	KindText     = "text"
	KindLinks    = "links"
	KindImages   = "images"
	KindMarkdown = "markdown"
	KindAll      = "all"
)

// ValidKind reports whether kind names a supported extraction.
func ValidKind(kind string) bool {
	switch kind {
	case KindText, KindLinks, KindImages, KindMarkdown, KindAll:
		return true
	}
	return false
}

// Link is an anchor paired with its visible text.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Image is an image source paired with its alt text.
type Image struct {
	Alt string `json:"alt"`
	Src string `json:"src"`
}

// Bundle is the partial or complete extraction output. Only the keys
// matching the requested kind are populated.
type Bundle struct {
	Text     string  `json:"text,omitempty"`
	Markdown string  `json:"markdown,omitempty"`
	Links    []Link  `json:"links,omitempty"`
	Images   []Image `json:"images,omitempty"`
}

// Result is the output of one extraction run.
type Result struct {
	Bundle Bundle
	Title  string
}

// Extract parses the rendered page and runs the requested extraction.
// The "all" kind runs text, links and images independently — it is not a
// derived union of prior outputs.
func Extract(rawHTML []byte, kind string) (*Result, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("extract: unknown kind %q", kind)
	}

	doc, err := html.Parse(bytes.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("extract: parse HTML: %w", err)
	}

	res := &Result{Title: findTitle(doc)}

	if kind == KindText || kind == KindAll {
		res.Bundle.Text = extractText(doc)
	}
	if kind == KindLinks || kind == KindAll {
		res.Bundle.Links = extractLinks(doc)
	}
	if kind == KindImages || kind == KindAll {
		res.Bundle.Images = extractImages(doc)
	}
	if kind == KindMarkdown {
		md, err := toMarkdown(doc)
		if err != nil {
			return nil, err
		}
		res.Bundle.Markdown = md
	}

	return res, nil
}

// extractText collects all text content with script, style and noscript
// subtrees excised before reading.
func extractText(doc *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return collapseWhitespace(b.String())
}

// extractLinks collects every anchor with a non-empty href, paired with
// its trimmed visible text. Anchors with empty visible text or empty href
// are dropped.
func extractLinks(doc *html.Node) []Link {
	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			href := nodeAttr(n, "href")
			text := collapseWhitespace(rawText(n))
			if href != "" && text != "" {
				links = append(links, Link{Text: text, URL: href})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

// extractImages collects every image carrying a src attribute, even an
// empty one, with alt defaulting to the empty string. Images are not
// filtered by alt presence.
func extractImages(doc *html.Node) []Image {
	var images []Image
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			if src, ok := lookupAttr(n, "src"); ok {
				images = append(images, Image{Alt: nodeAttr(n, "alt"), Src: src})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return images
}

// findTitle extracts the <title> text.
func findTitle(doc *html.Node) string {
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			if n.FirstChild != nil {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

func rawText(n *html.Node) string {
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
	return b.String()
}

func nodeAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

var multiSpaceRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}
