package extract

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

var mdSanitizer = bluemonday.UGCPolicy()

// toMarkdown renders the document body, strips markup the sanitizer does
// not allow (scripts, event handlers, embedded frames), and converts the
// remainder to markdown.
func toMarkdown(doc *html.Node) (string, error) {
	body := findBody(doc)
	if body == nil {
		body = doc
	}

	var b strings.Builder
	if err := html.Render(&b, body); err != nil {
		return "", fmt.Errorf("extract: render body: %w", err)
	}

	clean := mdSanitizer.Sanitize(b.String())
	md, err := mdConverter.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("extract: convert markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for c := n.FirstChild; c != nil && body == nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return body
}
