package engine

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parse(t *testing.T, page string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestQuerySelectorAll_DocumentOrder(t *testing.T) {
	doc := parse(t, `<div class="r" id="one"></div><span class="r" id="two"></span><div class="r" id="three"></div>`)

	nodes := querySelectorAll(doc, ".r")
	if len(nodes) != 3 {
		t.Fatalf("matches: got %d, want 3", len(nodes))
	}
	for i, want := range []string{"one", "two", "three"} {
		if got := attrVal(nodes[i], "id"); got != want {
			t.Errorf("order[%d]: got %q, want %q", i, got, want)
		}
	}
}

func TestQuerySelectorAll_TagClass(t *testing.T) {
	doc := parse(t, `<div class="g extra"></div><span class="g"></span><div class="other"></div>`)

	nodes := querySelectorAll(doc, "div.g")
	if len(nodes) != 1 {
		t.Fatalf("div.g: got %d, want 1", len(nodes))
	}

	// Multi-valued class attributes match on any token.
	if !hasClass(nodes[0], "extra") {
		t.Error("hasClass: extra token not found")
	}
}

func TestQuerySelectorAll_Descendant(t *testing.T) {
	doc := parse(t, `<div class="b_caption"><p id="in"></p></div><p id="out"></p>`)

	nodes := querySelectorAll(doc, ".b_caption p")
	if len(nodes) != 1 {
		t.Fatalf(".b_caption p: got %d, want 1", len(nodes))
	}
	if attrVal(nodes[0], "id") != "in" {
		t.Errorf("matched wrong p: %q", attrVal(nodes[0], "id"))
	}
}

func TestQuerySelectorAll_ID(t *testing.T) {
	doc := parse(t, `<div id="links"></div><div id="other"></div>`)

	nodes := querySelectorAll(doc, "#links")
	if len(nodes) != 1 || attrVal(nodes[0], "id") != "links" {
		t.Fatalf("#links: got %d matches", len(nodes))
	}
}

func TestQueryFirst_Nil(t *testing.T) {
	doc := parse(t, `<div></div>`)
	if n := queryFirst(doc, ".missing"); n != nil {
		t.Fatalf("missing selector: got %v", n)
	}
}

func TestNodeText_Collapses(t *testing.T) {
	doc := parse(t, "<p>  hello\n\t <b>bold</b>  world </p>")
	p := queryFirst(doc, "p")
	if got := nodeText(p); got != "hello bold world" {
		t.Errorf("nodeText: got %q", got)
	}
	if got := nodeText(nil); got != "" {
		t.Errorf("nil node: got %q", got)
	}
}

func TestFirstAnchorHref(t *testing.T) {
	doc := parse(t, `<div><a></a><a href="/rel">rel</a><a href="https://abs.example">abs</a></div>`)

	// nil accept: first non-empty href wins.
	if got := firstAnchorHref(doc, nil); got != "/rel" {
		t.Errorf("nil accept: got %q", got)
	}

	// accept filters until a candidate passes.
	got := firstAnchorHref(doc, func(href string) bool {
		return strings.HasPrefix(href, "https://")
	})
	if got != "https://abs.example" {
		t.Errorf("accept filter: got %q", got)
	}
}
