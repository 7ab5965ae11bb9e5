package extract

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html><html>
<head>
  <title>  Sample Page  </title>
  <style>body { color: red; }</style>
  <script>var secret = "leaked";</script>
</head>
<body>
  <h1>Welcome</h1>
  <p>First   paragraph
     with broken    spacing.</p>
  <noscript>enable javascript</noscript>
  <a href="https://go.dev">Go website</a>
  <a href="https://empty.example">   </a>
  <a href="">no href</a>
  <a href="/relative">Relative</a>
  <img src="/logo.png" alt="Logo">
  <img src="/plain.png">
  <img src="" alt="placeholder">
  <img alt="no source">
</body></html>`

func TestExtract_Text(t *testing.T) {
	// WHAT: text extraction over a page with script, style and noscript.
	// WHY: non-visible subtrees must be excised before reading and runs of
	// whitespace collapsed to single spaces.
	res, err := Extract([]byte(samplePage), KindText)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Title != "Sample Page" {
		t.Errorf("title: got %q", res.Title)
	}
	if strings.Contains(res.Bundle.Text, "secret") {
		t.Error("script content leaked into text")
	}
	if strings.Contains(res.Bundle.Text, "color: red") {
		t.Error("style content leaked into text")
	}
	if strings.Contains(res.Bundle.Text, "enable javascript") {
		t.Error("noscript content leaked into text")
	}
	if !strings.Contains(res.Bundle.Text, "First paragraph with broken spacing.") {
		t.Errorf("whitespace not collapsed: %q", res.Bundle.Text)
	}
	if res.Bundle.Links != nil || res.Bundle.Images != nil {
		t.Error("text kind populated non-text keys")
	}
}

func TestExtract_Links(t *testing.T) {
	// WHAT: link extraction with empty-text, empty-href and relative anchors.
	// WHY: a link needs both a target and visible text; relative hrefs are
	// kept as written.
	res, err := Extract([]byte(samplePage), KindLinks)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Bundle.Links) != 2 {
		t.Fatalf("links: got %d, want 2", len(res.Bundle.Links))
	}
	if res.Bundle.Links[0].URL != "https://go.dev" || res.Bundle.Links[0].Text != "Go website" {
		t.Errorf("link[0]: got %+v", res.Bundle.Links[0])
	}
	if res.Bundle.Links[1].URL != "/relative" {
		t.Errorf("link[1]: got %+v", res.Bundle.Links[1])
	}
}

func TestExtract_Images(t *testing.T) {
	// WHAT: image extraction with a missing alt, an empty src and a missing
	// src.
	// WHY: the src attribute gates inclusion by presence, not value — an
	// empty src is kept, an absent one is dropped, and alt defaults to
	// empty. The filters are not symmetric with links.
	res, err := Extract([]byte(samplePage), KindImages)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(res.Bundle.Images) != 3 {
		t.Fatalf("images: got %d, want 3", len(res.Bundle.Images))
	}
	if res.Bundle.Images[0].Src != "/logo.png" || res.Bundle.Images[0].Alt != "Logo" {
		t.Errorf("image[0]: got %+v", res.Bundle.Images[0])
	}
	if res.Bundle.Images[1].Src != "/plain.png" || res.Bundle.Images[1].Alt != "" {
		t.Errorf("image[1]: got %+v", res.Bundle.Images[1])
	}
	if res.Bundle.Images[2].Src != "" || res.Bundle.Images[2].Alt != "placeholder" {
		t.Errorf("image[2]: got %+v", res.Bundle.Images[2])
	}
}

func TestExtract_All(t *testing.T) {
	// WHAT: the "all" kind over the same page.
	// WHY: all runs each extraction by its own rules; the keys must agree
	// with the individual kinds, and markdown stays empty.
	res, err := Extract([]byte(samplePage), KindAll)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Bundle.Text == "" {
		t.Error("all: empty text")
	}
	if len(res.Bundle.Links) != 2 {
		t.Errorf("all: got %d links, want 2", len(res.Bundle.Links))
	}
	if len(res.Bundle.Images) != 3 {
		t.Errorf("all: got %d images, want 3", len(res.Bundle.Images))
	}
	if res.Bundle.Markdown != "" {
		t.Errorf("all: markdown populated: %q", res.Bundle.Markdown)
	}
}

func TestExtract_Markdown(t *testing.T) {
	// WHAT: markdown conversion of a page with a heading, a link and an
	// inline script.
	// WHY: the body is sanitized before conversion, so script payloads
	// never reach the markdown output.
	page := `<html><head><title>T</title></head><body>
<h1>Heading</h1>
<p>See <a href="https://go.dev">the site</a>.</p>
<script>alert(1)</script>
</body></html>`

	res, err := Extract([]byte(page), KindMarkdown)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	md := res.Bundle.Markdown
	if !strings.Contains(md, "Heading") {
		t.Errorf("heading missing: %q", md)
	}
	if !strings.Contains(md, "https://go.dev") {
		t.Errorf("link target missing: %q", md)
	}
	if strings.Contains(md, "alert(1)") {
		t.Errorf("script leaked: %q", md)
	}
}

func TestExtract_UnknownKind(t *testing.T) {
	if _, err := Extract([]byte("<html></html>"), "video"); err == nil {
		t.Fatal("unknown kind: expected error")
	}
}

func TestValidKind(t *testing.T) {
	for _, k := range []string{KindText, KindLinks, KindImages, KindMarkdown, KindAll} {
		if !ValidKind(k) {
			t.Errorf("%s: expected valid", k)
		}
	}
	if ValidKind("") || ValidKind("pdf") {
		t.Error("invalid kinds accepted")
	}
}
