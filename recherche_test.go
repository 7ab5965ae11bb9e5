package recherche

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/recherche/dbopen"
	"github.com/hazyhaar/recherche/internal/store"
)

const resultsPage = `<!DOCTYPE html><html><body>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="https://go.dev/doc/">Go Documentation</a></h2>
  <a class="result__snippet">Official docs.</a>
</div>
<div class="result">
  <h2 class="result__title"><a class="result__a" href="https://go.dev/blog/">Go Blog</a></h2>
  <a class="result__snippet">Official posts.</a>
</div>
</body></html>`

const contentPage = `<!DOCTYPE html><html><head><title>Article</title></head><body>
<p>Body text here.</p>
<a href="https://go.dev">Go</a>
<img src="/pic.png" alt="Pic">
</body></html>`

// fakeRenderer serves canned pages keyed by URL substring and counts calls.
type fakeRenderer struct {
	pages map[string]string // URL substring -> page
	fail  string            // URL substring that fails
	calls int
}

func (f *fakeRenderer) Render(_ context.Context, url string) ([]byte, error) {
	f.calls++
	if f.fail != "" && strings.Contains(url, f.fail) {
		return nil, fmt.Errorf("navigate %s: connection refused", url)
	}
	for sub, page := range f.pages {
		if strings.Contains(url, sub) {
			return []byte(page), nil
		}
	}
	return []byte("<html></html>"), nil
}

func (f *fakeRenderer) Close() error { return nil }

func testService(t *testing.T, r *fakeRenderer) *Service {
	t.Helper()
	db := dbopen.OpenMemory(t)
	if err := store.ApplySchema(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return New(db, r, &Config{}, slog.Default())
}

func TestSearch_CacheRoundTrip(t *testing.T) {
	// WHAT: the same search twice with the cache enabled.
	// WHY: the second request must be served from the cache without
	// touching the renderer, with identical rows.
	r := &fakeRenderer{pages: map[string]string{"duckduckgo": resultsPage}}
	svc := testService(t, r)
	ctx := context.Background()

	first, err := svc.Search(ctx, SearchRequest{Query: "golang", UseCache: true})
	if err != nil {
		t.Fatalf("first search: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first search: got %d results, want 2", len(first))
	}
	if r.calls != 1 {
		t.Fatalf("renders after miss: got %d, want 1", r.calls)
	}

	second, err := svc.Search(ctx, SearchRequest{Query: "golang", UseCache: true})
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if r.calls != 1 {
		t.Fatalf("renders after hit: got %d, want 1", r.calls)
	}
	if len(second) != 2 {
		t.Fatalf("second search: got %d results", len(second))
	}
	for i := range first {
		if *second[i] != *first[i] {
			t.Errorf("result[%d]: cached %+v != fetched %+v", i, *second[i], *first[i])
		}
	}
	if first[0].URL != "https://go.dev/doc/" || first[0].Title != "Go Documentation" {
		t.Errorf("result[0]: got %+v", first[0])
	}
}

func TestSearch_CacheBypass(t *testing.T) {
	// WHAT: UseCache false on a query that is already cached.
	// WHY: bypass re-fetches but still writes through, refreshing the rows.
	r := &fakeRenderer{pages: map[string]string{"duckduckgo": resultsPage}}
	svc := testService(t, r)
	ctx := context.Background()

	if _, err := svc.Search(ctx, SearchRequest{Query: "golang", UseCache: true}); err != nil {
		t.Fatalf("prime: %v", err)
	}
	if _, err := svc.Search(ctx, SearchRequest{Query: "golang", UseCache: false}); err != nil {
		t.Fatalf("bypass: %v", err)
	}
	if r.calls != 2 {
		t.Fatalf("renders: got %d, want 2", r.calls)
	}

	// Write-through happened: same rows, no duplicates.
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SearchRows != 2 {
		t.Fatalf("SearchRows: got %d, want 2", stats.SearchRows)
	}
}

func TestSearch_RenderFailure(t *testing.T) {
	r := &fakeRenderer{fail: "duckduckgo"}
	svc := testService(t, r)

	_, err := svc.Search(context.Background(), SearchRequest{Query: "golang"})
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("error: got %v, want ErrRenderFailed", err)
	}
}

func TestSearch_InvalidInput(t *testing.T) {
	svc := testService(t, &fakeRenderer{})
	ctx := context.Background()

	cases := []SearchRequest{
		{},
		{Query: "x", Engine: "altavista"},
		{Query: "x", DateRange: "decade"},
	}
	for i, req := range cases {
		if _, err := svc.Search(ctx, req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: got %v, want ErrInvalidInput", i, err)
		}
	}
}

func TestSearch_EmptyPageIsNotAnError(t *testing.T) {
	// WHAT: a page that renders fine but contains no result containers.
	// WHY: no matches is a valid outcome, distinct from a render failure.
	r := &fakeRenderer{} // falls through to empty page
	svc := testService(t, r)

	results, err := svc.Search(context.Background(), SearchRequest{Query: "zxqj"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("results: got %d, want 0", len(results))
	}
}

func TestSearch_StorageFailure(t *testing.T) {
	// WHAT: a search whose write-through hits a broken table.
	// WHY: cache write failures are surfaced, not swallowed — a request
	// that cannot persist its results fails.
	r := &fakeRenderer{pages: map[string]string{"duckduckgo": resultsPage}}
	db := dbopen.OpenMemory(t)
	if err := store.ApplySchema(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	svc := New(db, r, &Config{}, slog.Default())
	if _, err := db.Exec(`DROP TABLE search_results`); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := svc.Search(context.Background(), SearchRequest{Query: "golang", UseCache: false})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("error: got %v, want ErrStorage", err)
	}
}

func TestExtract_CacheIgnoresKind(t *testing.T) {
	// WHAT: extracting text then requesting links from the same URL.
	// WHY: the content cache is keyed by URL alone — a fresh entry is
	// served whatever kind it was written with.
	r := &fakeRenderer{pages: map[string]string{"example.com": contentPage}}
	svc := testService(t, r)
	ctx := context.Background()

	first, err := svc.Extract(ctx, ExtractRequest{URL: "https://example.com/article", Kind: "text", UseCache: true})
	if err != nil {
		t.Fatalf("first extract: %v", err)
	}
	if first.Cached {
		t.Error("first extract: cached flag set")
	}
	if first.Kind != "text" || !strings.Contains(first.Text, "Body text here.") {
		t.Errorf("first extract: got %+v", first)
	}
	if first.Title != "Article" {
		t.Errorf("title: got %q", first.Title)
	}

	second, err := svc.Extract(ctx, ExtractRequest{URL: "https://example.com/article", Kind: "links", UseCache: true})
	if err != nil {
		t.Fatalf("second extract: %v", err)
	}
	if r.calls != 1 {
		t.Fatalf("renders: got %d, want 1", r.calls)
	}
	if !second.Cached {
		t.Error("second extract: cached flag not set")
	}
	if second.Kind != "text" {
		t.Errorf("second extract kind: got %q, want text (cached)", second.Kind)
	}
	if second.Text != first.Text {
		t.Errorf("cached text differs: %q vs %q", second.Text, first.Text)
	}
}

func TestExtract_BypassReextracts(t *testing.T) {
	// WHAT: a cache bypass with a different kind after a text extraction.
	// WHY: bypass replaces the cached row wholesale; the latest extraction
	// wins for subsequent cached reads.
	r := &fakeRenderer{pages: map[string]string{"example.com": contentPage}}
	svc := testService(t, r)
	ctx := context.Background()

	if _, err := svc.Extract(ctx, ExtractRequest{URL: "https://example.com/a", Kind: "text", UseCache: true}); err != nil {
		t.Fatalf("prime: %v", err)
	}
	links, err := svc.Extract(ctx, ExtractRequest{URL: "https://example.com/a", Kind: "links", UseCache: false})
	if err != nil {
		t.Fatalf("bypass: %v", err)
	}
	if len(links.Links) != 1 || links.Links[0].URL != "https://go.dev" {
		t.Fatalf("links: got %+v", links.Links)
	}

	cached, err := svc.Extract(ctx, ExtractRequest{URL: "https://example.com/a", Kind: "text", UseCache: true})
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if cached.Kind != "links" {
		t.Errorf("cached kind after replace: got %q, want links", cached.Kind)
	}
	if r.calls != 2 {
		t.Fatalf("renders: got %d, want 2", r.calls)
	}
}

func TestExtract_InvalidInput(t *testing.T) {
	svc := testService(t, &fakeRenderer{})
	ctx := context.Background()

	if _, err := svc.Extract(ctx, ExtractRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty url: got %v", err)
	}
	if _, err := svc.Extract(ctx, ExtractRequest{URL: "https://x.example", Kind: "video"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown kind: got %v", err)
	}
}

func TestBulkSearch_IsolatesFailures(t *testing.T) {
	// WHAT: three queries where the middle one fails to render.
	// WHY: a failing query is reported on its own entry while the others
	// still return results, in input order.
	r := &fakeRenderer{
		pages: map[string]string{"q=alpha": resultsPage, "q=gamma": resultsPage},
		fail:  "q=beta",
	}
	svc := testService(t, r)

	entries, err := svc.BulkSearch(context.Background(), []string{"alpha", "beta", "gamma"}, 5, EngineDuckDuckGo)
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries: got %d, want 3", len(entries))
	}
	for i, q := range []string{"alpha", "beta", "gamma"} {
		if entries[i].Query != q {
			t.Errorf("entry[%d].Query: got %q, want %q", i, entries[i].Query, q)
		}
	}
	if entries[0].Error != "" || len(entries[0].Results) != 2 {
		t.Errorf("entry[0]: %+v", entries[0])
	}
	if entries[1].Error == "" || entries[1].Results != nil {
		t.Errorf("entry[1]: expected error, got %+v", entries[1])
	}
	if entries[2].Error != "" || len(entries[2].Results) != 2 {
		t.Errorf("entry[2]: %+v", entries[2])
	}
}

func TestBulkSearch_EmptyQueries(t *testing.T) {
	svc := testService(t, &fakeRenderer{})
	if _, err := svc.BulkSearch(context.Background(), nil, 5, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty queries: got %v", err)
	}
}

func TestClearCache(t *testing.T) {
	// WHAT: clearing after one search and one extraction, first without
	// include_content and then with it.
	// WHY: search rows and content rows are cleared independently; content
	// survives the default clear.
	r := &fakeRenderer{pages: map[string]string{
		"duckduckgo":  resultsPage,
		"example.com": contentPage,
	}}
	svc := testService(t, r)
	ctx := context.Background()

	if _, err := svc.Search(ctx, SearchRequest{Query: "golang"}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := svc.Extract(ctx, ExtractRequest{URL: "https://example.com/a", Kind: "text"}); err != nil {
		t.Fatalf("extract: %v", err)
	}

	removed, err := svc.ClearCache(ctx, nil, false)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed: got %d, want 2", removed)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SearchRows != 0 {
		t.Errorf("SearchRows: got %d, want 0", stats.SearchRows)
	}
	if stats.ContentRows != 1 {
		t.Errorf("ContentRows: got %d, want 1 (content preserved)", stats.ContentRows)
	}

	removed, err = svc.ClearCache(ctx, nil, true)
	if err != nil {
		t.Fatalf("clear with content: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed with content: got %d, want 1", removed)
	}
}
