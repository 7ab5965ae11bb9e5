// CLAUDE:SUMMARY Service orchestrator: cache lookup, render-on-miss, write-through, bulk isolation.
// Package recherche issues web searches and page-content extractions
// against multiple engines through a rendering browser, persisting every
// successful fetch in a local SQLite cache.
//
// Request flow: check cache → on miss, render the page and parse/extract
// → write through to the cache → return. Render and storage failures are
// fatal for the single request they occur in and are surfaced verbatim;
// there are no retries anywhere in the pipeline.
package recherche

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/recherche/internal/engine"
	"github.com/hazyhaar/recherche/internal/extract"
	"github.com/hazyhaar/recherche/internal/store"
)

// Renderer is the browser capability the service consumes. Render returns
// the full rendered DOM; a loaded-but-empty page is empty bytes with a
// nil error, distinct from a navigation failure.
type Renderer interface {
	Render(ctx context.Context, url string) ([]byte, error)
	Close() error
}

// Service is the search-and-extraction orchestrator.
type Service struct {
	store    *store.Store
	renderer Renderer
	config   *Config
	logger   *slog.Logger

	// renderMu bounds the system to one in-flight browser session even
	// when tool calls arrive concurrently.
	renderMu sync.Mutex
}

// New creates a Service on an open cache database and a renderer.
func New(db *sql.DB, r Renderer, cfg *Config, logger *slog.Logger) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store.NewStore(db),
		renderer: r,
		config:   cfg,
		logger:   logger,
	}
}

// Close shuts down the renderer.
func (s *Service) Close() error {
	s.logger.Info("recherche: closed")
	return s.renderer.Close()
}

// Search runs one search request. With UseCache set, fresh cached rows
// for (query, engine) short-circuit the renderer entirely; expired rows
// are indistinguishable from absent ones. Every successful fetch is
// written through, also when UseCache is false.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]*SearchResult, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if req.Engine == "" {
		req.Engine = EngineDuckDuckGo
	}
	if !validDateRange(req.DateRange) {
		return nil, fmt.Errorf("%w: unknown date range %q", ErrInvalidInput, req.DateRange)
	}
	if req.MaxResults <= 0 {
		req.MaxResults = s.config.MaxResults
	}

	adapter, err := engine.ForName(string(req.Engine))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.UseCache {
		rows, err := s.store.LookupSearchResults(ctx, req.Query, string(req.Engine), req.MaxResults)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if len(rows) > 0 {
			s.logger.Debug("recherche: search cache hit",
				"query", req.Query, "engine", req.Engine, "count", len(rows))
			return fromStoreResults(rows), nil
		}
	}

	searchURL := adapter.SearchURL(req.Query, req.SiteFilter, req.FileType, string(req.DateRange))
	raw, err := s.render(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	parsed, err := adapter.ParsePage(raw, req.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	now := time.Now().UnixMilli()
	results := make([]*SearchResult, len(parsed))
	for i, p := range parsed {
		results[i] = &SearchResult{
			Query:      req.Query,
			URL:        p.URL,
			Title:      p.Title,
			Snippet:    p.Snippet,
			Engine:     req.Engine,
			SiteFilter: req.SiteFilter,
			FileType:   req.FileType,
			DateRange:  req.DateRange,
			CreatedAt:  now,
		}
	}

	if err := s.store.UpsertSearchResults(ctx, toStoreResults(results)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.logger.Info("recherche: search fetched",
		"query", req.Query, "engine", req.Engine, "count", len(results))
	return results, nil
}

// Extract runs one page-content extraction. A fresh cached row for the
// URL is returned regardless of which kind it was written with; a miss
// renders the page, extracts the requested kind, and replaces the cached
// row wholesale (latest extraction wins).
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (*Bundle, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	if req.Kind == "" {
		req.Kind = extract.KindText
	}
	if !extract.ValidKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown extract kind %q", ErrInvalidInput, req.Kind)
	}

	if req.UseCache {
		row, err := s.store.LookupContent(ctx, req.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if row != nil {
			var payload bundlePayload
			if err := json.Unmarshal([]byte(row.Content), &payload); err != nil {
				return nil, fmt.Errorf("%w: corrupt cached bundle for %s: %v", ErrStorage, req.URL, err)
			}
			s.logger.Debug("recherche: extract cache hit", "url", req.URL, "kind", row.ContentType)
			return payload.bundle(req.URL, row.Title, row.ContentType, true), nil
		}
	}

	raw, err := s.render(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	res, err := extract.Extract(raw, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	payload := bundlePayload{
		Text:     res.Bundle.Text,
		Markdown: res.Bundle.Markdown,
	}
	for _, l := range res.Bundle.Links {
		payload.Links = append(payload.Links, Link{Text: l.Text, URL: l.URL})
	}
	for _, im := range res.Bundle.Images {
		payload.Images = append(payload.Images, Image{Alt: im.Alt, Src: im.Src})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("recherche: marshal bundle: %w", err)
	}
	if err := s.store.UpsertContent(ctx, &store.Content{
		URL:         req.URL,
		Content:     string(data),
		ContentType: req.Kind,
		Title:       res.Title,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.logger.Info("recherche: content extracted", "url", req.URL, "kind", req.Kind)
	return payload.bundle(req.URL, res.Title, req.Kind, false), nil
}

// BulkSearch runs queries sequentially, isolating failures per query: one
// query's render failure is captured on its entry while the remaining
// queries still execute. The result preserves input order.
func (s *Service) BulkSearch(ctx context.Context, queries []string, maxPerQuery int, eng Engine) ([]BulkEntry, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: queries are required", ErrInvalidInput)
	}

	entries := make([]BulkEntry, len(queries))
	for i, q := range queries {
		entries[i].Query = q
		results, err := s.Search(ctx, SearchRequest{
			Query:      q,
			MaxResults: maxPerQuery,
			Engine:     eng,
			UseCache:   true,
		})
		if err != nil {
			s.logger.Warn("recherche: bulk query failed", "query", q, "error", err)
			entries[i].Error = err.Error()
			continue
		}
		entries[i].Results = results
	}
	return entries, nil
}

// ClearCache removes search rows older than olderThanDays (all of them
// when nil) and returns the count removed. Content rows are only pruned
// when includeContent is set; the default preserves them, and the total
// then includes both tables.
func (s *Service) ClearCache(ctx context.Context, olderThanDays *int, includeContent bool) (int64, error) {
	removed, err := s.store.DeleteSearchOlderThan(ctx, olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if includeContent {
		n, err := s.store.DeleteContentOlderThan(ctx, olderThanDays)
		if err != nil {
			return removed, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		removed += n
	}
	s.logger.Info("recherche: cache cleared", "removed", removed, "include_content", includeContent)
	return removed, nil
}

// Stats returns aggregate cache counters.
func (s *Service) Stats(ctx context.Context) (*CacheStats, error) {
	st, err := s.store.CacheStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &CacheStats{
		SearchRows:    st.SearchRows,
		ContentRows:   st.ContentRows,
		OldestSearch:  st.OldestSearch,
		NewestSearch:  st.NewestSearch,
		OldestContent: st.OldestContent,
		NewestContent: st.NewestContent,
	}, nil
}

// render serializes all browser use behind one mutex so a single Chrome
// session is ever in flight.
func (s *Service) render(ctx context.Context, url string) ([]byte, error) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	return s.renderer.Render(ctx, url)
}

// bundlePayload is the serialized form stored in the content column.
type bundlePayload struct {
	Text     string  `json:"text,omitempty"`
	Markdown string  `json:"markdown,omitempty"`
	Links    []Link  `json:"links,omitempty"`
	Images   []Image `json:"images,omitempty"`
}

func (p bundlePayload) bundle(url, title, kind string, cached bool) *Bundle {
	return &Bundle{
		URL:      url,
		Title:    title,
		Kind:     kind,
		Text:     p.Text,
		Markdown: p.Markdown,
		Links:    p.Links,
		Images:   p.Images,
		Cached:   cached,
	}
}

func toStoreResults(results []*SearchResult) []*store.SearchResult {
	rows := make([]*store.SearchResult, len(results))
	for i, r := range results {
		rows[i] = &store.SearchResult{
			Query:      r.Query,
			URL:        r.URL,
			Title:      r.Title,
			Snippet:    r.Snippet,
			Engine:     string(r.Engine),
			SiteFilter: r.SiteFilter,
			FileType:   r.FileType,
			DateRange:  string(r.DateRange),
			Timestamp:  r.CreatedAt,
		}
	}
	return rows
}

func fromStoreResults(rows []*store.SearchResult) []*SearchResult {
	results := make([]*SearchResult, len(rows))
	for i, r := range rows {
		results[i] = &SearchResult{
			Query:      r.Query,
			URL:        r.URL,
			Title:      r.Title,
			Snippet:    r.Snippet,
			Engine:     Engine(r.Engine),
			SiteFilter: r.SiteFilter,
			FileType:   r.FileType,
			DateRange:  DateRange(r.DateRange),
			CreatedAt:  r.Timestamp,
		}
	}
	return results
}
