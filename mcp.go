// CLAUDE:SUMMARY Registers all recherche MCP tools — search, extract, bulk search, clear cache, stats.
package recherche

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/recherche/kit"
)

// RegisterMCP registers recherche tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerSearchTool(srv)
	s.registerExtractTool(srv)
	s.registerBulkSearchTool(srv)
	s.registerClearCacheTool(srv)
	s.registerStatsTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// useCache interprets the optional use_cache argument, defaulting to true.
func useCache(v *bool) bool {
	return v == nil || *v
}

// --- search ---

type searchToolRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
	Engine     string `json:"engine,omitempty"`
	SiteFilter string `json:"site_filter,omitempty"`
	FileType   string `json:"file_type,omitempty"`
	DateRange  string `json:"date_range,omitempty"`
	UseCache   *bool  `json:"use_cache,omitempty"`
}

func (s *Service) registerSearchTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "recherche_search",
		Description: "Search the web via a rendered search engine page. Fresh cached results are returned without hitting the engine.",
		InputSchema: inputSchema(map[string]any{
			"query":       map[string]any{"type": "string", "description": "Search query"},
			"max_results": map[string]any{"type": "integer", "description": "Max results (default 10)"},
			"engine":      map[string]any{"type": "string", "enum": []any{"duckduckgo", "google", "bing"}, "description": "Search engine (default: duckduckgo)"},
			"site_filter": map[string]any{"type": "string", "description": "Restrict results to a domain (site: qualifier)"},
			"file_type":   map[string]any{"type": "string", "description": "Restrict results to a file type (filetype: qualifier)"},
			"date_range":  map[string]any{"type": "string", "enum": []any{"day", "week", "month", "year"}, "description": "Restrict results by age (google only)"},
			"use_cache":   map[string]any{"type": "boolean", "description": "Serve fresh cached results when available (default: true)"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*searchToolRequest)
		return s.Search(ctx, SearchRequest{
			Query:      r.Query,
			MaxResults: r.MaxResults,
			Engine:     Engine(r.Engine),
			SiteFilter: r.SiteFilter,
			FileType:   r.FileType,
			DateRange:  DateRange(r.DateRange),
			UseCache:   useCache(r.UseCache),
		})
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r searchToolRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- extract ---

type extractToolRequest struct {
	URL      string `json:"url"`
	Kind     string `json:"kind,omitempty"`
	UseCache *bool  `json:"use_cache,omitempty"`
}

func (s *Service) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "recherche_extract",
		Description: "Render a web page and extract its content. A fresh cached extraction for the URL is returned regardless of kind.",
		InputSchema: inputSchema(map[string]any{
			"url":       map[string]any{"type": "string", "description": "Page URL to render and extract"},
			"kind":      map[string]any{"type": "string", "enum": []any{"text", "links", "images", "markdown", "all"}, "description": "What to extract (default: text)"},
			"use_cache": map[string]any{"type": "boolean", "description": "Serve a fresh cached extraction when available (default: true)"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*extractToolRequest)
		return s.Extract(ctx, ExtractRequest{
			URL:      r.URL,
			Kind:     r.Kind,
			UseCache: useCache(r.UseCache),
		})
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r extractToolRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- bulk_search ---

type bulkSearchToolRequest struct {
	Queries     []string `json:"queries"`
	MaxPerQuery int      `json:"max_per_query,omitempty"`
	Engine      string   `json:"engine,omitempty"`
}

func (s *Service) registerBulkSearchTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "recherche_bulk_search",
		Description: "Run several searches sequentially. A failing query is reported on its own entry; the rest still run.",
		InputSchema: inputSchema(map[string]any{
			"queries":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Queries to run, in order"},
			"max_per_query": map[string]any{"type": "integer", "description": "Max results per query (default 10)"},
			"engine":        map[string]any{"type": "string", "enum": []any{"duckduckgo", "google", "bing"}, "description": "Search engine (default: duckduckgo)"},
		}, []string{"queries"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*bulkSearchToolRequest)
		return s.BulkSearch(ctx, r.Queries, r.MaxPerQuery, Engine(r.Engine))
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r bulkSearchToolRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- clear_cache ---

type clearCacheToolRequest struct {
	OlderThanDays  *int `json:"older_than_days,omitempty"`
	IncludeContent bool `json:"include_content,omitempty"`
}

type clearCacheToolResponse struct {
	Removed int64 `json:"removed"`
}

func (s *Service) registerClearCacheTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "recherche_clear_cache",
		Description: "Remove cached search results, all of them or only those older than a day count. Extracted content is kept unless include_content is set.",
		InputSchema: inputSchema(map[string]any{
			"older_than_days": map[string]any{"type": "integer", "description": "Only remove entries older than this many days; omit to remove everything"},
			"include_content": map[string]any{"type": "boolean", "description": "Also remove cached extracted content (default: false)"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*clearCacheToolRequest)
		removed, err := s.ClearCache(ctx, r.OlderThanDays, r.IncludeContent)
		if err != nil {
			return nil, err
		}
		return &clearCacheToolResponse{Removed: removed}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r clearCacheToolRequest
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- stats ---

func (s *Service) registerStatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "recherche_stats",
		Description: "Report cache row counts and entry timestamp ranges.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return s.Stats(ctx)
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
