package recherche

// Engine names a supported search engine.
type Engine string

const (
	EngineDuckDuckGo Engine = "duckduckgo"
	EngineGoogle     Engine = "google"
	EngineBing       Engine = "bing"
)

// DateRange restricts search results by age. Only Google honours it on
// the wire; the other engines accept and ignore it.
type DateRange string

const (
	RangeDay   DateRange = "day"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeYear  DateRange = "year"
)

func validDateRange(d DateRange) bool {
	switch d {
	case "", RangeDay, RangeWeek, RangeMonth, RangeYear:
		return true
	}
	return false
}

// SearchRequest is one search invocation.
type SearchRequest struct {
	Query      string    `json:"query"`
	MaxResults int       `json:"max_results,omitempty"` // default from config
	Engine     Engine    `json:"engine,omitempty"`      // default duckduckgo
	SiteFilter string    `json:"site_filter,omitempty"` // site: qualifier
	FileType   string    `json:"file_type,omitempty"`   // filetype: qualifier
	DateRange  DateRange `json:"date_range,omitempty"`
	UseCache   bool      `json:"use_cache"`
}

// SearchResult is one search result record, cached or fresh.
type SearchResult struct {
	Query      string    `json:"query"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Snippet    string    `json:"snippet"`
	Engine     Engine    `json:"search_engine"`
	SiteFilter string    `json:"site_filter,omitempty"`
	FileType   string    `json:"file_type,omitempty"`
	DateRange  DateRange `json:"date_range,omitempty"`
	CreatedAt  int64     `json:"created_at"` // unix milliseconds
}

// ExtractRequest is one page-content extraction invocation.
type ExtractRequest struct {
	URL      string `json:"url"`
	Kind     string `json:"kind,omitempty"` // text|links|images|markdown|all, default text
	UseCache bool   `json:"use_cache"`
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

// Bundle is the partial or complete extraction output; only the keys for
// the requested kind are populated. Length truncation for presentation is
// the caller's concern, not performed here.
type Bundle struct {
	URL      string  `json:"url"`
	Title    string  `json:"title,omitempty"`
	Kind     string  `json:"content_type"`
	Text     string  `json:"text,omitempty"`
	Markdown string  `json:"markdown,omitempty"`
	Links    []Link  `json:"links,omitempty"`
	Images   []Image `json:"images,omitempty"`
	Cached   bool    `json:"cached"`
}

// BulkEntry pairs one bulk-search query with its results or its error.
// Exactly one of Results and Error is meaningful.
type BulkEntry struct {
	Query   string          `json:"query"`
	Results []*SearchResult `json:"results,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// CacheStats reports cache size and age bounds.
type CacheStats struct {
	SearchRows    int64 `json:"search_rows"`
	ContentRows   int64 `json:"content_rows"`
	OldestSearch  int64 `json:"oldest_search,omitempty"`
	NewestSearch  int64 `json:"newest_search,omitempty"`
	OldestContent int64 `json:"oldest_content,omitempty"`
	NewestContent int64 `json:"newest_content,omitempty"`
}
