// Package store implements the SQLite-backed result cache: search results
// with a 24-hour freshness window and extracted content with a 7-day
// window. Writes use conflict-replace semantics keyed by the natural
// uniqueness constraint of each table, so concurrent upserts for the same
// key are last-writer-wins with no partial rows.
package store

import (
	"database/sql"
	"time"
)

// Freshness windows. A row older than its window is treated as absent.
const (
	SearchTTL  = 24 * time.Hour
	ContentTTL = 7 * 24 * time.Hour
)

// Store provides cache operations on an open database handle. The handle
// is passed in explicitly; the store never owns global connection state.
type Store struct {
	DB *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// SearchResult is one cached search result row.
type SearchResult struct {
	Query      string `json:"query"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
	Engine     string `json:"search_engine"`
	SiteFilter string `json:"site_filter,omitempty"`
	FileType   string `json:"file_type,omitempty"`
	DateRange  string `json:"date_range,omitempty"`
	Timestamp  int64  `json:"timestamp"` // unix milliseconds
}

// Content is one cached extraction row. Content holds the JSON-serialized
// bundle produced at write time; ContentType records which kind was
// requested when the row was written.
type Content struct {
	URL         string `json:"url"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Timestamp   int64  `json:"timestamp"` // unix milliseconds
}
