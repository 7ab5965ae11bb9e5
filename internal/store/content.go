package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LookupContent returns the cached row for url if it is fresher than the
// content window, or nil. The stored bundle is returned regardless of
// which kind it was extracted with; the row's ContentType says which.
func (s *Store) LookupContent(ctx context.Context, url string) (*Content, error) {
	cutoff := time.Now().Add(-ContentTTL).UnixMilli()
	c := &Content{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT url, content, content_type, title, timestamp
		FROM extracted_content
		WHERE url = ? AND timestamp > ?`, url, cutoff).
		Scan(&c.URL, &c.Content, &c.ContentType, &c.Title, &c.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: lookup content: %w", err)
	}
	return c, nil
}

// UpsertContent replaces any existing row for c.URL wholesale. A later
// extraction overwrites the stored bundle and content type regardless of
// what kind was requested this time: latest extraction wins, so a
// links-only extraction destroys a previously cached text bundle.
func (s *Store) UpsertContent(ctx context.Context, c *Content) error {
	if c.Timestamp == 0 {
		c.Timestamp = time.Now().UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO extracted_content (url, content, content_type, title, timestamp)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			content      = excluded.content,
			content_type = excluded.content_type,
			title        = excluded.title,
			timestamp    = excluded.timestamp`,
		c.URL, c.Content, c.ContentType, c.Title, c.Timestamp)
	if err != nil {
		return fmt.Errorf("store: upsert content: %w", err)
	}
	return nil
}

// DeleteContentOlderThan removes content rows older than now−days. A nil
// days removes all content rows. Returns the count removed.
func (s *Store) DeleteContentOlderThan(ctx context.Context, days *int) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if days == nil {
		res, err = s.DB.ExecContext(ctx, `DELETE FROM extracted_content`)
	} else {
		cutoff := time.Now().Add(-time.Duration(*days) * 24 * time.Hour).UnixMilli()
		res, err = s.DB.ExecContext(ctx, `DELETE FROM extracted_content WHERE timestamp < ?`, cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("store: delete content: %w", err)
	}
	return res.RowsAffected()
}

// Stats holds aggregate counters for both cache tables.
type Stats struct {
	SearchRows    int64 `json:"search_rows"`
	ContentRows   int64 `json:"content_rows"`
	OldestSearch  int64 `json:"oldest_search,omitempty"`  // unix ms, 0 when empty
	NewestSearch  int64 `json:"newest_search,omitempty"`  // unix ms, 0 when empty
	OldestContent int64 `json:"oldest_content,omitempty"` // unix ms, 0 when empty
	NewestContent int64 `json:"newest_content,omitempty"` // unix ms, 0 when empty
}

// CacheStats returns row counts and timestamp bounds for both tables.
func (s *Store) CacheStats(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	var oldest, newest sql.NullInt64

	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(timestamp), MAX(timestamp) FROM search_results`).
		Scan(&st.SearchRows, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("store: search stats: %w", err)
	}
	st.OldestSearch, st.NewestSearch = oldest.Int64, newest.Int64

	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(timestamp), MAX(timestamp) FROM extracted_content`).
		Scan(&st.ContentRows, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("store: content stats: %w", err)
	}
	st.OldestContent, st.NewestContent = oldest.Int64, newest.Int64

	return st, nil
}
