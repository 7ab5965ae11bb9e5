// CLAUDE:SUMMARY Search result cache: TTL-aware lookup, conflict-replace upsert, age-bounded pruning.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/recherche/dbopen"
)

// LookupSearchResults returns cached rows for the exact (query, engine)
// pair fresher than the search window, newest first, truncated to limit.
// An empty slice is a cache miss; the caller cannot distinguish "never
// searched" from "searched but expired", and is not meant to.
func (s *Store) LookupSearchResults(ctx context.Context, query, engine string, limit int) ([]*SearchResult, error) {
	cutoff := time.Now().Add(-SearchTTL).UnixMilli()
	rows, err := s.DB.QueryContext(ctx,
		`SELECT query, url, title, snippet, search_engine, site_filter, file_type, date_range, timestamp
		FROM search_results
		WHERE query = ? AND search_engine = ? AND timestamp > ?
		ORDER BY timestamp DESC, id ASC
		LIMIT ?`, query, engine, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("store: lookup search results: %w", err)
	}
	defer rows.Close()

	var results []*SearchResult
	for rows.Next() {
		r := &SearchResult{}
		if err := rows.Scan(&r.Query, &r.URL, &r.Title, &r.Snippet, &r.Engine,
			&r.SiteFilter, &r.FileType, &r.DateRange, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("store: scan search result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// UpsertSearchResults writes each result, replacing any existing row that
// shares (query, url). Title, snippet, engine, qualifiers and timestamp are
// fully overwritten on replace — conflict-replace, not merge.
func (s *Store) UpsertSearchResults(ctx context.Context, results []*SearchResult) error {
	if len(results) == 0 {
		return nil
	}
	err := dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, r := range results {
			if r.Timestamp == 0 {
				r.Timestamp = time.Now().UnixMilli()
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO search_results
					(query, url, title, snippet, timestamp, search_engine, site_filter, file_type, date_range)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(query, url) DO UPDATE SET
					title         = excluded.title,
					snippet       = excluded.snippet,
					timestamp     = excluded.timestamp,
					search_engine = excluded.search_engine,
					site_filter   = excluded.site_filter,
					file_type     = excluded.file_type,
					date_range    = excluded.date_range`,
				r.Query, r.URL, r.Title, r.Snippet, r.Timestamp,
				r.Engine, r.SiteFilter, r.FileType, r.DateRange)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: upsert search results: %w", err)
	}
	return nil
}

// DeleteSearchOlderThan removes search rows older than now−days. A nil
// days removes all search rows. Returns the count removed.
func (s *Store) DeleteSearchOlderThan(ctx context.Context, days *int) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if days == nil {
		res, err = s.DB.ExecContext(ctx, `DELETE FROM search_results`)
	} else {
		cutoff := time.Now().Add(-time.Duration(*days) * 24 * time.Hour).UnixMilli()
		res, err = s.DB.ExecContext(ctx, `DELETE FROM search_results WHERE timestamp < ?`, cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("store: delete search results: %w", err)
	}
	return res.RowsAffected()
}
