package store

import (
	"context"
	"database/sql"
)

// CrawlStats returns aggregate counters across all sources.
func (s *Store) CrawlStats(ctx context.Context) (*Stats, error) {
	var st Stats
	var last sql.NullInt64
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_active), 0), COUNT(DISTINCT source_id),
		MAX(last_updated_at) FROM listings`).
		Scan(&st.TotalListings, &st.ActiveListings, &st.Sources, &last)
	if err != nil {
		return nil, err
	}
	if last.Valid {
		st.LastCrawlAt = &last.Int64
	}
	return &st, nil
}
