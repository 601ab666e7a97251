// CLAUDE:SUMMARY Crawl-run lifecycle: create on start, complete with counts, recent listing, stale-run triage.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/jobwatch/dbopen"
)

const runColumns = `id, source_id, status, jobs_found, jobs_new, jobs_updated,
	error_message, started_at, completed_at`

// CreateRun records the start of a crawl invocation.
func (s *Store) CreateRun(ctx context.Context, id, sourceID string) error {
	_, err := dbopen.Exec(ctx, s.DB,
		`INSERT INTO crawl_runs (id, source_id, status, started_at) VALUES (?, ?, 'started', ?)`,
		id, sourceID, time.Now().UnixMilli())
	return err
}

// CompleteRun marks a run completed with its final counts.
func (s *Store) CompleteRun(ctx context.Context, id string, found, newCount, updated int) error {
	_, err := dbopen.Exec(ctx, s.DB,
		`UPDATE crawl_runs SET status = 'completed', jobs_found = ?, jobs_new = ?,
		jobs_updated = ?, completed_at = ? WHERE id = ?`,
		found, newCount, updated, time.Now().UnixMilli(), id)
	return err
}

// RecentRuns returns the most recent crawl runs across all sources.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*CrawlRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+runColumns+` FROM crawl_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*CrawlRun
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FailStaleRuns marks non-terminal runs older than olderThan as failed.
// A run left in 'started' means the orchestrator died mid-crawl; the crawl
// is safe to retry, so stale rows are closed out rather than retried here.
// Returns the number of runs updated.
func (s *Store) FailStaleRuns(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	res, err := dbopen.Exec(ctx, s.DB,
		`UPDATE crawl_runs SET status = 'failed', error_message = 'stale: never completed',
		completed_at = ? WHERE status = 'started' AND started_at < ?`,
		time.Now().UnixMilli(), cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func scanRun(scan func(...any) error) (*CrawlRun, error) {
	var r CrawlRun
	var completed sql.NullInt64
	err := scan(&r.ID, &r.SourceID, &r.Status, &r.JobsFound, &r.JobsNew, &r.JobsUpdated,
		&r.ErrorMessage, &r.StartedAt, &completed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if completed.Valid {
		r.CompletedAt = &completed.Int64
	}
	return &r, nil
}
