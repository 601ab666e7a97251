// CLAUDE:SUMMARY Listing natural-key lookup, insert, field update, active fetch, and deactivation.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/jobwatch/dbopen"
)

const listingColumns = `id, source_id, external_id, title, company, location, department,
	description, job_type, url, posting_date, is_active, first_crawled_at, last_updated_at`

// FindListingByKey resolves the natural key for an incoming listing.
// With a non-empty externalID it matches either the external_id or the url
// (a posting may have changed one but not the other); with an empty
// externalID only the url identifies it. Returns (nil, nil) when absent.
func (s *Store) FindListingByKey(ctx context.Context, sourceID, externalID, url string) (*Listing, error) {
	var row *sql.Row
	if externalID != "" {
		row = s.DB.QueryRowContext(ctx,
			`SELECT `+listingColumns+` FROM listings
			WHERE source_id = ? AND (external_id = ? OR url = ?) LIMIT 1`,
			sourceID, externalID, url)
	} else {
		row = s.DB.QueryRowContext(ctx,
			`SELECT `+listingColumns+` FROM listings
			WHERE source_id = ? AND url = ? LIMIT 1`,
			sourceID, url)
	}
	return scanListing(row.Scan)
}

// InsertListing stores a new listing row, active by default.
func (s *Store) InsertListing(ctx context.Context, l *Listing) error {
	now := time.Now().UnixMilli()
	if l.FirstCrawledAt == 0 {
		l.FirstCrawledAt = now
	}
	if l.LastUpdatedAt == 0 {
		l.LastUpdatedAt = now
	}
	if l.JobType == "" {
		l.JobType = "unknown"
	}
	l.IsActive = true

	_, err := dbopen.Exec(ctx, s.DB,
		`INSERT INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		l.ID, l.SourceID, l.ExternalID, l.Title, l.Company, l.Location, l.Department,
		l.Description, l.JobType, l.URL, nullable(l.PostingDate),
		l.FirstCrawledAt, l.LastUpdatedAt,
	)
	return err
}

// UpdateListing overwrites the mutable fields of an existing row and forces
// it active. Identity fields (id, source_id, first_crawled_at) are untouched.
func (s *Store) UpdateListing(ctx context.Context, l *Listing) error {
	l.LastUpdatedAt = time.Now().UnixMilli()
	l.IsActive = true
	_, err := dbopen.Exec(ctx, s.DB,
		`UPDATE listings SET
			external_id = ?, title = ?, company = ?, location = ?, department = ?,
			description = ?, job_type = ?, url = ?, posting_date = ?,
			is_active = 1, last_updated_at = ?
		WHERE id = ?`,
		l.ExternalID, l.Title, l.Company, l.Location, l.Department,
		l.Description, l.JobType, l.URL, nullable(l.PostingDate),
		l.LastUpdatedAt, l.ID,
	)
	return err
}

// ActiveListings returns all currently active listings for a source.
func (s *Store) ActiveListings(ctx context.Context, sourceID string) ([]*Listing, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings
		WHERE source_id = ? AND is_active = 1`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*Listing
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// DeactivateListing retires a listing without deleting it.
func (s *Store) DeactivateListing(ctx context.Context, id string) error {
	_, err := dbopen.Exec(ctx, s.DB,
		`UPDATE listings SET is_active = 0, last_updated_at = ? WHERE id = ?`,
		time.Now().UnixMilli(), id)
	return err
}

// CountListings returns total and active listing counts for a source.
func (s *Store) CountListings(ctx context.Context, sourceID string) (total, active int, err error) {
	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_active), 0) FROM listings WHERE source_id = ?`,
		sourceID).Scan(&total, &active)
	return total, active, err
}

func scanListing(scan func(...any) error) (*Listing, error) {
	var l Listing
	var active int
	var postingDate sql.NullString
	err := scan(&l.ID, &l.SourceID, &l.ExternalID, &l.Title, &l.Company, &l.Location,
		&l.Department, &l.Description, &l.JobType, &l.URL, &postingDate,
		&active, &l.FirstCrawledAt, &l.LastUpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan listing: %w", err)
	}
	l.IsActive = active != 0
	l.PostingDate = postingDate.String
	return &l, nil
}

// nullable maps "" to SQL NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
