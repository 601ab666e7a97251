// CLAUDE:SUMMARY Source reads plus insert for seeding; target_departments stored as a JSON list.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const sourceColumns = `id, name, url, platform, enabled, target_departments, created_at, updated_at`

// InsertSource adds a source. Sources are normally created by the config
// surface; the engine itself only reads them. Used by the CLI seeder and
// tests.
func (s *Store) InsertSource(ctx context.Context, src *Source) error {
	now := time.Now().UnixMilli()
	if src.CreatedAt == 0 {
		src.CreatedAt = now
	}
	if src.UpdatedAt == 0 {
		src.UpdatedAt = now
	}

	depts, err := json.Marshal(src.TargetDepartments)
	if err != nil {
		return fmt.Errorf("marshal target departments: %w", err)
	}
	if src.TargetDepartments == nil {
		depts = []byte("[]")
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO job_sources (`+sourceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		src.ID, src.Name, src.URL, src.Platform, src.Enabled, string(depts),
		src.CreatedAt, src.UpdatedAt,
	)
	return err
}

// GetSource retrieves a source by ID. Returns (nil, nil) when absent.
func (s *Store) GetSource(ctx context.Context, id string) (*Source, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM job_sources WHERE id = ?`, id)
	return scanSource(row.Scan)
}

// ListEnabledSources returns all enabled sources, oldest first.
func (s *Store) ListEnabledSources(ctx context.Context) ([]*Source, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+sourceColumns+` FROM job_sources WHERE enabled = 1 ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*Source
	for rows.Next() {
		src, err := scanSource(rows.Scan)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// ListSources returns all sources, enabled first.
func (s *Store) ListSources(ctx context.Context) ([]*Source, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+sourceColumns+` FROM job_sources ORDER BY enabled DESC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*Source
	for rows.Next() {
		src, err := scanSource(rows.Scan)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func scanSource(scan func(...any) error) (*Source, error) {
	var src Source
	var enabled int
	var depts string
	err := scan(&src.ID, &src.Name, &src.URL, &src.Platform, &enabled, &depts,
		&src.CreatedAt, &src.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan source: %w", err)
	}
	src.Enabled = enabled != 0
	if depts != "" && depts != "null" {
		if err := json.Unmarshal([]byte(depts), &src.TargetDepartments); err != nil {
			return nil, fmt.Errorf("parse target departments for %s: %w", src.ID, err)
		}
	}
	return &src, nil
}
