// Package store provides the data access layer for the jobwatch database.
//
// It receives an already-opened *sql.DB (see dbopen) and owns the three
// crawl tables: job_sources, listings, and crawl_runs. Listings are never
// deleted here — downstream records join on listing identity, so rows only
// ever flip is_active.
package store

import "database/sql"

// Store wraps the jobwatch database.
type Store struct {
	DB *sql.DB
}

// New creates a Store from an already-opened database connection.
func New(db *sql.DB) *Store {
	return &Store{DB: db}
}
