package crawl

import "github.com/hazyhaar/jobwatch/crawl/internal/store"

// Schema is the SQLite DDL for the crawl store, exposed so callers can
// hand it to dbopen when opening the database.
const Schema = store.Schema

// Re-exported storage types so callers never import internal packages.
type (
	Source   = store.Source
	Listing  = store.Listing
	CrawlRun = store.CrawlRun
	Stats    = store.Stats
)

// Result summarizes a single source crawl.
type Result struct {
	RunID       string `json:"run_id"`
	SourceID    string `json:"source_id"`
	SourceName  string `json:"source_name"`
	Status      string `json:"status"`
	Found       int    `json:"jobs_found"`
	New         int    `json:"jobs_new"`
	Updated     int    `json:"jobs_updated"`
	Deactivated int    `json:"jobs_deactivated"`
	Skipped     int    `json:"jobs_skipped"`
	Error       string `json:"error,omitempty"`
}
