// CLAUDE:SUMMARY Applies the jobwatch SQL schema: job_sources, listings, crawl_runs.
package store

import "database/sql"

// Schema is the complete jobwatch schema.
const Schema = `
-- Configured external job boards. Owned by the config surface; the crawl
-- engine only reads them.
CREATE TABLE IF NOT EXISTS job_sources (
    id                  TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    url                 TEXT NOT NULL,
    platform            TEXT NOT NULL,
    enabled             INTEGER NOT NULL DEFAULT 1,
    target_departments  TEXT NOT NULL DEFAULT '[]',
    created_at          INTEGER NOT NULL,
    updated_at          INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_job_sources_name ON job_sources(name);

-- Durable job postings. Natural key: (source_id, external_id) when
-- external_id is non-empty, else (source_id, url). Rows are deactivated,
-- never deleted.
CREATE TABLE IF NOT EXISTS listings (
    id               TEXT PRIMARY KEY,
    source_id        TEXT NOT NULL REFERENCES job_sources(id),
    external_id      TEXT NOT NULL DEFAULT '',
    title            TEXT NOT NULL DEFAULT '',
    company          TEXT NOT NULL DEFAULT '',
    location         TEXT NOT NULL DEFAULT '',
    department       TEXT NOT NULL DEFAULT '',
    description      TEXT NOT NULL DEFAULT '',
    job_type         TEXT NOT NULL DEFAULT 'unknown',
    url              TEXT NOT NULL,
    posting_date     TEXT,
    is_active        INTEGER NOT NULL DEFAULT 1,
    first_crawled_at INTEGER NOT NULL,
    last_updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_source ON listings(source_id, is_active);
CREATE INDEX IF NOT EXISTS idx_listings_key ON listings(source_id, external_id);
CREATE INDEX IF NOT EXISTS idx_listings_url ON listings(source_id, url);

-- One row per crawl invocation of one source.
CREATE TABLE IF NOT EXISTS crawl_runs (
    id            TEXT PRIMARY KEY,
    source_id     TEXT NOT NULL REFERENCES job_sources(id),
    status        TEXT NOT NULL DEFAULT 'started',
    jobs_found    INTEGER NOT NULL DEFAULT 0,
    jobs_new      INTEGER NOT NULL DEFAULT 0,
    jobs_updated  INTEGER NOT NULL DEFAULT 0,
    error_message TEXT NOT NULL DEFAULT '',
    started_at    INTEGER NOT NULL,
    completed_at  INTEGER
);
CREATE INDEX IF NOT EXISTS idx_crawl_runs_source ON crawl_runs(source_id, started_at DESC);
CREATE INDEX IF NOT EXISTS idx_crawl_runs_status ON crawl_runs(status, started_at);
`

// ApplySchema creates all tables and indexes on the given database.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
