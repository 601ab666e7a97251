package store

// Source is one configured external job board.
type Source struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"` // display name, overrides scraped company
	URL               string   `json:"url"`
	Platform          string   `json:"platform"` // ashby | greenhouse | lever | workday | custom
	Enabled           bool     `json:"enabled"`
	TargetDepartments []string `json:"target_departments,omitempty"`
	CreatedAt         int64    `json:"created_at"`
	UpdatedAt         int64    `json:"updated_at"`
}

// Listing is a durable job posting record.
type Listing struct {
	ID             string `json:"id"`
	SourceID       string `json:"source_id"`
	ExternalID     string `json:"external_id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Department     string `json:"department"`
	Description    string `json:"description"`
	JobType        string `json:"job_type"`
	URL            string `json:"url"`
	PostingDate    string `json:"posting_date,omitempty"` // RFC 3339, best-effort; "" = unknown
	IsActive       bool   `json:"is_active"`
	FirstCrawledAt int64  `json:"first_crawled_at"`
	LastUpdatedAt  int64  `json:"last_updated_at"`
}

// CrawlRun is an audit record of one crawl invocation.
type CrawlRun struct {
	ID           string `json:"id"`
	SourceID     string `json:"source_id"`
	Status       string `json:"status"` // started | completed | failed
	JobsFound    int    `json:"jobs_found"`
	JobsNew      int    `json:"jobs_new"`
	JobsUpdated  int    `json:"jobs_updated"`
	ErrorMessage string `json:"error_message,omitempty"`
	StartedAt    int64  `json:"started_at"`
	CompletedAt  *int64 `json:"completed_at,omitempty"`
}

// Stats holds aggregate crawl counters.
type Stats struct {
	TotalListings  int    `json:"total_listings"`
	ActiveListings int    `json:"active_listings"`
	Sources        int    `json:"sources"`
	LastCrawlAt    *int64 `json:"last_crawl_at,omitempty"`
}
