package adapter

// Listing is the normalized, ephemeral output of one adapter for one
// posting. It has no identity of its own; the reconciler derives the
// natural key from ExternalID and URL.
type Listing struct {
	ExternalID  string `json:"external_id,omitempty"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Department  string `json:"department,omitempty"` // set by the department filter
	Description string `json:"description"`
	JobType     string `json:"job_type"`
	URL         string `json:"url"`
	PostingDate string `json:"posting_date,omitempty"` // best-effort, RFC 3339-ish
}

// SkippedItem records one malformed item an adapter dropped. Per-item
// failures never fail the adapter; they surface here so callers and tests
// can see them.
type SkippedItem struct {
	Ref    string `json:"ref"` // href or container excerpt identifying the item
	Reason string `json:"reason"`
}
