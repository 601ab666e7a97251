// Package filter narrows adapter output to the listings a source cares
// about before reconciliation sees them.
package filter

import (
	"time"

	"github.com/hazyhaar/jobwatch/crawl/internal/adapter"
)

// postingDateLayouts are tried in order when parsing board-supplied dates.
// Boards are inconsistent: some emit full RFC3339, some a bare timestamp,
// some just a date.
var postingDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parsePostingDate(s string) (time.Time, bool) {
	for _, layout := range postingDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ByAge keeps listings posted at or after now minus maxAge. Listings with
// no posting date, or one we cannot parse, are kept: dropping them would
// silently hide jobs from boards that never publish dates.
func ByAge(listings []adapter.Listing, maxAge time.Duration, now time.Time) []adapter.Listing {
	if maxAge <= 0 {
		return listings
	}
	cutoff := now.Add(-maxAge)
	kept := listings[:0:0]
	for _, l := range listings {
		if l.PostingDate == "" {
			kept = append(kept, l)
			continue
		}
		t, ok := parsePostingDate(l.PostingDate)
		if !ok || !t.Before(cutoff) {
			kept = append(kept, l)
		}
	}
	return kept
}
