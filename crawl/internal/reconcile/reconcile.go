// CLAUDE:SUMMARY Diffs crawled listings against stored rows: upsert what was seen, deactivate what vanished, never delete.
// Package reconcile merges one crawl's worth of adapter output into the
// listing store. Rows are only ever inserted, updated, or deactivated;
// a listing that disappears from a board keeps its history.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/jobwatch/crawl/internal/adapter"
	"github.com/hazyhaar/jobwatch/crawl/internal/store"
)

// ListingStore is the slice of the store the reconciler needs. Declared
// here so tests can wrap the real store with failure injection.
type ListingStore interface {
	FindListingByKey(ctx context.Context, sourceID, externalID, url string) (*store.Listing, error)
	InsertListing(ctx context.Context, l *store.Listing) error
	UpdateListing(ctx context.Context, l *store.Listing) error
	ActiveListings(ctx context.Context, sourceID string) ([]*store.Listing, error)
	DeactivateListing(ctx context.Context, id string) error
}

// Outcome summarizes a reconciliation pass.
type Outcome struct {
	Found       int
	New         int
	Updated     int
	Deactivated int
	Skipped     int
}

// Reconciler writes crawled listings through a ListingStore.
type Reconciler struct {
	store  ListingStore
	newID  func() string
	nowMs  func() int64
	logger *slog.Logger
}

func New(s ListingStore, newID func() string, nowMs func() int64, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: s, newID: newID, nowMs: nowMs, logger: logger}
}

// Reconcile upserts every crawled listing for src and then deactivates the
// source's active rows that the crawl did not see. A row that fails to
// write is counted as skipped and excluded from the seen set, so the
// deactivation sweep never retires a listing just because its write failed.
// Per-row errors are collected; a non-nil error still comes with a valid
// Outcome for whatever did land.
func (r *Reconciler) Reconcile(ctx context.Context, src *store.Source, listings []adapter.Listing) (Outcome, error) {
	log := r.logger.With("source", src.Name)
	out := Outcome{Found: len(listings)}
	var errs []error

	now := r.nowMs()
	seen := make(map[string]struct{}, len(listings))

	for _, l := range listings {
		existing, err := r.store.FindListingByKey(ctx, src.ID, l.ExternalID, l.URL)
		if err != nil {
			errs = append(errs, fmt.Errorf("lookup %s: %w", l.URL, err))
			out.Skipped++
			continue
		}

		row := &store.Listing{
			SourceID:    src.ID,
			ExternalID:  l.ExternalID,
			Title:       l.Title,
			Company:     src.Name,
			Location:    l.Location,
			Department:  l.Department,
			Description: l.Description,
			JobType:     l.JobType,
			URL:         l.URL,
			PostingDate: l.PostingDate,
			IsActive:    true,
		}

		if existing == nil {
			row.ID = r.newID()
			row.FirstCrawledAt = now
			row.LastUpdatedAt = now
			if err := r.store.InsertListing(ctx, row); err != nil {
				errs = append(errs, fmt.Errorf("insert %s: %w", l.URL, err))
				out.Skipped++
				continue
			}
			out.New++
		} else {
			row.ID = existing.ID
			row.FirstCrawledAt = existing.FirstCrawledAt
			row.LastUpdatedAt = now
			if err := r.store.UpdateListing(ctx, row); err != nil {
				errs = append(errs, fmt.Errorf("update %s: %w", l.URL, err))
				out.Skipped++
				continue
			}
			out.Updated++
		}

		seen[l.URL] = struct{}{}
	}

	deactivated, err := r.sweep(ctx, src.ID, seen)
	out.Deactivated = deactivated
	if err != nil {
		errs = append(errs, err)
	}

	log.Info("reconciled listings",
		"found", out.Found, "new", out.New, "updated", out.Updated,
		"deactivated", out.Deactivated, "skipped", out.Skipped)
	return out, errors.Join(errs...)
}

// sweep deactivates active rows whose URL the crawl did not produce.
func (r *Reconciler) sweep(ctx context.Context, sourceID string, seen map[string]struct{}) (int, error) {
	active, err := r.store.ActiveListings(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("list active: %w", err)
	}

	var errs []error
	deactivated := 0
	for _, row := range active {
		if _, ok := seen[row.URL]; ok {
			continue
		}
		if err := r.store.DeactivateListing(ctx, row.ID); err != nil {
			errs = append(errs, fmt.Errorf("deactivate %s: %w", row.URL, err))
			continue
		}
		deactivated++
	}
	return deactivated, errors.Join(errs...)
}
