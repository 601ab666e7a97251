// CLAUDE:SUMMARY Orchestrates source crawls: run tracking, adapter dispatch, filtering, reconciliation.
// Package crawl ties the pipeline together: it resolves a source to its
// platform adapter, fetches and filters the board's listings, reconciles
// them into storage, and records the run.
package crawl

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/jobwatch/crawl/internal/adapter"
	"github.com/hazyhaar/jobwatch/crawl/internal/browser"
	"github.com/hazyhaar/jobwatch/crawl/internal/filter"
	"github.com/hazyhaar/jobwatch/crawl/internal/reconcile"
	"github.com/hazyhaar/jobwatch/crawl/internal/store"
	"github.com/hazyhaar/jobwatch/idgen"
)

// Service runs crawls against configured job sources.
type Service struct {
	cfg      Config
	store    *store.Store
	registry *adapter.Registry
	rec      *reconcile.Reconciler
	newID    idgen.Generator
	newRunID idgen.Generator
	now      func() time.Time
	logger   *slog.Logger
}

// ServiceOption customizes a Service after default construction.
type ServiceOption func(*Service)

// WithAdapter replaces or adds a platform adapter. Used for the custom
// platform hook and for tests.
func WithAdapter(a adapter.Adapter) ServiceOption {
	return func(s *Service) { s.registry.Register(a) }
}

// WithClock overrides the service clock.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
		s.rec = reconcile.New(s.store, s.newID, func() int64 { return s.now().UnixMilli() }, s.logger)
	}
}

// NewService wires the crawl pipeline over an open database. The schema
// must already be applied.
func NewService(db *sql.DB, cfg Config, logger *slog.Logger) *Service {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	st := store.New(db)
	renderer := browser.New(browser.Config{
		RemoteURL:  cfg.BrowserURL,
		NavTimeout: cfg.RenderTimeout,
		Logger:     logger,
	})
	registry := adapter.NewRegistry(adapter.Config{
		HTTPTimeout:   cfg.HTTPTimeout,
		RenderTimeout: cfg.RenderTimeout,
		MaxBytes:      cfg.MaxBodyBytes,
		UserAgent:     cfg.UserAgent,
	}, renderer, logger)

	s := &Service{
		cfg:      cfg,
		store:    st,
		registry: registry,
		newID:    idgen.UUIDv7(),
		newRunID: idgen.NanoID(16),
		now:      time.Now,
		logger:   logger,
	}
	s.rec = reconcile.New(st, s.newID, func() int64 { return s.now().UnixMilli() }, logger)
	return s
}

// Apply runs options after construction.
func (s *Service) Apply(opts ...ServiceOption) *Service {
	for _, o := range opts {
		o(s)
	}
	return s
}

// CrawlSource crawls one source end to end. The run row is created up
// front and only marked completed after reconciliation; a crash or fetch
// failure leaves it in its started state for later triage.
func (s *Service) CrawlSource(ctx context.Context, sourceID string, opts Options) (*Result, error) {
	src, err := s.store.GetSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, sourceID)
	}
	return s.crawl(ctx, src, opts)
}

func (s *Service) crawl(ctx context.Context, src *store.Source, opts Options) (*Result, error) {
	log := s.logger.With("source", src.Name, "platform", src.Platform)
	res := &Result{SourceID: src.ID, SourceName: src.Name, Status: "failed"}

	runID := s.newRunID()
	if err := s.store.CreateRun(ctx, runID, src.ID); err != nil {
		res.Error = err.Error()
		return res, fmt.Errorf("create run: %w", err)
	}
	res.RunID = runID

	a, err := s.registry.Get(src.Platform)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}

	listings, skipped, err := a.Fetch(ctx, src.URL)
	if err != nil {
		res.Error = err.Error()
		log.Error("fetch failed", "run", runID, "error", err)
		return res, fmt.Errorf("fetch %s: %w", src.URL, err)
	}
	for _, sk := range skipped {
		log.Warn("skipped malformed item", "ref", sk.Ref, "reason", sk.Reason)
	}
	log.Info("fetched listings", "run", runID, "count", len(listings), "skipped", len(skipped))

	if maxAge := opts.maxAge(); maxAge > 0 {
		listings = filter.ByAge(listings, maxAge, s.now().UTC())
	}
	listings = filter.ByDepartment(listings, src.TargetDepartments)

	outcome, recErr := s.rec.Reconcile(ctx, src, listings)
	res.Found = outcome.Found
	res.New = outcome.New
	res.Updated = outcome.Updated
	res.Deactivated = outcome.Deactivated
	res.Skipped = outcome.Skipped
	if recErr != nil {
		log.Warn("reconciliation had row failures", "run", runID, "error", recErr)
	}

	if err := s.store.CompleteRun(ctx, runID, outcome.Found, outcome.New, outcome.Updated); err != nil {
		res.Error = err.Error()
		return res, fmt.Errorf("complete run: %w", err)
	}
	res.Status = "completed"
	return res, nil
}

// CrawlAllSources crawls every enabled source sequentially. One source
// failing does not stop the rest; its Result carries the error.
func (s *Service) CrawlAllSources(ctx context.Context, opts Options) ([]*Result, error) {
	sources, err := s.store.ListEnabledSources(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := s.crawl(ctx, src, opts)
		if err != nil {
			s.logger.Error("source crawl failed", "source", src.Name, "error", err)
		}
		results = append(results, res)
	}
	return results, nil
}
