package crawl

import (
	"context"
	"fmt"
	"strings"
)

// AddSource registers a job board. Platform is validated against the
// registered adapters so typos fail at registration, not at crawl time.
func (s *Service) AddSource(ctx context.Context, name, url, platform string, targetDepartments []string) (*Source, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if _, err := s.registry.Get(platform); err != nil {
		return nil, err
	}

	src := &Source{
		ID:                s.newID(),
		Name:              strings.TrimSpace(name),
		URL:               strings.TrimSpace(url),
		Platform:          platform,
		Enabled:           true,
		TargetDepartments: targetDepartments,
	}
	if src.Name == "" || src.URL == "" {
		return nil, fmt.Errorf("crawl: source needs a name and a url")
	}
	if err := s.store.InsertSource(ctx, src); err != nil {
		return nil, fmt.Errorf("crawl: add source: %w", err)
	}
	s.logger.Info("source added", "source", src.Name, "platform", platform)
	return src, nil
}

// Sources lists every configured source, enabled or not.
func (s *Service) Sources(ctx context.Context) ([]*Source, error) {
	return s.store.ListSources(ctx)
}

// RecentRuns returns the latest crawl runs, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]*CrawlRun, error) {
	return s.store.RecentRuns(ctx, limit)
}

// Stats returns aggregate listing counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.store.CrawlStats(ctx)
}

// FailStaleRuns marks runs that never completed within the configured
// stale window as failed. Returns how many rows were triaged.
func (s *Service) FailStaleRuns(ctx context.Context) (int, error) {
	return s.store.FailStaleRuns(ctx, s.cfg.StaleRunAge)
}
