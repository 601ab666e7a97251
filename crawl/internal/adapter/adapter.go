// CLAUDE:SUMMARY Adapter contract and platform registry: ashby, greenhouse, lever, workday.
// Package adapter fetches and parses external job boards into normalized
// listings.
//
// One adapter per platform kind. Static boards (greenhouse, lever) use a
// bounded HTTP GET; JS-hydrated boards (ashby, workday) render through a
// call-scoped headless browser session. Adapters never fail on a single
// malformed item — those are collected as SkippedItems — while board-level
// failures (unreachable host, render timeout) are returned as errors.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrUnsupportedPlatform is returned for platform kinds with no adapter,
// including "custom". There is no silent fallback.
var ErrUnsupportedPlatform = errors.New("adapter: unsupported platform")

// Adapter fetches one external job board and normalizes its postings.
type Adapter interface {
	// Platform returns the platform kind this adapter serves.
	Platform() string
	// Fetch retrieves and parses the board at baseURL.
	Fetch(ctx context.Context, baseURL string) ([]Listing, []SkippedItem, error)
}

// RenderResult is the output of one headless render of a page.
type RenderResult struct {
	HTML    []byte
	AppData []byte // JSON of the page's embedded client state, or nil
}

// Renderer produces a fully rendered DOM for JS-hydrated boards.
// Implemented by the browser package; faked in tests.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (*RenderResult, error)
}

// Config holds shared adapter settings.
type Config struct {
	HTTPTimeout   time.Duration // static-board GET timeout. Default: 30s.
	RenderTimeout time.Duration // headless navigation budget. Default: 90s.
	MaxBytes      int64         // max response body size. Default: 10MB.
	UserAgent     string
}

func (c *Config) defaults() {
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = 90 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024
	}
	if c.UserAgent == "" {
		c.UserAgent = "jobwatch/1.0"
	}
}

// Registry resolves platform kinds to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds the built-in adapter set. renderer may be nil, in
// which case the JS-hydrated adapters fail at fetch time.
func NewRegistry(cfg Config, renderer Renderer, logger *slog.Logger) *Registry {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	client := newHTTPClient(cfg.HTTPTimeout, cfg.MaxBytes, cfg.UserAgent)

	r := &Registry{adapters: make(map[string]Adapter)}
	r.Register(&Ashby{renderer: renderer, logger: logger})
	r.Register(&Greenhouse{client: client, logger: logger})
	r.Register(&Lever{client: client, logger: logger})
	r.Register(&Workday{renderer: renderer, logger: logger})
	return r
}

// Register adds or replaces an adapter for its platform kind.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Platform()] = a
}

// Get returns the adapter for a platform kind.
func (r *Registry) Get(platform string) (Adapter, error) {
	a, ok := r.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}
	return a, nil
}

// Platforms returns the registered platform kinds.
func (r *Registry) Platforms() []string {
	kinds := make([]string, 0, len(r.adapters))
	for k := range r.adapters {
		kinds = append(kinds, k)
	}
	return kinds
}
