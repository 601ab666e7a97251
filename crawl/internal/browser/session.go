// CLAUDE:SUMMARY Call-scoped headless Chrome rendering: launch, stealth page, navigate, capture DOM + client state.
// Package browser renders JS-hydrated job boards through headless Chrome.
//
// Unlike a long-lived browser pool, every Render call launches (or connects
// to) Chrome, renders one page, and tears the session down before
// returning. Boards are crawled at most a few times a day; keeping Chrome
// resident between crawls buys nothing and leaks memory.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/jobwatch/crawl/internal/adapter"
)

// Config configures the renderer.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// NavTimeout bounds navigation plus page load. Default: 90s.
	NavTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 90 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Renderer implements adapter.Renderer with per-call Chrome sessions.
type Renderer struct {
	cfg Config
}

// New creates a Renderer. No browser is launched until Render is called.
func New(cfg Config) *Renderer {
	cfg.defaults()
	return &Renderer{cfg: cfg}
}

// Render navigates to pageURL in a fresh stealth page, waits for the page
// to load and settle, and returns the rendered DOM plus the embedded
// window.__appData client state (nil when the page has none).
func (r *Renderer) Render(ctx context.Context, pageURL string) (*adapter.RenderResult, error) {
	log := r.cfg.Logger

	b, cleanup, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, r.cfg.NavTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		log.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}
	// Let pending XHR hydration settle; boards render listings after load.
	if err := page.Context(navCtx).WaitIdle(10 * time.Second); err != nil {
		log.Debug("browser: wait idle", "url", pageURL, "error", err)
	}

	htmlRes, err := page.Context(navCtx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("browser: get DOM: %w", err)
	}

	result := &adapter.RenderResult{HTML: []byte(htmlRes.Value.Str())}

	appRes, err := page.Context(navCtx).Eval(`() => JSON.stringify(window.__appData || null)`)
	if err != nil {
		log.Debug("browser: appData eval failed", "url", pageURL, "error", err)
	} else if s := appRes.Value.Str(); s != "" && s != "null" {
		result.AppData = []byte(s)
	}

	log.Info("browser: page rendered", "url", pageURL,
		"html_bytes", len(result.HTML), "has_app_data", result.AppData != nil)
	return result, nil
}

// connect launches a local Chrome or attaches to a remote one. The returned
// cleanup tears down whatever this call created.
func (r *Renderer) connect(ctx context.Context) (*rod.Browser, func(), error) {
	log := r.cfg.Logger

	if r.cfg.RemoteURL != "" {
		b := rod.New().Context(ctx).ControlURL(r.cfg.RemoteURL)
		if err := b.Connect(); err != nil {
			return nil, nil, fmt.Errorf("browser: connect remote: %w", err)
		}
		log.Debug("browser: connected to remote", "url", r.cfg.RemoteURL)
		return b, func() { b.Close() }, nil
	}

	l := launcher.New().
		Headless(true).
		Set("disable-blink-features", "AutomationControlled")

	wsURL, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("browser: launch: %w", err)
	}

	b := rod.New().Context(ctx).ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, nil, fmt.Errorf("browser: connect: %w", err)
	}
	log.Debug("browser: launched local chrome")

	return b, func() {
		b.Close()
		l.Cleanup()
	}, nil
}
