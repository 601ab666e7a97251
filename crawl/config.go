package crawl

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries the tunables for the crawl service. Zero values are
// filled in by defaults(), so a partial YAML file is fine.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// BrowserURL is the WebSocket URL of a remote Chrome. Empty means
	// launch a local headless instance per render.
	BrowserURL string `yaml:"browser_url"`

	// HTTPTimeout bounds plain HTTP fetches (static boards).
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// RenderTimeout bounds a full headless render (JS boards).
	RenderTimeout time.Duration `yaml:"render_timeout"`

	// MaxBodyBytes caps how much of a board page is read.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// UserAgent is sent on plain HTTP fetches.
	UserAgent string `yaml:"user_agent"`

	// StaleRunAge is how long a run may sit unfinished before a triage
	// pass marks it failed.
	StaleRunAge time.Duration `yaml:"stale_run_age"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "jobwatch.db"
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = 90 * time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 10 << 20
	}
	if c.UserAgent == "" {
		c.UserAgent = "jobwatch/1.0"
	}
	if c.StaleRunAge <= 0 {
		c.StaleRunAge = 6 * time.Hour
	}
}

// LoadConfig reads a YAML config file and applies defaults. A missing
// path just yields the defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("crawl: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("crawl: parse config %s: %w", path, err)
		}
	}
	cfg.defaults()
	return cfg, nil
}
