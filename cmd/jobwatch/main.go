// CLAUDE:SUMMARY CLI entry point for jobwatch — crawl job boards, inspect runs, and manage sources.
// Command jobwatch crawls configured job boards into SQLite.
//
// Usage:
//
//	jobwatch -add-source -name Acme -url https://jobs.lever.co/acme -platform lever -departments Engineering
//	jobwatch -source <id>                   # crawl one source
//	jobwatch -all -age-window 7d            # crawl every enabled source
//	jobwatch -status                        # recent runs
//	jobwatch -stats                         # aggregate counters
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/jobwatch/crawl"
	"github.com/hazyhaar/jobwatch/dbopen"
)

func main() {
	configPath := flag.String("config", "", "path to jobwatch.yaml config file")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")

	sourceID := flag.String("source", "", "crawl a single source by id")
	all := flag.Bool("all", false, "crawl every enabled source")
	maxAgeHours := flag.Int("max-age-hours", 0, "only keep listings posted within this many hours")
	maxAgeDays := flag.Int("max-age-days", 0, "only keep listings posted within this many days")
	ageWindow := flag.String("age-window", "", "named age window: 24h, 7d, 15d, 30d, month")

	addSource := flag.Bool("add-source", false, "register a new job source")
	name := flag.String("name", "", "source display name (with -add-source)")
	url := flag.String("url", "", "source board URL (with -add-source)")
	platform := flag.String("platform", "", "source platform: ashby, greenhouse, lever, workday (with -add-source)")
	departments := flag.String("departments", "", "comma-separated target departments (with -add-source)")

	status := flag.Bool("status", false, "show recent crawl runs")
	stats := flag.Bool("stats", false, "show aggregate listing stats")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := crawl.LoadConfig(*configPath)
	if err != nil {
		logger.Error("jobwatch: config", "error", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	opts := crawl.Options{
		MaxAgeHours: *maxAgeHours,
		MaxAgeDays:  *maxAgeDays,
		AgeWindow:   *ageWindow,
	}

	if err := run(ctx, logger, cfg, runFlags{
		sourceID:    *sourceID,
		all:         *all,
		opts:        opts,
		addSource:   *addSource,
		name:        *name,
		url:         *url,
		platform:    *platform,
		departments: *departments,
		status:      *status,
		stats:       *stats,
	}); err != nil {
		logger.Error("jobwatch: fatal", "error", err)
		os.Exit(1)
	}
}

type runFlags struct {
	sourceID    string
	all         bool
	opts        crawl.Options
	addSource   bool
	name        string
	url         string
	platform    string
	departments string
	status      bool
	stats       bool
}

func run(ctx context.Context, logger *slog.Logger, cfg crawl.Config, f runFlags) error {
	db, err := dbopen.Open(cfg.DBPath,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(crawl.Schema),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := crawl.NewService(db, cfg, logger)

	switch {
	case f.addSource:
		var depts []string
		for _, d := range strings.Split(f.departments, ",") {
			if d = strings.TrimSpace(d); d != "" {
				depts = append(depts, d)
			}
		}
		src, err := svc.AddSource(ctx, f.name, f.url, f.platform, depts)
		if err != nil {
			return err
		}
		return emit(src)

	case f.sourceID != "":
		if n, err := svc.FailStaleRuns(ctx); err == nil && n > 0 {
			logger.Warn("flagged stale runs", "count", n)
		}
		res, err := svc.CrawlSource(ctx, f.sourceID, f.opts)
		if res != nil {
			emit(res)
		}
		return err

	case f.all:
		if n, err := svc.FailStaleRuns(ctx); err == nil && n > 0 {
			logger.Warn("flagged stale runs", "count", n)
		}
		results, err := svc.CrawlAllSources(ctx, f.opts)
		if len(results) > 0 {
			emit(results)
		}
		return err

	case f.status:
		runs, err := svc.RecentRuns(ctx, 20)
		if err != nil {
			return err
		}
		return emit(runs)

	case f.stats:
		st, err := svc.Stats(ctx)
		if err != nil {
			return err
		}
		return emit(st)

	default:
		return fmt.Errorf("nothing to do: pass -source, -all, -add-source, -status, or -stats")
	}
}

func emit(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
