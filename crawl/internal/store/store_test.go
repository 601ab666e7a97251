package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.Exec("PRAGMA foreign_keys=ON")
	if err := ApplySchema(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func seedSource(t *testing.T, s *Store, id string) *Source {
	t.Helper()
	src := &Source{
		ID:                id,
		Name:              "Acme",
		URL:               "https://jobs.example.com/acme",
		Platform:          "lever",
		Enabled:           true,
		TargetDepartments: []string{"Engineering"},
	}
	if err := s.InsertSource(context.Background(), src); err != nil {
		t.Fatalf("insert source: %v", err)
	}
	return src
}

func TestApplySchema(t *testing.T) {
	// WHAT: Verify schema creates all tables without error.
	s := openTestDB(t)
	for _, table := range []string{"job_sources", "listings", "crawl_runs"} {
		var name string
		err := s.DB.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestSource_RoundTripDepartments(t *testing.T) {
	// WHAT: target_departments survives the JSON column round trip.
	// WHY: The department filter depends on the parsed list, not raw JSON.
	s := openTestDB(t)
	ctx := context.Background()
	seedSource(t, s, "src-1")

	got, err := s.GetSource(ctx, "src-1")
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if got == nil {
		t.Fatal("source not found")
	}
	if len(got.TargetDepartments) != 1 || got.TargetDepartments[0] != "Engineering" {
		t.Errorf("departments = %v, want [Engineering]", got.TargetDepartments)
	}
}

func TestGetSource_Absent(t *testing.T) {
	s := openTestDB(t)
	got, err := s.GetSource(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing source, got %+v", got)
	}
}

func TestListEnabledSources_SkipsDisabled(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	seedSource(t, s, "src-1")
	if err := s.InsertSource(ctx, &Source{
		ID: "src-2", Name: "Off", URL: "https://example.com", Platform: "greenhouse",
	}); err != nil {
		t.Fatalf("insert disabled source: %v", err)
	}

	enabled, err := s.ListEnabledSources(ctx)
	if err != nil {
		t.Fatalf("list enabled: %v", err)
	}
	if len(enabled) != 1 || enabled[0].ID != "src-1" {
		t.Errorf("enabled sources = %v, want only src-1", enabled)
	}
}

func TestFindListingByKey_ExternalIDOrURL(t *testing.T) {
	// WHAT: With an external_id, the lookup matches on either key half.
	// WHY: A posting may keep its external_id while its URL changes.
	s := openTestDB(t)
	ctx := context.Background()
	seedSource(t, s, "src-1")

	l := &Listing{
		ID: "l-1", SourceID: "src-1", ExternalID: "ext-1",
		Title: "Backend Engineer", URL: "https://jobs.example.com/acme/1",
	}
	if err := s.InsertListing(ctx, l); err != nil {
		t.Fatalf("insert listing: %v", err)
	}

	byExt, err := s.FindListingByKey(ctx, "src-1", "ext-1", "https://other.example.com")
	if err != nil || byExt == nil {
		t.Fatalf("lookup by external_id: %v, %v", byExt, err)
	}

	byURL, err := s.FindListingByKey(ctx, "src-1", "ext-other", "https://jobs.example.com/acme/1")
	if err != nil || byURL == nil {
		t.Fatalf("lookup by url with mismatched external_id: %v, %v", byURL, err)
	}
}

func TestFindListingByKey_URLFallback(t *testing.T) {
	// WHAT: Without an external_id, only the URL identifies the listing.
	s := openTestDB(t)
	ctx := context.Background()
	seedSource(t, s, "src-1")

	l := &Listing{ID: "l-1", SourceID: "src-1", URL: "https://jobs.example.com/acme/1"}
	if err := s.InsertListing(ctx, l); err != nil {
		t.Fatalf("insert listing: %v", err)
	}

	got, err := s.FindListingByKey(ctx, "src-1", "", "https://jobs.example.com/acme/1")
	if err != nil || got == nil {
		t.Fatalf("url fallback lookup: %v, %v", got, err)
	}
	if got.ID != "l-1" {
		t.Errorf("got listing %s, want l-1", got.ID)
	}
}

func TestUpdateListing_KeepsIdentity(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	seedSource(t, s, "src-1")

	l := &Listing{ID: "l-1", SourceID: "src-1", ExternalID: "ext-1",
		Title: "Old Title", URL: "https://jobs.example.com/acme/1"}
	if err := s.InsertListing(ctx, l); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first := l.FirstCrawledAt

	l.Title = "New Title"
	if err := s.UpdateListing(ctx, l); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.FindListingByKey(ctx, "src-1", "ext-1", l.URL)
	if err != nil || got == nil {
		t.Fatalf("lookup: %v, %v", got, err)
	}
	if got.Title != "New Title" {
		t.Errorf("title = %q, want New Title", got.Title)
	}
	if got.FirstCrawledAt != first {
		t.Errorf("first_crawled_at changed on update: %d != %d", got.FirstCrawledAt, first)
	}
	if !got.IsActive {
		t.Error("update must force is_active")
	}
}

func TestDeactivateListing_RowSurvives(t *testing.T) {
	// WHAT: Deactivation flips is_active only; the row remains queryable.
	// WHY: Downstream records join on listing identity.
	s := openTestDB(t)
	ctx := context.Background()
	seedSource(t, s, "src-1")

	l := &Listing{ID: "l-1", SourceID: "src-1", URL: "https://jobs.example.com/acme/1"}
	if err := s.InsertListing(ctx, l); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.DeactivateListing(ctx, "l-1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, err := s.FindListingByKey(ctx, "src-1", "", l.URL)
	if err != nil || got == nil {
		t.Fatalf("deactivated row not queryable: %v, %v", got, err)
	}
	if got.IsActive {
		t.Error("listing still active after deactivation")
	}

	total, active, err := s.CountListings(ctx, "src-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 1 || active != 0 {
		t.Errorf("counts = (%d, %d), want (1, 0)", total, active)
	}
}

func TestRunLifecycle(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	seedSource(t, s, "src-1")

	if err := s.CreateRun(ctx, "run-1", "src-1"); err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := s.CompleteRun(ctx, "run-1", 10, 3, 7); err != nil {
		t.Fatalf("complete run: %v", err)
	}

	runs, err := s.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	r := runs[0]
	if r.Status != "completed" || r.JobsFound != 10 || r.JobsNew != 3 || r.JobsUpdated != 7 {
		t.Errorf("run = %+v, want completed 10/3/7", r)
	}
	if r.CompletedAt == nil {
		t.Error("completed run missing completed_at")
	}
}

func TestFailStaleRuns(t *testing.T) {
	// WHAT: Only non-terminal runs older than the threshold are failed.
	// WHY: A run stuck in 'started' after a crash must become retriable
	// without touching healthy history.
	s := openTestDB(t)
	ctx := context.Background()
	seedSource(t, s, "src-1")

	old := time.Now().Add(-2 * time.Hour).UnixMilli()
	if _, err := s.DB.Exec(
		`INSERT INTO crawl_runs (id, source_id, status, started_at) VALUES ('stale', 'src-1', 'started', ?)`,
		old); err != nil {
		t.Fatalf("insert stale run: %v", err)
	}
	if err := s.CreateRun(ctx, "fresh", "src-1"); err != nil {
		t.Fatalf("create fresh run: %v", err)
	}
	if err := s.CreateRun(ctx, "done", "src-1"); err != nil {
		t.Fatalf("create done run: %v", err)
	}
	if err := s.CompleteRun(ctx, "done", 1, 1, 0); err != nil {
		t.Fatalf("complete run: %v", err)
	}

	n, err := s.FailStaleRuns(ctx, time.Hour)
	if err != nil {
		t.Fatalf("fail stale runs: %v", err)
	}
	if n != 1 {
		t.Errorf("failed %d runs, want 1", n)
	}

	var status string
	if err := s.DB.QueryRow(`SELECT status FROM crawl_runs WHERE id = 'stale'`).Scan(&status); err != nil {
		t.Fatalf("query stale: %v", err)
	}
	if status != "failed" {
		t.Errorf("stale run status = %q, want failed", status)
	}
	if err := s.DB.QueryRow(`SELECT status FROM crawl_runs WHERE id = 'fresh'`).Scan(&status); err != nil {
		t.Fatalf("query fresh: %v", err)
	}
	if status != "started" {
		t.Errorf("fresh run status = %q, want started", status)
	}
}

func TestCrawlStats(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	seedSource(t, s, "src-1")

	for _, l := range []*Listing{
		{ID: "l-1", SourceID: "src-1", URL: "https://a.example.com/1"},
		{ID: "l-2", SourceID: "src-1", URL: "https://a.example.com/2"},
	} {
		if err := s.InsertListing(ctx, l); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := s.DeactivateListing(ctx, "l-2"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	st, err := s.CrawlStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalListings != 2 || st.ActiveListings != 1 || st.Sources != 1 {
		t.Errorf("stats = %+v, want total=2 active=1 sources=1", st)
	}
	if st.LastCrawlAt == nil {
		t.Error("stats missing last crawl time")
	}
}
