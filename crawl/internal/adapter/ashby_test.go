package adapter

import (
	"context"
	"log/slog"
	"testing"
)

const ashbyBase = "https://jobs.ashbyhq.com/acme"

// Two postings: one nested under /jobs/, one direct-form. Plus an apply
// link, a foreign-slug link, and a short nav link — all excluded.
const ashbyHTML = `<html><body>
<a href="/acme/jobs/0aaaaaaa-1111-2222-3333-444444444444">Senior Backend Engineer</a>
<a href="/acme/0bbbbbbb-1111-2222-3333-444444444444">Anchor Fallback Title</a>
<a href="/acme/jobs/0aaaaaaa-1111-2222-3333-444444444444/apply">Apply</a>
<a href="/other-co/0ccccccc-1111-2222-3333-444444444444">Foreign</a>
<a href="/acme/about">About</a>
</body></html>`

const ashbyAppDataJSON = `{
  "jobBoard": {
    "jobPostings": [
      {
        "id": "0aaaaaaa-1111-2222-3333-444444444444",
        "title": "Staff Backend Engineer",
        "departmentName": "Engineering",
        "locationName": "Berlin",
        "employmentType": "FullTime",
        "publishedDate": "2026-08-01T00:00:00Z",
        "secondaryLocations": [{"locationName": "Lisbon"}]
      }
    ]
  }
}`

func TestParseAshby_URLBranching(t *testing.T) {
	// WHAT: An anchor path with a /jobs/ segment after the slug keeps it in
	// the canonical URL; a path without it produces the direct form.
	// WHY: The URL is the natural-key fallback — the form must be stable.
	listings, skipped, err := parseAshby([]byte(ashbyHTML), []byte(ashbyAppDataJSON), ashbyBase)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}

	if want := "https://jobs.ashbyhq.com/acme/jobs/0aaaaaaa-1111-2222-3333-444444444444"; listings[0].URL != want {
		t.Errorf("nested url = %q, want %q", listings[0].URL, want)
	}
	if want := "https://jobs.ashbyhq.com/acme/0bbbbbbb-1111-2222-3333-444444444444"; listings[1].URL != want {
		t.Errorf("direct url = %q, want %q", listings[1].URL, want)
	}
}

func TestParseAshby_AppDataWinsMetadata(t *testing.T) {
	// WHAT: appData title/department/location override the anchor when the
	// posting id is present in the client state.
	listings, _, err := parseAshby([]byte(ashbyHTML), []byte(ashbyAppDataJSON), ashbyBase)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := listings[0]
	if got.Title != "Staff Backend Engineer" {
		t.Errorf("title = %q, want appData title", got.Title)
	}
	if got.Department != "Engineering" {
		t.Errorf("department = %q, want Engineering", got.Department)
	}
	if got.Location != "Berlin, Lisbon" {
		t.Errorf("location = %q, want primary + secondary", got.Location)
	}
	if got.JobType != "full_time" {
		t.Errorf("job_type = %q, want full_time", got.JobType)
	}
	if got.PostingDate != "2026-08-01T00:00:00Z" {
		t.Errorf("posting_date = %q", got.PostingDate)
	}
	if got.ExternalID != "0aaaaaaa-1111-2222-3333-444444444444" {
		t.Errorf("external_id = %q", got.ExternalID)
	}
}

func TestParseAshby_AnchorFallbackWithoutAppData(t *testing.T) {
	// WHAT: Without client state the anchor text is the title and defaults
	// fill the rest.
	listings, _, err := parseAshby([]byte(ashbyHTML), []byte("null"), ashbyBase)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if listings[0].Title != "Senior Backend Engineer" {
		t.Errorf("title = %q, want anchor text", listings[0].Title)
	}
	if listings[0].Location != "Remote" {
		t.Errorf("location = %q, want Remote default", listings[0].Location)
	}
	if listings[0].JobType != "unknown" {
		t.Errorf("job_type = %q, want unknown", listings[0].JobType)
	}
}

func TestParseAshby_ExcludesNavAndApply(t *testing.T) {
	listings, _, err := parseAshby([]byte(ashbyHTML), nil, ashbyBase)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, l := range listings {
		if l.URL == "https://jobs.ashbyhq.com/acme/about" {
			t.Error("nav anchor leaked into listings")
		}
		if l.ExternalID == "0ccccccc-1111-2222-3333-444444444444" {
			t.Error("foreign-slug anchor leaked into listings")
		}
	}
}

type fakeRenderer struct {
	html    []byte
	appData []byte
	err     error
}

func (f *fakeRenderer) Render(_ context.Context, _ string) (*RenderResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &RenderResult{HTML: f.html, AppData: f.appData}, nil
}

func TestAshby_FetchThroughRenderer(t *testing.T) {
	a := &Ashby{
		renderer: &fakeRenderer{html: []byte(ashbyHTML), appData: []byte(ashbyAppDataJSON)},
		logger:   slog.Default(),
	}
	listings, _, err := a.Fetch(context.Background(), ashbyBase)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("got %d listings, want 2", len(listings))
	}
}

func TestAshby_NoRenderer(t *testing.T) {
	a := &Ashby{logger: slog.Default()}
	if _, _, err := a.Fetch(context.Background(), ashbyBase); err == nil {
		t.Fatal("expected error without renderer")
	}
}
