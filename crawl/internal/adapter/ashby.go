// CLAUDE:SUMMARY Ashby adapter: headless render, anchor discovery merged with embedded __appData metadata.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/hazyhaar/jobwatch/dom"
)

// Ashby crawls a JS-hydrated AshbyHQ company board. Discovery comes from the
// rendered anchor elements; authoritative metadata (title, department,
// location, posting date) comes from the embedded window.__appData client
// state, keyed by the posting id in the anchor path's final segment. The two
// can disagree — anchors win for URL construction, appData for metadata.
type Ashby struct {
	renderer Renderer
	logger   *slog.Logger
}

func (a *Ashby) Platform() string { return "ashby" }

func (a *Ashby) Fetch(ctx context.Context, baseURL string) ([]Listing, []SkippedItem, error) {
	if a.renderer == nil {
		return nil, nil, fmt.Errorf("ashby: no renderer configured")
	}

	res, err := a.renderer.Render(ctx, baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("ashby: render %s: %w", baseURL, err)
	}

	listings, skipped, err := parseAshby(res.HTML, res.AppData, baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("ashby: %w", err)
	}

	a.logger.Info("ashby: board crawled", "url", baseURL,
		"listings", len(listings), "skipped", len(skipped))
	return listings, skipped, nil
}

// ashbyAppData mirrors the relevant slice of window.__appData.
type ashbyAppData struct {
	JobBoard struct {
		JobPostings []ashbyPosting `json:"jobPostings"`
	} `json:"jobBoard"`
}

type ashbyPosting struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	DepartmentName     string `json:"departmentName"`
	TeamName           string `json:"teamName"`
	LocationName       string `json:"locationName"`
	EmploymentType     string `json:"employmentType"`
	PublishedDate      string `json:"publishedDate"`
	SecondaryLocations []struct {
		LocationName string `json:"locationName"`
	} `json:"secondaryLocations"`
}

// ashbyMinIDLen filters out navigation anchors: real posting ids are long
// opaque identifiers, nav paths end in short words.
const ashbyMinIDLen = 20

func parseAshby(renderedHTML, appData []byte, baseURL string) ([]Listing, []SkippedItem, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse base url: %w", err)
	}
	origin := base.Scheme + "://" + base.Host
	slug := strings.Trim(base.Path, "/")

	doc, err := dom.Parse(renderedHTML)
	if err != nil {
		return nil, nil, fmt.Errorf("parse html: %w", err)
	}

	// Index posting metadata by id.
	idToPosting := make(map[string]ashbyPosting)
	if len(appData) > 0 && string(appData) != "null" {
		var data ashbyAppData
		if err := json.Unmarshal(appData, &data); err == nil {
			for _, p := range data.JobBoard.JobPostings {
				if p.ID != "" {
					idToPosting[p.ID] = p
				}
			}
		}
	}

	var listings []Listing
	var skipped []SkippedItem

	for _, anchor := range dom.QuerySelectorAll(doc, "a[href]") {
		href := strings.TrimSpace(dom.Attr(anchor, "href"))

		if strings.Contains(href, "/apply") || !strings.Contains(href, slug) {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			skipped = append(skipped, SkippedItem{Ref: href, Reason: "unparsable href"})
			continue
		}
		parts := splitPath(ref.Path)
		if len(parts) == 0 || len(parts[len(parts)-1]) < ashbyMinIDLen {
			continue
		}
		externalID := parts[len(parts)-1]

		// Platform quirk: some boards nest postings under /{slug}/jobs/{id},
		// others use the direct /{slug}/{id} form. The rendered anchor decides,
		// and the canonical URL must preserve whichever form it used.
		var jobURL string
		if len(parts) >= 3 && parts[1] == "jobs" {
			jobURL = origin + "/" + slug + "/jobs/" + externalID
		} else {
			jobURL = origin + "/" + slug + "/" + externalID
		}

		posting := idToPosting[externalID]

		title := posting.Title
		if title == "" {
			title = dom.Text(anchor)
		}
		if title == "" {
			skipped = append(skipped, SkippedItem{Ref: href, Reason: "no title"})
			continue
		}

		department := posting.DepartmentName
		if department == "" {
			department = posting.TeamName
		}

		location := posting.LocationName
		if location == "" {
			location = "Remote"
		}
		if len(posting.SecondaryLocations) > 0 {
			if sec := posting.SecondaryLocations[0].LocationName; sec != "" {
				location = location + ", " + sec
			}
		}

		jobType := "unknown"
		if posting.EmploymentType == "FullTime" {
			jobType = "full_time"
		}

		listings = append(listings, Listing{
			ExternalID:  externalID,
			Title:       title,
			Company:     slug,
			Location:    location,
			Department:  department,
			Description: "",
			JobType:     jobType,
			URL:         jobURL,
			PostingDate: posting.PublishedDate,
		})
	}

	return listings, skipped, nil
}

// splitPath returns the non-empty segments of a URL path.
func splitPath(p string) []string {
	var parts []string
	for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts
}
