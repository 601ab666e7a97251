// CLAUDE:SUMMARY Lever adapter: server-rendered board parsed with div.posting selectors.
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/hazyhaar/jobwatch/dom"
)

// Lever crawls a server-rendered Lever board. Same degradation rules as
// Greenhouse: missing fields become "N/A" or "Remote".
type Lever struct {
	client *httpClient
	logger *slog.Logger
}

func (l *Lever) Platform() string { return "lever" }

func (l *Lever) Fetch(ctx context.Context, baseURL string) ([]Listing, []SkippedItem, error) {
	body, err := l.client.get(ctx, baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("lever: fetch %s: %w", baseURL, err)
	}

	doc, err := dom.Parse(body)
	if err != nil {
		return nil, nil, fmt.Errorf("lever: parse: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("lever: parse base url: %w", err)
	}

	var listings []Listing
	var skipped []SkippedItem

	for _, item := range dom.QuerySelectorAll(doc, "div.posting") {
		titleLink := dom.QuerySelector(item, "a.posting-title")
		if titleLink == nil && !dom.HasAttr(item, "data-job-id") {
			skipped = append(skipped, SkippedItem{
				Ref: firstChars(dom.Text(item), 80), Reason: "no title or id",
			})
			continue
		}

		title := "N/A"
		jobURL := baseURL
		if titleLink != nil {
			if t := dom.Text(titleLink); t != "" {
				title = t
			}
			if href := dom.Attr(titleLink, "href"); href != "" {
				jobURL = resolveHref(base, href)
			}
		}

		location := "Remote"
		if loc := dom.QuerySelector(item, "span.posting-location"); loc != nil {
			if v := dom.Text(loc); v != "" {
				location = v
			}
		}

		company := "N/A"
		if c := dom.QuerySelector(item, "span.company-name"); c != nil {
			if v := dom.Text(c); v != "" {
				company = v
			}
		}

		listings = append(listings, Listing{
			ExternalID:  dom.Attr(item, "data-job-id"),
			Title:       title,
			Company:     company,
			Location:    location,
			Description: dom.Markdown(dom.Render(item), baseURL, dom.Text(item)),
			JobType:     "full_time",
			URL:         jobURL,
		})
	}

	l.logger.Info("lever: board crawled", "url", baseURL,
		"listings", len(listings), "skipped", len(skipped))
	return listings, skipped, nil
}
