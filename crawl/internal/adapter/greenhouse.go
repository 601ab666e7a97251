// CLAUDE:SUMMARY Greenhouse adapter: server-rendered board parsed with div.job-item selectors.
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/hazyhaar/jobwatch/dom"
)

// Greenhouse crawls a server-rendered Greenhouse board. The markup carries
// little metadata, so missing fields degrade to explicit defaults ("N/A",
// "Remote") rather than empty values.
type Greenhouse struct {
	client *httpClient
	logger *slog.Logger
}

func (g *Greenhouse) Platform() string { return "greenhouse" }

func (g *Greenhouse) Fetch(ctx context.Context, baseURL string) ([]Listing, []SkippedItem, error) {
	body, err := g.client.get(ctx, baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("greenhouse: fetch %s: %w", baseURL, err)
	}

	doc, err := dom.Parse(body)
	if err != nil {
		return nil, nil, fmt.Errorf("greenhouse: parse: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("greenhouse: parse base url: %w", err)
	}

	var listings []Listing
	var skipped []SkippedItem

	for _, item := range dom.QuerySelectorAll(doc, "div.job-item") {
		titleElem := dom.QuerySelector(item, "h4")
		link := dom.QuerySelector(item, "a[href]")
		if titleElem == nil && link == nil {
			skipped = append(skipped, SkippedItem{
				Ref: firstChars(dom.Text(item), 80), Reason: "no title or link",
			})
			continue
		}

		title := "N/A"
		if titleElem != nil {
			if t := dom.Text(titleElem); t != "" {
				title = t
			}
		}

		location := "Remote"
		if loc := dom.QuerySelector(item, "span.location"); loc != nil {
			if l := dom.Text(loc); l != "" {
				location = l
			}
		}

		jobURL := baseURL
		if link != nil {
			jobURL = resolveHref(base, dom.Attr(link, "href"))
		}

		listings = append(listings, Listing{
			ExternalID:  dom.Attr(item, "data-job-id"),
			Title:       title,
			Company:     "Greenhouse",
			Location:    location,
			Description: dom.Markdown(dom.Render(item), baseURL, dom.Text(item)),
			JobType:     "full_time",
			URL:         jobURL,
		})
	}

	g.logger.Info("greenhouse: board crawled", "url", baseURL,
		"listings", len(listings), "skipped", len(skipped))
	return listings, skipped, nil
}

// resolveHref makes an href absolute against the board's base URL.
func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func firstChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
