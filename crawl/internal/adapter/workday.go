// CLAUDE:SUMMARY Workday adapter: headless render followed by plain selector extraction, no client-state merge.
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/hazyhaar/jobwatch/dom"
)

// Workday crawls a JS-hydrated Workday board. It needs the same rendering
// step as Ashby but extraction is plain selector matching on the rendered
// DOM — Workday exposes no usable embedded client state.
type Workday struct {
	renderer Renderer
	logger   *slog.Logger
}

func (w *Workday) Platform() string { return "workday" }

func (w *Workday) Fetch(ctx context.Context, baseURL string) ([]Listing, []SkippedItem, error) {
	if w.renderer == nil {
		return nil, nil, fmt.Errorf("workday: no renderer configured")
	}

	res, err := w.renderer.Render(ctx, baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("workday: render %s: %w", baseURL, err)
	}

	listings, skipped, err := parseWorkday(res.HTML, baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("workday: %w", err)
	}

	w.logger.Info("workday: board crawled", "url", baseURL,
		"listings", len(listings), "skipped", len(skipped))
	return listings, skipped, nil
}

func parseWorkday(renderedHTML []byte, baseURL string) ([]Listing, []SkippedItem, error) {
	doc, err := dom.Parse(renderedHTML)
	if err != nil {
		return nil, nil, fmt.Errorf("parse html: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse base url: %w", err)
	}

	var listings []Listing
	var skipped []SkippedItem

	for _, item := range dom.QuerySelectorAll(doc, "div.job-item") {
		titleLink := dom.QuerySelector(item, "a.job-title")
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
		if loc := dom.QuerySelector(item, "span.job-location"); loc != nil {
			if v := dom.Text(loc); v != "" {
				location = v
			}
		}

		listings = append(listings, Listing{
			ExternalID:  dom.Attr(item, "data-job-id"),
			Title:       title,
			Company:     "Workday",
			Location:    location,
			Description: dom.Markdown(dom.Render(item), baseURL, dom.Text(item)),
			JobType:     "full_time",
			URL:         jobURL,
		})
	}

	return listings, skipped, nil
}
