package dom

import (
	"strings"
	"testing"
)

const sample = `<html><body>
<div class="posting" data-job-id="j1">
  <a class="posting-title" href="/jobs/1"><h5>Backend Engineer</h5></a>
  <span class="posting-location">Berlin</span>
</div>
<div class="posting other" data-job-id="j2">
  <a class="posting-title" href="/jobs/2"><h5>Designer</h5></a>
</div>
<div id="footer"><script>var x = 1;</script>ignore me</div>
</body></html>`

func TestQuerySelectorAll_ClassAndTag(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	postings := QuerySelectorAll(doc, "div.posting")
	if len(postings) != 2 {
		t.Fatalf("div.posting: got %d matches, want 2", len(postings))
	}

	// Multi-class attribute still matches a single class selector.
	if Attr(postings[1], "data-job-id") != "j2" {
		t.Errorf("second posting data-job-id = %q, want j2", Attr(postings[1], "data-job-id"))
	}
}

func TestQuerySelectorAll_Descendant(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	titles := QuerySelectorAll(doc, "div.posting a.posting-title")
	if len(titles) != 2 {
		t.Fatalf("descendant selector: got %d, want 2", len(titles))
	}
	if got := Attr(titles[0], "href"); got != "/jobs/1" {
		t.Errorf("first title href = %q, want /jobs/1", got)
	}
}

func TestQuerySelectorAll_AttrSelector(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	anchors := QuerySelectorAll(doc, "a[href]")
	if len(anchors) != 2 {
		t.Fatalf("a[href]: got %d, want 2", len(anchors))
	}

	byID := QuerySelectorAll(doc, "div[data-job-id=j1]")
	if len(byID) != 1 {
		t.Fatalf("attr=val selector: got %d, want 1", len(byID))
	}
}

func TestQuerySelector_NoMatch(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n := QuerySelector(doc, "div.absent"); n != nil {
		t.Errorf("expected nil for absent class, got %v", n)
	}
}

func TestText_SkipsScript(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	footer := QuerySelector(doc, "#footer")
	if footer == nil {
		t.Fatal("footer not found")
	}
	text := Text(footer)
	if strings.Contains(text, "var x") {
		t.Errorf("Text included script contents: %q", text)
	}
	if !strings.Contains(text, "ignore me") {
		t.Errorf("Text missing visible content: %q", text)
	}
}

func TestMarkdown_SanitizesAndConverts(t *testing.T) {
	md := Markdown(`<p>Build <b>things</b></p><script>alert(1)</script>`, "https://example.com", "fallback")
	if strings.Contains(md, "alert") {
		t.Errorf("markdown kept script content: %q", md)
	}
	if !strings.Contains(md, "things") {
		t.Errorf("markdown lost content: %q", md)
	}
}

func TestMarkdown_FallbackOnEmpty(t *testing.T) {
	if got := Markdown("", "https://example.com", "plain"); got != "plain" {
		t.Errorf("empty fragment: got %q, want fallback", got)
	}
}
