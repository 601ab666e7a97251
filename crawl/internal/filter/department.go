package filter

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/jobwatch/crawl/internal/adapter"
)

// synonymRules widen a target keyword beyond its literal spelling. A rule
// fires when the target contains its trigger, and its pattern is matched
// in addition to the literal one.
var synonymRules = []struct {
	trigger string
	pattern *regexp.Regexp
}{
	{
		trigger: "engineering",
		pattern: regexp.MustCompile(`(?i)\b(software|backend|frontend|full.?stack|devops|infrastructure|sre)\s+engineer`),
	},
}

// keywordPattern matches the keyword as whole words, tolerant of the
// whitespace between them.
func keywordPattern(keyword string) *regexp.Regexp {
	words := strings.Fields(keyword)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(quoted, `\s+`) + `\b`)
}

type targetMatcher struct {
	keyword  string
	patterns []*regexp.Regexp
}

func (m targetMatcher) matches(s string) bool {
	for _, p := range m.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func compileTargets(targets []string) []targetMatcher {
	matchers := make([]targetMatcher, 0, len(targets))
	for _, t := range targets {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		m := targetMatcher{keyword: t, patterns: []*regexp.Regexp{keywordPattern(t)}}
		lower := strings.ToLower(t)
		for _, rule := range synonymRules {
			if strings.Contains(lower, rule.trigger) {
				m.patterns = append(m.patterns, rule.pattern)
			}
		}
		matchers = append(matchers, m)
	}
	return matchers
}

// ByDepartment keeps listings whose title or description matches one of
// the source's target keywords. Survivors get their Department stamped
// with the first target, which becomes the primary grouping key regardless
// of what the board reported. An empty target list disables the filter.
func ByDepartment(listings []adapter.Listing, targets []string) []adapter.Listing {
	matchers := compileTargets(targets)
	if len(matchers) == 0 {
		return listings
	}
	kept := listings[:0:0]
	for _, l := range listings {
		haystack := l.Title + " " + l.Description
		matched := false
		for _, m := range matchers {
			if m.matches(haystack) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		l.Department = matchers[0].keyword
		kept = append(kept, l)
	}
	return kept
}
