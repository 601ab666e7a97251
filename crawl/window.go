package crawl

import (
	"strings"
	"time"
)

// ageWindows maps the named presets accepted on the command line and in
// source config to an hour count.
var ageWindows = map[string]int{
	"24h":   24,
	"1d":    24,
	"7d":    168,
	"15d":   360,
	"30d":   720,
	"1m":    720,
	"1mo":   720,
	"month": 720,
}

// Options narrows a crawl. Precedence when several age settings are
// given: MaxAgeHours, then MaxAgeDays, then AgeWindow. All zero/empty
// means no age filtering.
type Options struct {
	MaxAgeHours int
	MaxAgeDays  int
	AgeWindow   string
}

// maxAge resolves the options to a single duration, 0 meaning unbounded.
// Unknown window names resolve to 0 rather than failing the crawl.
func (o Options) maxAge() time.Duration {
	switch {
	case o.MaxAgeHours > 0:
		return time.Duration(o.MaxAgeHours) * time.Hour
	case o.MaxAgeDays > 0:
		return time.Duration(o.MaxAgeDays) * 24 * time.Hour
	case o.AgeWindow != "":
		if h, ok := ageWindows[strings.ToLower(strings.TrimSpace(o.AgeWindow))]; ok {
			return time.Duration(h) * time.Hour
		}
	}
	return 0
}
