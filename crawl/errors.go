package crawl

import (
	"errors"

	"github.com/hazyhaar/jobwatch/crawl/internal/adapter"
)

var (
	// ErrSourceNotFound is returned when a crawl targets a source id
	// that does not exist in the store.
	ErrSourceNotFound = errors.New("crawl: source not found")

	// ErrUnsupportedPlatform is returned when a source names a platform
	// no adapter is registered for.
	ErrUnsupportedPlatform = adapter.ErrUnsupportedPlatform
)
