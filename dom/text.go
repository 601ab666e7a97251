package dom

import (
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizer = sync.OnceValue(func() *bluemonday.Policy {
		return bluemonday.UGCPolicy()
	})
	mdConverter = sync.OnceValue(func() *converter.Converter {
		return converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		)
	})
)

// Markdown sanitizes an HTML fragment and converts it to markdown.
// domain resolves relative links. If conversion fails or produces empty
// output, the fallback plain text is returned instead.
func Markdown(fragment, domain, fallback string) string {
	if fragment == "" {
		return fallback
	}
	clean := sanitizer().Sanitize(fragment)
	result, err := mdConverter().ConvertString(clean, converter.WithDomain(domain))
	if err != nil || strings.TrimSpace(result) == "" {
		return fallback
	}
	return strings.TrimSpace(result)
}
