// Package htmltext flattens stored HTML (vacancy descriptions) into plain
// text for the public listing and the matching engine.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text strips markup and collapses whitespace. Unparseable input is returned
// untouched rather than dropped.
func Text(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns at most limit runes of the flattened text, with an ellipsis
// when truncated.
func Excerpt(html string, limit int) string {
	t := Text(html)
	runes := []rune(t)
	if limit <= 0 || len(runes) <= limit {
		return t
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
