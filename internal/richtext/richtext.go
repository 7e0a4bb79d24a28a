// Package richtext turns editor HTML into the plain text used for search
// and emptiness checks.
package richtext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "p, div, li, br, h1, h2, h3, h4, h5, h6, blockquote, pre, tr"

// PlainText strips markup and collapses whitespace. Block elements are
// treated as word boundaries so "<p>a</p><p>b</p>" becomes "a b".
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// IsBlank reports whether html has no visible text.
func IsBlank(html string) bool {
	return PlainText(html) == ""
}
