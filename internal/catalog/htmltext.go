package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML reduces a rich-text description to plain text. Input without
// markup passes through (modulo whitespace collapsing); unparseable input
// falls back to the raw string.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return cleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return cleanText(s)
	}
	return cleanText(doc.Text())
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
