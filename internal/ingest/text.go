package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Truncate strips any HTML markup from text and shortens it to at most
// maxChars characters, cutting at a word boundary and appending an
// ellipsis when anything was removed.
func Truncate(text string, maxChars int) string {
	cleaned := stripHTML(text)
	runes := []rune(cleaned)
	if len(runes) <= maxChars {
		return cleaned
	}
	cut := string(runes[:maxChars])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func stripHTML(text string) string {
	if !strings.Contains(text, "<") || !strings.Contains(text, ">") {
		return strings.Join(strings.Fields(text), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return strings.Join(strings.Fields(text), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
