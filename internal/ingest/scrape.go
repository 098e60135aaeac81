package ingest

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newscast/internal/services"
)

// scrape fetches a page and extracts the text of every element matching
// the source's CSS selector, one block per element.
func (ing *Ingestor) scrape(ctx context.Context, url, selector string) (string, error) {
	body, err := ing.get(ctx, url, nil)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "ingest", "scrape", "parse html", err)
	}

	var blocks []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text != "" {
			blocks = append(blocks, text)
		}
	})
	return strings.Join(blocks, "\n"), nil
}
