package ingest

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/news"
)

// fetchFeedItems downloads and parses an RSS or Atom feed and returns the
// entries inside the lookback window. Feed failures are logged and yield
// an empty result instead of an error so that one dead feed never shows
// up as a source failure.
func (ing *Ingestor) fetchFeedItems(ctx context.Context, source config.Source) []news.Item {
	body, err := ing.get(ctx, source.URL, nil)
	if err != nil {
		ing.logger.Warn("feed fetch failed",
			logging.String(logging.FieldSource, source.Name),
			logging.Error(err))
		return nil
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		ing.logger.Warn("feed parse failed",
			logging.String(logging.FieldSource, source.Name),
			logging.Error(err))
		return nil
	}

	cutoff := ing.now().UTC().AddDate(0, 0, -ing.cfg.Ingest.LookbackDays)
	nowStamp := ing.now().UTC().Format(time.RFC3339)

	var items []news.Item
	for _, entry := range feed.Items {
		published := entry.PublishedParsed
		if published == nil {
			published = entry.UpdatedParsed
		}
		if published != nil && published.Before(cutoff) {
			continue
		}
		stamp := nowStamp
		if published != nil {
			stamp = published.UTC().Format(time.RFC3339)
		}
		items = append(items, news.Item{
			Title:     entry.Title,
			URL:       entry.Link,
			Summary:   Truncate(feedSummary(source.Method, entry), summaryMaxChars),
			Published: stamp,
			Method:    source.Method,
		})
	}
	return items
}

// feedSummary picks the entry body the way each feed flavour expects:
// Atom entries prefer their full content element, RSS entries their
// description.
func feedSummary(method string, entry *gofeed.Item) string {
	if method == "atom" && entry.Content != "" {
		return entry.Content
	}
	if entry.Description != "" {
		return entry.Description
	}
	return entry.Content
}
