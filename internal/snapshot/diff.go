package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"newscast/internal/news"
)

// ScrapeSnapshot is the persisted state of a scraped page.
type ScrapeSnapshot struct {
	FetchedAt   string `json:"fetched_at"`
	ContentHash string `json:"content_hash"`
	RawText     string `json:"raw_text"`
}

// SitemapSnapshot is the persisted URL set of a sitemap source. Map values
// are lastmod strings; an empty value means the sitemap carried no lastmod.
type SitemapSnapshot struct {
	FetchedAt string            `json:"fetched_at"`
	URLs      map[string]string `json:"urls"`
}

// ModelsSnapshot is the persisted model listing of an API source.
type ModelsSnapshot struct {
	FetchedAt string       `json:"fetched_at"`
	Models    []news.Model `json:"models"`
}

// Detector applies the per-method change detection rules on top of a Store.
// Every rule saves the current observation unconditionally before returning
// its diff: detection state tracks last observed, not last announced.
type Detector struct {
	store *Store
	now   func() time.Time
}

// NewDetector wires a change detector over the given store.
func NewDetector(store *Store) *Detector {
	return &Detector{store: store, now: time.Now}
}

// DiffScrape reports whether the scraped text differs from the prior
// observation, comparing a SHA-256 digest of the whole text. Content changes
// below digest resolution are invisible by design.
func (d *Detector) DiffScrape(ctx context.Context, sourceName, currentText string) (bool, error) {
	digest := sha256.Sum256([]byte(currentText))
	currentHash := hex.EncodeToString(digest[:])

	var previous ScrapeSnapshot
	hasPrevious := d.store.Load(ctx, sourceName, &previous)

	if err := d.store.Save(sourceName, ScrapeSnapshot{
		FetchedAt:   d.timestamp(),
		ContentHash: currentHash,
		RawText:     currentText,
	}); err != nil {
		return false, err
	}

	if !hasPrevious {
		return true, nil
	}
	return previous.ContentHash != currentHash, nil
}

// DiffSitemap returns the URLs that are new or whose lastmod changed since
// the prior observation, plus whether a prior observation existed at all.
// URL iteration follows the order slice to keep results deterministic.
func (d *Detector) DiffSitemap(ctx context.Context, sourceName string, urls map[string]string, order []string) ([]string, bool, error) {
	var previous SitemapSnapshot
	hasPrevious := d.store.Load(ctx, sourceName, &previous)

	if err := d.store.Save(sourceName, SitemapSnapshot{
		FetchedAt: d.timestamp(),
		URLs:      urls,
	}); err != nil {
		return nil, hasPrevious, err
	}

	if !hasPrevious {
		return append([]string(nil), order...), false, nil
	}

	var fresh []string
	for _, url := range order {
		prevLastmod, known := previous.URLs[url]
		lastmod := urls[url]
		switch {
		case !known:
			fresh = append(fresh, url)
		case lastmod != "" && lastmod != prevLastmod:
			fresh = append(fresh, url)
		}
	}
	return fresh, true, nil
}

// DiffModels returns the models whose identifiers were absent from the prior
// observation. Field-level changes to existing models are not detected.
func (d *Detector) DiffModels(ctx context.Context, sourceName string, models []news.Model) ([]news.Model, error) {
	var previous ModelsSnapshot
	hasPrevious := d.store.Load(ctx, sourceName, &previous)

	if err := d.store.Save(sourceName, ModelsSnapshot{
		FetchedAt: d.timestamp(),
		Models:    models,
	}); err != nil {
		return nil, err
	}

	if !hasPrevious {
		return append([]news.Model(nil), models...), nil
	}

	prevIDs := make(map[string]struct{}, len(previous.Models))
	for _, model := range previous.Models {
		prevIDs[model.ID] = struct{}{}
	}
	var fresh []news.Model
	for _, model := range models {
		if _, ok := prevIDs[model.ID]; !ok {
			fresh = append(fresh, model)
		}
	}
	return fresh, nil
}

func (d *Detector) timestamp() string {
	return d.now().UTC().Format(time.RFC3339)
}
