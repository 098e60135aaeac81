package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/news"
	"newscast/internal/snapshot"
)

// Ingestor runs the fetch phase of the pipeline across all enabled sources.
type Ingestor struct {
	cfg      *config.Config
	detector *snapshot.Detector
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

// Option adjusts optional Ingestor behaviour.
type Option func(*Ingestor)

// WithHTTPClient overrides the HTTP client used for all source fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(ing *Ingestor) {
		ing.client = client
	}
}

// WithClock overrides the time source. Tests use this to pin the lookback
// window.
func WithClock(now func() time.Time) Option {
	return func(ing *Ingestor) {
		ing.now = now
	}
}

// New builds an Ingestor from the runtime configuration. The detector may
// be nil, in which case scrape, sitemap, and api sources treat everything
// they fetch as new.
func New(cfg *config.Config, detector *snapshot.Detector, logger *slog.Logger, opts ...Option) *Ingestor {
	if logger == nil {
		logger = logging.NewNop()
	}
	ing := &Ingestor{
		cfg:      cfg,
		detector: detector,
		client: &http.Client{
			Timeout: time.Duration(cfg.Ingest.RequestTimeoutSeconds) * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Run fetches every enabled source and returns the grouped results.
// Individual source failures are recorded in the returned content rather
// than aborting the run.
func (ing *Ingestor) Run(ctx context.Context) news.Content {
	content := news.Content{ByProvider: make(map[string][]news.Item)}
	for _, provider := range config.Providers() {
		content.ByProvider[provider] = nil
	}

	for _, source := range ing.cfg.EnabledSources() {
		log := logging.WithContext(ctx, ing.logger).With(logging.String(logging.FieldSource, source.Name))

		items, err := ing.ingestSource(ctx, source)
		if err != nil {
			log.Warn("source ingest failed", logging.Error(err))
			content.Errors = append(content.Errors, news.SourceError{
				Source: source.Name,
				Error:  err.Error(),
			})
			continue
		}
		for i := range items {
			items[i].SourceName = source.Name
			items[i].Provider = source.Provider
		}
		content.ByProvider[source.Provider] = append(content.ByProvider[source.Provider], items...)
		log.Info("source ingested", logging.Int("items", len(items)))
	}

	ing.logger.Info("ingest complete",
		logging.Int("total_items", content.TotalItems()),
		logging.Int("failed_sources", len(content.Errors)))
	return content
}

func (ing *Ingestor) ingestSource(ctx context.Context, source config.Source) ([]news.Item, error) {
	switch source.Method {
	case "rss", "atom":
		return ing.fetchFeedItems(ctx, source), nil
	case "scrape":
		return ing.ingestScrape(ctx, source)
	case "sitemap":
		return ing.ingestSitemap(ctx, source)
	case "api":
		return ing.ingestModels(ctx, source)
	default:
		ing.logger.Warn("unknown source method, skipping",
			logging.String(logging.FieldSource, source.Name),
			logging.String("method", source.Method))
		return nil, nil
	}
}

func (ing *Ingestor) ingestScrape(ctx context.Context, source config.Source) ([]news.Item, error) {
	text, err := ing.scrape(ctx, source.URL, source.CSSSelector)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	changed := true
	if ing.detector != nil {
		var derr error
		changed, derr = ing.detector.DiffScrape(ctx, source.Name, text)
		if derr != nil {
			ing.logger.Warn("scrape change detection failed, treating content as new",
				logging.String(logging.FieldSource, source.Name),
				logging.Error(derr))
			changed = true
		}
	}
	if !changed {
		return nil, nil
	}

	nowStamp := ing.now().UTC().Format(time.RFC3339)
	return []news.Item{{
		Title:     source.Name,
		URL:       source.URL,
		Summary:   Truncate(text, summaryMaxChars),
		Published: nowStamp,
		Method:    "scrape",
	}}, nil
}

func (ing *Ingestor) ingestSitemap(ctx context.Context, source config.Source) ([]news.Item, error) {
	entries, order, err := ing.fetchSitemap(ctx, source.URL, 0)
	if err != nil {
		return nil, err
	}

	fresh := order
	hadPrior := true
	if ing.detector != nil {
		var derr error
		fresh, hadPrior, derr = ing.detector.DiffSitemap(ctx, source.Name, entries, order)
		if derr != nil {
			ing.logger.Warn("sitemap change detection failed, treating all entries as new",
				logging.String(logging.FieldSource, source.Name),
				logging.Error(derr))
			fresh, hadPrior = order, true
		}
	}

	cutoff := ing.now().UTC().AddDate(0, 0, -ing.cfg.Ingest.LookbackDays)
	nowStamp := ing.now().UTC().Format(time.RFC3339)

	var items []news.Item
	for _, loc := range fresh {
		lastmod := entries[loc]
		published := nowStamp
		if lastmod != "" {
			if parsed, ok := parseLastmod(lastmod); ok {
				if parsed.Before(cutoff) {
					continue
				}
				published = parsed.UTC().Format(time.RFC3339)
			}
		} else if hadPrior {
			// Without a lastmod there is nothing to age-filter on, so
			// undated entries only count on the very first observation
			// of the sitemap.
			continue
		}
		items = append(items, news.Item{
			Title:     sitemapTitle(loc),
			URL:       loc,
			Published: published,
			Method:    "sitemap",
		})
	}

	if max := ing.cfg.Ingest.MaxSitemapItems; max > 0 && len(items) > max {
		ing.logger.Warn("sitemap produced more items than allowed, truncating",
			logging.String(logging.FieldSource, source.Name),
			logging.Int("found", len(items)),
			logging.Int("kept", max))
		items = items[:max]
	}
	return items, nil
}

func (ing *Ingestor) ingestModels(ctx context.Context, source config.Source) ([]news.Item, error) {
	models, err := ing.fetchModels(ctx)
	if err != nil {
		return nil, err
	}

	fresh := models
	if ing.detector != nil {
		var derr error
		fresh, derr = ing.detector.DiffModels(ctx, source.Name, models)
		if derr != nil {
			ing.logger.Warn("model change detection failed, treating all models as new",
				logging.String(logging.FieldSource, source.Name),
				logging.Error(derr))
			fresh = models
		}
	}

	nowStamp := ing.now().UTC().Format(time.RFC3339)
	items := make([]news.Item, 0, len(fresh))
	for _, model := range fresh {
		created := model.CreatedAt
		if created == "" {
			created = "unknown"
		}
		published := model.CreatedAt
		if published == "" {
			published = nowStamp
		}
		title := model.DisplayName
		if title == "" {
			title = model.ID
		}
		items = append(items, news.Item{
			Title:     title,
			URL:       source.URL,
			Summary:   fmt.Sprintf("New model available: %s (created %s)", model.ID, created),
			Published: published,
			Method:    "api",
		})
	}
	return items, nil
}

const summaryMaxChars = 500

func parseLastmod(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func sitemapTitle(loc string) string {
	parsed, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return loc
	}
	return strings.ReplaceAll(strings.ReplaceAll(last, "-", " "), "_", " ")
}
