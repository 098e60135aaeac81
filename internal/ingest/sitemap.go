package ingest

import (
	"context"
	"encoding/xml"

	"newscast/internal/logging"
	"newscast/internal/services"
)

const maxSitemapDepth = 2

type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc     string `xml:"loc"`
		LastMod string `xml:"lastmod"`
	} `xml:"url"`
}

// fetchSitemap downloads a sitemap and returns its URLs mapped to their
// lastmod values (empty when absent) plus the URLs in document order.
// Sitemap index files are followed one level deep; a failing child
// sitemap is skipped rather than failing the whole source.
func (ing *Ingestor) fetchSitemap(ctx context.Context, url string, depth int) (map[string]string, []string, error) {
	body, err := ing.get(ctx, url, nil)
	if err != nil {
		return nil, nil, err
	}

	var index sitemapIndex
	if xml.Unmarshal(body, &index) == nil && len(index.Sitemaps) > 0 {
		if depth >= maxSitemapDepth {
			return nil, nil, services.Wrap(services.ErrTransient, "ingest", "sitemap",
				"sitemap index nesting too deep", nil)
		}
		entries := make(map[string]string)
		var order []string
		for _, child := range index.Sitemaps {
			childEntries, childOrder, err := ing.fetchSitemap(ctx, child.Loc, depth+1)
			if err != nil {
				ing.logger.Warn("child sitemap fetch failed, skipping",
					logging.String("url", child.Loc),
					logging.Error(err))
				continue
			}
			for _, loc := range childOrder {
				if _, seen := entries[loc]; !seen {
					order = append(order, loc)
				}
				entries[loc] = childEntries[loc]
			}
		}
		return entries, order, nil
	}

	var set urlSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, nil, services.Wrap(services.ErrTransient, "ingest", "sitemap", "parse sitemap xml", err)
	}

	entries := make(map[string]string, len(set.URLs))
	order := make([]string, 0, len(set.URLs))
	for _, entry := range set.URLs {
		if entry.Loc == "" {
			continue
		}
		if _, seen := entries[entry.Loc]; !seen {
			order = append(order, entry.Loc)
		}
		entries[entry.Loc] = entry.LastMod
	}
	return entries, order, nil
}
