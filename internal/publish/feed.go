// Package publish maintains the podcast RSS feed: episode metadata,
// feed bootstrap, and prepending new episodes to the channel.
package publish

import (
	_ "embed"
	"encoding/xml"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/news"
	"newscast/internal/services"
)

//go:embed feed_template.xml
var feedTemplate string

const (
	itunesNS = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	atomNS   = "http://www.w3.org/2005/Atom"
)

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

// rssChannel keeps items as the last field so that a marshalled feed
// always carries the channel metadata above the episode list.
//
// Only the elements modeled here survive a load/publish cycle. Channel
// children added by hand (itunes:image, generator, and the like) are
// dropped the next time the feed is rewritten.
type rssChannel struct {
	Title       string          `xml:"title"`
	Link        string          `xml:"link"`
	Description string          `xml:"description"`
	Language    string          `xml:"language,omitempty"`
	AtomLink    *atomLink       `xml:"http://www.w3.org/2005/Atom link,omitempty"`
	Author      string          `xml:"http://www.itunes.com/dtds/podcast-1.0.dtd author,omitempty"`
	Explicit    string          `xml:"http://www.itunes.com/dtds/podcast-1.0.dtd explicit,omitempty"`
	Category    *itunesCategory `xml:"http://www.itunes.com/dtds/podcast-1.0.dtd category,omitempty"`
	Owner       *itunesOwner    `xml:"http://www.itunes.com/dtds/podcast-1.0.dtd owner,omitempty"`
	Items       []rssItem       `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type itunesCategory struct {
	Text string `xml:"text,attr"`
}

type itunesOwner struct {
	Name  string `xml:"http://www.itunes.com/dtds/podcast-1.0.dtd name,omitempty"`
	Email string `xml:"http://www.itunes.com/dtds/podcast-1.0.dtd email,omitempty"`
}

type rssItem struct {
	Title       string    `xml:"title"`
	Description string    `xml:"description"`
	Enclosure   enclosure `xml:"enclosure"`
	GUID        rssGUID   `xml:"guid"`
	PubDate     string    `xml:"pubDate"`
	Duration    string    `xml:"http://www.itunes.com/dtds/podcast-1.0.dtd duration,omitempty"`
	Summary     string    `xml:"http://www.itunes.com/dtds/podcast-1.0.dtd summary,omitempty"`
	EpisodeType string    `xml:"http://www.itunes.com/dtds/podcast-1.0.dtd episodeType,omitempty"`
}

type enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Publisher writes episodes into the site's RSS feed.
type Publisher struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New builds a Publisher from the runtime configuration.
func New(cfg *config.Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Publisher{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "publish"),
	}
}

// Publish inserts the episode as the newest item of the feed, creating
// the feed from the template on first run.
func (p *Publisher) Publish(episode news.Episode) error {
	feedPath := p.cfg.FeedPath()
	if _, err := os.Stat(feedPath); os.IsNotExist(err) {
		if err := p.bootstrapFeed(feedPath); err != nil {
			return err
		}
	}

	raw, err := os.ReadFile(feedPath)
	if err != nil {
		return services.Wrap(services.ErrTransient, "publish", "feed", "read feed", err)
	}
	var feed rssFeed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return services.Wrap(services.ErrValidation, "publish", "feed", "parse feed", err)
	}

	item := rssItem{
		Title:       episode.Title,
		Description: episode.Description,
		Enclosure: enclosure{
			URL:    episode.URL,
			Length: episode.SizeBytes,
			Type:   "audio/mpeg",
		},
		GUID:        rssGUID{IsPermaLink: "false", Value: episode.GUID},
		PubDate:     episode.PubDate,
		Duration:    episode.Duration,
		Summary:     episode.Description,
		EpisodeType: "full",
	}
	feed.Channel.Items = append([]rssItem{item}, feed.Channel.Items...)

	encoded, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrTransient, "publish", "feed", "encode feed", err)
	}
	content := []byte(xml.Header + string(encoded) + "\n")
	if err := os.WriteFile(feedPath, content, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "publish", "feed", "write feed", err)
	}

	p.logger.Info("feed updated",
		logging.String("episode", episode.Title),
		logging.Int("items", len(feed.Channel.Items)))
	return nil
}

// bootstrapFeed creates the initial feed from the embedded template,
// substituting the configured podcast identity.
func (p *Publisher) bootstrapFeed(feedPath string) error {
	if err := os.MkdirAll(filepath.Dir(feedPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "publish", "feed", "create site dir", err)
	}

	replacer := strings.NewReplacer(
		"{PAGES_BASE_URL}", p.cfg.Podcast.BaseURL,
		"{PODCAST_TITLE}", p.cfg.Podcast.Title,
		"{PODCAST_DESCRIPTION}", p.cfg.Podcast.Description,
		"{PODCAST_AUTHOR}", p.cfg.Podcast.Author,
		"{PODCAST_EMAIL}", p.cfg.Podcast.Email,
		"{PODCAST_LANGUAGE}", p.cfg.Podcast.Language,
		"{PODCAST_CATEGORY}", p.cfg.Podcast.Category,
	)
	content := replacer.Replace(feedTemplate)
	if err := os.WriteFile(feedPath, []byte(content), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "publish", "feed", "write initial feed", err)
	}
	p.logger.Info("created initial feed", logging.String("path", feedPath))
	return nil
}
