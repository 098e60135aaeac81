package publish

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"newscast/internal/audio"
	"newscast/internal/news"
	"newscast/internal/services"
)

// Metadata assembles the feed entry for a finished episode file. The
// duration comes from the stitcher's bitrate-based estimate.
func (p *Publisher) Metadata(mp3Path string, durationSeconds float64, now time.Time) (news.Episode, error) {
	info, err := os.Stat(mp3Path)
	if err != nil {
		return news.Episode{}, services.Wrap(services.ErrTransient, "publish", "metadata", "stat episode file", err)
	}

	now = now.UTC()
	dateStr := now.Format("2006-01-02")
	fileName := fmt.Sprintf("episode_%s.mp3", dateStr)

	return news.Episode{
		Title:       fmt.Sprintf("%s — %s", p.cfg.Podcast.Title, now.Format("January 2, 2006")),
		FileName:    fileName,
		URL:         fmt.Sprintf("%s/episodes/%s", p.cfg.Podcast.BaseURL, fileName),
		SizeBytes:   info.Size(),
		Duration:    audio.FormatDuration(durationSeconds),
		PubDate:     now.Format(http.TimeFormat),
		Description: fmt.Sprintf("%s episode for the week ending %s.", p.cfg.Podcast.Title, dateStr),
		GUID:        fmt.Sprintf("episode_%s", dateStr),
		PublishedAt: now,
	}, nil
}
