package audio

import (
	"fmt"
	"os"
)

// DurationSeconds estimates an MP3's play time from its size and the
// constant encoding bitrate.
func (s *Stitcher) DurationSeconds(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return float64(info.Size()) * 8 / float64(s.cfg.BitrateBPS), nil
}

// FormatDuration renders seconds as HH:MM:SS for the feed's duration tag.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
