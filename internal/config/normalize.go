package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSecrets()
	c.normalizeIngest()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SiteDir) == "" {
		c.Paths.SiteDir = defaultSiteDir
	}
	if c.Paths.SiteDir, err = expandPath(c.Paths.SiteDir); err != nil {
		return fmt.Errorf("paths.site_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SnapshotsDir) == "" {
		c.Paths.SnapshotsDir = defaultSnapshotsDir
	}
	if c.Paths.SnapshotsDir, err = expandPath(c.Paths.SnapshotsDir); err != nil {
		return fmt.Errorf("paths.snapshots_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.RepoDir) == "" {
		c.Paths.RepoDir = defaultRepoDir
	}
	if c.Paths.RepoDir, err = expandPath(c.Paths.RepoDir); err != nil {
		return fmt.Errorf("paths.repo_dir: %w", err)
	}
	if c.Paths.LogDir != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSecrets() {
	if strings.TrimSpace(c.Claude.APIKey) == "" {
		if value, ok := os.LookupEnv("ANTHROPIC_API_KEY"); ok {
			c.Claude.APIKey = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.TTS.APIKey) == "" {
		if value, ok := os.LookupEnv("GOOGLE_TTS_API_KEY"); ok {
			c.TTS.APIKey = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Podcast.BaseURL) == "" {
		if value, ok := os.LookupEnv("PAGES_BASE_URL"); ok {
			c.Podcast.BaseURL = strings.TrimSpace(value)
		}
	}
	c.Podcast.BaseURL = strings.TrimRight(c.Podcast.BaseURL, "/")
}

func (c *Config) normalizeIngest() {
	if c.Ingest.LookbackDays <= 0 {
		c.Ingest.LookbackDays = defaultLookbackDays
	}
	if c.Ingest.MaxSitemapItems <= 0 {
		c.Ingest.MaxSitemapItems = defaultMaxSitemapItems
	}
	if c.Ingest.RequestTimeoutSeconds <= 0 {
		c.Ingest.RequestTimeoutSeconds = defaultRequestTimeout
	}
	if strings.TrimSpace(c.Ingest.UserAgent) == "" {
		c.Ingest.UserAgent = defaultUserAgent
	}
	if strings.TrimSpace(c.Ingest.ModelsURL) == "" {
		c.Ingest.ModelsURL = defaultModelsURL
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
