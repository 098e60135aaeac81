package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newscast/internal/config"
)

func TestLoadDefaultsWithEnvSecrets(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("GOOGLE_TTS_API_KEY", "tts-key")
	t.Setenv("PAGES_BASE_URL", "https://example.github.io/newscast/")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Claude.APIKey != "test-key" {
		t.Fatalf("expected claude key from env, got %q", cfg.Claude.APIKey)
	}
	if cfg.TTS.APIKey != "tts-key" {
		t.Fatalf("expected tts key from env, got %q", cfg.TTS.APIKey)
	}
	if cfg.Podcast.BaseURL != "https://example.github.io/newscast" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Podcast.BaseURL)
	}
	if cfg.Ingest.LookbackDays != 7 {
		t.Fatalf("unexpected lookback: %d", cfg.Ingest.LookbackDays)
	}
	if cfg.TTS.ChunkByteLimit != 4800 {
		t.Fatalf("unexpected chunk byte limit: %d", cfg.TTS.ChunkByteLimit)
	}
	if len(cfg.Sources) == 0 {
		t.Fatal("expected default source list")
	}
	if !filepath.IsAbs(cfg.Paths.SiteDir) {
		t.Fatalf("expected normalized site dir, got %q", cfg.Paths.SiteDir)
	}
}

func TestLoadParsesFileAndReplacesSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newscast.toml")
	content := `
[podcast]
title = "Custom Weekly"
base_url = "https://pages.example.com"

[[sources]]
name = "only_source"
provider = "anthropic"
url = "https://example.com/feed.xml"
method = "rss"
enabled = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Podcast.Title != "Custom Weekly" {
		t.Fatalf("unexpected title: %q", cfg.Podcast.Title)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "only_source" {
		t.Fatalf("expected file sources to replace defaults, got %+v", cfg.Sources)
	}
}

func TestValidateAllowsUnknownMethod(t *testing.T) {
	// Unknown methods pass validation; the ingestor skips them with a
	// warning so one odd entry cannot abort the whole run.
	cfg := config.Default()
	cfg.Sources = []config.Source{{Name: "x", Provider: "p", URL: "https://example.com", Method: "ftp", Enabled: true}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unknown method should not fail validation: %v", err)
	}
}

func TestWriteSampleReplacesExistingFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("stale = true\n"), 0o644); err != nil {
		t.Fatalf("seed existing file: %v", err)
	}

	if err := config.WriteSample(target); err != nil {
		t.Fatalf("WriteSample over existing file: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if strings.Contains(string(data), "stale = true") {
		t.Fatalf("existing content survived: %q", data)
	}
	if !strings.Contains(string(data), "[podcast]") {
		t.Fatalf("sample content missing: %q", data)
	}
}

func TestValidateRequiresSelectorForScrape(t *testing.T) {
	cfg := config.Default()
	cfg.Sources = []config.Source{{Name: "x", Provider: "p", URL: "https://example.com", Method: "scrape", Enabled: true}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected css_selector requirement error")
	}
}

func TestValidateRejectsDuplicateNames(t *testing.T) {
	cfg := config.Default()
	cfg.Sources = []config.Source{
		{Name: "dup", Provider: "p", URL: "https://example.com/a", Method: "rss", Enabled: true},
		{Name: "dup", Provider: "p", URL: "https://example.com/b", Method: "rss", Enabled: true},
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate name") {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestEnabledSourcesPreservesOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Sources = []config.Source{
		{Name: "a", Provider: "p", URL: "u", Method: "rss", Enabled: true},
		{Name: "b", Provider: "p", URL: "u", Method: "rss", Enabled: false},
		{Name: "c", Provider: "p", URL: "u", Method: "rss", Enabled: true},
	}
	enabled := cfg.EnabledSources()
	if len(enabled) != 2 || enabled[0].Name != "a" || enabled[1].Name != "c" {
		t.Fatalf("unexpected enabled sources: %+v", enabled)
	}
}
