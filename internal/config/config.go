package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Source describes one configured content source.
type Source struct {
	Name        string `toml:"name"`
	Provider    string `toml:"provider"`
	URL         string `toml:"url"`
	Method      string `toml:"method"`
	CSSSelector string `toml:"css_selector"`
	Enabled     bool   `toml:"enabled"`
}

// Paths contains directory configuration.
type Paths struct {
	SiteDir      string `toml:"site_dir"`
	SnapshotsDir string `toml:"snapshots_dir"`
	RepoDir      string `toml:"repo_dir"`
	LogDir       string `toml:"log_dir"`
}

// Ingest contains source fetching settings.
type Ingest struct {
	LookbackDays          int    `toml:"lookback_days"`
	MaxSitemapItems       int    `toml:"max_sitemap_items"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	UserAgent             string `toml:"user_agent"`
	ModelsURL             string `toml:"models_url"`
}

// Claude contains settings for the generative text service.
type Claude struct {
	APIKey               string  `toml:"api_key"`
	Model                string  `toml:"model"`
	SummarizeMaxTokens   int     `toml:"summarize_max_tokens"`
	SummarizeTemperature float64 `toml:"summarize_temperature"`
	ScriptMaxTokens      int     `toml:"script_max_tokens"`
	ScriptTemperature    float64 `toml:"script_temperature"`
}

// Voice identifies one speech synthesis voice profile.
type Voice struct {
	LanguageCode string `toml:"language_code"`
	Name         string `toml:"name"`
	SSMLGender   string `toml:"ssml_gender"`
}

// TTS contains settings for the speech synthesis service.
type TTS struct {
	APIKey         string `toml:"api_key"`
	ChunkByteLimit int    `toml:"chunk_byte_limit"`
	Interviewer    Voice  `toml:"interviewer"`
	Expert         Voice  `toml:"expert"`
}

// Audio contains settings for episode assembly.
type Audio struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
	PauseMS      int    `toml:"pause_ms"`
	BitrateBPS   int    `toml:"bitrate_bps"`
}

// Podcast contains the published channel metadata.
type Podcast struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Author      string `toml:"author"`
	Email       string `toml:"email"`
	Language    string `toml:"language"`
	Category    string `toml:"category"`
	BaseURL     string `toml:"base_url"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for newscast.
type Config struct {
	Paths   Paths    `toml:"paths"`
	Ingest  Ingest   `toml:"ingest"`
	Claude  Claude   `toml:"claude"`
	TTS     TTS      `toml:"tts"`
	Audio   Audio    `toml:"audio"`
	Podcast Podcast  `toml:"podcast"`
	Logging Logging  `toml:"logging"`
	Sources []Source `toml:"sources"`
}

// EpisodesDir returns the directory episode audio files are published into.
func (c *Config) EpisodesDir() string {
	return filepath.Join(c.Paths.SiteDir, "episodes")
}

// FeedPath returns the location of the published RSS document.
func (c *Config) FeedPath() string {
	return filepath.Join(c.Paths.SiteDir, "feed.xml")
}

// EnabledSources returns the configured sources with disabled entries removed,
// preserving configuration order.
func (c *Config) EnabledSources() []Source {
	enabled := make([]Source, 0, len(c.Sources))
	for _, source := range c.Sources {
		if source.Enabled {
			enabled = append(enabled, source)
		}
	}
	return enabled
}

// EnsureDirectories creates the working directories the pipeline writes
// into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.SiteDir, c.EpisodesDir(), c.Paths.SnapshotsDir, c.Paths.LogDir}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath expands a leading ~ and returns an absolute, cleaned path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/newscast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// WriteSample writes the embedded sample configuration to the given path,
// replacing any existing file. Callers that must not clobber an existing
// config check for it first.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("newscast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
