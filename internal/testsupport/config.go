package testsupport

import (
	"path/filepath"
	"testing"

	"newscast/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SiteDir = filepath.Join(base, "site")
	cfg.Paths.SnapshotsDir = filepath.Join(base, "snapshots")
	cfg.Paths.RepoDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Claude.APIKey = "claude-test-key"
	cfg.TTS.APIKey = "tts-test-key"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SiteDir)
}
