package preflight

import (
	"context"

	"newscast/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every check a full publishing run depends on.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Site directory", cfg.Paths.SiteDir),
		CheckDirectoryAccess("Snapshots directory", cfg.Paths.SnapshotsDir),
		CheckAPIKey("Claude API key", cfg.Claude.APIKey),
		CheckAPIKey("TTS API key", cfg.TTS.APIKey),
	}
	results = append(results, CheckSystemDeps(ctx, cfg)...)
	return results
}

// Failures filters results down to failed required checks. Failed optional
// checks degrade behaviour but never block a run.
func Failures(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed && !result.Optional {
			failed = append(failed, result)
		}
	}
	return failed
}
