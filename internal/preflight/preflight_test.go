package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"newscast/internal/config"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccessNotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccessNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckAPIKey(t *testing.T) {
	if result := CheckAPIKey("key", "  "); result.Passed {
		t.Fatal("expected blank key to fail")
	}
	if result := CheckAPIKey("key", "secret"); !result.Passed {
		t.Fatalf("expected configured key to pass, got: %s", result.Detail)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAllReportsMissingCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.SiteDir = t.TempDir()
	cfg.Paths.SnapshotsDir = t.TempDir()
	cfg.Claude.APIKey = ""
	cfg.TTS.APIKey = "tts-key"

	results := RunAll(context.Background(), &cfg)

	byName := make(map[string]Result, len(results))
	for _, result := range results {
		byName[result.Name] = result
	}
	if !byName["Site directory"].Passed {
		t.Fatalf("site directory check failed: %s", byName["Site directory"].Detail)
	}
	if byName["Claude API key"].Passed {
		t.Fatal("expected missing Claude key to fail")
	}
	if !byName["TTS API key"].Passed {
		t.Fatal("expected configured TTS key to pass")
	}
	if _, ok := byName["FFmpeg"]; !ok {
		t.Fatal("expected FFmpeg check in results")
	}
	if git, ok := byName["Git"]; !ok || !git.Optional {
		t.Fatalf("expected optional git check, got %#v", git)
	}
}

func TestFailuresSkipsOptionalChecks(t *testing.T) {
	results := []Result{
		{Name: "required", Passed: false},
		{Name: "optional", Passed: false, Optional: true},
		{Name: "ok", Passed: true},
	}
	failed := Failures(results)
	if len(failed) != 1 || failed[0].Name != "required" {
		t.Fatalf("unexpected failures: %#v", failed)
	}
}
