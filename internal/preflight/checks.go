package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"newscast/internal/config"
	"newscast/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAPIKey verifies a credential is configured. The key is not exercised
// against the remote service; a bad key still fails at run time.
func CheckAPIKey(name, key string) Result {
	if strings.TrimSpace(key) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckSystemDeps evaluates the external binaries a run shells out to.
// Git is optional: without it prior snapshots cannot be read and every
// source is treated as new, but the run still completes.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []Result {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Audio.FFmpegBinary,
			Description: "Required for episode assembly",
		},
		{
			Name:        "Git",
			Command:     "git",
			Description: "Reads prior snapshots from the snapshots ref",
			Optional:    true,
		},
	}

	statuses := deps.CheckBinaries(requirements)
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		detail := status.Detail
		if status.Available {
			detail = status.Command
		}
		results = append(results, Result{
			Name:     status.Name,
			Passed:   status.Available,
			Optional: status.Optional,
			Detail:   detail,
		})
	}
	return results
}
