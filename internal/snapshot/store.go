package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"newscast/internal/logging"
	"newscast/internal/textutil"
)

// DefaultRef is the versioned reference prior snapshots are read from.
const DefaultRef = "origin/snapshots"

// ShowFunc reads one blob from a versioned reference. The default
// implementation shells out to git; tests substitute their own.
type ShowFunc func(ctx context.Context, repoDir, spec string) ([]byte, error)

// Store reads prior snapshots from a versioned git reference and writes new
// ones to the working copy, one JSON document per source name.
type Store struct {
	dir     string
	repoDir string
	ref     string
	logger  *slog.Logger
	show    ShowFunc
}

// Option customizes the store.
type Option func(*Store)

// WithRef overrides the versioned reference snapshots are loaded from.
func WithRef(ref string) Option {
	return func(s *Store) {
		if strings.TrimSpace(ref) != "" {
			s.ref = ref
		}
	}
}

// WithShowFunc overrides how versioned blobs are read (useful for tests).
func WithShowFunc(show ShowFunc) Option {
	return func(s *Store) {
		if show != nil {
			s.show = show
		}
	}
}

// NewStore constructs a snapshot store rooted at dir, reading prior state
// from the git repository at repoDir.
func NewStore(dir, repoDir string, logger *slog.Logger, opts ...Option) *Store {
	store := &Store{
		dir:     dir,
		repoDir: repoDir,
		ref:     DefaultRef,
		logger:  logging.NewComponentLogger(logger, "snapshot"),
		show:    gitShow,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Load returns the prior snapshot for the source, or ok=false when no usable
// prior snapshot exists. Every failure mode (missing branch, missing file,
// corrupt JSON, git unavailable) is cold-start, never an error.
func (s *Store) Load(ctx context.Context, sourceName string, target any) bool {
	spec := fmt.Sprintf("%s:snapshots/%s.json", s.ref, textutil.SanitizeToken(sourceName))
	raw, err := s.show(ctx, s.repoDir, spec)
	if err != nil {
		s.logger.Info("no previous snapshot",
			logging.String(logging.FieldSource, sourceName),
			logging.String("ref", s.ref),
		)
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		s.logger.Warn("discarding corrupt snapshot",
			logging.String(logging.FieldSource, sourceName),
			logging.Error(err),
		)
		return false
	}
	return true
}

// Save writes the snapshot for the source to the working copy. Write failure
// is a hard local error and is not retried.
func (s *Store) Save(sourceName string, data any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("ensure snapshots directory: %w", err)
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", sourceName, err)
	}
	path := filepath.Join(s.dir, textutil.SanitizeToken(sourceName)+".json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", sourceName, err)
	}
	s.logger.Debug("saved snapshot",
		logging.String(logging.FieldSource, sourceName),
		logging.String("path", path),
	)
	return nil
}

func gitShow(ctx context.Context, repoDir, spec string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", "show", spec)
	cmd.Dir = repoDir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git show %s: %w", spec, err)
	}
	return output, nil
}
