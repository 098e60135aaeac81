// Package audio stitches per-segment MP3 files into a finished episode
// using ffmpeg, and derives episode duration metadata.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"newscast/internal/config"
	"newscast/internal/fileutil"
	"newscast/internal/logging"
	"newscast/internal/services"
)

// Stitcher drives ffmpeg to assemble episodes.
type Stitcher struct {
	cfg    config.Audio
	logger *slog.Logger
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Option customizes the stitcher.
type Option func(*Stitcher)

// WithRunner overrides how external commands are executed (useful for
// tests).
func WithRunner(run func(ctx context.Context, name string, args ...string) ([]byte, error)) Option {
	return func(s *Stitcher) {
		s.run = run
	}
}

// New builds a Stitcher from the audio configuration.
func New(cfg config.Audio, logger *slog.Logger, opts ...Option) *Stitcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	stitcher := &Stitcher{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "audio"),
		run:    runCommand,
	}
	for _, opt := range opts {
		opt(stitcher)
	}
	return stitcher
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w (output: %s)", name, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

// GenerateSilence writes a silent MP3 of the given length to path.
func (s *Stitcher) GenerateSilence(ctx context.Context, durationMS int, path string) error {
	seconds := float64(durationMS) / 1000
	_, err := s.run(ctx, s.cfg.FFmpegBinary,
		"-y",
		"-f", "lavfi",
		"-i", "anullsrc=r=24000:cl=mono",
		"-t", strconv.FormatFloat(seconds, 'f', -1, 64),
		"-c:a", "libmp3lame",
		"-b:a", s.bitrateArg(),
		path,
	)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "audio", "silence", "generate silence", err)
	}
	return nil
}

// Stitch concatenates the segment files into outputPath, inserting the
// configured pause between speaker turns.
func (s *Stitcher) Stitch(ctx context.Context, segmentPaths []string, outputPath string) error {
	if len(segmentPaths) == 0 {
		return services.Wrap(services.ErrValidation, "audio", "stitch", "no segments to stitch", nil)
	}

	tmpDir, err := os.MkdirTemp("", "stitch_")
	if err != nil {
		return services.Wrap(services.ErrTransient, "audio", "stitch", "create temp dir", err)
	}
	defer os.RemoveAll(tmpDir)

	silencePath := filepath.Join(tmpDir, "silence.mp3")
	if err := s.GenerateSilence(ctx, s.cfg.PauseMS, silencePath); err != nil {
		return err
	}

	listPath := filepath.Join(tmpDir, "concat_list.txt")
	if err := os.WriteFile(listPath, []byte(concatList(segmentPaths, silencePath)), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "audio", "stitch", "write concat list", err)
	}

	// ffmpeg writes into the temp dir; the finished episode only lands at
	// outputPath once the concat completed and the copy verified.
	stitchedPath := filepath.Join(tmpDir, "episode.mp3")
	_, err = s.run(ctx, s.cfg.FFmpegBinary,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:a", "libmp3lame",
		"-b:a", s.bitrateArg(),
		stitchedPath,
	)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "audio", "stitch", "concatenate segments", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "audio", "stitch", "create output dir", err)
	}
	if err := fileutil.CopyFileVerified(stitchedPath, outputPath); err != nil {
		return services.Wrap(services.ErrTransient, "audio", "stitch", "move episode into place", err)
	}
	s.logger.Info("episode stitched",
		logging.Int("segments", len(segmentPaths)),
		logging.String("output", outputPath))
	return nil
}

// concatList renders the ffmpeg concat demuxer input: every segment,
// with the silence file between consecutive segments.
func concatList(segmentPaths []string, silencePath string) string {
	var lines []string
	for i, path := range segmentPaths {
		lines = append(lines, fmt.Sprintf("file '%s'", path))
		if i < len(segmentPaths)-1 {
			lines = append(lines, fmt.Sprintf("file '%s'", silencePath))
		}
	}
	return strings.Join(lines, "\n")
}

func (s *Stitcher) bitrateArg() string {
	return strconv.Itoa(s.cfg.BitrateBPS/1000) + "k"
}
