// Package pipeline orchestrates the weekly episode build: ingest,
// summarize, script, synthesize, stitch, publish.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/news"
	"newscast/internal/services"
)

// Run statuses reported in the pipeline result.
const (
	StatusSkipped   = "skipped"
	StatusDryRun    = "dry_run"
	StatusPublished = "published"
)

// Ingestor fetches this week's content from all sources.
type Ingestor interface {
	Run(ctx context.Context) news.Content
}

// Summarizer clusters content into themes.
type Summarizer interface {
	Summarize(ctx context.Context, content news.Content) (news.Summary, error)
}

// ScriptGenerator writes the two-speaker script.
type ScriptGenerator interface {
	Generate(ctx context.Context, summary news.Summary) ([]news.ScriptSegment, error)
}

// Synthesizer converts script segments to audio files.
type Synthesizer interface {
	SynthesizeScript(ctx context.Context, segments []news.ScriptSegment, outDir string) ([]string, error)
}

// Stitcher assembles segment files into the episode MP3.
type Stitcher interface {
	Stitch(ctx context.Context, segmentPaths []string, outputPath string) error
	DurationSeconds(path string) (float64, error)
}

// Publisher writes the episode into the RSS feed.
type Publisher interface {
	Metadata(mp3Path string, durationSeconds float64, now time.Time) (news.Episode, error)
	Publish(episode news.Episode) error
}

// Result is the machine-readable outcome of a pipeline run.
type Result struct {
	RunID         string             `json:"run_id"`
	Status        string             `json:"status"`
	EpisodeTitle  string             `json:"episode_title,omitempty"`
	MP3Path       string             `json:"mp3_path,omitempty"`
	ThemesCount   int                `json:"themes_count"`
	SegmentsCount int                `json:"segments_count"`
	Duration      string             `json:"duration,omitempty"`
	Errors        []news.SourceError `json:"errors"`
}

// Pipeline wires the six stages together.
type Pipeline struct {
	cfg         *config.Config
	ingestor    Ingestor
	summarizer  Summarizer
	generator   ScriptGenerator
	synthesizer Synthesizer
	stitcher    Stitcher
	publisher   Publisher
	logger      *slog.Logger
	scriptOut   io.Writer
	now         func() time.Time
}

// Option customizes the pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithScriptOutput redirects the dry-run script dump.
func WithScriptOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		p.scriptOut = w
	}
}

// New assembles a pipeline from its stages.
func New(cfg *config.Config, ingestor Ingestor, summarizer Summarizer, generator ScriptGenerator,
	synthesizer Synthesizer, stitcher Stitcher, publisher Publisher, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	pipeline := &Pipeline{
		cfg:         cfg,
		ingestor:    ingestor,
		summarizer:  summarizer,
		generator:   generator,
		synthesizer: synthesizer,
		stitcher:    stitcher,
		publisher:   publisher,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
		scriptOut:   os.Stdout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(pipeline)
	}
	return pipeline
}

// Run executes the full pipeline. A week with no new content or no
// themes ends with StatusSkipped; dryRun stops after script generation
// and prints the script. Source-level ingest errors are always carried
// in the result, whatever the outcome.
func (p *Pipeline) Run(ctx context.Context, dryRun bool) (Result, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	log := p.logger.With(logging.String(logging.FieldRunID, runID))

	result := Result{
		RunID:  runID,
		Status: StatusSkipped,
		Errors: []news.SourceError{},
	}

	log.Info("stage 1: ingesting sources", logging.Int("sources", len(p.cfg.EnabledSources())))
	content := p.ingestor.Run(ctx)
	if content.Errors != nil {
		result.Errors = content.Errors
	}
	totalItems := content.TotalItems()
	log.Info("ingest finished",
		logging.Int("items", totalItems),
		logging.Int("errors", len(content.Errors)))
	if totalItems == 0 {
		log.Warn("no content ingested, skipping episode")
		return result, nil
	}

	log.Info("stage 2: summarizing")
	summary, err := p.summarizer.Summarize(ctx, content)
	if err != nil {
		return result, err
	}
	result.ThemesCount = len(summary.Themes)
	if len(summary.Themes) == 0 {
		log.Warn("no themes produced, skipping episode")
		return result, nil
	}

	log.Info("stage 3: generating script", logging.Int("themes", len(summary.Themes)))
	segments, err := p.generator.Generate(ctx, summary)
	if err != nil {
		return result, err
	}
	result.SegmentsCount = len(segments)

	if dryRun {
		result.Status = StatusDryRun
		p.printScript(segments)
		return result, nil
	}

	log.Info("stage 4: synthesizing audio", logging.Int("segments", len(segments)))
	segmentPaths, err := p.synthesizer.SynthesizeScript(ctx, segments, "")
	if err != nil {
		return result, err
	}

	log.Info("stage 5: stitching episode")
	episodePath := filepath.Join(p.cfg.EpisodesDir(),
		fmt.Sprintf("episode_%s.mp3", p.now().UTC().Format("2006-01-02")))
	if err := p.stitcher.Stitch(ctx, segmentPaths, episodePath); err != nil {
		return result, err
	}

	log.Info("stage 6: publishing", logging.String("episode", episodePath))
	seconds, err := p.stitcher.DurationSeconds(episodePath)
	if err != nil {
		return result, err
	}
	episode, err := p.publisher.Metadata(episodePath, seconds, p.now())
	if err != nil {
		return result, err
	}
	if err := p.publisher.Publish(episode); err != nil {
		return result, err
	}

	result.Status = StatusPublished
	result.EpisodeTitle = episode.Title
	result.MP3Path = episodePath
	result.Duration = episode.Duration
	log.Info("episode published",
		logging.String("title", episode.Title),
		logging.String("duration", episode.Duration))
	return result, nil
}

func (p *Pipeline) printScript(segments []news.ScriptSegment) {
	for _, segment := range segments {
		fmt.Fprintf(p.scriptOut, "[%s]: %s\n", strings.ToUpper(segment.Speaker), segment.Text)
	}
}
