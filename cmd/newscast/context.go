package main

import (
	"log/slog"
	"strings"
	"sync"

	"newscast/internal/audio"
	"newscast/internal/config"
	"newscast/internal/ingest"
	"newscast/internal/logging"
	"newscast/internal/pipeline"
	"newscast/internal/publish"
	"newscast/internal/scriptgen"
	"newscast/internal/services/claude"
	"newscast/internal/services/googletts"
	"newscast/internal/snapshot"
	"newscast/internal/summarize"
	"newscast/internal/tts"
)

// commandContext carries lazily-initialized shared state between
// subcommands.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	})
	return c.logger, c.loggerErr
}

// newIngestor wires the ingestor with git-backed change detection.
func (c *commandContext) newIngestor() (*ingest.Ingestor, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	store := snapshot.NewStore(cfg.Paths.SnapshotsDir, cfg.Paths.RepoDir, logger)
	return ingest.New(cfg, snapshot.NewDetector(store), logger), nil
}

func (c *commandContext) newSummarizer() (*summarize.Summarizer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	api, err := claude.NewClient(cfg.Claude, logger)
	if err != nil {
		return nil, err
	}
	return summarize.New(api, cfg.Claude, logger), nil
}

func (c *commandContext) newScriptGenerator() (*scriptgen.Generator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	api, err := claude.NewClient(cfg.Claude, logger)
	if err != nil {
		return nil, err
	}
	return scriptgen.New(api, cfg.Claude, logger), nil
}

func (c *commandContext) newSynthesizer() (*tts.Synthesizer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	speech, err := googletts.NewClient(cfg.TTS.APIKey, logger)
	if err != nil {
		return nil, err
	}
	return tts.New(speech, cfg.TTS, logger), nil
}

func (c *commandContext) newStitcher() (*audio.Stitcher, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return audio.New(cfg.Audio, logger), nil
}

func (c *commandContext) newPublisher() (*publish.Publisher, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return publish.New(cfg, logger), nil
}

// newPipeline wires the stages for a full run. Dry runs stop after
// script generation, so the audio and publish stages are not built and
// their credentials are not required.
func (c *commandContext) newPipeline(dryRun bool) (*pipeline.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	ingestor, err := c.newIngestor()
	if err != nil {
		return nil, err
	}
	summarizer, err := c.newSummarizer()
	if err != nil {
		return nil, err
	}
	generator, err := c.newScriptGenerator()
	if err != nil {
		return nil, err
	}

	var synthesizer pipeline.Synthesizer
	var stitcher pipeline.Stitcher
	var publisher pipeline.Publisher
	if !dryRun {
		synth, err := c.newSynthesizer()
		if err != nil {
			return nil, err
		}
		stitch, err := c.newStitcher()
		if err != nil {
			return nil, err
		}
		pub, err := c.newPublisher()
		if err != nil {
			return nil, err
		}
		synthesizer, stitcher, publisher = synth, stitch, pub
	}
	return pipeline.New(cfg, ingestor, summarizer, generator, synthesizer, stitcher, publisher, logger), nil
}
