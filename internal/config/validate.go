package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateClaude(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSources() error {
	if len(c.Sources) == 0 {
		return errors.New("at least one source must be configured")
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for i, source := range c.Sources {
		name := strings.TrimSpace(source.Name)
		if name == "" {
			return fmt.Errorf("sources[%d]: name must be set", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("sources[%d]: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(source.Provider) == "" {
			return fmt.Errorf("source %s: provider must be set", name)
		}
		if strings.TrimSpace(source.URL) == "" {
			return fmt.Errorf("source %s: url must be set", name)
		}
		if strings.TrimSpace(source.Method) == "" {
			return fmt.Errorf("source %s: method must be set", name)
		}
		// Unknown methods are not rejected here: the ingestor skips them
		// with a warning so the remaining sources still run.
		if source.Method == "scrape" && strings.TrimSpace(source.CSSSelector) == "" {
			return fmt.Errorf("source %s: css_selector is required for scrape sources", name)
		}
	}
	return nil
}

func (c *Config) validateClaude() error {
	if strings.TrimSpace(c.Claude.Model) == "" {
		return errors.New("claude.model must be set")
	}
	if c.Claude.SummarizeMaxTokens <= 0 || c.Claude.ScriptMaxTokens <= 0 {
		return errors.New("claude token limits must be positive")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if c.TTS.ChunkByteLimit <= 0 {
		return errors.New("tts.chunk_byte_limit must be positive")
	}
	for _, voice := range []struct {
		label string
		voice Voice
	}{
		{"tts.interviewer", c.TTS.Interviewer},
		{"tts.expert", c.TTS.Expert},
	} {
		if strings.TrimSpace(voice.voice.Name) == "" {
			return fmt.Errorf("%s.name must be set", voice.label)
		}
		if strings.TrimSpace(voice.voice.LanguageCode) == "" {
			return fmt.Errorf("%s.language_code must be set", voice.label)
		}
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.PauseMS < 0 {
		return errors.New("audio.pause_ms must not be negative")
	}
	if c.Audio.BitrateBPS <= 0 {
		return errors.New("audio.bitrate_bps must be positive")
	}
	if strings.TrimSpace(c.Audio.FFmpegBinary) == "" {
		return errors.New("audio.ffmpeg_binary must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
