// Package tts converts script segments into per-segment MP3 files,
// splitting each turn into chunks the synthesis API accepts.
package tts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/news"
	"newscast/internal/services"
)

// abortFailureRatio is the fraction of failed chunks above which the
// episode is abandoned rather than published with holes.
const abortFailureRatio = 0.3

// SpeechClient synthesizes one chunk of text with a given voice.
type SpeechClient interface {
	Synthesize(ctx context.Context, text string, voice config.Voice) ([]byte, error)
}

// Synthesizer runs a whole script through the speech API.
type Synthesizer struct {
	client SpeechClient
	cfg    config.TTS
	logger *slog.Logger
}

// New builds a Synthesizer on top of the supplied speech client.
func New(client SpeechClient, cfg config.TTS, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Synthesizer{
		client: client,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "tts"),
	}
}

// SynthesizeScript converts every segment to an MP3 file under outDir
// (a fresh temp directory when empty) and returns the file paths in
// segment order. A chunk that still fails after retries becomes silence
// in the stitched episode; when more than 30% of all chunks fail the
// whole episode is aborted.
func (s *Synthesizer) SynthesizeScript(ctx context.Context, segments []news.ScriptSegment, outDir string) ([]string, error) {
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrValidation, "tts", "synthesize_script", "no segments to synthesize", nil)
	}
	if outDir == "" {
		dir, err := os.MkdirTemp("", "tts_")
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "tts", "synthesize_script", "create temp dir", err)
		}
		outDir = dir
	} else if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "tts", "synthesize_script", "create output dir", err)
	}

	totalChunks := 0
	failedChunks := 0
	paths := make([]string, 0, len(segments))

	for i, segment := range segments {
		voice := s.voiceFor(segment.Speaker)
		chunks := Chunks(segment.Text, s.cfg.ChunkByteLimit)
		totalChunks += len(chunks)

		var audio []byte
		for _, chunk := range chunks {
			chunkAudio, err := s.client.Synthesize(ctx, chunk, voice)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				s.logger.Warn("chunk failed, substituting silence",
					logging.Int("segment", i),
					logging.Error(err))
				failedChunks++
				continue
			}
			audio = append(audio, chunkAudio...)
		}

		path := filepath.Join(outDir, fmt.Sprintf("segment_%03d.mp3", i))
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			return nil, services.Wrap(services.ErrTransient, "tts", "synthesize_script",
				fmt.Sprintf("write segment %d", i), err)
		}
		paths = append(paths, path)
	}

	if totalChunks > 0 && float64(failedChunks)/float64(totalChunks) > abortFailureRatio {
		return nil, services.Wrap(services.ErrAborted, "tts", "synthesize_script",
			fmt.Sprintf("%d/%d chunks failed", failedChunks, totalChunks), nil)
	}
	if failedChunks > 0 {
		s.logger.Warn("episode synthesized with silence substitutions",
			logging.Int("failed_chunks", failedChunks),
			logging.Int("total_chunks", totalChunks))
	}
	return paths, nil
}

func (s *Synthesizer) voiceFor(speaker string) config.Voice {
	if speaker == news.SpeakerInterviewer {
		return s.cfg.Interviewer
	}
	return s.cfg.Expert
}
