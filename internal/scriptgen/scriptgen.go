// Package scriptgen turns a theme summary into a two-speaker interview
// script via the Claude API.
package scriptgen

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/news"
	"newscast/internal/services/claude"
)

//go:embed prompts/scriptgen.txt
var systemPrompt string

// minSegments is the smallest script that still reads as a conversation.
const minSegments = 4

var speakerTag = regexp.MustCompile(`(?i)\[(INTERVIEWER|EXPERT)\]:`)

// Generator produces episode scripts from theme summaries.
type Generator struct {
	api    claude.Messenger
	cfg    config.Claude
	logger *slog.Logger
}

// New builds a Generator on top of the supplied completion client.
func New(api claude.Messenger, cfg config.Claude, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		api:    api,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "scriptgen"),
	}
}

// Generate asks the model for an interview script covering the summary's
// themes. A response that does not parse into enough speaker turns is
// corrected once through the validation retry protocol before failing.
func (g *Generator) Generate(ctx context.Context, summary news.Summary) ([]news.ScriptSegment, error) {
	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode themes: %w", err)
	}
	req := claude.Request{
		System:      systemPrompt,
		Messages:    []claude.Message{{Role: "user", Content: string(encoded)}},
		MaxTokens:   int64(g.cfg.ScriptMaxTokens),
		Temperature: g.cfg.ScriptTemperature,
	}
	segments, err := claude.GenerateValidated(ctx, g.api, req, ParseScript)
	if err != nil {
		return nil, err
	}
	g.logger.Info("script generated", logging.Int("segments", len(segments)))
	return segments, nil
}

// ParseScript splits the raw model output into speaker turns. Each turn
// starts with an [INTERVIEWER]: or [EXPERT]: tag and runs until the next
// tag. Fewer than four turns is an error.
func ParseScript(raw string) ([]news.ScriptSegment, error) {
	matches := speakerTag.FindAllStringSubmatchIndex(raw, -1)

	var segments []news.ScriptSegment
	for i, match := range matches {
		speaker := strings.ToLower(raw[match[2]:match[3]])
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		text := strings.TrimSpace(raw[match[1]:end])
		if text == "" {
			continue
		}
		segments = append(segments, news.ScriptSegment{Speaker: speaker, Text: text})
	}

	if len(segments) < minSegments {
		snippet := raw
		if runes := []rune(snippet); len(runes) > 200 {
			snippet = string(runes[:200])
		}
		return nil, fmt.Errorf("only %d segments parsed (minimum %d required), raw text starts with: %s",
			len(segments), minSegments, snippet)
	}
	return segments, nil
}
