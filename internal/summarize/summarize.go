// Package summarize condenses a week of ingested items into named themes
// via the Claude API.
package summarize

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/news"
	"newscast/internal/services/claude"
)

//go:embed prompts/summarize.txt
var systemPrompt string

const (
	maxItemsPerProvider = 150
	// Keeps the prompt comfortably below the model's context limit.
	maxPromptChars = 400_000

	truncationMarker = "\n\n[TRUNCATED: content exceeded limit]"
)

// Summarizer turns grouped news content into a theme summary.
type Summarizer struct {
	api    claude.Messenger
	cfg    config.Claude
	logger *slog.Logger
}

// New builds a Summarizer on top of the supplied completion client.
func New(api claude.Messenger, cfg config.Claude, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Summarizer{
		api:    api,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "summarize"),
	}
}

// Summarize asks the model for a themed summary of the week's content.
// An invalid response is corrected once through the validation retry
// protocol before failing.
func (s *Summarizer) Summarize(ctx context.Context, content news.Content) (news.Summary, error) {
	req := claude.Request{
		System:      systemPrompt,
		Messages:    []claude.Message{{Role: "user", Content: s.buildPrompt(content)}},
		MaxTokens:   int64(s.cfg.SummarizeMaxTokens),
		Temperature: s.cfg.SummarizeTemperature,
	}
	summary, err := claude.GenerateValidated(ctx, s.api, req, parseSummary)
	if err != nil {
		return news.Summary{}, err
	}
	s.logger.Info("summary generated", logging.Int("themes", len(summary.Themes)))
	return summary, nil
}

// buildPrompt serializes the grouped items into the user message, capping
// both the items per provider and the total prompt size.
func (s *Summarizer) buildPrompt(content news.Content) string {
	var lines []string
	for _, provider := range config.Providers() {
		items := content.ByProvider[provider]
		if len(items) == 0 {
			continue
		}
		if len(items) > maxItemsPerProvider {
			s.logger.Warn("capping provider items in prompt",
				logging.String("provider", provider),
				logging.Int("found", len(items)),
				logging.Int("kept", maxItemsPerProvider))
			items = items[:maxItemsPerProvider]
		}
		lines = append(lines, fmt.Sprintf("## %s (%d items)", strings.ToUpper(provider), len(items)))
		for _, item := range items {
			title := item.Title
			if title == "" {
				title = "Untitled"
			}
			lines = append(lines,
				fmt.Sprintf("- **%s**", title),
				fmt.Sprintf("  URL: %s", item.URL),
				fmt.Sprintf("  Published: %s", item.Published),
				fmt.Sprintf("  Summary: %s", item.Summary))
		}
		lines = append(lines, "")
	}

	if len(content.Errors) > 0 {
		lines = append(lines, fmt.Sprintf("## ERRORS (%d sources failed)", len(content.Errors)))
		for _, srcErr := range content.Errors {
			lines = append(lines, fmt.Sprintf("- %s: %s", srcErr.Source, srcErr.Error))
		}
	}

	prompt := strings.Join(lines, "\n")
	if runes := []rune(prompt); len(runes) > maxPromptChars {
		s.logger.Warn("prompt too long, truncating",
			logging.Int("chars", len(runes)),
			logging.Int("limit", maxPromptChars))
		prompt = string(runes[:maxPromptChars]) + truncationMarker
	}
	return prompt
}

func parseSummary(raw string) (news.Summary, error) {
	var summary news.Summary
	if err := claude.DecodeJSON(raw, &summary); err != nil {
		return news.Summary{}, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if len(summary.Themes) == 0 {
		return news.Summary{}, errors.New(`response JSON must contain a non-empty "themes" array`)
	}
	for i, theme := range summary.Themes {
		if strings.TrimSpace(theme.Name) == "" {
			return news.Summary{}, fmt.Errorf("theme %d is missing a name", i)
		}
	}
	return summary, nil
}
