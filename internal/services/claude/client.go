// Package claude wraps the Anthropic Messages API for the generative
// pipeline stages. SDK-level retries are disabled so that the retry
// policy lives here where tests can observe it.
package claude

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/services"
)

// retryDelays is the fixed backoff schedule applied to retryable API
// failures. A request is attempted once plus once per delay.
var retryDelays = []time.Duration{2 * time.Second, 8 * time.Second, 32 * time.Second}

// Message is one turn of an API conversation.
type Message struct {
	Role    string
	Content string
}

// Request describes a single completion call.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int64
	Temperature float64
}

// Messenger is the completion surface the generative stages depend on.
type Messenger interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client calls the Anthropic API with a fixed local retry schedule.
type Client struct {
	api         anthropic.Client
	model       string
	logger      *slog.Logger
	delays      []time.Duration
	sleeper     func(time.Duration)
	requestOpts []option.RequestOption
}

// Option customizes the client.
type Option func(*Client)

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithRetryDelays overrides the backoff schedule.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) {
		c.delays = delays
	}
}

// WithRequestOptions appends extra SDK request options, such as a custom
// HTTP client for tests.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}

// NewClient constructs a client from the runtime configuration.
func NewClient(cfg config.Claude, logger *slog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "claude", "new", "api key required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		model:  cfg.Model,
		logger: logging.NewComponentLogger(logger, "claude"),
		delays: retryDelays,
	}
	for _, opt := range opts {
		opt(client)
	}
	requestOpts := append([]option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithMaxRetries(0),
	}, client.requestOpts...)
	client.api = anthropic.NewClient(requestOpts...)
	return client, nil
}

// Complete sends the conversation and returns the concatenated text of
// the response. Rate limits and transient server errors are retried on
// the fixed schedule; anything else fails immediately.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if len(req.Messages) == 0 {
		return "", services.Wrap(services.ErrValidation, "claude", "complete", "at least one message required", nil)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: req.MaxTokens,
		Messages:  make([]anthropic.MessageParam, 0, len(req.Messages)),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	for _, msg := range req.Messages {
		block := anthropic.NewTextBlock(msg.Content)
		switch msg.Role {
		case "assistant":
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}

	attempts := len(c.delays) + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		message, err := c.api.Messages.New(ctx, params)
		if err == nil {
			text := messageText(message)
			if text == "" {
				return "", services.Wrap(services.ErrTransient, "claude", "complete", "empty response content", nil)
			}
			return text, nil
		}
		lastErr = err

		if attempt == attempts || !retryable(err) || ctx.Err() != nil {
			break
		}
		delay := c.delays[attempt-1]
		c.logger.Warn("api call failed, retrying",
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay),
			logging.Error(err))
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", services.Wrap(services.ErrTransient, "claude", "complete", "api request failed", lastErr)
}

func messageText(message *anthropic.Message) string {
	var builder strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(builder.String())
}

func retryable(err error) bool {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case 429, 500, 503:
		return true
	}
	return false
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
