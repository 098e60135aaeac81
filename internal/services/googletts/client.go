// Package googletts is a minimal client for the Google Cloud
// Text-to-Speech REST API.
package googletts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/services"
)

const (
	defaultEndpoint    = "https://texttospeech.googleapis.com/v1/text:synthesize"
	defaultHTTPTimeout = 60 * time.Second
)

// retryDelays mirrors the schedule used for the generative API calls.
var retryDelays = []time.Duration{2 * time.Second, 8 * time.Second, 32 * time.Second}

// Client calls the synthesize endpoint with API-key auth.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	delays     []time.Duration
	sleeper    func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpoint overrides the API endpoint (useful for tests).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithSleeper overrides how retry sleeps are performed.
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

// NewClient constructs a synthesize client.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tts", "new", "api key required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		endpoint:   defaultEndpoint,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logging.NewComponentLogger(logger, "googletts"),
		delays:     retryDelays,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize converts one text chunk to MP3 bytes using the given voice.
// Transient API failures are retried on the fixed schedule.
func (c *Client) Synthesize(ctx context.Context, text string, voice config.Voice) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, "tts", "synthesize", "text required", nil)
	}

	var payload synthesizeRequest
	payload.Input.Text = text
	payload.Voice.LanguageCode = voice.LanguageCode
	payload.Voice.Name = voice.Name
	payload.Voice.SSMLGender = voice.SSMLGender
	payload.AudioConfig.AudioEncoding = "MP3"
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "tts", "synthesize", "encode request", err)
	}

	attempts := len(c.delays) + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		audio, err := c.synthesizeOnce(ctx, encoded)
		if err == nil {
			return audio, nil
		}
		lastErr = err

		if attempt == attempts || !retryableStatus(err) || ctx.Err() != nil {
			break
		}
		delay := c.delays[attempt-1]
		c.logger.Warn("synthesize failed, retrying",
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay),
			logging.Error(err))
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, services.Wrap(services.ErrTransient, "tts", "synthesize", "synthesize request failed", lastErr)
}

type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("tts request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (c *Client) synthesizeOnce(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tts request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: http error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var decoded synthesizeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("tts request: decode response: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(decoded.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("tts request: decode audio content: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts request: empty audio content")
	}
	return audio, nil
}

func retryableStatus(err error) bool {
	var status *statusError
	if !errors.As(err, &status) {
		return false
	}
	switch status.StatusCode {
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
