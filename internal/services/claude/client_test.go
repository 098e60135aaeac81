package claude

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"

	"newscast/internal/config"
	"newscast/internal/logging"
)

// scriptedTransport plays back a fixed sequence of responses.
type scriptedTransport struct {
	responses []scriptedResponse
	calls     int
}

type scriptedResponse struct {
	status int
	body   string
}

func (t *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	idx := t.calls
	if idx >= len(t.responses) {
		idx = len(t.responses) - 1
	}
	t.calls++
	resp := t.responses[idx]
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: resp.status,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
		Header:     header,
		Request:    req,
	}, nil
}

const successBody = `{"id":"msg_01","type":"message","role":"assistant",` +
	`"content":[{"type":"text","text":"hello there"}],` +
	`"model":"claude-sonnet-4-5","stop_reason":"end_turn",` +
	`"usage":{"input_tokens":10,"output_tokens":5}}`

func newTestClient(t *testing.T, transport *scriptedTransport, sleeps *[]time.Duration) *Client {
	t.Helper()
	cfg := config.Claude{APIKey: "test-key", Model: "claude-sonnet-4-5"}
	client, err := NewClient(cfg, logging.NewNop(),
		WithSleeper(func(d time.Duration) { *sleeps = append(*sleeps, d) }),
		WithRequestOptions(option.WithHTTPClient(&http.Client{Transport: transport})))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestCompleteReturnsText(t *testing.T) {
	var sleeps []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusOK, body: successBody},
	}}
	client := newTestClient(t, transport, &sleeps)

	text, err := client.Complete(context.Background(), Request{
		System:    "be brief",
		Messages:  []Message{{Role: "user", Content: "hi"}},
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "hello there" {
		t.Fatalf("unexpected text %q", text)
	}
	if len(sleeps) != 0 {
		t.Fatalf("no retries expected, slept %v", sleeps)
	}
}

func TestCompleteRetriesRateLimitWithFixedDelays(t *testing.T) {
	var sleeps []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusTooManyRequests, body: `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`},
		{status: http.StatusServiceUnavailable, body: `{"type":"error","error":{"type":"overloaded_error","message":"busy"}}`},
		{status: http.StatusOK, body: successBody},
	}}
	client := newTestClient(t, transport, &sleeps)

	text, err := client.Complete(context.Background(), Request{
		Messages:  []Message{{Role: "user", Content: "hi"}},
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "hello there" {
		t.Fatalf("unexpected text %q", text)
	}
	want := []time.Duration{2 * time.Second, 8 * time.Second}
	if len(sleeps) != len(want) || sleeps[0] != want[0] || sleeps[1] != want[1] {
		t.Fatalf("expected fixed delays %v, got %v", want, sleeps)
	}
	if transport.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", transport.calls)
	}
}

func TestCompleteGivesUpAfterSchedule(t *testing.T) {
	var sleeps []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusInternalServerError, body: `{"type":"error","error":{"type":"api_error","message":"boom"}}`},
	}}
	client := newTestClient(t, transport, &sleeps)

	_, err := client.Complete(context.Background(), Request{
		Messages:  []Message{{Role: "user", Content: "hi"}},
		MaxTokens: 100,
	})
	if err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
	if transport.calls != 4 {
		t.Fatalf("expected 1 attempt + 3 retries, got %d calls", transport.calls)
	}
	want := []time.Duration{2 * time.Second, 8 * time.Second, 32 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, sleeps)
	}
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var sleeps []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: http.StatusBadRequest, body: `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`},
	}}
	client := newTestClient(t, transport, &sleeps)

	_, err := client.Complete(context.Background(), Request{
		Messages:  []Message{{Role: "user", Content: "hi"}},
		MaxTokens: 100,
	})
	if err == nil {
		t.Fatal("expected immediate failure")
	}
	if transport.calls != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", transport.calls)
	}
	if len(sleeps) != 0 {
		t.Fatalf("no sleeps expected, got %v", sleeps)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.Claude{Model: "claude-sonnet-4-5"}, logging.NewNop())
	if err == nil {
		t.Fatal("expected configuration error for missing api key")
	}
}
