package claude

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeMessenger returns scripted responses and records the requests it saw.
type fakeMessenger struct {
	responses []string
	err       error
	requests  []Request
}

func (f *fakeMessenger) Complete(_ context.Context, req Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	idx := len(f.requests) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func parseGreeting(raw string) (string, error) {
	if !strings.HasPrefix(raw, "hello") {
		return "", errors.New("response must start with hello")
	}
	return raw, nil
}

func TestGenerateValidatedFirstTry(t *testing.T) {
	api := &fakeMessenger{responses: []string{"hello world"}}

	got, err := GenerateValidated(context.Background(), api, Request{
		Messages: []Message{{Role: "user", Content: "greet me"}},
	}, parseGreeting)
	if err != nil {
		t.Fatalf("GenerateValidated: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("unexpected result %q", got)
	}
	if len(api.requests) != 1 {
		t.Fatalf("expected a single call, got %d", len(api.requests))
	}
}

func TestGenerateValidatedCorrectionRetry(t *testing.T) {
	api := &fakeMessenger{responses: []string{"goodbye", "hello again"}}

	got, err := GenerateValidated(context.Background(), api, Request{
		System:   "sys",
		Messages: []Message{{Role: "user", Content: "greet me"}},
	}, parseGreeting)
	if err != nil {
		t.Fatalf("GenerateValidated: %v", err)
	}
	if got != "hello again" {
		t.Fatalf("unexpected result %q", got)
	}
	if len(api.requests) != 2 {
		t.Fatalf("expected exactly two calls, got %d", len(api.requests))
	}

	retry := api.requests[1]
	if len(retry.Messages) != 3 {
		t.Fatalf("retry must carry original, assistant, and correction turns, got %d", len(retry.Messages))
	}
	if retry.Messages[1].Role != "assistant" || retry.Messages[1].Content != "goodbye" {
		t.Fatalf("retry must echo the invalid response: %+v", retry.Messages[1])
	}
	if retry.Messages[2].Role != "user" || !strings.Contains(retry.Messages[2].Content, "must start with hello") {
		t.Fatalf("correction turn must name the validation error: %+v", retry.Messages[2])
	}
}

func TestGenerateValidatedSecondFailureIsTerminal(t *testing.T) {
	api := &fakeMessenger{responses: []string{"goodbye", "still wrong"}}

	_, err := GenerateValidated(context.Background(), api, Request{
		Messages: []Message{{Role: "user", Content: "greet me"}},
	}, parseGreeting)
	if err == nil {
		t.Fatal("expected terminal validation error")
	}
	if len(api.requests) != 2 {
		t.Fatalf("exactly one correction retry allowed, got %d calls", len(api.requests))
	}
}

func TestGenerateValidatedTransportErrorNotRetried(t *testing.T) {
	api := &fakeMessenger{err: errors.New("connection refused")}

	_, err := GenerateValidated(context.Background(), api, Request{
		Messages: []Message{{Role: "user", Content: "greet me"}},
	}, parseGreeting)
	if err == nil {
		t.Fatal("expected transport error to surface")
	}
	if len(api.requests) != 1 {
		t.Fatalf("transport failures get no correction retry, got %d calls", len(api.requests))
	}
}
