package googletts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newscast/internal/config"
	"newscast/internal/logging"
)

func testVoice() config.Voice {
	return config.Voice{LanguageCode: "en-US", Name: "en-US-Neural2-D", SSMLGender: "MALE"}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server, sleeps *[]time.Duration) *Client {
	t.Helper()
	client, err := NewClient("test-key", logging.NewNop(),
		WithEndpoint(server.URL),
		WithSleeper(func(d time.Duration) { *sleeps = append(*sleeps, d) }))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestSynthesizeDecodesAudio(t *testing.T) {
	audio := []byte("mp3-bytes-here")
	var gotReq synthesizeRequest
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprintf(w, `{"audioContent":%q}`, base64.StdEncoding.EncodeToString(audio))
	})

	var sleeps []time.Duration
	client := newTestClient(t, server, &sleeps)

	got, err := client.Synthesize(context.Background(), "hello world", testVoice())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(got) != string(audio) {
		t.Fatalf("audio mismatch: %q", got)
	}
	if gotReq.Input.Text != "hello world" {
		t.Fatalf("request text mismatch: %+v", gotReq)
	}
	if gotReq.Voice.Name != "en-US-Neural2-D" || gotReq.AudioConfig.AudioEncoding != "MP3" {
		t.Fatalf("voice or encoding mismatch: %+v", gotReq)
	}
}

func TestSynthesizeRetriesTransientFailures(t *testing.T) {
	var calls int
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, `{"error":{"message":"unavailable"}}`, http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintf(w, `{"audioContent":%q}`, base64.StdEncoding.EncodeToString([]byte("ok")))
	})

	var sleeps []time.Duration
	client := newTestClient(t, server, &sleeps)

	if _, err := client.Synthesize(context.Background(), "hello", testVoice()); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	want := []time.Duration{2 * time.Second, 8 * time.Second}
	if len(sleeps) != len(want) || sleeps[0] != want[0] || sleeps[1] != want[1] {
		t.Fatalf("expected delays %v, got %v", want, sleeps)
	}
}

func TestSynthesizeDoesNotRetryBadRequests(t *testing.T) {
	var calls int
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"message":"bad voice"}}`, http.StatusBadRequest)
	})

	var sleeps []time.Duration
	client := newTestClient(t, server, &sleeps)

	if _, err := client.Synthesize(context.Background(), "hello", testVoice()); err == nil {
		t.Fatal("expected failure")
	}
	if calls != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", calls)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client, err := NewClient("test-key", logging.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Synthesize(context.Background(), "   ", testVoice()); err == nil {
		t.Fatal("expected validation error for empty text")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("  ", logging.NewNop()); err == nil {
		t.Fatal("expected configuration error")
	}
}
