package tts

import (
	"strings"
	"testing"
)

func TestChunksShortTextUntouched(t *testing.T) {
	got := Chunks("short text", 4800)
	if len(got) != 1 || got[0] != "short text" {
		t.Fatalf("short text should come back as one chunk, got %q", got)
	}
}

func TestChunksRespectByteLimit(t *testing.T) {
	text := strings.Repeat("This is a sentence. ", 400)
	for _, chunk := range Chunks(text, 100) {
		if len(chunk) > 100 {
			t.Fatalf("chunk exceeds byte limit: %d bytes: %q", len(chunk), chunk)
		}
	}
}

func TestChunksSentenceSplitReconstructs(t *testing.T) {
	text := "First sentence is here. Second one follows! Third asks a question? Fourth wraps up."
	chunks := Chunks(text, 40)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if got := strings.Join(chunks, ""); got != text {
		t.Fatalf("sentence-level chunks must reconstruct the input:\n got %q\nwant %q", got, text)
	}
	if !strings.HasSuffix(chunks[0], ". ") {
		t.Fatalf("delimiter should stay attached to the preceding chunk: %q", chunks[0])
	}
}

func TestChunksClauseFallback(t *testing.T) {
	// One long sentence, only clause boundaries available.
	text := strings.Repeat("a clause goes here, ", 20) + "and the end"
	chunks := Chunks(text, 60)
	for _, chunk := range chunks {
		if len(chunk) > 60 {
			t.Fatalf("clause chunk exceeds limit: %q", chunk)
		}
	}
	if got := strings.Join(chunks, ""); got != text {
		t.Fatalf("clause-level chunks must reconstruct the input:\n got %q\nwant %q", got, text)
	}
}

func TestChunksWordFallback(t *testing.T) {
	text := strings.Repeat("word ", 100)
	chunks := Chunks(text, 30)
	if len(chunks) < 2 {
		t.Fatalf("expected word-level split, got %d chunks", len(chunks))
	}
	for _, chunk := range chunks {
		if len(chunk) > 30 {
			t.Fatalf("word chunk exceeds limit: %q", chunk)
		}
		if !strings.Contains(chunk, "word") {
			t.Fatalf("unexpected chunk content: %q", chunk)
		}
	}
}

func TestChunksMeasuresBytesNotRunes(t *testing.T) {
	// Four bytes per rune, so 30 runes is 120 bytes.
	text := strings.Repeat("\U0001F600", 30)
	chunks := Chunks(text, 120)
	if len(chunks) != 1 {
		t.Fatalf("120 bytes should fit in one chunk, got %d", len(chunks))
	}
	chunks = Chunks(text+" "+text, 120)
	for _, chunk := range chunks {
		if len(chunk) > 120 {
			t.Fatalf("chunk exceeds byte limit: %d bytes", len(chunk))
		}
	}
}
