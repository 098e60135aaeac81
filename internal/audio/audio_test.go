package audio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newscast/internal/config"
	"newscast/internal/logging"
	"newscast/internal/testsupport"
)

type recordedCommand struct {
	name string
	args []string
}

func newTestStitcher(t *testing.T, commands *[]recordedCommand) *Stitcher {
	t.Helper()
	cfg := config.Default().Audio
	return New(cfg, logging.NewNop(), WithRunner(
		func(_ context.Context, name string, args ...string) ([]byte, error) {
			*commands = append(*commands, recordedCommand{name: name, args: args})
			// ffmpeg writes its output file as a side effect.
			out := args[len(args)-1]
			if err := os.WriteFile(out, []byte("mp3"), 0o644); err != nil {
				t.Fatalf("write fake output: %v", err)
			}
			return nil, nil
		}))
}

func TestGenerateSilenceCommand(t *testing.T) {
	var commands []recordedCommand
	stitcher := newTestStitcher(t, &commands)
	out := filepath.Join(t.TempDir(), "silence.mp3")

	if err := stitcher.GenerateSilence(context.Background(), 400, out); err != nil {
		t.Fatalf("GenerateSilence: %v", err)
	}
	if len(commands) != 1 || commands[0].name != "ffmpeg" {
		t.Fatalf("unexpected commands: %+v", commands)
	}
	joined := strings.Join(commands[0].args, " ")
	for _, want := range []string{"anullsrc=r=24000:cl=mono", "-t 0.4", "-b:a 128k", out} {
		if !strings.Contains(joined, want) {
			t.Fatalf("silence command missing %q: %s", want, joined)
		}
	}
}

func TestStitchBuildsConcatListWithPauses(t *testing.T) {
	var commands []recordedCommand
	var capturedList string
	cfg := config.Default().Audio
	stitcher := New(cfg, logging.NewNop(), WithRunner(
		func(_ context.Context, name string, args ...string) ([]byte, error) {
			commands = append(commands, recordedCommand{name: name, args: args})
			for i, arg := range args {
				if arg == "-i" && strings.HasSuffix(args[i+1], "concat_list.txt") {
					data, err := os.ReadFile(args[i+1])
					if err != nil {
						t.Fatalf("read concat list: %v", err)
					}
					capturedList = string(data)
				}
			}
			return nil, os.WriteFile(args[len(args)-1], []byte("mp3"), 0o644)
		}))

	segments := []string{"/tmp/segments/segment_000.mp3", "/tmp/segments/segment_001.mp3", "/tmp/segments/segment_002.mp3"}
	out := filepath.Join(t.TempDir(), "episode.mp3")
	if err := stitcher.Stitch(context.Background(), segments, out); err != nil {
		t.Fatalf("Stitch: %v", err)
	}

	if len(commands) != 2 {
		t.Fatalf("expected silence + concat commands, got %d", len(commands))
	}
	lines := strings.Split(capturedList, "\n")
	// 3 segments with silence between consecutive pairs.
	if len(lines) != 5 {
		t.Fatalf("expected 5 concat entries, got %d:\n%s", len(lines), capturedList)
	}
	if !strings.Contains(lines[0], "segment_000.mp3") || !strings.Contains(lines[1], "silence.mp3") {
		t.Fatalf("concat list ordering wrong:\n%s", capturedList)
	}
	if strings.Contains(lines[4], "silence.mp3") {
		t.Fatalf("no trailing silence expected:\n%s", capturedList)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected episode at %s: %v", out, err)
	}
}

func TestStitchRejectsEmptyInput(t *testing.T) {
	var commands []recordedCommand
	stitcher := newTestStitcher(t, &commands)
	if err := stitcher.Stitch(context.Background(), nil, "out.mp3"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDurationSeconds(t *testing.T) {
	cfg := config.Default().Audio
	stitcher := New(cfg, logging.NewNop())

	path := filepath.Join(t.TempDir(), "episode.mp3")
	// 128000 bits/s means 16000 bytes per second of audio.
	testsupport.WriteFile(t, path, 16000*10)
	seconds, err := stitcher.DurationSeconds(path)
	if err != nil {
		t.Fatalf("DurationSeconds: %v", err)
	}
	if seconds != 10 {
		t.Fatalf("expected 10s, got %v", seconds)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{485.7, "00:08:05"},
		{3600, "01:00:00"},
		{3725.2, "01:02:05"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
