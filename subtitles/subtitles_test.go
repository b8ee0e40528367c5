package subtitles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"faceless-pipeline/types"
)

func TestWriteSRT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.srt")
	segments := []types.SceneSegment{
		{Index: 0, StartTime: 0, EndTime: 4.5, Text: "Welcome to the show"},
		{Index: 1, StartTime: 4.5, EndTime: 65.25, Text: "This sentence is deliberately long enough to require wrapping onto a second line"},
	}

	if err := WriteSRT(segments, path, 42); err != nil {
		t.Fatal(err)
	}
	if err := ValidateSRT(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "00:00:00,000 --> 00:00:04,500") {
		t.Errorf("first cue timing wrong:\n%s", content)
	}
	if !strings.Contains(content, "00:00:04,500 --> 00:01:05,250") {
		t.Errorf("second cue timing wrong:\n%s", content)
	}

	// long cue wrapped
	cue2 := strings.Split(content, "\n\n")[1]
	for _, line := range strings.Split(cue2, "\n")[2:] {
		if len(line) > 42 {
			t.Errorf("line exceeds wrap width: %q", line)
		}
	}
}

func TestWriteSRTEmpty(t *testing.T) {
	if err := WriteSRT(nil, filepath.Join(t.TempDir(), "x.srt"), 42); err == nil {
		t.Error("expected error for empty segment list")
	}
}

func TestValidateSRTRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.srt")
	if err := os.WriteFile(path, []byte("not a subtitle file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateSRT(path); err == nil {
		t.Error("expected validation failure")
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[float64]string{
		0:       "00:00:00,000",
		1.5:     "00:00:01,500",
		61.001:  "00:01:01,001",
		3661.25: "01:01:01,250",
	}
	for in, want := range cases {
		if got := formatTimestamp(in); got != want {
			t.Errorf("formatTimestamp(%v) = %q, want %q", in, got, want)
		}
	}
}
