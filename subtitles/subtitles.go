package subtitles

import (
	"fmt"
	"log"
	"os"
	"strings"

	"faceless-pipeline/types"
)

// WriteSRT renders scene segments as an SRT sidecar file. One cue per
// segment, wrapped at maxCharsPerLine.
func WriteSRT(segments []types.SceneSegment, path string, maxCharsPerLine int) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to write")
	}
	if maxCharsPerLine <= 0 {
		maxCharsPerLine = 42
	}

	var sb strings.Builder
	for i, seg := range segments {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", formatTimestamp(seg.StartTime), formatTimestamp(seg.EndTime)))
		sb.WriteString(wrapText(seg.Text, maxCharsPerLine))
		sb.WriteString("\n\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}

	log.Printf("[subtitles] ✅ wrote %d cues to %s", len(segments), path)
	return nil
}

// ValidateSRT does a cheap sanity check on an SRT file.
func ValidateSRT(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read srt: %w", err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return fmt.Errorf("srt file is empty: %s", path)
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 3 {
		return fmt.Errorf("srt file too short: %s", path)
	}
	if strings.TrimSpace(lines[0]) != "1" {
		return fmt.Errorf("srt must start with cue index 1: %s", path)
	}
	if !strings.Contains(lines[1], "-->") {
		return fmt.Errorf("srt missing timing line: %s", path)
	}
	return nil
}

// formatTimestamp renders seconds as hh:mm:ss,mmm.
func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(seconds*1000 + 0.5)
	h := millis / 3600000
	m := (millis % 3600000) / 60000
	s := (millis % 60000) / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// wrapText breaks a cue into lines no longer than maxChars.
func wrapText(text string, maxChars int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) <= maxChars {
			current += " " + w
		} else {
			lines = append(lines, current)
			current = w
		}
	}
	lines = append(lines, current)
	return strings.Join(lines, "\n")
}
