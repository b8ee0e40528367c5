package upload

import (
	"strings"
	"testing"

	"faceless-pipeline/config"
	"faceless-pipeline/types"
)

func TestBuildMetadata(t *testing.T) {
	segments := []types.SceneSegment{
		{StartTime: 0, SectionMarker: "HOOK", KeyPhrase: "The truth about sleep", Keywords: []string{"sleep", "science"}},
		{StartTime: 8, SectionMarker: "KEY INSIGHT", Keywords: []string{"sleep", "brain"}},
		{StartTime: 40, SectionMarker: "CTA", Keywords: []string{"subscribe"}},
	}

	meta := BuildMetadata(config.Default(), "Why Sleep Matters", segments)

	if meta.Title != "Why Sleep Matters" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Tags[0] != "sleep" {
		t.Errorf("most frequent keyword should lead tags, got %v", meta.Tags)
	}
	if !strings.Contains(meta.Description, "0:00 Hook") {
		t.Errorf("chapters missing from description:\n%s", meta.Description)
	}
	if !strings.Contains(meta.Description, "0:40 Cta") {
		t.Errorf("later chapter missing:\n%s", meta.Description)
	}
	if !strings.HasPrefix(meta.Description, "The truth about sleep") {
		t.Errorf("key phrase should open description:\n%s", meta.Description)
	}
	if meta.Visibility != "private" || meta.CategoryID != "27" {
		t.Errorf("defaults not applied: %+v", meta)
	}
}

func TestBuildMetadataDeterministic(t *testing.T) {
	segments := []types.SceneSegment{
		{SectionMarker: "HOOK", Keywords: []string{"alpha", "beta"}},
		{SectionMarker: "MAIN", Keywords: []string{"beta", "gamma"}},
	}
	a := BuildMetadata(config.Default(), "T", segments)
	b := BuildMetadata(config.Default(), "T", segments)
	if a.Description != b.Description || strings.Join(a.Tags, ",") != strings.Join(b.Tags, ",") {
		t.Error("metadata should be deterministic for identical input")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 100); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	long := strings.Repeat("x", 120)
	got := truncate(long, 100)
	if len(got) != 100 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate length %d, suffix %q", len(got), got[len(got)-3:])
	}
}
