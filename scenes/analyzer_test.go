package scenes

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"faceless-pipeline/config"
	"faceless-pipeline/types"
)

const markedScript = `[HOOK - 0:00]
Scientists discovered something shocking about sleep. (show a sleeping brain scan)

[KEY INSIGHT - 0:08]
The brain clears toxins during deep slumber. This process matters because toxin buildup
damages memory formation over decades of poor rest habits and constant stimulation
from screens keeping the modern population awake far past natural circadian limits.

[CTA - 0:40]
Subscribe for more science.`

func TestAnalyzeMarkedScript(t *testing.T) {
	a := New(config.Default())
	scenes := a.Analyze(markedScript, nil, 45)

	if len(scenes) != 4 {
		t.Fatalf("expected 4 scenes, got %d", len(scenes))
	}

	// HOOK: 0-8, short bucket keeps it whole
	if scenes[0].StartTime != 0 || scenes[0].EndTime != 8 {
		t.Errorf("hook scene timing wrong: %.1f-%.1f", scenes[0].StartTime, scenes[0].EndTime)
	}
	if scenes[0].SceneType != "HOOK" {
		t.Errorf("expected HOOK type, got %q", scenes[0].SceneType)
	}

	// KEY INSIGHT spans 8-40, medium bucket splits it into two sub-scenes
	if scenes[1].StartTime != 8 || scenes[2].EndTime != 40 {
		t.Errorf("split section timing wrong: %.1f / %.1f", scenes[1].StartTime, scenes[2].EndTime)
	}
	if scenes[1].SceneType != "MAIN" || scenes[2].SceneType != "MAIN" {
		t.Errorf("expected MAIN sub-scenes, got %q %q", scenes[1].SceneType, scenes[2].SceneType)
	}

	// CTA runs to the audio duration
	last := scenes[len(scenes)-1]
	if last.SceneType != "OUTRO" || last.EndTime != 45 {
		t.Errorf("outro scene wrong: type=%q end=%.1f", last.SceneType, last.EndTime)
	}

	// Scenes never overlap and starts are monotonic
	for i := 1; i < len(scenes); i++ {
		if scenes[i].StartTime < scenes[i-1].EndTime-1e-9 {
			t.Errorf("scene %d overlaps previous", i)
		}
	}
}

func TestVisualCueExtraction(t *testing.T) {
	cues := extractVisualCues("intro text (show a city skyline at night) more [B-ROLL: factory assembly line]")
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %v", cues)
	}
	if cues[0] != "factory assembly line" || cues[1] != "a city skyline at night" {
		t.Errorf("unexpected cues: %v", cues)
	}
}

func TestLongUnmarkedScriptSplits(t *testing.T) {
	words := make([]string, 40)
	for i := range words {
		words[i] = "narration"
	}
	a := New(config.Default())
	scenes := a.Analyze(strings.Join(words, " "), nil, 60)

	if len(scenes) != 4 {
		t.Fatalf("expected 4 sub-scenes for 60s unmarked script, got %d", len(scenes))
	}
	if math.Abs(scenes[3].EndTime-60) > 1e-9 {
		t.Errorf("last scene should end at 60, got %.2f", scenes[3].EndTime)
	}
	for i, s := range scenes {
		if s.Text == "" {
			t.Errorf("scene %d has no text", i)
		}
	}
}

func TestMetadataSectionsOverrideTiming(t *testing.T) {
	meta := &types.ScriptMetadata{
		Sections: []types.ScriptSection{
			{Type: "hook", StartTime: 0, EndTime: 6, Text: "overridden"},
		},
		Tags: []string{"science"},
	}
	a := New(config.Default())
	scenes := a.Analyze("[HOOK - 0:00]\nA quick opening line about rockets.", meta, 6)

	if len(scenes) == 0 {
		t.Fatal("no scenes produced")
	}
	if scenes[0].EndTime != 6 {
		t.Errorf("metadata end_time should win, got %.1f", scenes[0].EndTime)
	}
}

func TestExtractKeywords(t *testing.T) {
	a := New(config.Default())
	kws := a.extractKeywords("Dopamine dopamine motivation drives action")
	want := []string{"dopamine", "motivation", "action"}
	if len(kws) != len(want) {
		t.Fatalf("got %v, want %v", kws, want)
	}
	for i := range want {
		if kws[i] != want[i] {
			t.Errorf("keyword %d: got %q want %q", i, kws[i], want[i])
		}
	}
}

func TestExtractKeywordsIncludesNumbers(t *testing.T) {
	a := New(config.Default())
	kws := a.extractKeywords("Research tracked 8 million participants across nations")
	found := false
	for _, k := range kws {
		if k == "8 million" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected numeric statistic in keywords, got %v", kws)
	}
}

func TestGenerateSearchQueries(t *testing.T) {
	qs := generateSearchQueries(
		[]string{"dopamine", "motivation", "reward"},
		[]string{"brain scan footage"},
		[]string{"neuroscience"},
	)
	if len(qs) != 5 {
		t.Fatalf("expected 5 queries, got %d: %v", len(qs), qs)
	}
	if qs[0] != "brain scan footage" {
		t.Errorf("visual cue should come first, got %q", qs[0])
	}
	seen := map[string]bool{}
	for _, q := range qs {
		lq := strings.ToLower(q)
		if seen[lq] {
			t.Errorf("duplicate query %q", q)
		}
		seen[lq] = true
	}
}

func TestExtractKeyPhrase(t *testing.T) {
	got := extractKeyPhrase(`He said "sleep is the best medicine" to the crowd.`)
	if got != "sleep is the best medicine" {
		t.Errorf("quoted phrase should win, got %q", got)
	}

	got = extractKeyPhrase("This discovery reveals the hidden cost of bad sleep. More text follows.")
	if got == "" {
		t.Error("expected a key phrase from statement pattern")
	}
	if len(got) >= 60 {
		t.Errorf("phrase too long: %q", got)
	}
}

func TestExtractKeyPhraseFewLongWords(t *testing.T) {
	// Six words, no sentence break, over the length cap: no branch can
	// produce a phrase and none may slice past the word list.
	got := extractKeyPhrase("Neuropharmacological investigations demonstrate extraordinary bioavailability characteristics")
	if got != "" {
		t.Errorf("expected no phrase for oversized six-word text, got %q", got)
	}

	got = extractKeyPhrase("one two three four five six seven")
	if got == "" {
		t.Error("expected a phrase from a short seven-word text")
	}
}

func TestLowercaseBracketsAreNotMarkers(t *testing.T) {
	a := New(config.Default())
	scenes := a.Analyze("He paused for effect. [laughs] Then he kept telling the story to the whole room.", nil, 8)
	if len(scenes) == 0 {
		t.Fatal("expected at least one scene")
	}
	for _, s := range scenes {
		if s.SectionMarker != "" {
			t.Errorf("bracketed aside treated as marker: %q", s.SectionMarker)
		}
	}
}

func TestUnmarkedScriptKeepsAllParagraphs(t *testing.T) {
	var paras []string
	for i := 1; i <= 14; i++ {
		paras = append(paras, fmt.Sprintf("Paragraph number %d covers its own topic in a handful of narration words.", i))
	}
	a := New(config.Default())
	scenes := a.Analyze(strings.Join(paras, "\n\n"), nil, 0)

	var joined strings.Builder
	for _, s := range scenes {
		joined.WriteString(s.Text)
		joined.WriteString(" ")
	}
	for i := 1; i <= 14; i++ {
		if !strings.Contains(joined.String(), fmt.Sprintf("number %d ", i)) {
			t.Errorf("paragraph %d missing from scene text", i)
		}
	}
}

func TestInferSceneType(t *testing.T) {
	cases := map[string]string{
		"HOOK":          "HOOK",
		"INTRO":         "HOOK",
		"PROOF":         "PROOF",
		"DEMONSTRATION": "DEMONSTRATION",
		"EXAMPLE":       "DEMONSTRATION",
		"CTA":           "OUTRO",
		"OUTRO":         "OUTRO",
		"KEY INSIGHT":   "MAIN",
		"":              "",
	}
	for marker, want := range cases {
		if got := InferSceneType(marker); got != want {
			t.Errorf("InferSceneType(%q) = %q, want %q", marker, got, want)
		}
	}
}
