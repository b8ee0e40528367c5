package timeline

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"faceless-pipeline/assets"
	"faceless-pipeline/config"
	"faceless-pipeline/types"
)

func tempClip(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("clip"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testBuilder(t *testing.T, seed int64) *Builder {
	t.Helper()
	cfg := config.Default()
	gen := assets.NewFallbackGenerator(t.TempDir(), 160, 90)
	return NewBuilder(cfg, assets.NewSelector(gen), rand.New(rand.NewSource(seed)))
}

func testSegments() []types.SceneSegment {
	return []types.SceneSegment{
		{Index: 0, StartTime: 0, EndTime: 6, Duration: 6, Text: "opening", SceneType: "HOOK", KeyPhrase: "The big reveal"},
		{Index: 1, StartTime: 6, EndTime: 14, Duration: 8, Text: "detail", SceneType: "MAIN"},
	}
}

func testPool(t *testing.T, dir string) []types.VisualAsset {
	return []types.VisualAsset{
		{Path: tempClip(t, dir, "a.jpg"), Title: "first", Creator: "a", Width: 1920, Height: 1080, AssetType: types.AssetImage},
		{Path: tempClip(t, dir, "b.jpg"), Title: "second", Creator: "b", Width: 1920, Height: 1080, AssetType: types.AssetImage},
		{Path: tempClip(t, dir, "c.mp4"), Title: "third", Creator: "c", Width: 1920, Height: 1080, Duration: 30, AssetType: types.AssetVideo},
	}
}

func TestBuildTimeline(t *testing.T) {
	dir := t.TempDir()
	b := testBuilder(t, 5)

	tl, err := b.Build("demo", testSegments(), testPool(t, dir), nil, Options{
		AutoTransitions: true,
		KenBurns:        true,
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	// 6s scene gets 1 shot, 8s scene gets 2
	if len(tl.Scenes) != 3 {
		t.Fatalf("expected 3 timeline scenes, got %d", len(tl.Scenes))
	}
	if tl.TotalDuration != 14 {
		t.Errorf("total duration = %.1f, want 14", tl.TotalDuration)
	}

	// first shot carries the key phrase overlay
	if tl.Scenes[0].OverlayText != "The big reveal" {
		t.Errorf("overlay text missing on first shot: %q", tl.Scenes[0].OverlayText)
	}

	// first scene of the video has no incoming transition
	if tl.Scenes[0].Transition != "" {
		t.Errorf("first shot should have no transition, got %q", tl.Scenes[0].Transition)
	}
	for _, s := range tl.Scenes[1:] {
		if s.Transition == "" {
			t.Errorf("shot %s missing transition", s.SceneID)
			continue
		}
		if _, ok := KnownTransition(s.Transition); !ok {
			t.Errorf("shot %s has unknown transition %q", s.SceneID, s.Transition)
		}
	}

	// image shots get Ken Burns, video shots do not
	for _, s := range tl.Scenes {
		isVideo := strings.HasSuffix(s.ClipPath, ".mp4")
		if isVideo && s.ZoomPan != nil {
			t.Errorf("video shot %s should not have zoom/pan", s.SceneID)
		}
		if !isVideo && s.ZoomPan == nil {
			t.Errorf("image shot %s missing zoom/pan", s.SceneID)
		}
	}
}

func TestBuildTimelineVideoShots(t *testing.T) {
	dir := t.TempDir()
	pool := []types.VisualAsset{
		{Path: tempClip(t, dir, "clip.mp4"), Title: "stock clip", Width: 1920, Height: 1080, Duration: 3, AssetType: types.AssetVideo},
	}
	segments := []types.SceneSegment{
		{Index: 0, StartTime: 0, EndTime: 6, Duration: 6, Text: "only scene"},
	}

	tl, err := testBuilder(t, 1).Build("vid", segments, pool, nil, Options{KenBurns: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(tl.Scenes))
	}
	s := tl.Scenes[0]
	if s.ZoomPan != nil {
		t.Error("video shot should not carry zoom/pan")
	}
	// trim window clamps to the source clip length
	if s.SourceEnd != 3 {
		t.Errorf("source end should clamp to clip duration, got %.1f", s.SourceEnd)
	}
}

func TestBuildTimelineDeterministic(t *testing.T) {
	dir := t.TempDir()
	pool := testPool(t, dir)

	t1, err := testBuilder(t, 99).Build("demo", testSegments(), pool, nil, Options{AutoTransitions: true, KenBurns: true})
	if err != nil {
		t.Fatal(err)
	}
	t2, err := testBuilder(t, 99).Build("demo", testSegments(), pool, nil, Options{AutoTransitions: true, KenBurns: true})
	if err != nil {
		t.Fatal(err)
	}

	j1, _ := json.Marshal(t1)
	j2, _ := json.Marshal(t2)
	if string(j1) != string(j2) {
		t.Error("same seed should produce identical timelines")
	}
}

func TestValidateAggregatesIssues(t *testing.T) {
	tl := &types.Timeline{
		Version: 1,
		Slug:    "bad",
		Width:   0,
		Height:  1080,
		FPS:     0,
		Scenes:  nil,
	}
	err := Validate(tl)
	if err == nil {
		t.Fatal("expected validation error")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Issues) < 3 {
		t.Errorf("expected all issues collected, got %v", verr.Issues)
	}
}

func TestValidateOverlapIsError(t *testing.T) {
	dir := t.TempDir()
	clip := tempClip(t, dir, "x.jpg")
	tl := &types.Timeline{
		Version: 1, Slug: "s", Width: 1920, Height: 1080, FPS: 30, TotalDuration: 10,
		Scenes: []types.TimelineScene{
			{SceneID: "a", ClipPath: clip, StartTime: 0, EndTime: 6},
			{SceneID: "b", ClipPath: clip, StartTime: 5, EndTime: 10},
		},
	}
	err := Validate(tl)
	if err == nil || !strings.Contains(err.Error(), "overlaps") {
		t.Fatalf("expected overlap error, got %v", err)
	}
}

func TestValidateGapIsNotError(t *testing.T) {
	dir := t.TempDir()
	clip := tempClip(t, dir, "x.jpg")
	tl := &types.Timeline{
		Version: 1, Slug: "s", Width: 1920, Height: 1080, FPS: 30, TotalDuration: 12,
		Scenes: []types.TimelineScene{
			{SceneID: "a", ClipPath: clip, StartTime: 0, EndTime: 5},
			{SceneID: "b", ClipPath: clip, StartTime: 7, EndTime: 12},
		},
	}
	if err := Validate(tl); err != nil {
		t.Fatalf("gap should only warn, got %v", err)
	}
}

func TestValidateShortSceneTransition(t *testing.T) {
	dir := t.TempDir()
	clip := tempClip(t, dir, "x.jpg")
	tl := &types.Timeline{
		Version: 1, Slug: "s", Width: 1920, Height: 1080, FPS: 30, TotalDuration: 5.2,
		Scenes: []types.TimelineScene{
			{SceneID: "a", ClipPath: clip, StartTime: 0, EndTime: 5},
			{SceneID: "b", ClipPath: clip, StartTime: 5, EndTime: 5.2, Transition: "fade", TransitionDuration: 0.5},
		},
	}
	err := Validate(tl)
	if err == nil || !strings.Contains(err.Error(), "shorter than transition") {
		t.Fatalf("expected short-scene error, got %v", err)
	}
}

func TestValidateUnknownTransition(t *testing.T) {
	dir := t.TempDir()
	clip := tempClip(t, dir, "x.jpg")
	tl := &types.Timeline{
		Version: 1, Slug: "s", Width: 1920, Height: 1080, FPS: 30, TotalDuration: 10,
		Scenes: []types.TimelineScene{
			{SceneID: "a", ClipPath: clip, StartTime: 0, EndTime: 5},
			{SceneID: "b", ClipPath: clip, StartTime: 5, EndTime: 10, Transition: "swirl", TransitionDuration: 0.5},
		},
	}
	err := Validate(tl)
	if err == nil || !strings.Contains(err.Error(), "invalid transition") {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

func TestValidateReportsIndependentIssuesTogether(t *testing.T) {
	dir := t.TempDir()
	clip := tempClip(t, dir, "x.jpg")
	missing := filepath.Join(dir, "does-not-exist.mp4")
	tl := &types.Timeline{
		Version: 1, Slug: "s", Width: 1920, Height: 1080, FPS: 30, TotalDuration: 10,
		Scenes: []types.TimelineScene{
			{SceneID: "a", ClipPath: missing, StartTime: 0, EndTime: 5},
			{SceneID: "b", ClipPath: clip, StartTime: 5, EndTime: 10, Transition: "swirl", TransitionDuration: 0.5},
		},
	}
	err := Validate(tl)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error should name the missing clip path, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid transition") {
		t.Errorf("error should also report the bad transition, got %v", err)
	}
}

func TestKnownTransitionAliases(t *testing.T) {
	if got, ok := KnownTransition("wipe"); !ok || got != "wipeleft" {
		t.Errorf("wipe should normalize to wipeleft, got %q %v", got, ok)
	}
	if got, ok := KnownTransition("crossfade"); !ok || got != "fade" {
		t.Errorf("crossfade should normalize to fade, got %q %v", got, ok)
	}
	if _, ok := KnownTransition("swirl"); ok {
		t.Error("swirl should be unknown")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	clip := tempClip(t, dir, "x.jpg")
	tl := &types.Timeline{
		Version: 1, Slug: "roundtrip", Width: 1920, Height: 1080, FPS: 30, TotalDuration: 5,
		Scenes: []types.TimelineScene{
			{SceneID: "a", ClipPath: clip, StartTime: 0, EndTime: 5, Effects: []string{}},
		},
		OutputFormat: "mp4",
	}

	base := t.TempDir()
	path, err := Save(tl, base)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Slug != tl.Slug || len(got.Scenes) != 1 || got.Scenes[0].SceneID != "a" {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}
