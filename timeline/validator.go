package timeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"faceless-pipeline/types"
)

// Transitions is the xfade vocabulary the renderer understands.
var Transitions = []string{
	"fade", "fadeblack", "fadewhite",
	"wipeleft", "wiperight", "wipeup", "wipedown",
	"slideleft", "slideright", "slideup", "slidedown",
	"dissolve", "pixelize", "radial", "circleopen", "circleclose",
}

// transitionAliases maps loose names onto the vocabulary.
var transitionAliases = map[string]string{
	"wipe":      "wipeleft",
	"crossfade": "fade",
}

// KnownTransition normalizes a transition name, reporting whether it is
// part of the vocabulary.
func KnownTransition(name string) (string, bool) {
	if alias, ok := transitionAliases[name]; ok {
		name = alias
	}
	for _, t := range Transitions {
		if t == name {
			return name, true
		}
	}
	return name, false
}

// ValidationError aggregates every problem found in one pass so callers
// can fix a timeline in a single round trip.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("timeline validation failed: %s", strings.Join(e.Issues, "; "))
}

// Validate checks a timeline for structural problems. Gaps between
// scenes are logged as warnings; everything else is an error.
func Validate(t *types.Timeline) error {
	var issues []string

	if t.Width <= 0 || t.Height <= 0 {
		issues = append(issues, "invalid resolution")
	}
	if t.FPS <= 0 {
		issues = append(issues, "invalid frame rate")
	}
	if t.TotalDuration <= 0 {
		issues = append(issues, "invalid total duration")
	}
	if len(t.Scenes) == 0 {
		issues = append(issues, "no scenes in timeline")
	}

	previousEnd := 0.0
	for i, scene := range t.Scenes {
		if scene.StartTime < 0 {
			issues = append(issues, fmt.Sprintf("scene %d: negative start time", i))
		}
		if scene.EndTime <= scene.StartTime {
			issues = append(issues, fmt.Sprintf("scene %d: end time before start time", i))
		}
		if i > 0 && scene.StartTime < previousEnd-1e-6 {
			issues = append(issues, fmt.Sprintf("scene %d: overlaps previous scene (starts %.2fs before it ends)", i, previousEnd-scene.StartTime))
		}
		if scene.StartTime > previousEnd+0.1 {
			log.Printf("[timeline] ⚠️ gap detected between scenes at %.2fs", previousEnd)
		}
		previousEnd = scene.EndTime

		if !clipExists(scene.ClipPath, t.Slug) {
			issues = append(issues, fmt.Sprintf("scene %d: clip not found: %s", i, scene.ClipPath))
		}

		if scene.Transition != "" {
			if _, ok := KnownTransition(scene.Transition); !ok {
				issues = append(issues, fmt.Sprintf("scene %d: invalid transition: %s", i, scene.Transition))
			}
			if scene.Duration() < scene.TransitionDuration {
				issues = append(issues, fmt.Sprintf("scene %d: duration %.2fs shorter than transition %.2fs", i, scene.Duration(), scene.TransitionDuration))
			}
		}

		if zp := scene.ZoomPan; zp != nil {
			if zp.ZoomStart <= 0 || zp.ZoomEnd <= 0 {
				issues = append(issues, fmt.Sprintf("scene %d: invalid zoom values", i))
			}
			if zp.PanXStart < 0 || zp.PanXStart > 1 || zp.PanXEnd < 0 || zp.PanXEnd > 1 {
				issues = append(issues, fmt.Sprintf("scene %d: pan x values out of range", i))
			}
			if zp.PanYStart < 0 || zp.PanYStart > 1 || zp.PanYEnd < 0 || zp.PanYEnd > 1 {
				issues = append(issues, fmt.Sprintf("scene %d: pan y values out of range", i))
			}
		}
	}

	if t.NarrationTrack != "" && !audioExists(t.NarrationTrack, filepath.Join("content", t.Slug, "audio.wav")) {
		issues = append(issues, fmt.Sprintf("narration track not found: %s", t.NarrationTrack))
	}
	if t.MusicTrack != "" && !audioExists(t.MusicTrack, filepath.Join("assets", t.Slug, "music", filepath.Base(t.MusicTrack))) {
		issues = append(issues, fmt.Sprintf("music track not found: %s", t.MusicTrack))
	}
	if t.BurnSubtitles && t.SubtitlePath != "" {
		if _, err := os.Stat(t.SubtitlePath); err != nil {
			issues = append(issues, fmt.Sprintf("subtitle file not found: %s", t.SubtitlePath))
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func clipExists(clipPath, slug string) bool {
	if _, err := os.Stat(clipPath); err == nil {
		return true
	}
	if filepath.IsAbs(clipPath) {
		return false
	}
	_, err := os.Stat(filepath.Join("assets", slug, clipPath))
	return err == nil
}

func audioExists(path, fallback string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	if filepath.IsAbs(path) {
		return false
	}
	_, err := os.Stat(fallback)
	return err == nil
}
