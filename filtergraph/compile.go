package filtergraph

import (
	"fmt"

	"faceless-pipeline/types"
)

// Result is everything the renderer needs from a compiled graph.
type Result struct {
	InputArgs     []string
	FilterComplex string
	VideoLabel    string
	AudioLabel    string
}

// Build compiles a validated timeline into ffmpeg input arguments and a
// single -filter_complex graph. A fresh builder is used per call; the
// timeline is assumed to have passed validation already.
func Build(t *types.Timeline, narrationPath, musicPath, subtitlePath string) (*Result, error) {
	if len(t.Scenes) == 0 {
		return nil, fmt.Errorf("filtergraph: timeline has no scenes")
	}

	b := NewBuilder()

	// Register clip inputs first so scene order matches input order
	sceneVideo := make([]string, len(t.Scenes))
	for i, scene := range t.Scenes {
		v, _ := b.AddInput(scene.ClipPath)
		sceneVideo[i] = v
	}

	_, narrationAudio := b.AddInput(narrationPath)

	musicAudio := ""
	if musicPath != "" {
		_, musicAudio = b.AddInput(musicPath)
	}

	// Per-scene video chains
	sceneOutputs := make([]string, len(t.Scenes))
	for i, scene := range t.Scenes {
		label := sceneVideo[i]

		sceneDuration := scene.EndTime - scene.StartTime
		if scene.SourceStart > 0 || scene.SourceEnd < sceneDuration {
			label = b.Trim(label, scene.SourceStart, scene.SourceEnd)
		}

		label = b.ScaleAndPad(label, t.Width, t.Height, t.FPS)

		if scene.ZoomPan != nil {
			label = b.ZoomPan(label, scene.ZoomPan, t.Width, t.Height)
		}
		if scene.OverlayText != "" {
			label = b.TextOverlay(label, scene.OverlayText, scene.OverlayPosition)
		}

		sceneOutputs[i] = label
	}

	// Chain scenes: xfade when a transition is set, plain concat otherwise
	current := sceneOutputs[0]
	for i := 1; i < len(sceneOutputs); i++ {
		scene := t.Scenes[i]
		if scene.Transition != "" {
			offset := t.Scenes[i-1].EndTime - scene.TransitionDuration
			current = b.Transition(current, sceneOutputs[i], scene.Transition, scene.TransitionDuration, offset)
		} else {
			current = b.Concat(current, sceneOutputs[i])
		}
	}

	videoOut := current
	if t.BurnSubtitles && subtitlePath != "" {
		videoOut = b.Subtitles(videoOut, subtitlePath)
	}

	// Audio chain
	audioOut := b.MixAudio(narrationAudio, musicAudio, t.MusicVolume)
	audioOut = b.NormalizeLoudness(audioOut, t.LoudnessTarget)

	if err := b.Err(); err != nil {
		return nil, err
	}

	return &Result{
		InputArgs:     b.InputArgs(),
		FilterComplex: b.FilterComplex(),
		VideoLabel:    videoOut,
		AudioLabel:    audioOut,
	}, nil
}
