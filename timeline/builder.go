package timeline

import (
	"fmt"
	"log"
	"math/rand"

	"faceless-pipeline/assets"
	"faceless-pipeline/config"
	"faceless-pipeline/effects"
	"faceless-pipeline/types"
)

// shot is a planned visual within one scene. Image and video shots carry
// different playback parameters, so each gets its own type.
type shot interface {
	asset() types.VisualAsset
	timelineScene(sceneID string, idx int, sceneStart float64, duck bool) types.TimelineScene
}

type imageShot struct {
	src                types.VisualAsset
	start              float64
	duration           float64
	kenBurns           *types.ZoomPanEffect
	transition         string
	transitionDuration float64
	overlayText        string
	overlayPosition    string
}

func (s imageShot) asset() types.VisualAsset { return s.src }

func (s imageShot) timelineScene(sceneID string, idx int, sceneStart float64, duck bool) types.TimelineScene {
	return types.TimelineScene{
		SceneID:            fmt.Sprintf("%s_shot_%d", sceneID, idx),
		ClipPath:           s.src.Path,
		StartTime:          sceneStart + s.start,
		EndTime:            sceneStart + s.start + s.duration,
		SourceStart:        0,
		SourceEnd:          s.duration,
		Transition:         s.transition,
		TransitionDuration: s.transitionDuration,
		ZoomPan:            s.kenBurns,
		OverlayText:        s.overlayText,
		OverlayPosition:    s.overlayPosition,
		AudioDuck:          duck,
		Effects:            []string{},
	}
}

type videoShot struct {
	src                types.VisualAsset
	start              float64
	duration           float64
	sourceStart        float64
	sourceEnd          float64
	transition         string
	transitionDuration float64
	overlayText        string
	overlayPosition    string
}

func (s videoShot) asset() types.VisualAsset { return s.src }

func (s videoShot) timelineScene(sceneID string, idx int, sceneStart float64, duck bool) types.TimelineScene {
	return types.TimelineScene{
		SceneID:            fmt.Sprintf("%s_shot_%d", sceneID, idx),
		ClipPath:           s.src.Path,
		StartTime:          sceneStart + s.start,
		EndTime:            sceneStart + s.start + s.duration,
		SourceStart:        s.sourceStart,
		SourceEnd:          s.sourceEnd,
		Transition:         s.transition,
		TransitionDuration: s.transitionDuration,
		OverlayText:        s.overlayText,
		OverlayPosition:    s.overlayPosition,
		AudioDuck:          duck,
		Effects:            []string{},
	}
}

// Options controls a single timeline build.
type Options struct {
	MusicTrack      string
	MusicMood       string
	NarrationTrack  string
	SubtitlePath    string
	BurnSubtitles   bool
	AutoTransitions bool
	KenBurns        bool
}

// Builder turns scene segments plus an asset pool into a renderable
// timeline. The rng is injected so seeded builds are reproducible.
type Builder struct {
	cfg      *config.Config
	selector *assets.Selector
	rng      *rand.Rand
}

func NewBuilder(cfg *config.Config, selector *assets.Selector, rng *rand.Rand) *Builder {
	return &Builder{cfg: cfg, selector: selector, rng: rng}
}

// Build assembles and validates a timeline for one content item.
func (b *Builder) Build(slug string, segments []types.SceneSegment, pool []types.VisualAsset, musicTracks []types.VisualAsset, opts Options) (*types.Timeline, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("no scene segments for %s", slug)
	}

	var scenes []types.TimelineScene
	for si := range segments {
		seg := &segments[si]
		shots := b.planShots(seg, pool, si > 0, si < len(segments)-1, prevType(segments, si), opts)
		sceneID := fmt.Sprintf("scene_%d", seg.Index)
		for i, sh := range shots {
			scenes = append(scenes, sh.timelineScene(sceneID, i, seg.StartTime, false))
		}
	}

	musicTrack := opts.MusicTrack
	if musicTrack == "" && len(musicTracks) > 0 {
		if pick := assets.PickMusic(musicTracks, opts.MusicMood, b.rng); pick != nil {
			musicTrack = pick.Path
		}
	}

	totalDuration := 0.0
	for _, s := range scenes {
		if s.EndTime > totalDuration {
			totalDuration = s.EndTime
		}
	}

	t := &types.Timeline{
		Version:        1,
		Slug:           slug,
		Width:          b.cfg.Video.Width,
		Height:         b.cfg.Video.Height,
		FPS:            b.cfg.Video.FPS,
		TotalDuration:  totalDuration,
		Scenes:         scenes,
		MusicTrack:     musicTrack,
		MusicVolume:    b.cfg.Timeline.MusicVolume,
		NarrationTrack: opts.NarrationTrack,
		BurnSubtitles:  opts.BurnSubtitles,
		SubtitlePath:   opts.SubtitlePath,
		LoudnessTarget: b.cfg.Timeline.LoudnessTarget,
		OutputFormat:   b.cfg.Timeline.OutputFormat,
	}

	if err := Validate(t); err != nil {
		return nil, err
	}

	log.Printf("[timeline] ✅ built timeline for %s: %d scenes, %.1fs", slug, len(scenes), totalDuration)
	return t, nil
}

// planShots splits one scene into shots and binds assets to them.
func (b *Builder) planShots(seg *types.SceneSegment, pool []types.VisualAsset, hasPrev, hasNext bool, previousType string, opts Options) []shot {
	numShots := shotsForDuration(seg.Duration)
	shotDuration := seg.Duration / float64(numShots)

	selected := b.selector.SelectForScene(seg, pool, numShots)

	shots := make([]shot, 0, numShots)
	for i := 0; i < numShots; i++ {
		asset := selected[i%len(selected)]

		transition := ""
		if opts.AutoTransitions && shotDuration >= b.cfg.Timeline.TransitionDuration {
			if i > 0 {
				transition = b.selectTransition(seg.SceneType)
			} else if hasPrev {
				// scene boundary transition styled after the outgoing scene
				transition = b.selectTransition(previousType)
			}
		}

		overlay := ""
		if i == 0 {
			overlay = seg.KeyPhrase
		}

		if asset.AssetType == types.AssetVideo {
			sourceEnd := shotDuration
			if asset.Duration > 0 && asset.Duration < sourceEnd {
				sourceEnd = asset.Duration
			}
			shots = append(shots, videoShot{
				src:                asset,
				start:              float64(i) * shotDuration,
				duration:           shotDuration,
				sourceStart:        0,
				sourceEnd:          sourceEnd,
				transition:         transition,
				transitionDuration: b.cfg.Timeline.TransitionDuration,
				overlayText:        overlay,
				overlayPosition:    "bottom",
			})
			continue
		}

		var kb *types.ZoomPanEffect
		if opts.KenBurns {
			fx := effects.NewKenBurns(b.rng, shotDuration, b.cfg.Video.FPS, b.cfg.Timeline.MaxZoom)
			kb = &fx
		}
		shots = append(shots, imageShot{
			src:                asset,
			start:              float64(i) * shotDuration,
			duration:           shotDuration,
			kenBurns:           kb,
			transition:         transition,
			transitionDuration: b.cfg.Timeline.TransitionDuration,
			overlayText:        overlay,
			overlayPosition:    "bottom",
		})
	}
	return shots
}

func shotsForDuration(duration float64) int {
	switch {
	case duration <= 7:
		return 1
	case duration <= 15:
		return 2
	default:
		n := int(duration / 8)
		if n > 3 {
			n = 3
		}
		if n < 1 {
			n = 1
		}
		return n
	}
}

// selectTransition picks a transition suited to the scene type.
func (b *Builder) selectTransition(sceneType string) string {
	var choices []string
	switch sceneType {
	case "HOOK", "TEASER":
		choices = []string{"fade", "fadewhite"}
	case "PROOF", "DEMONSTRATION":
		choices = []string{"dissolve", "fade"}
	case "CTA", "OUTRO":
		choices = []string{"fadeblack", "fade"}
	default:
		choices = []string{"fade", "dissolve", "wipeleft", "wiperight"}
	}
	return choices[b.rng.Intn(len(choices))]
}

func prevType(segments []types.SceneSegment, i int) string {
	if i == 0 {
		return ""
	}
	return segments[i-1].SceneType
}
