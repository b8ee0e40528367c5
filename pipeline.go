package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"faceless-pipeline/assets"
	"faceless-pipeline/config"
	"faceless-pipeline/filtergraph"
	"faceless-pipeline/render"
	"faceless-pipeline/research"
	"faceless-pipeline/scenes"
	"faceless-pipeline/subtitles"
	"faceless-pipeline/timeline"
	"faceless-pipeline/types"
	"faceless-pipeline/upload"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		slug       = flag.String("slug", "", "content slug to process")
		seed       = flag.Int64("seed", 0, "random seed (0 = time-based)")
		doResearch = flag.Bool("research", false, "fetch story candidates and exit")
		doUpload   = flag.Bool("upload", false, "upload the rendered video")
		burnSubs   = flag.Bool("burn-subtitles", false, "burn subtitles into the video")
		musicMood  = flag.String("music-mood", "", "preferred background music mood")
		title      = flag.String("title", "", "video title for upload metadata")
		skipRender = flag.Bool("skip-render", false, "stop after writing the timeline")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("[pipeline] no .env file found, using system environment")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("[pipeline] ⚠️ config load failed (%v), using defaults", err)
		cfg = config.Default()
	}

	ctx := context.Background()

	if *doResearch {
		if err := runResearch(ctx, cfg); err != nil {
			log.Fatalf("[pipeline] research failed: %v", err)
		}
		return
	}

	if *slug == "" {
		log.Fatal("[pipeline] -slug is required")
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Timeline.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	state := &types.PipelineState{
		RunID:     uuid.New().String(),
		Slug:      *slug,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	err = runPipeline(ctx, cfg, state, pipelineOptions{
		seed:       rngSeed,
		upload:     *doUpload,
		burnSubs:   *burnSubs,
		musicMood:  *musicMood,
		title:      *title,
		skipRender: *skipRender,
	})
	state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	if err != nil {
		state.Error = err.Error()
	}
	if saveErr := saveState(cfg, state); saveErr != nil {
		log.Printf("[pipeline] ⚠️ failed to save run state: %v", saveErr)
	}
	if err != nil {
		log.Fatalf("[pipeline] run %s failed: %v", state.RunID, err)
	}
	log.Printf("[pipeline] ✅ run %s complete", state.RunID)
}

type pipelineOptions struct {
	seed       int64
	upload     bool
	burnSubs   bool
	musicMood  string
	title      string
	skipRender bool
}

func runPipeline(ctx context.Context, cfg *config.Config, state *types.PipelineState, opts pipelineOptions) error {
	slug := state.Slug
	contentDir := filepath.Join(cfg.Paths.ContentDir, slug)

	// Stage 1: scene analysis
	log.Printf("[pipeline] [1/7] analyzing script for %s", slug)
	scriptPath := filepath.Join(contentDir, "script.txt")
	scriptData, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	meta := loadMetadata(filepath.Join(contentDir, "metadata.json"))
	narrationPath := filepath.Join(contentDir, "audio.wav")
	audioDuration := probeDuration(ctx, cfg, narrationPath)

	analyzer := scenes.New(cfg)
	segments := analyzer.Analyze(string(scriptData), meta, audioDuration)
	if len(segments) == 0 {
		return fmt.Errorf("script produced no scenes")
	}

	// Stage 2: asset manifest
	log.Printf("[pipeline] [2/7] loading assets for %s", slug)
	manifestPath := filepath.Join(cfg.Paths.AssetsDir, slug, "manifest.json")
	var pool, music []types.VisualAsset
	if manifest, err := assets.LoadManifest(manifestPath, cfg); err != nil {
		log.Printf("[pipeline] ⚠️ no manifest (%v), fallback visuals only", err)
	} else {
		pool = manifest.Visuals()
		music = manifest.Music()
	}

	// Stage 3: subtitles sidecar
	log.Printf("[pipeline] [3/7] preparing subtitles for %s", slug)
	subtitlePath := filepath.Join(contentDir, "subtitles.srt")
	if _, err := os.Stat(subtitlePath); err != nil {
		if err := subtitles.WriteSRT(segments, subtitlePath, cfg.Subtitles.MaxCharsPerLine); err != nil {
			return fmt.Errorf("write subtitles: %w", err)
		}
	}
	if err := subtitles.ValidateSRT(subtitlePath); err != nil {
		return fmt.Errorf("subtitles invalid: %w", err)
	}

	// Stage 4: timeline
	log.Printf("[pipeline] [4/7] building timeline for %s", slug)
	rng := rand.New(rand.NewSource(opts.seed))
	fallbackGen := assets.NewFallbackGenerator(cfg.Assets.FallbackCacheDir, cfg.Video.Width, cfg.Video.Height)
	builder := timeline.NewBuilder(cfg, assets.NewSelector(fallbackGen), rng)

	tl, err := builder.Build(slug, segments, pool, music, timeline.Options{
		MusicMood:       opts.musicMood,
		NarrationTrack:  narrationPath,
		SubtitlePath:    subtitlePath,
		BurnSubtitles:   opts.burnSubs,
		AutoTransitions: cfg.Timeline.AutoTransitions,
		KenBurns:        cfg.Timeline.KenBurns,
	})
	if err != nil {
		return fmt.Errorf("build timeline: %w", err)
	}
	state.Timeline = tl

	timelinePath, err := timeline.Save(tl, cfg.Paths.ContentDir)
	if err != nil {
		return fmt.Errorf("save timeline: %w", err)
	}
	log.Printf("[pipeline] timeline written to %s", timelinePath)

	if opts.skipRender {
		return nil
	}

	// Stages 5-6: filtergraph + render
	log.Printf("[pipeline] [5/7] compiling filtergraph for %s", slug)
	subPath := ""
	if tl.BurnSubtitles {
		subPath = tl.SubtitlePath
	}
	graph, err := filtergraph.Build(tl, tl.NarrationTrack, tl.MusicTrack, subPath)
	if err != nil {
		return fmt.Errorf("compile filtergraph: %w", err)
	}

	log.Printf("[pipeline] [6/7] rendering %s", slug)
	outputPath := filepath.Join(cfg.Paths.Output, fmt.Sprintf("%s.%s", slug, tl.OutputFormat))
	renderer := render.New(cfg)
	if err := renderer.Render(ctx, graph, outputPath); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := renderer.ValidateOutput(ctx, outputPath, tl.TotalDuration, 2.0); err != nil {
		return fmt.Errorf("output validation: %w", err)
	}
	state.VideoFile = outputPath

	// Stage 7: upload
	if !opts.upload {
		log.Printf("[pipeline] [7/7] upload skipped")
		return nil
	}
	log.Printf("[pipeline] [7/7] uploading %s", slug)

	videoTitle := opts.title
	if videoTitle == "" {
		videoTitle = titleFromSlug(slug)
	}
	uploadMeta := upload.BuildMetadata(cfg, videoTitle, segments)
	state.Metadata = uploadMeta

	uploader := upload.New(cfg)
	videoID, err := uploader.Upload(ctx, outputPath, uploadMeta)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	state.YouTubeID = videoID
	state.YouTubeURL = "https://youtube.com/watch?v=" + videoID

	if err := uploader.LogUpload(videoID, outputPath, uploadMeta); err != nil {
		log.Printf("[pipeline] ⚠️ failed to log upload: %v", err)
	}
	return nil
}

func runResearch(ctx context.Context, cfg *config.Config) error {
	r, err := research.New(cfg)
	if err != nil {
		return err
	}
	stories, err := r.FindStories(ctx)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		log.Println("[pipeline] no new stories found")
		return nil
	}
	for i, s := range stories {
		if i >= 10 {
			break
		}
		log.Printf("[pipeline] %2d. (%d) %s [%s]", i+1, s.Score, s.Title, s.Source)
	}
	return saveJSON(filepath.Join(cfg.Paths.Logs, "stories.json"), stories)
}

func loadMetadata(path string) *types.ScriptMetadata {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var meta types.ScriptMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		log.Printf("[pipeline] ⚠️ bad metadata file %s: %v", path, err)
		return nil
	}
	return &meta
}

// probeDuration reads the narration length; 0 means unknown and lets the
// analyzer estimate from word count.
func probeDuration(ctx context.Context, cfg *config.Config, path string) float64 {
	if _, err := os.Stat(path); err != nil {
		return 0
	}
	info, err := render.Probe(ctx, cfg.Render.FFprobeBin, path)
	if err != nil {
		log.Printf("[pipeline] ⚠️ could not probe %s: %v", path, err)
		return 0
	}
	return info.Duration
}

func titleFromSlug(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "_", "-"), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func saveState(cfg *config.Config, state *types.PipelineState) error {
	return saveJSON(filepath.Join(cfg.Paths.Logs, fmt.Sprintf("run_%s.json", state.RunID)), state)
}

func saveJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
