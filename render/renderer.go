package render

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"faceless-pipeline/config"
	"faceless-pipeline/filtergraph"
)

// Renderer drives the final ffmpeg pass over a compiled filtergraph.
type Renderer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// BuildArgs assembles the full ffmpeg argument list for one render.
func (r *Renderer) BuildArgs(res *filtergraph.Result, outputPath string) []string {
	args := []string{"-y"}
	args = append(args, res.InputArgs...)
	args = append(args,
		"-filter_complex", res.FilterComplex,
		"-map", res.VideoLabel,
		"-map", res.AudioLabel,
		"-c:v", r.cfg.Render.VideoCodec,
		"-preset", r.cfg.Render.Preset,
		"-crf", strconv.Itoa(r.cfg.Render.CRF),
		"-c:a", r.cfg.Render.AudioCodec,
		"-b:a", r.cfg.Render.AudioBitrate,
		"-ar", strconv.Itoa(r.cfg.Render.SampleRate),
		"-movflags", "+faststart",
		"-pix_fmt", "yuv420p",
		outputPath,
	)
	return args
}

// Render runs ffmpeg and blocks until it finishes.
func (r *Renderer) Render(ctx context.Context, res *filtergraph.Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	args := r.BuildArgs(res, outputPath)
	log.Printf("[render] running ffmpeg with %d inputs", len(res.InputArgs)/2)

	cmd := exec.CommandContext(ctx, r.cfg.Render.FFmpegBin, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(output))
	}

	log.Printf("[render] ✅ rendered %s", outputPath)
	return nil
}

// ValidateOutput checks that the rendered file exists, has substance,
// holds both streams, and lands within tolerance of the expected length.
func (r *Renderer) ValidateOutput(ctx context.Context, path string, expectedDuration, tolerance float64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("output file not found: %w", err)
	}
	if info.Size() < 1000 {
		return fmt.Errorf("output file too small: %d bytes", info.Size())
	}

	media, err := Probe(ctx, r.cfg.Render.FFprobeBin, path)
	if err != nil {
		return fmt.Errorf("probe output: %w", err)
	}

	if !media.HasVideo || !media.HasAudio {
		return fmt.Errorf("output missing streams (video=%v audio=%v)", media.HasVideo, media.HasAudio)
	}

	if diff := math.Abs(media.Duration - expectedDuration); diff > tolerance {
		return fmt.Errorf("duration mismatch: expected %.1fs, got %.1fs", expectedDuration, media.Duration)
	}

	log.Printf("[render] ✅ output valid: %s (%dx%d, %.1fs)", path, media.Width, media.Height, media.Duration)
	return nil
}
