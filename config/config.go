package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Video     VideoConfig     `yaml:"video"`
	Scenes    ScenesConfig    `yaml:"scenes"`
	Assets    AssetsConfig    `yaml:"assets"`
	Timeline  TimelineConfig  `yaml:"timeline"`
	Subtitles SubtitlesConfig `yaml:"subtitles"`
	Render    RenderConfig    `yaml:"render"`
	Research  ResearchConfig  `yaml:"research"`
	Upload    UploadConfig    `yaml:"upload"`
	Paths     PathsConfig     `yaml:"paths"`
}

type VideoConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type ScenesConfig struct {
	WordsPerMinute   float64 `yaml:"words_per_minute"`
	MinSceneDuration float64 `yaml:"min_scene_duration"`
	MaxSceneDuration float64 `yaml:"max_scene_duration"`
	MaxKeywords      int     `yaml:"max_keywords"`
}

type AssetsConfig struct {
	MinWidth         int      `yaml:"min_width"`
	MinHeight        int      `yaml:"min_height"`
	AllowedLicenses  []string `yaml:"allowed_licenses"`
	FallbackCacheDir string   `yaml:"fallback_cache_dir"`
}

type TimelineConfig struct {
	AutoTransitions    bool    `yaml:"auto_transitions"`
	KenBurns           bool    `yaml:"ken_burns"`
	MaxZoom            float64 `yaml:"max_zoom"`
	TransitionDuration float64 `yaml:"transition_duration"`
	MusicVolume        float64 `yaml:"music_volume"`
	LoudnessTarget     int     `yaml:"loudness_target"`
	OutputFormat       string  `yaml:"output_format"`
	Seed               int64   `yaml:"seed"`
}

type SubtitlesConfig struct {
	BurnIntoVideo   bool   `yaml:"burn_into_video"`
	Font            string `yaml:"font"`
	FontSize        int    `yaml:"font_size"`
	MaxCharsPerLine int    `yaml:"max_chars_per_line"`
}

type RenderConfig struct {
	FFmpegBin    string `yaml:"ffmpeg_bin"`
	FFprobeBin   string `yaml:"ffprobe_bin"`
	VideoCodec   string `yaml:"video_codec"`
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf"`
	AudioCodec   string `yaml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate"`
	SampleRate   int    `yaml:"sample_rate"`
}

type ResearchConfig struct {
	Subreddits       []string `yaml:"subreddits"`
	HookKeywords     []string `yaml:"hook_keywords"`
	MinRedditScore   int      `yaml:"min_reddit_score"`
	MaxStoriesToEval int      `yaml:"max_stories_to_evaluate"`
}

type UploadConfig struct {
	Visibility        string `yaml:"visibility"`
	CategoryID        string `yaml:"category_id"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	MadeForKids       bool   `yaml:"made_for_kids"`
	DefaultLanguage   string `yaml:"default_language"`
}

type PathsConfig struct {
	ContentDir     string `yaml:"content_dir"`
	AssetsDir      string `yaml:"assets_dir"`
	Output         string `yaml:"output"`
	Logs           string `yaml:"logs"`
	UsedStoriesLog string `yaml:"used_stories_log"`
}

// Load reads config.yaml and returns a Config struct with defaults applied
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a Config with all defaults and no file read.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Video.Width == 0 {
		c.Video.Width = 1920
	}
	if c.Video.Height == 0 {
		c.Video.Height = 1080
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = 30
	}
	if c.Scenes.WordsPerMinute == 0 {
		c.Scenes.WordsPerMinute = 150
	}
	if c.Scenes.MinSceneDuration == 0 {
		c.Scenes.MinSceneDuration = 4
	}
	if c.Scenes.MaxSceneDuration == 0 {
		c.Scenes.MaxSceneDuration = 25
	}
	if c.Scenes.MaxKeywords == 0 {
		c.Scenes.MaxKeywords = 5
	}
	if c.Assets.MinWidth == 0 {
		c.Assets.MinWidth = 1280
	}
	if c.Assets.MinHeight == 0 {
		c.Assets.MinHeight = 720
	}
	if len(c.Assets.AllowedLicenses) == 0 {
		c.Assets.AllowedLicenses = []string{"cc0", "pd", "publicdomain", "cc-by", "cc-by-sa"}
	}
	if c.Assets.FallbackCacheDir == "" {
		c.Assets.FallbackCacheDir = ".cache/fallbacks"
	}
	if c.Timeline.MaxZoom == 0 {
		c.Timeline.MaxZoom = 1.2
	}
	if c.Timeline.TransitionDuration == 0 {
		c.Timeline.TransitionDuration = 0.5
	}
	if c.Timeline.MusicVolume == 0 {
		c.Timeline.MusicVolume = 0.2
	}
	if c.Timeline.LoudnessTarget == 0 {
		c.Timeline.LoudnessTarget = -14 // YouTube standard
	}
	if c.Timeline.OutputFormat == "" {
		c.Timeline.OutputFormat = "mp4"
	}
	if c.Subtitles.Font == "" {
		c.Subtitles.Font = "Arial"
	}
	if c.Subtitles.FontSize == 0 {
		c.Subtitles.FontSize = 22
	}
	if c.Subtitles.MaxCharsPerLine == 0 {
		c.Subtitles.MaxCharsPerLine = 42
	}
	if c.Render.FFmpegBin == "" {
		c.Render.FFmpegBin = "ffmpeg"
	}
	if c.Render.FFprobeBin == "" {
		c.Render.FFprobeBin = "ffprobe"
	}
	if c.Render.VideoCodec == "" {
		c.Render.VideoCodec = "libx264"
	}
	if c.Render.Preset == "" {
		c.Render.Preset = "medium"
	}
	if c.Render.CRF == 0 {
		c.Render.CRF = 23
	}
	if c.Render.AudioCodec == "" {
		c.Render.AudioCodec = "aac"
	}
	if c.Render.AudioBitrate == "" {
		c.Render.AudioBitrate = "192k"
	}
	if c.Render.SampleRate == 0 {
		c.Render.SampleRate = 44100
	}
	if c.Upload.Visibility == "" {
		c.Upload.Visibility = "private"
	}
	if c.Upload.CategoryID == "" {
		c.Upload.CategoryID = "27" // Education
	}
	if c.Upload.DefaultLanguage == "" {
		c.Upload.DefaultLanguage = "en"
	}
	if c.Paths.ContentDir == "" {
		c.Paths.ContentDir = "content"
	}
	if c.Paths.AssetsDir == "" {
		c.Paths.AssetsDir = "assets"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	if c.Paths.Logs == "" {
		c.Paths.Logs = "logs"
	}
	if c.Paths.UsedStoriesLog == "" {
		c.Paths.UsedStoriesLog = "logs/used_stories.json"
	}
}
