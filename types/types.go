package types

// SceneSegment is a time-bounded slice of narration text produced by the
// scene analyzer. Segments are created once per timeline build and are
// immutable afterwards.
type SceneSegment struct {
	Index            int      `json:"index"`
	StartTime        float64  `json:"start_time"`
	EndTime          float64  `json:"end_time"`
	Duration         float64  `json:"duration"`
	Text             string   `json:"text"`
	SectionMarker    string   `json:"section_marker,omitempty"` // e.g. HOOK, PROOF, CTA
	SceneType        string   `json:"scene_type,omitempty"`     // inferred from marker
	Keywords         []string `json:"keywords"`
	SearchQueries    []string `json:"search_queries"`
	KeyPhrase        string   `json:"key_phrase,omitempty"` // for on-screen text
	VisualCues       []string `json:"visual_cues"`
	BRollSuggestions []string `json:"b_roll_suggestions"`
}

// ScriptSection is one externally supplied section of timing metadata.
type ScriptSection struct {
	Type             string   `json:"type"`
	StartTime        float64  `json:"start_time"`
	EndTime          float64  `json:"end_time"`
	Text             string   `json:"text"`
	VisualCues       []string `json:"visual_cues"`
	BRollSuggestions []string `json:"b_roll_suggestions"`
}

// ScriptMetadata is the optional metadata document accompanying a script.
type ScriptMetadata struct {
	Title    string          `json:"title"`
	Sections []ScriptSection `json:"sections"`
	Tags     []string        `json:"tags"`
}

// Asset types understood by the pipeline.
const (
	AssetImage = "image"
	AssetVideo = "video"
	AssetMusic = "music"
)

// VisualAsset is a concrete downloadable media item. Assets are produced by
// the external asset-planning subsystem; the core only reads them.
type VisualAsset struct {
	Path        string   `json:"path"`
	Title       string   `json:"title"`
	Creator     string   `json:"creator,omitempty"`
	License     string   `json:"license,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
	Attribution string   `json:"attribution,omitempty"`
	Width       int      `json:"width,omitempty"`
	Height      int      `json:"height,omitempty"`
	Duration    float64  `json:"duration_seconds,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	AssetType   string   `json:"asset_type"` // image | video | music
}

// ZoomPanEffect holds Ken Burns zoom/pan parameters for an image shot.
// Zoom factors are > 0, pan fractions lie in [0,1].
type ZoomPanEffect struct {
	ZoomStart      float64 `json:"zoom_start"`
	ZoomEnd        float64 `json:"zoom_end"`
	PanXStart      float64 `json:"pan_x_start"`
	PanXEnd        float64 `json:"pan_x_end"`
	PanYStart      float64 `json:"pan_y_start"`
	PanYEnd        float64 `json:"pan_y_end"`
	DurationFrames int     `json:"duration_frames"`
}

// TimelineScene is one visual segment placed on the global timeline.
// start_time/end_time are absolute; source_start/source_end describe the trim
// window within the source clip.
type TimelineScene struct {
	SceneID            string         `json:"scene_id"`
	ClipPath           string         `json:"clip_path"`
	StartTime          float64        `json:"start_time"`
	EndTime            float64        `json:"end_time"`
	SourceStart        float64        `json:"source_start"`
	SourceEnd          float64        `json:"source_end"`
	Transition         string         `json:"transition,omitempty"` // applied against the previous scene
	TransitionDuration float64        `json:"transition_duration"`
	ZoomPan            *ZoomPanEffect `json:"zoom_pan,omitempty"` // image shots only
	OverlayText        string         `json:"overlay_text,omitempty"`
	OverlayPosition    string         `json:"overlay_position,omitempty"`
	AudioDuck          bool           `json:"audio_duck"`
	Effects            []string       `json:"effects"`
}

// Duration returns the scene's length on the global timeline.
func (s *TimelineScene) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Timeline is the complete renderable description of one content item.
// It is persisted per slug, validated before any render attempt, and is the
// sole input to the filtergraph builder.
type Timeline struct {
	Version        int             `json:"version"`
	Slug           string          `json:"slug"`
	Width          int             `json:"width"`
	Height         int             `json:"height"`
	FPS            int             `json:"fps"`
	TotalDuration  float64         `json:"total_duration"`
	Scenes         []TimelineScene `json:"scenes"`
	MusicTrack     string          `json:"music_track,omitempty"`
	MusicVolume    float64         `json:"music_volume"`
	NarrationTrack string          `json:"narration_track"`
	BurnSubtitles  bool            `json:"burn_subtitles"`
	SubtitlePath   string          `json:"subtitle_path,omitempty"`
	LoudnessTarget int             `json:"loudness_target"` // LUFS
	OutputFormat   string          `json:"output_format"`
}

// Story holds a researched story ready for scripting.
type Story struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Source      string   `json:"source"`
	SourceURL   string   `json:"source_url"`
	Score       int      `json:"score"`
	PublishedAt string   `json:"published_at"`
	Keywords    []string `json:"keywords"`
}

// VideoMetadata holds YouTube upload metadata.
type VideoMetadata struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
	CategoryID       string   `json:"category_id"`
	Visibility       string   `json:"visibility"`
	ScheduledTimeUTC string   `json:"scheduled_time_utc"`
}

// PipelineState tracks the full state of one pipeline run.
type PipelineState struct {
	RunID       string         `json:"run_id"`
	Slug        string         `json:"slug"`
	StartedAt   string         `json:"started_at"`
	CompletedAt string         `json:"completed_at"`
	Story       *Story         `json:"story,omitempty"`
	Timeline    *Timeline      `json:"timeline,omitempty"`
	VideoFile   string         `json:"video_file,omitempty"`
	Metadata    *VideoMetadata `json:"metadata,omitempty"`
	YouTubeID   string         `json:"youtube_id,omitempty"`
	YouTubeURL  string         `json:"youtube_url,omitempty"`
	Error       string         `json:"error,omitempty"`
}
