package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"faceless-pipeline/config"
	"faceless-pipeline/types"
)

// Uploader pushes finished videos to YouTube using a refresh token
// supplied via environment variables.
type Uploader struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Upload sends the video file with its metadata and returns the video ID.
func (u *Uploader) Upload(ctx context.Context, videoPath string, meta *types.VideoMetadata) (string, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return "", fmt.Errorf("missing YouTube credentials (YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, YOUTUBE_REFRESH_TOKEN)")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			youtube.YoutubeUploadScope,
			youtube.YoutubeScope,
		},
	}

	// expired token forces a refresh on first use
	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour),
	}

	httpClient := oauthConfig.Client(ctx, token)
	service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return "", fmt.Errorf("create youtube service: %w", err)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                meta.Title,
			Description:          meta.Description,
			Tags:                 meta.Tags,
			CategoryId:           meta.CategoryID,
			DefaultLanguage:      u.cfg.Upload.DefaultLanguage,
			DefaultAudioLanguage: u.cfg.Upload.DefaultLanguage,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           meta.Visibility,
			SelfDeclaredMadeForKids: u.cfg.Upload.MadeForKids,
		},
	}
	if meta.ScheduledTimeUTC != "" {
		video.Status.PrivacyStatus = "private"
		video.Status.PublishAt = meta.ScheduledTimeUTC
	}

	f, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	log.Printf("[upload] uploading %s...", filepath.Base(videoPath))

	call := service.Videos.Insert([]string{"snippet", "status"}, video)
	call.NotifySubscribers(u.cfg.Upload.NotifySubscribers)

	resp, err := call.Media(f).Do()
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	log.Printf("[upload] ✅ uploaded: https://youtube.com/watch?v=%s", resp.Id)
	return resp.Id, nil
}

// LogUpload records the upload outcome next to the other run artifacts.
func (u *Uploader) LogUpload(videoID, videoPath string, meta *types.VideoMetadata) error {
	if err := os.MkdirAll(u.cfg.Paths.Logs, 0o755); err != nil {
		return err
	}

	entry := map[string]any{
		"video_id":    videoID,
		"url":         "https://youtube.com/watch?v=" + videoID,
		"file":        videoPath,
		"title":       meta.Title,
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(u.cfg.Paths.Logs, fmt.Sprintf("upload_%s.json", videoID))
	return os.WriteFile(path, data, 0o644)
}
