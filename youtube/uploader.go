// Package youtube publishes rendered shorts through the YouTube Data API.
package youtube

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"shortsmaker/config"
	"shortsmaker/types"
)

const maxTitleRunes = 100

// Metadata describes one upload.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// Uploader wraps an authenticated YouTube service.
type Uploader struct {
	service *youtubeapi.Service
}

// NewUploader authenticates with a service-account JSON key file scoped to
// uploads.
func NewUploader(ctx context.Context, serviceAccountFile string) (*Uploader, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, youtubeapi.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := youtubeapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	return &Uploader{service: service}, nil
}

// NewFromEnv returns an uploader when YOUTUBE_SERVICE_ACCOUNT_FILE points at
// a usable key, nil otherwise. Pipelines treat a nil uploader as
// local-output only.
func NewFromEnv(ctx context.Context) *Uploader {
	credFile := os.Getenv("YOUTUBE_SERVICE_ACCOUNT_FILE")
	if credFile == "" {
		return nil
	}
	uploader, err := NewUploader(ctx, credFile)
	if err != nil {
		log.Printf("Warning: YouTube upload disabled: %v", err)
		return nil
	}
	return uploader
}

// Upload pushes the video file with snippet and status metadata and returns
// the new video id.
func (u *Uploader) Upload(ctx context.Context, videoPath string, meta Metadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat video file: %w", err)
	}
	log.Printf("📤 Uploading %s (%.2f MB)", videoPath, float64(info.Size())/(1024*1024))

	privacy := meta.Privacy
	if privacy == "" {
		privacy = config.YouTubePrivacyStatus
	}
	video := &youtubeapi.Video{
		Snippet: &youtubeapi.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  meta.CategoryID,
		},
		Status: &youtubeapi.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := u.service.Videos.Insert([]string{"snippet", "status"}, video).Media(file).Context(ctx)
	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("upload video: %w", err)
	}

	log.Printf("✅ Uploaded! https://youtube.com/shorts/%s", response.Id)
	return response.Id, nil
}

// BuildMetadata derives upload metadata from the generation topic and the
// caption lines. Titles are clipped on rune boundaries so multibyte topics
// survive.
func BuildMetadata(topic string, captions []types.CaptionLine) Metadata {
	title := strings.TrimSpace(topic)
	if runes := []rune(title); len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes-3]) + "..."
	}

	var lines []string
	for i, caption := range captions {
		if i == 3 {
			break
		}
		if text := strings.TrimSpace(caption.Text); text != "" {
			lines = append(lines, text)
		}
	}
	description := strings.Join(lines, "\n")
	if description != "" {
		description += "\n\n"
	}
	description += "#shorts"

	return Metadata{
		Title:       title,
		Description: description,
		Tags:        []string{"shorts", "ai shorts", title},
		CategoryID:  config.YouTubeCategoryID,
		Privacy:     config.YouTubePrivacyStatus,
	}
}
