package config

import (
	"os"
	"time"
)

// Video Output Constants
const (
	// VideoWidth is the output video width (9:16 aspect ratio)
	VideoWidth = 1080

	// VideoHeight is the output video height (9:16 aspect ratio)
	VideoHeight = 1920

	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"

	// DefaultFPS is used when neither the timeline nor the project carries one
	DefaultFPS = 24
)

// Timing Constants
const (
	// MinCaptionDuration is the floor for a single caption's time window in seconds
	MinCaptionDuration = 1.2

	// MinSegmentDuration guards against zero-length timeline clips
	MinSegmentDuration = 0.1

	// MusicFadeDuration is the fade in/out applied to background music in seconds
	MusicFadeDuration = 1.5

	// DuckingFloor is the lowest gain left on music under narration
	DuckingFloor = 0.05
)

// Audio Defaults
const (
	DefaultMusicVolume = 0.12
	DefaultDucking     = 0.35
	DefaultVoice       = "alloy"
)

// Subtitle Style Defaults
const (
	DefaultFontSize    = 62
	DefaultStrokeWidth = 2

	// SubtitleBottomMargin is how far caption baselines sit above the bottom edge
	SubtitleBottomMargin = 250

	// BannerBottomMargin replaces SubtitleBottomMargin when the banner template is on
	BannerBottomMargin = 300

	// BannerHeightRatio is the top band's share of the frame height
	BannerHeightRatio = 0.21
)

// Directory Constants
const (
	// OutputDir is the default directory for generated projects
	OutputDir = "output"

	// AssetsDir holds b-roll and music libraries
	AssetsDir = "assets"

	// BrollDir is the b-roll subdirectory under AssetsDir
	BrollDir = "broll"

	// MusicDir is the music subdirectory under AssetsDir
	MusicDir = "music"

	// TranslatorDir holds translator project state under OutputDir
	TranslatorDir = "translator_projects"

	// UploadsDir receives user-supplied source files under OutputDir
	UploadsDir = "uploads"

	// DownloadDir is where cmd/ytdl drops source videos
	DownloadDir = "youtube/download"
)

// Processing Constants
const (
	// MaxConcurrentGenerations limits batch generation parallelism
	MaxConcurrentGenerations = 3

	// GenerationBatchDelay is the wait time between batch slots
	GenerationBatchDelay = 2 * time.Second

	// SegmentMaxDuration is the default translator segment window in seconds
	SegmentMaxDuration = 45.0
)

// Model Defaults
const (
	DefaultScriptModel = "gpt-4o-mini"
	DefaultTTSModel    = "gpt-4o-mini-tts"
	DefaultStyle       = "정보/요약"
	DefaultLanguage    = "ko"
	DefaultDuration    = 30
)

// YouTube Constants
const (
	// YouTubeCategoryID for Science & Technology
	YouTubeCategoryID = "28"

	// YouTubePrivacyStatus sets video visibility
	YouTubePrivacyStatus = "unlisted"
)

// GetEnvOrDefault returns the environment value for key, or fallback when unset.
func GetEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
