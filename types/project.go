package types

import (
	"time"
)

// Media types a timeline segment can carry.
const (
	MediaBroll = "broll"
	MediaImage = "image"
	MediaAudio = "audio"
)

// Subtitle templates.
const (
	TemplateClassic = "classic"
	TemplateBanner  = "banner"
)

// CaptionLine is a timed text span shown during playback.
// Within a project the lines are kept sorted by start and are expected to be
// contiguous, with the final line's end clamped to the narration duration.
type CaptionLine struct {
	ID        string    `json:"id"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Duration returns the caption's time window length in seconds.
func (c CaptionLine) Duration() float64 {
	return c.End - c.Start
}

// TimelineSegment schedules one media source on the video track.
// Source is a path or "auto"; extras carries free-form render hints
// (fps, overlay flag, position).
type TimelineSegment struct {
	ID        string         `json:"id"`
	MediaType string         `json:"media_type"`
	Source    string         `json:"source"`
	Start     float64        `json:"start"`
	End       float64        `json:"end"`
	Extras    map[string]any `json:"extras"`
}

// Duration returns the scheduled clip length in seconds.
func (s TimelineSegment) Duration() float64 {
	return s.End - s.Start
}

// IsOverlay reports whether the segment composites on top of the base track
// instead of occupying it.
func (s TimelineSegment) IsOverlay() bool {
	switch s.MediaType {
	case "image", "overlay", "image_overlay":
		return true
	}
	return truthy(s.Extras["overlay"])
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != "" && t != "false" && t != "0"
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return false
}

// AudioSettings controls the narration/music mix for a project.
type AudioSettings struct {
	MusicEnabled bool    `json:"music_enabled"`
	MusicVolume  float64 `json:"music_volume"`
	Ducking      float64 `json:"ducking"`
	VoicePath    string  `json:"voice_path,omitempty"`
	MusicTrack   string  `json:"music_track,omitempty"`
}

// DefaultAudioSettings returns the settings applied to new projects.
func DefaultAudioSettings() AudioSettings {
	return AudioSettings{
		MusicEnabled: true,
		MusicVolume:  0.12,
		Ducking:      0.35,
	}
}

// Clamp forces volume and ducking into [0, 1].
func (a *AudioSettings) Clamp() {
	a.MusicVolume = clamp01(a.MusicVolume)
	a.Ducking = clamp01(a.Ducking)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SubtitleStyle controls burned-in caption rendering.
type SubtitleStyle struct {
	FontSize                int     `json:"font_size"`
	YOffset                 int     `json:"y_offset"`
	StrokeWidth             int     `json:"stroke_width"`
	FontPath                string  `json:"font_path,omitempty"`
	Animation               string  `json:"animation"`
	Template                string  `json:"template"`
	BannerPrimaryText       string  `json:"banner_primary_text,omitempty"`
	BannerSecondaryText     string  `json:"banner_secondary_text,omitempty"`
	BannerPrimaryFontSize   int     `json:"banner_primary_font_size,omitempty"`
	BannerSecondaryFontSize int     `json:"banner_secondary_font_size,omitempty"`
	BannerLineSpacing       float64 `json:"banner_line_spacing,omitempty"`
}

// DefaultSubtitleStyle returns the style applied to new projects.
func DefaultSubtitleStyle() SubtitleStyle {
	return SubtitleStyle{
		FontSize:    62,
		YOffset:     0,
		StrokeWidth: 2,
		Animation:   "none",
		Template:    TemplateClassic,
	}
}

// Clamp forces font size into [10, 120] and stroke width into [0, 10].
func (s *SubtitleStyle) Clamp() {
	if s.FontSize < 10 {
		s.FontSize = 10
	}
	if s.FontSize > 120 {
		s.FontSize = 120
	}
	if s.StrokeWidth < 0 {
		s.StrokeWidth = 0
	}
	if s.StrokeWidth > 10 {
		s.StrokeWidth = 10
	}
	if s.Animation == "" {
		s.Animation = "none"
	}
	if s.Template == "" {
		s.Template = TemplateClassic
	}
}

// ProjectMetadata aggregates everything known about one generated short.
// Version increments on every mutation; the previous blob is backed up
// before each overwrite.
type ProjectMetadata struct {
	BaseName       string            `json:"base_name"`
	Topic          string            `json:"topic"`
	Style          string            `json:"style"`
	Language       string            `json:"language"`
	Duration       float64           `json:"duration"`
	ScriptPath     string            `json:"script_path"`
	AudioPath      string            `json:"audio_path"`
	SubtitlesPath  string            `json:"subtitles_path"`
	VideoPath      string            `json:"video_path,omitempty"`
	ScriptTextPath string            `json:"script_text_path,omitempty"`
	Captions       []CaptionLine     `json:"captions"`
	Timeline       []TimelineSegment `json:"timeline"`
	AudioSettings  AudioSettings     `json:"audio_settings"`
	SubtitleStyle  SubtitleStyle     `json:"subtitle_style"`
	Version        int               `json:"version"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Extra          map[string]any    `json:"extra"`
}

// Touch records a mutation: bump the version and refresh updated_at.
func (m *ProjectMetadata) Touch() {
	m.Version++
	m.UpdatedAt = time.Now()
}

// MaxCaptionEnd returns the latest caption end, or 0 when there are none.
func (m *ProjectMetadata) MaxCaptionEnd() float64 {
	var max float64
	for _, c := range m.Captions {
		if c.End > max {
			max = c.End
		}
	}
	return max
}

// MaxSegmentEnd returns the latest timeline end, or 0 when there are none.
func (m *ProjectMetadata) MaxSegmentEnd() float64 {
	var max float64
	for _, s := range m.Timeline {
		if s.End > max {
			max = s.End
		}
	}
	return max
}

// ProjectSummary is the listing row for one project.
type ProjectSummary struct {
	BaseName      string    `json:"base_name"`
	Topic         string    `json:"topic"`
	Style         string    `json:"style"`
	Language      string    `json:"language"`
	Duration      float64   `json:"duration"`
	VideoPath     string    `json:"video_path,omitempty"`
	AudioPath     string    `json:"audio_path,omitempty"`
	SubtitlesPath string    `json:"subtitles_path,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// ProjectVersionInfo describes one backup blob under <base>_versions/.
type ProjectVersionInfo struct {
	Version   int        `json:"version"`
	Path      string     `json:"path"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CaptionCreate is the add-caption payload.
type CaptionCreate struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// CaptionPatch updates any subset of a caption line.
type CaptionPatch struct {
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Text  *string  `json:"text,omitempty"`
}

// TimelineUpdate replaces the whole segment list.
type TimelineUpdate struct {
	Segments []TimelineSegment `json:"segments"`
}

// AudioPatch updates any subset of the audio settings.
type AudioPatch struct {
	MusicEnabled *bool    `json:"music_enabled,omitempty"`
	MusicVolume  *float64 `json:"music_volume,omitempty"`
	Ducking      *float64 `json:"ducking,omitempty"`
	MusicTrack   *string  `json:"music_track,omitempty"`
}

// StylePatch updates any subset of the subtitle style.
type StylePatch struct {
	FontSize                *int     `json:"font_size,omitempty"`
	YOffset                 *int     `json:"y_offset,omitempty"`
	StrokeWidth             *int     `json:"stroke_width,omitempty"`
	FontPath                *string  `json:"font_path,omitempty"`
	Animation               *string  `json:"animation,omitempty"`
	Template                *string  `json:"template,omitempty"`
	BannerPrimaryText       *string  `json:"banner_primary_text,omitempty"`
	BannerSecondaryText     *string  `json:"banner_secondary_text,omitempty"`
	BannerPrimaryFontSize   *int     `json:"banner_primary_font_size,omitempty"`
	BannerSecondaryFontSize *int     `json:"banner_secondary_font_size,omitempty"`
	BannerLineSpacing       *float64 `json:"banner_line_spacing,omitempty"`
}
