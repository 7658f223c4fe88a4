package projects

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"shortsmaker/media"
	"shortsmaker/repository"
	"shortsmaker/types"
)

// Renderer executes a planned composition pass.
type Renderer interface {
	Render(req media.RenderRequest) error
}

// Service edits and renders stored projects. Every mutation bumps the
// project version and rewrites the SRT sidecar through the store.
type Service struct {
	Store    *repository.Store
	Library  media.Library
	Renderer Renderer
}

// NewService wires a service over store with the stock ffmpeg composer.
func NewService(store *repository.Store, library media.Library) *Service {
	return &Service{Store: store, Library: library, Renderer: media.Composer{}}
}

// AddCaption appends a new subtitle line and keeps captions sorted by start.
func (s *Service) AddCaption(base string, payload types.CaptionCreate) (*types.ProjectMetadata, error) {
	meta, err := s.Store.Load(base)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	meta.Captions = append(meta.Captions, types.CaptionLine{
		ID:        uuid.NewString(),
		Start:     payload.Start,
		End:       payload.End,
		Text:      payload.Text,
		CreatedAt: now,
		UpdatedAt: now,
	})
	sortCaptions(meta.Captions)

	return s.saveTouched(meta)
}

// UpdateCaption patches one subtitle line by id.
func (s *Service) UpdateCaption(base, captionID string, payload types.CaptionPatch) (*types.ProjectMetadata, error) {
	meta, err := s.Store.Load(base)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range meta.Captions {
		if meta.Captions[i].ID == captionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("subtitle %s: %w", captionID, repository.ErrNotFound)
	}

	line := &meta.Captions[idx]
	if payload.Start != nil {
		line.Start = *payload.Start
	}
	if payload.End != nil {
		line.End = *payload.End
	}
	if payload.Text != nil {
		line.Text = *payload.Text
	}
	line.UpdatedAt = time.Now().UTC()
	sortCaptions(meta.Captions)

	return s.saveTouched(meta)
}

// DeleteCaption removes one subtitle line by id.
func (s *Service) DeleteCaption(base, captionID string) (*types.ProjectMetadata, error) {
	meta, err := s.Store.Load(base)
	if err != nil {
		return nil, err
	}

	kept := meta.Captions[:0]
	for _, line := range meta.Captions {
		if line.ID != captionID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(meta.Captions) {
		return nil, fmt.Errorf("subtitle %s: %w", captionID, repository.ErrNotFound)
	}
	meta.Captions = kept

	return s.saveTouched(meta)
}

// ReplaceTimeline swaps the whole segment list.
func (s *Service) ReplaceTimeline(base string, payload types.TimelineUpdate) (*types.ProjectMetadata, error) {
	meta, err := s.Store.Load(base)
	if err != nil {
		return nil, err
	}

	segments := payload.Segments
	if segments == nil {
		segments = []types.TimelineSegment{}
	}
	meta.Timeline = segments

	return s.saveTouched(meta)
}

// UpdateAudioSettings patches the audio settings; absent fields keep their
// current values.
func (s *Service) UpdateAudioSettings(base string, payload types.AudioPatch) (*types.ProjectMetadata, error) {
	meta, err := s.Store.Load(base)
	if err != nil {
		return nil, err
	}

	settings := &meta.AudioSettings
	if payload.MusicEnabled != nil {
		settings.MusicEnabled = *payload.MusicEnabled
	}
	if payload.MusicVolume != nil {
		settings.MusicVolume = *payload.MusicVolume
	}
	if payload.Ducking != nil {
		settings.Ducking = *payload.Ducking
	}
	if payload.MusicTrack != nil {
		settings.MusicTrack = *payload.MusicTrack
	}

	return s.saveTouched(meta)
}

// UpdateSubtitleStyle patches the burn-in style; absent fields keep their
// current values. Font size and stroke width are clamped.
func (s *Service) UpdateSubtitleStyle(base string, payload types.StylePatch) (*types.ProjectMetadata, error) {
	meta, err := s.Store.Load(base)
	if err != nil {
		return nil, err
	}

	style := &meta.SubtitleStyle
	if payload.FontSize != nil {
		style.FontSize = *payload.FontSize
	}
	if payload.YOffset != nil {
		style.YOffset = *payload.YOffset
	}
	if payload.StrokeWidth != nil {
		style.StrokeWidth = *payload.StrokeWidth
	}
	if payload.FontPath != nil {
		style.FontPath = *payload.FontPath
	}
	if payload.Animation != nil {
		style.Animation = *payload.Animation
	}
	if payload.Template != nil {
		style.Template = *payload.Template
	}
	if payload.BannerPrimaryText != nil {
		style.BannerPrimaryText = *payload.BannerPrimaryText
	}
	if payload.BannerSecondaryText != nil {
		style.BannerSecondaryText = *payload.BannerSecondaryText
	}
	if payload.BannerPrimaryFontSize != nil {
		style.BannerPrimaryFontSize = *payload.BannerPrimaryFontSize
	}
	if payload.BannerSecondaryFontSize != nil {
		style.BannerSecondaryFontSize = *payload.BannerSecondaryFontSize
	}
	if payload.BannerLineSpacing != nil {
		style.BannerLineSpacing = *payload.BannerLineSpacing
	}
	style.Clamp()

	return s.saveTouched(meta)
}

// Delete removes the project's files and metadata.
func (s *Service) Delete(base string) error {
	return s.Store.Delete(base)
}

// Render composes the project's timeline, narration and music into a fresh
// mp4 named <base>-render-<timestamp>.mp4, then records the new video path,
// duration and selected music track on the metadata.
func (s *Service) Render(base string, burnSubs bool) (*types.ProjectMetadata, error) {
	meta, err := s.Store.Load(base)
	if err != nil {
		return nil, err
	}

	voicePath := meta.AudioSettings.VoicePath
	if voicePath == "" {
		voicePath = meta.AudioPath
	}
	if voicePath == "" {
		return nil, types.InvalidStateError("Voice audio path is not defined in metadata")
	}

	duration := media.RenderDuration(meta)
	fps := media.RenderFPS(meta)

	plans := media.PlanBaseTrack(meta.Timeline, duration, s.Library.Resolve)
	overlays := media.PlanOverlays(meta.Timeline, s.Library.Resolve)

	musicPath := ""
	if meta.AudioSettings.MusicEnabled {
		if meta.AudioSettings.MusicTrack != "" {
			if resolved, ok := s.Library.Resolve(meta.AudioSettings.MusicTrack); ok {
				musicPath = resolved
			}
		}
		if musicPath == "" {
			musicPath = s.Library.PickMusicTrack()
		}
	}

	outputDir := s.Store.Dir()
	if meta.VideoPath != "" {
		outputDir = filepath.Dir(meta.VideoPath)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	timestamp := time.Now().UTC().Format("20060102-150405")
	videoPath := filepath.Join(outputDir, fmt.Sprintf("%s-render-%s.mp4", meta.BaseName, timestamp))

	log.Printf("Rendering %s to %s (%.2fs at %d fps)", meta.BaseName, videoPath, duration, fps)
	err = s.Renderer.Render(media.RenderRequest{
		OutputPath: videoPath,
		Duration:   duration,
		FPS:        fps,
		Plans:      plans,
		Overlays:   overlays,
		VoicePath:  voicePath,
		MusicPath:  musicPath,
		Audio:      meta.AudioSettings,
		BurnSubs:   burnSubs,
		Captions:   meta.Captions,
		Style:      meta.SubtitleStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("render project %s: %w", base, err)
	}

	meta.VideoPath = videoPath
	meta.Duration = duration
	if musicPath != "" {
		meta.AudioSettings.MusicTrack = musicPath
	}

	return s.saveTouched(meta)
}

// RestoreVersion reloads a backed-up blob as the current project. Saving
// backs up whatever it replaces.
func (s *Service) RestoreVersion(base string, version int) (*types.ProjectMetadata, error) {
	meta, err := s.Store.LoadVersion(base, version)
	if err != nil {
		return nil, err
	}
	return s.saveTouched(meta)
}

// ListVersions returns the project's backup history, oldest first.
func (s *Service) ListVersions(base string) ([]types.ProjectVersionInfo, error) {
	return s.Store.ListVersions(base)
}

func (s *Service) saveTouched(meta *types.ProjectMetadata) (*types.ProjectMetadata, error) {
	meta.Touch()
	if err := s.Store.Save(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func sortCaptions(captions []types.CaptionLine) {
	sort.SliceStable(captions, func(i, j int) bool {
		return captions[i].Start < captions[j].Start
	})
}
