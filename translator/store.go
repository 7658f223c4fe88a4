package translator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"shortsmaker/config"
	"shortsmaker/repository"
	"shortsmaker/types"
)

// Store persists translator projects as <id>.json files under one directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory projects and their media land in.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// BuildSegments slices [0, duration) into windows of at most maxLength
// seconds, rounded to milliseconds. An unknown duration yields a single
// window of maxLength.
func BuildSegments(duration *float64, maxLength float64) []types.TranslatorSegment {
	if duration == nil || *duration <= 0 {
		return []types.TranslatorSegment{{
			ID:        uuid.NewString(),
			ClipIndex: 0,
			Start:     0,
			End:       maxLength,
		}}
	}

	var segments []types.TranslatorSegment
	start := 0.0
	for idx := 0; start < *duration; idx++ {
		end := math.Min(*duration, start+maxLength)
		segments = append(segments, types.TranslatorSegment{
			ID:        uuid.NewString(),
			ClipIndex: idx,
			Start:     round3(start),
			End:       round3(end),
		})
		start = end
	}
	if len(segments) == 0 {
		segments = []types.TranslatorSegment{{
			ID:        uuid.NewString(),
			ClipIndex: 0,
			Start:     0,
			End:       *duration,
		}}
	}
	return segments
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Create builds a new project from payload and saves it. The base name is
// the source video's stem; the initial status is segmenting.
func (s *Store) Create(payload types.TranslatorProjectCreate) (*types.TranslatorProject, error) {
	if payload.SourceVideo == "" {
		return nil, types.InvalidStateError("source_video is required")
	}
	switch payload.TargetLang {
	case "ko", "en", "ja":
	default:
		return nil, types.InvalidStateError(fmt.Sprintf("unsupported target language: %q", payload.TargetLang))
	}

	origin := payload.SourceOrigin
	if origin == "" {
		origin = types.SourceOriginYouTube
	}
	mode := payload.TranslationMode
	if mode == "" {
		mode = types.TranslationAdaptive
	}
	maxDuration := config.SegmentMaxDuration
	if payload.SegmentMaxDuration != nil && *payload.SegmentMaxDuration > 0 {
		maxDuration = *payload.SegmentMaxDuration
	}

	id := uuid.NewString()
	base := strings.TrimSuffix(filepath.Base(payload.SourceVideo), filepath.Ext(payload.SourceVideo))
	now := time.Now().UTC()

	project := &types.TranslatorProject{
		ID:                 id,
		BaseName:           base,
		SourceVideo:        payload.SourceVideo,
		SourceSubtitle:     payload.SourceSubtitle,
		SourceOrigin:       origin,
		TargetLang:         payload.TargetLang,
		TranslationMode:    mode,
		ToneHint:           payload.ToneHint,
		PromptHint:         payload.PromptHint,
		FPS:                payload.FPS,
		Voice:              payload.Voice,
		MusicTrack:         payload.MusicTrack,
		Duration:           payload.Duration,
		SegmentMaxDuration: maxDuration,
		Status:             types.TranslatorSegmenting,
		Segments:           BuildSegments(payload.Duration, maxDuration),
		MetadataPath:       s.path(id),
		CreatedAt:          now,
		UpdatedAt:          now,
		Extra:              map[string]any{},
	}
	if err := s.Save(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Save stamps updated_at and writes the project as indented JSON.
func (s *Store) Save(project *types.TranslatorProject) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	project.UpdatedAt = time.Now().UTC()
	if project.MetadataPath == "" {
		project.MetadataPath = s.path(project.ID)
	}

	blob, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("encode translator project: %w", err)
	}
	return os.WriteFile(project.MetadataPath, blob, 0644)
}

// Load reads one project by id.
func (s *Store) Load(id string) (*types.TranslatorProject, error) {
	raw, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("translator project %s: %w", id, repository.ErrNotFound)
		}
		return nil, err
	}

	var project types.TranslatorProject
	if err := json.Unmarshal(raw, &project); err != nil {
		return nil, fmt.Errorf("parse translator project %s: %w", id, err)
	}
	if project.Segments == nil {
		project.Segments = []types.TranslatorSegment{}
	}
	if project.Extra == nil {
		project.Extra = map[string]any{}
	}
	return &project, nil
}

// List returns every loadable project, sorted by file name. Broken files
// are logged and skipped.
func (s *Store) List() ([]*types.TranslatorProject, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	projects := make([]*types.TranslatorProject, 0, len(names))
	for _, name := range names {
		project, err := s.Load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			log.Printf("Warning: failed to load translator project %s: %v", name, err)
			continue
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// Delete removes a project file. Missing files are fine; other failures are
// logged and swallowed.
func (s *Store) Delete(id string) {
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to delete translator project %s: %v", id, err)
	}
}

// Update patches editable fields; absent fields keep their current values.
// Replacement segments are re-sorted by clip index.
func (s *Store) Update(id string, payload types.TranslatorProjectUpdate) (*types.TranslatorProject, error) {
	project, err := s.Load(id)
	if err != nil {
		return nil, err
	}

	if payload.Status != nil {
		project.Status = *payload.Status
	}
	if payload.Segments != nil {
		segments := append([]types.TranslatorSegment(nil), payload.Segments...)
		sort.SliceStable(segments, func(i, j int) bool {
			return segments[i].ClipIndex < segments[j].ClipIndex
		})
		project.Segments = segments
	}
	if payload.ToneHint != nil {
		project.ToneHint = *payload.ToneHint
	}
	if payload.PromptHint != nil {
		project.PromptHint = *payload.PromptHint
	}
	if payload.Voice != nil {
		project.Voice = *payload.Voice
	}
	if payload.MusicTrack != nil {
		project.MusicTrack = *payload.MusicTrack
	}

	if err := s.Save(project); err != nil {
		return nil, err
	}
	return project, nil
}
