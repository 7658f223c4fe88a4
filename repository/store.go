package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"shortsmaker/subtitles"
	"shortsmaker/types"
)

const (
	// MetadataSuffix is the canonical metadata file suffix.
	MetadataSuffix = ".metadata.json"

	legacySuffix   = ".json"
	versionsSuffix = "_versions"
)

// ErrNotFound marks a missing project or project version.
var ErrNotFound = errors.New("not found")

// Store persists project metadata as versioned JSON files under one output
// directory. Every overwrite backs up the previous blob to
// <base>_versions/v<N>.metadata.json first.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the output directory the store is rooted at.
func (s *Store) Dir() string { return s.dir }

// MetadataPath returns the canonical metadata file for a project.
func (s *Store) MetadataPath(base string) string {
	return filepath.Join(s.dir, base+MetadataSuffix)
}

func (s *Store) legacyPath(base string) string {
	return filepath.Join(s.dir, base+legacySuffix)
}

func (s *Store) versionsDir(base string) string {
	return filepath.Join(s.dir, base+versionsSuffix)
}

// List returns summaries for every project the output directory knows about.
// Candidate stems come from metadata files, legacy JSON files and mp4 outputs;
// stems without loadable metadata are skipped.
func (s *Store) List() ([]types.ProjectSummary, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	stems := make(map[string]struct{})
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, MetadataSuffix):
			stems[strings.TrimSuffix(name, MetadataSuffix)] = struct{}{}
		case strings.HasSuffix(name, legacySuffix):
			stems[strings.TrimSuffix(name, legacySuffix)] = struct{}{}
		case strings.HasSuffix(name, ".mp4"):
			stems[strings.TrimSuffix(name, ".mp4")] = struct{}{}
		}
	}

	bases := make([]string, 0, len(stems))
	for b := range stems {
		bases = append(bases, b)
	}
	sort.Strings(bases)

	summaries := make([]types.ProjectSummary, 0, len(bases))
	for _, base := range bases {
		meta, err := s.Load(base)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		summaries = append(summaries, types.ProjectSummary{
			BaseName:      meta.BaseName,
			Topic:         meta.Topic,
			Style:         meta.Style,
			Language:      meta.Language,
			Duration:      meta.Duration,
			VideoPath:     meta.VideoPath,
			AudioPath:     meta.AudioPath,
			SubtitlesPath: meta.SubtitlesPath,
			UpdatedAt:     meta.UpdatedAt,
			Version:       meta.Version,
		})
	}
	return summaries, nil
}

// Load reads project metadata, falling back to the legacy <base>.json file
// (optionally wrapped in a {"metadata": {...}} envelope) and filling the
// defaults older blobs are missing.
func (s *Store) Load(base string) (*types.ProjectMetadata, error) {
	raw, err := os.ReadFile(s.MetadataPath(base))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		raw, err = os.ReadFile(s.legacyPath(base))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("metadata for %s: %w", base, ErrNotFound)
			}
			return nil, err
		}
		raw = unwrapLegacyEnvelope(raw)
	}
	return decodeMetadata(raw, base)
}

func unwrapLegacyEnvelope(raw []byte) []byte {
	var envelope struct {
		Metadata json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if inner := bytes.TrimSpace(envelope.Metadata); len(inner) > 0 && inner[0] == '{' {
			return inner
		}
	}
	return raw
}

func decodeMetadata(raw []byte, base string) (*types.ProjectMetadata, error) {
	var meta types.ProjectMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", base, err)
	}

	// Field presence decides defaulting, not zero values.
	var probe struct {
		AudioSettings *json.RawMessage `json:"audio_settings"`
		SubtitleStyle *json.RawMessage `json:"subtitle_style"`
		Version       *int             `json:"version"`
		Duration      *float64         `json:"duration"`
	}
	_ = json.Unmarshal(raw, &probe)

	if meta.BaseName == "" {
		meta.BaseName = base
	}
	if meta.Captions == nil {
		meta.Captions = []types.CaptionLine{}
	}
	if meta.Timeline == nil {
		meta.Timeline = []types.TimelineSegment{}
	}
	if meta.Extra == nil {
		meta.Extra = map[string]any{}
	}
	if probe.AudioSettings == nil {
		meta.AudioSettings = types.DefaultAudioSettings()
		meta.AudioSettings.VoicePath = meta.AudioPath
	}
	if probe.SubtitleStyle == nil {
		meta.SubtitleStyle = types.DefaultSubtitleStyle()
	} else {
		if meta.SubtitleStyle.FontSize == 0 {
			meta.SubtitleStyle.FontSize = types.DefaultSubtitleStyle().FontSize
		}
		meta.SubtitleStyle.Clamp()
	}
	if probe.Version == nil || meta.Version < 1 {
		meta.Version = 1
	}
	if probe.Duration == nil {
		meta.Duration = meta.MaxCaptionEnd()
	}

	return &meta, nil
}

// Save stamps updated_at, backs up the previous blob once per version, writes
// indented JSON, and regenerates the SRT sidecar from the captions.
func (s *Store) Save(meta *types.ProjectMetadata) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now().UTC()

	path := s.MetadataPath(meta.BaseName)
	if old, err := os.ReadFile(path); err == nil {
		if err := s.backupPrevious(meta, old); err != nil {
			return fmt.Errorf("backup previous version: %w", err)
		}
	}

	blob, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, blob, 0644); err != nil {
		return err
	}

	if meta.SubtitlesPath != "" {
		if err := subtitles.WriteSRT(meta.SubtitlesPath, meta.Captions); err != nil {
			return fmt.Errorf("rewrite subtitles: %w", err)
		}
	}
	return nil
}

func (s *Store) backupPrevious(meta *types.ProjectMetadata, old []byte) error {
	var prev struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(old, &prev); err != nil {
		// An unreadable previous blob is not worth keeping.
		return nil
	}

	prevVersion := prev.Version
	if prevVersion <= 0 {
		prevVersion = meta.Version - 1
		if prevVersion < 1 {
			prevVersion = 1
		}
	}

	dir := s.versionsDir(meta.BaseName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	backupPath := filepath.Join(dir, fmt.Sprintf("v%d%s", prevVersion, MetadataSuffix))
	if _, err := os.Stat(backupPath); err == nil {
		return nil
	}
	return os.WriteFile(backupPath, old, 0644)
}

// Delete removes the project's media files and metadata. Missing files are
// ignored; other removal failures are logged and skipped.
func (s *Store) Delete(base string) error {
	meta, err := s.Load(base)
	if err != nil {
		return err
	}

	for _, p := range []string{meta.VideoPath, meta.AudioPath, meta.SubtitlesPath, meta.ScriptPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: failed to remove %s: %v", p, err)
		}
	}

	if err := os.Remove(s.MetadataPath(base)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to remove metadata file for %s: %v", base, err)
	}
	return nil
}

// ListVersions returns the backed-up blobs for a project, oldest first.
func (s *Store) ListVersions(base string) ([]types.ProjectVersionInfo, error) {
	dir := s.versionsDir(base)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []types.ProjectVersionInfo{}, nil
		}
		return nil, err
	}

	versions := make([]types.ProjectVersionInfo, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "v") || !strings.HasSuffix(name, MetadataSuffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "v"), MetadataSuffix))
		if err != nil {
			continue
		}

		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var blob struct {
			UpdatedAt *time.Time `json:"updated_at"`
		}
		if err := json.Unmarshal(raw, &blob); err != nil {
			continue
		}
		versions = append(versions, types.ProjectVersionInfo{
			Version:   n,
			Path:      path,
			UpdatedAt: blob.UpdatedAt,
		})
	}

	sort.Slice(versions, func(i, j int) bool { return versions[i].Version < versions[j].Version })
	return versions, nil
}

// LoadVersion reads one backed-up blob.
func (s *Store) LoadVersion(base string, version int) (*types.ProjectMetadata, error) {
	path := filepath.Join(s.versionsDir(base), fmt.Sprintf("v%d%s", version, MetadataSuffix))
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("version %d for %s: %w", version, base, ErrNotFound)
		}
		return nil, err
	}
	return decodeMetadata(raw, base)
}
