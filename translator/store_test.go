package translator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shortsmaker/config"
	"shortsmaker/repository"
	"shortsmaker/types"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildSegments(t *testing.T) {
	tests := []struct {
		name     string
		duration *float64
		maxLen   float64
		want     [][2]float64
	}{
		{"unknown duration", nil, 45, [][2]float64{{0, 45}}},
		{"zero duration", floatPtr(0), 45, [][2]float64{{0, 45}}},
		{"shorter than window", floatPtr(30), 45, [][2]float64{{0, 30}}},
		{"exact multiple", floatPtr(90), 45, [][2]float64{{0, 45}, {45, 90}}},
		{"split with remainder", floatPtr(100), 45, [][2]float64{{0, 45}, {45, 90}, {90, 100}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := BuildSegments(tt.duration, tt.maxLen)
			if len(segments) != len(tt.want) {
				t.Fatalf("got %d segments, want %d", len(segments), len(tt.want))
			}
			for i, seg := range segments {
				if seg.ID == "" {
					t.Errorf("segment %d has no id", i)
				}
				if seg.ClipIndex != i {
					t.Errorf("segment %d clip index = %d, want %d", i, seg.ClipIndex, i)
				}
				if seg.Start != tt.want[i][0] || seg.End != tt.want[i][1] {
					t.Errorf("segment %d window = [%v, %v], want [%v, %v]",
						i, seg.Start, seg.End, tt.want[i][0], tt.want[i][1])
				}
			}
		})
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	store := NewStore(t.TempDir())

	project, err := store.Create(types.TranslatorProjectCreate{
		SourceVideo: "uploads/quantum talk [abc123].mp4",
		TargetLang:  "ko",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if project.BaseName != "quantum talk [abc123]" {
		t.Errorf("base name = %q", project.BaseName)
	}
	if project.Status != types.TranslatorSegmenting {
		t.Errorf("status = %s, want %s", project.Status, types.TranslatorSegmenting)
	}
	if project.SourceOrigin != types.SourceOriginYouTube {
		t.Errorf("source origin = %q", project.SourceOrigin)
	}
	if project.TranslationMode != types.TranslationAdaptive {
		t.Errorf("translation mode = %q", project.TranslationMode)
	}
	if len(project.Segments) != 1 || project.Segments[0].End != config.SegmentMaxDuration {
		t.Errorf("segments = %+v, want one window of %v seconds", project.Segments, config.SegmentMaxDuration)
	}

	loaded, err := store.Load(project.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BaseName != project.BaseName || loaded.Status != project.Status {
		t.Errorf("loaded %+v does not match created project", loaded)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	store := NewStore(t.TempDir())
	var stateErr types.InvalidStateError

	if _, err := store.Create(types.TranslatorProjectCreate{TargetLang: "ko"}); !errors.As(err, &stateErr) {
		t.Fatalf("missing source video: err = %v, want invalid state", err)
	}
	if _, err := store.Create(types.TranslatorProjectCreate{SourceVideo: "clip.mp4", TargetLang: "fr"}); !errors.As(err, &stateErr) {
		t.Fatalf("unsupported language: err = %v, want invalid state", err)
	}
}

func TestLoadMissingProject(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load("nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, repository.ErrNotFound)
	}
}

func TestUpdatePatchesAndSortsSegments(t *testing.T) {
	store := NewStore(t.TempDir())
	project, err := store.Create(types.TranslatorProjectCreate{
		SourceVideo: "clip.mp4",
		TargetLang:  "en",
		Duration:    floatPtr(90),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := types.TranslatorVoiceReady
	tone := "calm"
	updated, err := store.Update(project.ID, types.TranslatorProjectUpdate{
		Status:   &status,
		ToneHint: &tone,
		Segments: []types.TranslatorSegment{
			{ID: "b", ClipIndex: 1, Start: 45, End: 90, TranslatedText: "second"},
			{ID: "a", ClipIndex: 0, Start: 0, End: 45, TranslatedText: "first"},
		},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != types.TranslatorVoiceReady {
		t.Errorf("status = %s", updated.Status)
	}
	if updated.ToneHint != "calm" {
		t.Errorf("tone hint = %q", updated.ToneHint)
	}
	if updated.Segments[0].ID != "a" || updated.Segments[1].ID != "b" {
		t.Errorf("segments not ordered by clip index: %+v", updated.Segments)
	}
	if updated.TargetLang != "en" {
		t.Errorf("target lang changed to %q", updated.TargetLang)
	}
}

func TestListSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	for _, video := range []string{"one.mp4", "two.mp4"} {
		if _, err := store.Create(types.TranslatorProjectCreate{SourceVideo: video, TargetLang: "ko"}); err != nil {
			t.Fatalf("Create %s: %v", video, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write broken file: %v", err)
	}

	projects, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}
}

func TestDeleteProject(t *testing.T) {
	store := NewStore(t.TempDir())
	project, err := store.Create(types.TranslatorProjectCreate{SourceVideo: "clip.mp4", TargetLang: "ja"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	store.Delete(project.ID)
	if _, err := store.Load(project.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("project still loadable after delete: %v", err)
	}
	store.Delete(project.ID)
}
