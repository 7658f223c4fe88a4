package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"shortsmaker/types"
)

type fakeStore struct {
	puts     map[string]string // key -> content type
	caching  map[string]string // key -> cache control
	existing map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: map[string]string{}, caching: map[string]string{}, existing: map[string]bool{}}
}

func (f *fakeStore) Put(_ context.Context, _, key string, body io.Reader, contentType, cacheControl string) error {
	if _, err := io.ReadAll(body); err != nil {
		return err
	}
	f.puts[key] = contentType
	f.caching[key] = cacheControl
	return nil
}

func (f *fakeStore) Exists(_ context.Context, _, key string) (bool, error) {
	return f.existing[key], nil
}

func TestArchiveProjectUploadsMetadataAndMedia(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "demo.mp4")
	if err := os.WriteFile(video, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	store := newFakeStore()
	archiver := NewArchiver(store, "bucket", "shorts")

	meta := &types.ProjectMetadata{BaseName: "demo", VideoPath: video}
	keys, err := archiver.ArchiveProject(context.Background(), meta)
	if err != nil {
		t.Fatalf("ArchiveProject() error: %v", err)
	}

	if len(keys) != 2 {
		t.Fatalf("ArchiveProject() wrote %d keys; want 2: %v", len(keys), keys)
	}
	if ct := store.puts["shorts/demo/demo.json"]; ct != "application/json" {
		t.Fatalf("metadata content type = %q; want application/json", ct)
	}
	if cc := store.caching["shorts/demo/demo.json"]; cc != "public, max-age=300" {
		t.Fatalf("metadata cache control = %q; want public, max-age=300", cc)
	}
	if ct := store.puts["shorts/demo/demo.mp4"]; ct != "video/mp4" {
		t.Fatalf("video content type = %q; want video/mp4", ct)
	}
	if cc := store.caching["shorts/demo/demo.mp4"]; cc != "" {
		t.Fatalf("media cache control = %q; want empty", cc)
	}
}

func TestArchiveProjectSkipsExistingMedia(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "demo_audio.mp3")
	if err := os.WriteFile(audio, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	store := newFakeStore()
	store.existing["shorts/demo/demo_audio.mp3"] = true
	archiver := NewArchiver(store, "bucket", "shorts")

	meta := &types.ProjectMetadata{BaseName: "demo", AudioPath: audio}
	keys, err := archiver.ArchiveProject(context.Background(), meta)
	if err != nil {
		t.Fatalf("ArchiveProject() error: %v", err)
	}

	if len(keys) != 1 || keys[0] != "shorts/demo/demo.json" {
		t.Fatalf("ArchiveProject() keys = %v; want only the metadata blob", keys)
	}
	if _, uploaded := store.puts["shorts/demo/demo_audio.mp3"]; uploaded {
		t.Fatalf("existing media was re-uploaded")
	}
}

func TestArchiveProjectToleratesMissingLocalFiles(t *testing.T) {
	store := newFakeStore()
	archiver := NewArchiver(store, "bucket", "")

	meta := &types.ProjectMetadata{BaseName: "demo", VideoPath: "/nope/demo.mp4"}
	keys, err := archiver.ArchiveProject(context.Background(), meta)
	if err != nil {
		t.Fatalf("ArchiveProject() error: %v", err)
	}

	if len(keys) != 1 || keys[0] != "demo/demo.json" {
		t.Fatalf("ArchiveProject() keys = %v; want only the metadata blob", keys)
	}
}

func TestNilArchiverIsNoop(t *testing.T) {
	var archiver *Archiver
	keys, err := archiver.ArchiveProject(context.Background(), &types.ProjectMetadata{BaseName: "demo"})
	if err != nil || keys != nil {
		t.Fatalf("nil archiver returned (%v, %v); want (nil, nil)", keys, err)
	}
}
