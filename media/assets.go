package media

import (
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shortsmaker/config"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var musicExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
}

// IsVideoFile reports whether path has a supported video extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsImageFile reports whether path has a supported still-image extension.
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsMusicFile reports whether path has a supported audio extension.
func IsMusicFile(path string) bool {
	return musicExtensions[strings.ToLower(filepath.Ext(path))]
}

// Library resolves media sources against the project's asset layout.
type Library struct {
	OutputDir string
	AssetsDir string
}

// NewLibrary builds a Library rooted at the standard output and asset dirs.
func NewLibrary(outputDir, assetsDir string) Library {
	return Library{OutputDir: outputDir, AssetsDir: assetsDir}
}

// BrollDir returns the b-roll folder under the assets root.
func (l Library) BrollDir() string {
	return filepath.Join(l.AssetsDir, config.BrollDir)
}

// MusicDir returns the background music folder under the assets root.
func (l Library) MusicDir() string {
	return filepath.Join(l.AssetsDir, config.MusicDir)
}

// Resolve maps a segment source onto an existing file. Empty and "auto"
// sources resolve to nothing, as do names that match no search root.
func (l Library) Resolve(source string) (string, bool) {
	if source == "" || source == "auto" {
		return "", false
	}
	candidates := []string{
		source,
		filepath.Join(l.OutputDir, source),
		filepath.Join(l.AssetsDir, source),
		filepath.Join(l.BrollDir(), source),
		filepath.Join(l.MusicDir(), source),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// ListBroll returns the b-roll candidates (videos and stills) in name order.
func (l Library) ListBroll() []string {
	return listByExtension(l.BrollDir(), func(path string) bool {
		return IsVideoFile(path) || IsImageFile(path)
	})
}

// ListMusic returns the music tracks in name order.
func (l Library) ListMusic() []string {
	return listByExtension(l.MusicDir(), IsMusicFile)
}

// PickMusicTrack returns a random track, or "" when the folder is empty.
func (l Library) PickMusicTrack() string {
	tracks := l.ListMusic()
	if len(tracks) == 0 {
		log.Println("No background music found; continuing without BGM")
		return ""
	}
	return tracks[rand.Intn(len(tracks))]
}

func listByExtension(dir string, keep func(string) bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if keep(path) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files
}
