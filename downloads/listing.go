package downloads

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one downloaded video with its best subtitle sidecar, if any.
type Entry struct {
	VideoPath    string `json:"video_path"`
	SubtitlePath string `json:"subtitle_path"`
	BaseName     string `json:"base_name"`
}

var sidecarExts = []string{".srt", ".vtt", ".ass", ".json"}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	return nil
}

// List returns every mp4 under dir in name order, each paired with the
// first subtitle sidecar sharing its stem.
func List(dir string) ([]Entry, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}

	videos, err := filepath.Glob(filepath.Join(dir, "*.mp4"))
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	sort.Strings(videos)

	entries := make([]Entry, 0, len(videos))
	for _, video := range videos {
		stem := strings.TrimSuffix(video, filepath.Ext(video))
		subtitle := ""
		for _, ext := range sidecarExts {
			if _, err := os.Stat(stem + ext); err == nil {
				subtitle = stem + ext
				break
			}
		}
		entries = append(entries, Entry{
			VideoPath:    video,
			SubtitlePath: subtitle,
			BaseName:     filepath.Base(stem),
		})
	}
	return entries, nil
}
