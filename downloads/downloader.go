// Package downloads fetches source videos and subtitle sidecars with yt-dlp.
package downloads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"shortsmaker/config"
)

// Options mirror the yt-dlp switches the pipelines care about.
type Options struct {
	OutputDir    string
	SkipDownload bool
	DownloadSubs bool
	AutoSubs     bool
	SubLangs     []string
	SubFormat    string
}

// DefaultOptions downloads media plus every subtitle track, auto-generated
// ones included.
func DefaultOptions() Options {
	return Options{
		OutputDir:    config.DownloadDir,
		DownloadSubs: true,
		AutoSubs:     true,
		SubLangs:     []string{"all"},
		SubFormat:    "best",
	}
}

// ParseSubLangs normalizes a comma-separated subtitle language list.
func ParseSubLangs(raw string) []string {
	if strings.EqualFold(strings.TrimSpace(raw), "all") {
		return []string{"all"}
	}
	var langs []string
	for _, lang := range strings.Split(raw, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			langs = append(langs, lang)
		}
	}
	if len(langs) == 0 {
		return []string{"all"}
	}
	return langs
}

// Downloader shells out to yt-dlp and reads back its JSON report.
type Downloader struct {
	Path string
	Run  func(ctx context.Context, args ...string) ([]byte, error)
}

// NewDownloader uses the binary named by YTDLP_PATH, or yt-dlp on PATH.
func NewDownloader() *Downloader {
	d := &Downloader{Path: config.GetEnvOrDefault("YTDLP_PATH", "yt-dlp")}
	d.Run = d.exec
	return d
}

func (d *Downloader) exec(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, d.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("yt-dlp: %s", msg)
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}
	return stdout.Bytes(), nil
}

// Download fetches every URL into opts.OutputDir and returns the new files,
// media first and subtitle sidecars after, deduplicated in download order.
// With SkipDownload only metadata is fetched and predicted names come back.
func (d *Downloader) Download(ctx context.Context, urls []string, opts Options) ([]string, error) {
	var cleaned []string
	for _, url := range urls {
		if url = strings.TrimSpace(url); url != "" {
			cleaned = append(cleaned, url)
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("at least one URL must be provided")
	}

	if opts.OutputDir == "" {
		opts.OutputDir = config.DownloadDir
	}
	if err := ensureDir(opts.OutputDir); err != nil {
		return nil, err
	}
	if len(opts.SubLangs) == 0 {
		opts.SubLangs = []string{"all"}
	}
	if opts.SubFormat == "" {
		opts.SubFormat = "best"
	}

	args := []string{"-J", "--no-warnings", "-o", filepath.Join(opts.OutputDir, "%(title)s [%(id)s].%(ext)s")}
	if !opts.SkipDownload {
		args = append(args, "--no-simulate")
	}
	if opts.DownloadSubs {
		args = append(args, "--write-subs", "--sub-langs", strings.Join(opts.SubLangs, ","), "--sub-format", opts.SubFormat)
		if opts.AutoSubs {
			args = append(args, "--write-auto-subs")
		}
	}

	var files []string
	seen := map[string]bool{}
	add := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, url := range cleaned {
		argv := append(append([]string{}, args...), url)
		out, err := d.Run(ctx, argv...)
		if err != nil {
			return files, fmt.Errorf("download %s: %w", url, err)
		}
		for _, entry := range flattenEntries(gjson.ParseBytes(out)) {
			add(entryFilepath(entry, opts.OutputDir))
			if !opts.DownloadSubs {
				continue
			}
			entry.Get("requested_subtitles").ForEach(func(_, sub gjson.Result) bool {
				add(sub.Get("filepath").String())
				return true
			})
			entry.Get("automatic_captions").ForEach(func(_, group gjson.Result) bool {
				if group.IsArray() {
					group.ForEach(func(_, sub gjson.Result) bool {
						add(sub.Get("filepath").String())
						return true
					})
				} else {
					add(group.Get("filepath").String())
				}
				return true
			})
		}
	}
	return files, nil
}

// flattenEntries expands playlist reports into individual video entries.
func flattenEntries(info gjson.Result) []gjson.Result {
	if !info.Exists() || info.Type == gjson.Null {
		return nil
	}
	switch info.Get("_type").String() {
	case "playlist", "multi_video":
		var entries []gjson.Result
		info.Get("entries").ForEach(func(_, entry gjson.Result) bool {
			entries = append(entries, flattenEntries(entry)...)
			return true
		})
		return entries
	}
	return []gjson.Result{info}
}

// entryFilepath prefers the path yt-dlp actually wrote, falling back to the
// name the output template predicts.
func entryFilepath(entry gjson.Result, outputDir string) string {
	if path := entry.Get("requested_downloads.0.filepath").String(); path != "" {
		return path
	}
	title := entry.Get("title").String()
	id := entry.Get("id").String()
	if title == "" && id == "" {
		return ""
	}
	ext := entry.Get("ext").String()
	if ext == "" {
		ext = "mp4"
	}
	return filepath.Join(outputDir, fmt.Sprintf("%s [%s].%s", title, id, ext))
}
