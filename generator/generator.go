package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"shortsmaker/archive"
	"shortsmaker/config"
	"shortsmaker/media"
	"shortsmaker/subtitles"
	"shortsmaker/types"
	"shortsmaker/youtube"
)

// LLM is the model surface the pipeline needs: script text in, narration
// audio out.
type LLM interface {
	GenerateScript(ctx context.Context, prompt string, temperature float64) (string, error)
	SynthesizeVoice(ctx context.Context, text, voice, outputPath string) error
}

// Renderer executes a planned composition pass.
type Renderer interface {
	Render(req media.RenderRequest) error
}

// Prober reports a media file's duration in seconds.
type Prober func(path string) (float64, error)

// Generator drives the script, narration, caption and render pipeline.
// Archiver and Uploader are optional; when set, finished runs are mirrored
// to S3 and published to YouTube.
type Generator struct {
	LLM      LLM
	Renderer Renderer
	Probe    Prober
	Archiver *archive.Archiver
	Uploader *youtube.Uploader
}

// New wires a generator around llm with the stock ffmpeg composer and prober.
func New(llm LLM) *Generator {
	return &Generator{
		LLM:      llm,
		Renderer: media.Composer{},
		Probe:    media.ProbeDuration,
	}
}

// Result is the metadata blob a finished run reports. When SaveJSON is set
// the same blob lands in <base>.json next to the media files.
type Result struct {
	Topic          string              `json:"topic"`
	Style          string              `json:"style"`
	Language       string              `json:"language"`
	DurationTarget int                 `json:"duration_target"`
	Sentences      []string            `json:"sentences"`
	Script         string              `json:"script"`
	ScriptPath     string              `json:"script_path"`
	BaseName       string              `json:"base_name"`
	AudioPath      string              `json:"audio_path,omitempty"`
	VideoPath      string              `json:"video_path,omitempty"`
	SubtitlesPath  string              `json:"subtitles_path,omitempty"`
	Captions       []types.CaptionLine `json:"captions,omitempty"`
	MetadataPath   string              `json:"metadata_path,omitempty"`
}

// Generate runs the full pipeline for opts. DryRun stops after the script is
// written.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	opts.ApplyDefaults()
	if opts.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if err := ensureDirectories(opts); err != nil {
		return nil, err
	}

	prompt := BuildScriptPrompt(opts.Topic, opts.Style, opts.Lang, opts.Duration)
	log.Println("Generating script...")
	script, err := g.LLM.GenerateScript(ctx, prompt, scriptTemperature)
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}
	sentences := subtitles.SplitSentences(script)

	name := BuildOutputName(opts.Topic, opts.Style, opts.Lang, opts.OutputName)

	scriptPath := filepath.Join(opts.OutputDir, name+".txt")
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		return nil, fmt.Errorf("save script: %w", err)
	}
	log.Printf("Saved script to %s", scriptPath)

	result := &Result{
		Topic:          opts.Topic,
		Style:          opts.Style,
		Language:       opts.Lang,
		DurationTarget: opts.Duration,
		Sentences:      sentences,
		Script:         script,
		ScriptPath:     scriptPath,
		BaseName:       name,
	}

	if opts.DryRun {
		if opts.SaveJSON {
			if err := writeResultJSON(result, opts.OutputDir); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	audioPath := filepath.Join(opts.OutputDir, name+".mp3")
	log.Printf("Generating narration audio (%s)...", opts.Voice)
	if err := g.LLM.SynthesizeVoice(ctx, script, opts.Voice, audioPath); err != nil {
		return nil, fmt.Errorf("synthesize narration: %w", err)
	}

	voiceDuration, err := g.Probe(audioPath)
	if err != nil {
		return nil, fmt.Errorf("probe narration duration: %w", err)
	}

	captions := subtitles.AllocateTimings(sentences, voiceDuration)
	srtPath := filepath.Join(opts.OutputDir, name+".srt")
	if err := subtitles.WriteSRT(srtPath, captions); err != nil {
		return nil, fmt.Errorf("save subtitles: %w", err)
	}
	log.Printf("Saved subtitles to %s", srtPath)

	library := media.NewLibrary(opts.OutputDir, opts.AssetsDir)
	log.Printf("Building background visuals (duration %.2fs)...", voiceDuration)
	plans := g.planBroll(library, voiceDuration)

	var musicPath string
	if opts.Music {
		musicPath = library.PickMusicTrack()
	}

	videoPath := filepath.Join(opts.OutputDir, name+".mp4")
	log.Printf("Rendering final video to %s", videoPath)
	err = g.Renderer.Render(media.RenderRequest{
		OutputPath: videoPath,
		Duration:   voiceDuration,
		FPS:        opts.FPS,
		Plans:      plans,
		VoicePath:  audioPath,
		MusicPath:  musicPath,
		Audio: types.AudioSettings{
			MusicEnabled: opts.Music,
			MusicVolume:  opts.MusicVolume,
			Ducking:      opts.Ducking,
			VoicePath:    audioPath,
			MusicTrack:   musicPath,
		},
		BurnSubs: opts.BurnSubs,
		Captions: captions,
		Style:    types.DefaultSubtitleStyle(),
	})
	if err != nil {
		return nil, fmt.Errorf("render video: %w", err)
	}

	result.AudioPath = audioPath
	result.VideoPath = videoPath
	result.SubtitlesPath = srtPath
	result.Captions = captions

	if opts.SaveJSON {
		if err := writeResultJSON(result, opts.OutputDir); err != nil {
			return nil, err
		}
	}

	g.archiveResult(ctx, result, voiceDuration)
	g.uploadResult(ctx, result)
	return result, nil
}

// planBroll shuffles the b-roll library, probes clip lengths and plans a
// base track covering total seconds. Stills run for a fixed window.
func (g *Generator) planBroll(library media.Library, total float64) []media.ClipPlan {
	files := library.ListBroll()
	if len(files) == 0 {
		log.Println("No b-roll assets found; using a solid color background")
	}
	rand.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })

	candidates := make([]media.BrollCandidate, 0, len(files))
	for _, path := range files {
		if media.IsImageFile(path) {
			candidates = append(candidates, media.BrollCandidate{
				Path:     path,
				Duration: media.StillDuration,
				IsImage:  true,
			})
			continue
		}
		d, err := g.Probe(path)
		if err != nil {
			log.Printf("Warning: skipping b-roll %s: %v", path, err)
			continue
		}
		candidates = append(candidates, media.BrollCandidate{Path: path, Duration: d})
	}
	return media.PlanBroll(candidates, total)
}

func (g *Generator) archiveResult(ctx context.Context, result *Result, duration float64) {
	if g.Archiver == nil {
		return
	}
	meta := &types.ProjectMetadata{
		BaseName:      result.BaseName,
		Topic:         result.Topic,
		Style:         result.Style,
		Language:      result.Language,
		Duration:      duration,
		ScriptPath:    result.ScriptPath,
		AudioPath:     result.AudioPath,
		SubtitlesPath: result.SubtitlesPath,
		VideoPath:     result.VideoPath,
		Captions:      result.Captions,
	}
	keys, err := g.Archiver.ArchiveProject(ctx, meta)
	if err != nil {
		log.Printf("Warning: archive upload failed for %s: %v", result.BaseName, err)
		return
	}
	if len(keys) > 0 {
		log.Printf("Archived %d objects for %s", len(keys), result.BaseName)
	}
}

// uploadResult publishes the render when an uploader is configured. Upload
// failures never fail the run.
func (g *Generator) uploadResult(ctx context.Context, result *Result) {
	if g.Uploader == nil || result.VideoPath == "" {
		return
	}
	meta := youtube.BuildMetadata(result.Topic, result.Captions)
	videoID, err := g.Uploader.Upload(ctx, result.VideoPath, meta)
	if err != nil {
		log.Printf("Warning: YouTube upload failed for %s: %v", result.BaseName, err)
		return
	}
	log.Printf("Published %s as https://youtube.com/shorts/%s", result.BaseName, videoID)
}

func writeResultJSON(result *Result, outputDir string) error {
	blob, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	path := filepath.Join(outputDir, result.BaseName+".json")
	if err := os.WriteFile(path, blob, 0644); err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	log.Printf("Saved metadata to %s", path)
	result.MetadataPath = path
	return nil
}

func ensureDirectories(opts Options) error {
	for _, dir := range []string{
		filepath.Join(opts.AssetsDir, config.BrollDir),
		filepath.Join(opts.AssetsDir, config.MusicDir),
		opts.OutputDir,
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// BatchResult pairs one batch entry with its outcome.
type BatchResult struct {
	Options Options
	Result  *Result
	Err     error
}

// GenerateBatch runs one generation per entry with a bounded number in
// flight. Failures are logged and reported per entry rather than aborting
// the batch.
func (g *Generator) GenerateBatch(ctx context.Context, batch []Options) []BatchResult {
	results := make([]BatchResult, len(batch))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.MaxConcurrentGenerations)

	for i, opts := range batch {
		wg.Add(1)

		go func(idx int, opts Options) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			res, err := g.Generate(ctx, opts)
			if err != nil {
				log.Printf("Generation failed for %q: %v", opts.Topic, err)
			}
			results[idx] = BatchResult{Options: opts, Result: res, Err: err}

			if idx < len(batch)-1 {
				time.Sleep(config.GenerationBatchDelay)
			}
		}(i, opts)
	}

	wg.Wait()
	return results
}
