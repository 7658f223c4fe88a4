package translator

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"shortsmaker/config"
	"shortsmaker/media"
	"shortsmaker/subtitles"
	"shortsmaker/types"
)

// LLM is the model surface the translator workflow needs.
type LLM interface {
	TranslateText(ctx context.Context, text, targetLang, mode, tone, hint string) (string, error)
	SynthesizeVoice(ctx context.Context, text, voice, outputPath string) error
}

// Renderer executes a planned composition pass.
type Renderer interface {
	Render(req media.RenderRequest) error
}

// Service drives translator projects through translate, voice and render.
// Wrong-state requests are rejected with an invalid-state error; data
// problems mark the project failed and record the reason in extra["error"].
type Service struct {
	Store    *Store
	LLM      LLM
	Renderer Renderer
	Probe    func(path string) (float64, error)
}

// NewService wires a service over store with the stock composer and prober.
func NewService(store *Store, llm LLM) *Service {
	return &Service{
		Store:    store,
		LLM:      llm,
		Renderer: media.Composer{},
		Probe:    media.ProbeDuration,
	}
}

// PopulateFromSubtitles fills each segment's source text with the captions
// falling fully inside its window, joined by spaces. A missing sidecar file
// marks the project failed; a project without a sidecar path is left alone.
func (s *Service) PopulateFromSubtitles(project *types.TranslatorProject) error {
	if project.SourceSubtitle == "" {
		log.Printf("Translator project %s has no source subtitle file", project.ID)
		return nil
	}

	if _, err := os.Stat(project.SourceSubtitle); err != nil {
		_, err := s.fail(project, fmt.Sprintf("Subtitle file not found: %s", filepath.Base(project.SourceSubtitle)))
		return err
	}

	captions, err := subtitles.ParseSubtitleFile(project.SourceSubtitle)
	if err != nil || len(captions) == 0 {
		log.Printf("No captions found in %s", project.SourceSubtitle)
		return nil
	}

	for i := range project.Segments {
		seg := &project.Segments[i]
		var texts []string
		for _, cap := range captions {
			if cap.Start >= seg.Start && cap.End <= seg.End {
				texts = append(texts, cap.Text)
			}
		}
		seg.SourceText = strings.TrimSpace(strings.Join(texts, " "))
	}
	log.Printf("Populated %d segments with source text for project %s", len(project.Segments), project.ID)
	return nil
}

// Translate populates segment source text from the sidecar and translates
// every populated segment, leaving the project voice_ready.
func (s *Service) Translate(ctx context.Context, id string) (*types.TranslatorProject, error) {
	project, err := s.Store.Load(id)
	if err != nil {
		return nil, err
	}
	if project.Status != types.TranslatorSegmenting && project.Status != types.TranslatorDraft {
		return nil, types.InvalidStateError(fmt.Sprintf(
			"project %s is not in a state to be translated (status: %s)", id, project.Status))
	}

	if err := s.PopulateFromSubtitles(project); err != nil {
		return nil, err
	}
	if project.Status == types.TranslatorFailed {
		return project, nil
	}

	hasSource := false
	for _, seg := range project.Segments {
		if seg.SourceText != "" {
			hasSource = true
			break
		}
	}
	if !hasSource {
		return s.fail(project, "Could not find any source text in subtitles to translate.")
	}

	project.Status = types.TranslatorTranslating
	if err := s.Store.Save(project); err != nil {
		return nil, err
	}

	for i := range project.Segments {
		seg := &project.Segments[i]
		if seg.SourceText == "" {
			continue
		}
		translated, err := s.LLM.TranslateText(ctx, seg.SourceText, project.TargetLang,
			project.TranslationMode, project.ToneHint, project.PromptHint)
		if err != nil {
			log.Printf("Failed to translate project %s: %v", id, err)
			return s.fail(project, err.Error())
		}
		seg.TranslatedText = translated
	}

	project.Status = types.TranslatorVoiceReady
	if err := s.Store.Save(project); err != nil {
		return nil, err
	}
	return project, nil
}

// SynthesizeVoice narrates the joined translated script into
// <base>_voice.mp3 next to the project file.
func (s *Service) SynthesizeVoice(ctx context.Context, id string) (*types.TranslatorProject, error) {
	project, err := s.Store.Load(id)
	if err != nil {
		return nil, err
	}
	if project.Status != types.TranslatorVoiceReady {
		return nil, types.InvalidStateError(fmt.Sprintf(
			"project %s is not ready for voice synthesis (status: %s)", id, project.Status))
	}

	var lines []string
	for _, seg := range project.Segments {
		if seg.TranslatedText != "" {
			lines = append(lines, seg.TranslatedText)
		}
	}
	script := strings.Join(lines, "\n")
	if script == "" {
		return s.fail(project, "No translated text available to synthesize.")
	}

	project.Status = types.TranslatorRendering
	if err := s.Store.Save(project); err != nil {
		return nil, err
	}

	voice := project.Voice
	if voice == "" {
		voice = config.DefaultVoice
	}
	audioPath := filepath.Join(s.Store.Dir(), project.BaseName+"_voice.mp3")

	if err := s.LLM.SynthesizeVoice(ctx, script, voice, audioPath); err != nil {
		log.Printf("Failed to synthesize voice for project %s: %v", id, err)
		return s.fail(project, err.Error())
	}

	project.Extra["voice_path"] = audioPath
	project.Status = types.TranslatorVoiceComplete
	if err := s.Store.Save(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Render burns the translated captions onto the source video with the new
// narration and no music, writing <base>_translated.mp4.
func (s *Service) Render(id string) (*types.TranslatorProject, error) {
	project, err := s.Store.Load(id)
	if err != nil {
		return nil, err
	}
	if project.Status != types.TranslatorVoiceComplete {
		return nil, types.InvalidStateError(fmt.Sprintf(
			"project %s is not ready for rendering (status: %s)", id, project.Status))
	}

	voicePath, _ := project.Extra["voice_path"].(string)
	if voicePath == "" {
		return s.fail(project, "Synthesized voice file not found.")
	}
	if _, err := os.Stat(voicePath); err != nil {
		return s.fail(project, "Synthesized voice file not found.")
	}

	videoDuration, err := s.Probe(project.SourceVideo)
	if err != nil {
		return s.fail(project, fmt.Sprintf("probe source video: %v", err))
	}
	voiceDuration, err := s.Probe(voicePath)
	if err != nil {
		return s.fail(project, fmt.Sprintf("probe narration: %v", err))
	}
	duration := math.Max(videoDuration, voiceDuration)

	var captions []types.CaptionLine
	for _, seg := range project.Segments {
		if seg.TranslatedText == "" {
			continue
		}
		captions = append(captions, types.CaptionLine{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.TranslatedText,
		})
	}

	fps := config.DefaultFPS
	if project.FPS != nil && *project.FPS > 0 {
		fps = *project.FPS
	}

	outputPath := filepath.Join(s.Store.Dir(), project.BaseName+"_translated.mp4")
	err = s.Renderer.Render(media.RenderRequest{
		OutputPath: outputPath,
		Duration:   duration,
		FPS:        fps,
		Plans:      []media.ClipPlan{{Path: project.SourceVideo, Duration: duration}},
		VoicePath:  voicePath,
		Audio:      types.AudioSettings{MusicEnabled: false},
		BurnSubs:   true,
		Captions:   captions,
		Style:      types.DefaultSubtitleStyle(),
	})
	if err != nil {
		log.Printf("Failed to render project %s: %v", id, err)
		return s.fail(project, err.Error())
	}

	project.Extra["rendered_video_path"] = outputPath
	project.Status = types.TranslatorRendered
	if err := s.Store.Save(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Service) fail(project *types.TranslatorProject, msg string) (*types.TranslatorProject, error) {
	log.Printf("Translator project %s failed: %s", project.ID, msg)
	project.Status = types.TranslatorFailed
	if project.Extra == nil {
		project.Extra = map[string]any{}
	}
	project.Extra["error"] = msg
	if err := s.Store.Save(project); err != nil {
		return nil, err
	}
	return project, nil
}
