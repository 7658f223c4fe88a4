package translator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shortsmaker/config"
	"shortsmaker/media"
	"shortsmaker/types"
)

type fakeTranslatorLLM struct {
	translateErr error
	voiceErr     error
	texts        []string
	voices       []string
	scripts      []string
}

func (f *fakeTranslatorLLM) TranslateText(_ context.Context, text, targetLang, _, _, _ string) (string, error) {
	if f.translateErr != nil {
		return "", f.translateErr
	}
	f.texts = append(f.texts, text)
	return "[" + targetLang + "] " + text, nil
}

func (f *fakeTranslatorLLM) SynthesizeVoice(_ context.Context, text, voice, outputPath string) error {
	if f.voiceErr != nil {
		return f.voiceErr
	}
	f.voices = append(f.voices, voice)
	f.scripts = append(f.scripts, text)
	return os.WriteFile(outputPath, []byte("mp3"), 0o644)
}

type fakeRenderer struct {
	err  error
	reqs []media.RenderRequest
}

func (f *fakeRenderer) Render(req media.RenderRequest) error {
	if f.err != nil {
		return f.err
	}
	f.reqs = append(f.reqs, req)
	return os.WriteFile(req.OutputPath, []byte("mp4"), 0o644)
}

func newTestService(t *testing.T) (*Service, *fakeTranslatorLLM, *fakeRenderer) {
	t.Helper()
	llm := &fakeTranslatorLLM{}
	renderer := &fakeRenderer{}
	svc := NewService(NewStore(t.TempDir()), llm)
	svc.Renderer = renderer
	svc.Probe = func(path string) (float64, error) {
		if strings.HasSuffix(path, ".mp3") {
			return 14, nil
		}
		return 12, nil
	}
	return svc, llm, renderer
}

// seedSubtitledProject writes a two-cue SRT and creates a project whose two
// segment windows each contain one cue.
func seedSubtitledProject(t *testing.T, svc *Service) *types.TranslatorProject {
	t.Helper()
	dir := t.TempDir()
	subtitlePath := filepath.Join(dir, "talk.srt")
	srt := "1\n00:00:00,000 --> 00:00:04,000\nHello there.\n\n" +
		"2\n00:00:05,500 --> 00:00:09,000\nWelcome back to the channel.\n\n"
	if err := os.WriteFile(subtitlePath, []byte(srt), 0o644); err != nil {
		t.Fatalf("write subtitles: %v", err)
	}

	project, err := svc.Store.Create(types.TranslatorProjectCreate{
		SourceVideo:        filepath.Join(dir, "talk.mp4"),
		SourceSubtitle:     subtitlePath,
		TargetLang:         "ko",
		Duration:           floatPtr(10),
		SegmentMaxDuration: floatPtr(5),
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}

func TestTranslate(t *testing.T) {
	svc, llm, _ := newTestService(t)
	project := seedSubtitledProject(t, svc)

	got, err := svc.Translate(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got.Status != types.TranslatorVoiceReady {
		t.Fatalf("status = %s, want %s", got.Status, types.TranslatorVoiceReady)
	}
	if got.Segments[0].SourceText != "Hello there." {
		t.Errorf("segment 0 source = %q", got.Segments[0].SourceText)
	}
	if got.Segments[1].SourceText != "Welcome back to the channel." {
		t.Errorf("segment 1 source = %q", got.Segments[1].SourceText)
	}
	if got.Segments[0].TranslatedText != "[ko] Hello there." {
		t.Errorf("segment 0 translation = %q", got.Segments[0].TranslatedText)
	}
	if len(llm.texts) != 2 {
		t.Errorf("translated %d segments, want 2", len(llm.texts))
	}

	loaded, err := svc.Store.Load(project.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Status != types.TranslatorVoiceReady {
		t.Errorf("persisted status = %s", loaded.Status)
	}
}

func TestTranslateWrongState(t *testing.T) {
	svc, _, _ := newTestService(t)
	project := seedSubtitledProject(t, svc)
	status := types.TranslatorRendered
	if _, err := svc.Store.Update(project.ID, types.TranslatorProjectUpdate{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	_, err := svc.Translate(context.Background(), project.ID)
	var stateErr types.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("err = %v, want invalid state", err)
	}
}

func TestTranslateMissingSubtitleMarksFailed(t *testing.T) {
	svc, _, _ := newTestService(t)
	project, err := svc.Store.Create(types.TranslatorProjectCreate{
		SourceVideo:    "talk.mp4",
		SourceSubtitle: filepath.Join(t.TempDir(), "missing.srt"),
		TargetLang:     "en",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	got, err := svc.Translate(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got.Status != types.TranslatorFailed {
		t.Fatalf("status = %s, want %s", got.Status, types.TranslatorFailed)
	}
	if msg := got.Extra["error"]; msg != "Subtitle file not found: missing.srt" {
		t.Errorf("error = %v", msg)
	}
}

func TestTranslateWithoutSourceTextMarksFailed(t *testing.T) {
	svc, _, _ := newTestService(t)
	project, err := svc.Store.Create(types.TranslatorProjectCreate{SourceVideo: "talk.mp4", TargetLang: "ja"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	got, err := svc.Translate(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got.Status != types.TranslatorFailed {
		t.Fatalf("status = %s, want %s", got.Status, types.TranslatorFailed)
	}
	if msg := got.Extra["error"]; msg != "Could not find any source text in subtitles to translate." {
		t.Errorf("error = %v", msg)
	}
}

func TestTranslateLLMFailureMarksFailed(t *testing.T) {
	svc, llm, _ := newTestService(t)
	llm.translateErr = errors.New("model unavailable")
	project := seedSubtitledProject(t, svc)

	got, err := svc.Translate(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got.Status != types.TranslatorFailed {
		t.Fatalf("status = %s, want %s", got.Status, types.TranslatorFailed)
	}
	if msg := got.Extra["error"]; msg != "model unavailable" {
		t.Errorf("error = %v", msg)
	}
}

func TestSynthesizeVoice(t *testing.T) {
	svc, llm, _ := newTestService(t)
	project := seedSubtitledProject(t, svc)
	if _, err := svc.Translate(context.Background(), project.ID); err != nil {
		t.Fatalf("Translate: %v", err)
	}

	got, err := svc.SynthesizeVoice(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("SynthesizeVoice: %v", err)
	}
	if got.Status != types.TranslatorVoiceComplete {
		t.Fatalf("status = %s, want %s", got.Status, types.TranslatorVoiceComplete)
	}
	wantPath := filepath.Join(svc.Store.Dir(), "talk_voice.mp3")
	if got.Extra["voice_path"] != wantPath {
		t.Errorf("voice path = %v, want %s", got.Extra["voice_path"], wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Errorf("voice file missing: %v", err)
	}
	if len(llm.voices) != 1 || llm.voices[0] != config.DefaultVoice {
		t.Errorf("voices = %v, want [%s]", llm.voices, config.DefaultVoice)
	}
	wantScript := "[ko] Hello there.\n[ko] Welcome back to the channel."
	if llm.scripts[0] != wantScript {
		t.Errorf("script = %q, want %q", llm.scripts[0], wantScript)
	}
}

func TestSynthesizeVoiceWithoutTranslationsMarksFailed(t *testing.T) {
	svc, _, _ := newTestService(t)
	project := seedSubtitledProject(t, svc)
	status := types.TranslatorVoiceReady
	if _, err := svc.Store.Update(project.ID, types.TranslatorProjectUpdate{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.SynthesizeVoice(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("SynthesizeVoice: %v", err)
	}
	if got.Status != types.TranslatorFailed {
		t.Fatalf("status = %s, want %s", got.Status, types.TranslatorFailed)
	}
	if msg := got.Extra["error"]; msg != "No translated text available to synthesize." {
		t.Errorf("error = %v", msg)
	}
}

func TestSynthesizeVoiceWrongState(t *testing.T) {
	svc, _, _ := newTestService(t)
	project := seedSubtitledProject(t, svc)

	_, err := svc.SynthesizeVoice(context.Background(), project.ID)
	var stateErr types.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("err = %v, want invalid state", err)
	}
}

func TestRender(t *testing.T) {
	svc, _, renderer := newTestService(t)
	project := seedSubtitledProject(t, svc)
	ctx := context.Background()
	if _, err := svc.Translate(ctx, project.ID); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if _, err := svc.SynthesizeVoice(ctx, project.ID); err != nil {
		t.Fatalf("SynthesizeVoice: %v", err)
	}

	got, err := svc.Render(project.ID)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got.Status != types.TranslatorRendered {
		t.Fatalf("status = %s, want %s", got.Status, types.TranslatorRendered)
	}

	if len(renderer.reqs) != 1 {
		t.Fatalf("got %d render calls, want 1", len(renderer.reqs))
	}
	req := renderer.reqs[0]
	wantOut := filepath.Join(svc.Store.Dir(), "talk_translated.mp4")
	if req.OutputPath != wantOut {
		t.Errorf("output = %q, want %q", req.OutputPath, wantOut)
	}
	if req.Duration != 14 {
		t.Errorf("duration = %v, want 14 (the longer narration)", req.Duration)
	}
	if len(req.Plans) != 1 || req.Plans[0].Path != project.SourceVideo || req.Plans[0].Duration != 14 {
		t.Errorf("plans = %+v, want the source video padded to 14s", req.Plans)
	}
	if !req.BurnSubs {
		t.Errorf("subtitles were not burned")
	}
	if req.Audio.MusicEnabled {
		t.Errorf("music should stay disabled for translated renders")
	}
	if len(req.Captions) != 2 || req.Captions[0].Text != "[ko] Hello there." {
		t.Errorf("captions = %+v", req.Captions)
	}
	if req.FPS != config.DefaultFPS {
		t.Errorf("fps = %d, want %d", req.FPS, config.DefaultFPS)
	}
	if got.Extra["rendered_video_path"] != wantOut {
		t.Errorf("rendered path = %v, want %s", got.Extra["rendered_video_path"], wantOut)
	}
}

func TestRenderWithoutVoiceMarksFailed(t *testing.T) {
	svc, _, _ := newTestService(t)
	project := seedSubtitledProject(t, svc)
	status := types.TranslatorVoiceComplete
	if _, err := svc.Store.Update(project.ID, types.TranslatorProjectUpdate{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.Render(project.ID)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got.Status != types.TranslatorFailed {
		t.Fatalf("status = %s, want %s", got.Status, types.TranslatorFailed)
	}
	if msg := got.Extra["error"]; msg != "Synthesized voice file not found." {
		t.Errorf("error = %v", msg)
	}
}

func TestRenderWrongState(t *testing.T) {
	svc, _, _ := newTestService(t)
	project := seedSubtitledProject(t, svc)

	_, err := svc.Render(project.ID)
	var stateErr types.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("err = %v, want invalid state", err)
	}
}

func TestDashboard(t *testing.T) {
	svc, _, _ := newTestService(t)
	project := seedSubtitledProject(t, svc)

	shorts := []types.ProjectSummary{
		{BaseName: "space", Topic: "우주 이야기", Language: "ko", VideoPath: "output/space.mp4", UpdatedAt: time.Now()},
		{BaseName: "draft-only", Language: "en"},
	}
	cards, err := svc.Store.Dashboard(shorts)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(cards))
	}
	if cards[0].ProjectType != "translator" || cards[0].ID != project.ID {
		t.Errorf("first card = %+v, want the translator project", cards[0])
	}
	if cards[0].CompletedSteps != 1 || cards[0].TotalSteps != types.TranslatorTotalSteps {
		t.Errorf("translator steps = %d/%d", cards[0].CompletedSteps, cards[0].TotalSteps)
	}
	if cards[1].Status != "rendered" || cards[1].CompletedSteps != 5 || cards[1].Title != "우주 이야기" {
		t.Errorf("rendered shorts card = %+v", cards[1])
	}
	if cards[2].Status != "draft" || cards[2].CompletedSteps != 1 || cards[2].Title != "draft-only" {
		t.Errorf("draft shorts card = %+v", cards[2])
	}
}
