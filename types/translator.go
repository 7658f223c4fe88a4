package types

import "time"

// TranslatorStatus tracks a translator project through its pipeline steps.
type TranslatorStatus string

const (
	TranslatorDraft         TranslatorStatus = "draft"
	TranslatorSegmenting    TranslatorStatus = "segmenting"
	TranslatorTranslating   TranslatorStatus = "translating"
	TranslatorVoiceReady    TranslatorStatus = "voice_ready"
	TranslatorVoiceComplete TranslatorStatus = "voice_complete"
	TranslatorRendering     TranslatorStatus = "rendering"
	TranslatorRendered      TranslatorStatus = "rendered"
	TranslatorFailed        TranslatorStatus = "failed"
)

// TranslatorTotalSteps is the pipeline length reported on dashboards.
const TranslatorTotalSteps = 5

var translatorStepsDone = map[TranslatorStatus]int{
	TranslatorDraft:         1,
	TranslatorSegmenting:    1,
	TranslatorTranslating:   2,
	TranslatorVoiceReady:    3,
	TranslatorVoiceComplete: 4,
	TranslatorRendering:     4,
	TranslatorRendered:      5,
	TranslatorFailed:        1,
}

// CompletedSteps maps the status onto how many pipeline steps are done.
func (s TranslatorStatus) CompletedSteps() int {
	if n, ok := translatorStepsDone[s]; ok {
		return n
	}
	return 1
}

// TranslatorSegment is one translation window cut from the source video.
type TranslatorSegment struct {
	ID             string  `json:"id"`
	ClipIndex      int     `json:"clip_index"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	SourceText     string  `json:"source_text,omitempty"`
	TranslatedText string  `json:"translated_text,omitempty"`
}

// TranslatorProject re-voices a subtitle-driven video in another language.
type TranslatorProject struct {
	ID                 string              `json:"id"`
	BaseName           string              `json:"base_name"`
	SourceVideo        string              `json:"source_video"`
	SourceSubtitle     string              `json:"source_subtitle,omitempty"`
	SourceOrigin       string              `json:"source_origin"`
	TargetLang         string              `json:"target_lang"`
	TranslationMode    string              `json:"translation_mode"`
	ToneHint           string              `json:"tone_hint,omitempty"`
	PromptHint         string              `json:"prompt_hint,omitempty"`
	FPS                *int                `json:"fps,omitempty"`
	Voice              string              `json:"voice,omitempty"`
	MusicTrack         string              `json:"music_track,omitempty"`
	Duration           *float64            `json:"duration,omitempty"`
	SegmentMaxDuration float64             `json:"segment_max_duration"`
	Status             TranslatorStatus    `json:"status"`
	Segments           []TranslatorSegment `json:"segments"`
	MetadataPath       string              `json:"metadata_path,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	Extra              map[string]any      `json:"extra"`
}

// Source origins accepted for translator projects.
const (
	SourceOriginYouTube = "youtube"
	SourceOriginUpload  = "upload"
)

// Translation modes accepted for translator projects.
const (
	TranslationLiteral     = "literal"
	TranslationAdaptive    = "adaptive"
	TranslationReinterpret = "reinterpret"
)

// TranslatorProjectCreate is the create payload.
type TranslatorProjectCreate struct {
	SourceVideo        string   `json:"source_video"`
	SourceSubtitle     string   `json:"source_subtitle,omitempty"`
	SourceOrigin       string   `json:"source_origin,omitempty"`
	TargetLang         string   `json:"target_lang"`
	TranslationMode    string   `json:"translation_mode,omitempty"`
	ToneHint           string   `json:"tone_hint,omitempty"`
	PromptHint         string   `json:"prompt_hint,omitempty"`
	FPS                *int     `json:"fps,omitempty"`
	Voice              string   `json:"voice,omitempty"`
	MusicTrack         string   `json:"music_track,omitempty"`
	Duration           *float64 `json:"duration,omitempty"`
	SegmentMaxDuration *float64 `json:"segment_max_duration,omitempty"`
}

// TranslatorProjectUpdate patches any subset of the editable fields.
type TranslatorProjectUpdate struct {
	Status     *TranslatorStatus   `json:"status,omitempty"`
	Segments   []TranslatorSegment `json:"segments,omitempty"`
	ToneHint   *string             `json:"tone_hint,omitempty"`
	PromptHint *string             `json:"prompt_hint,omitempty"`
	Voice      *string             `json:"voice,omitempty"`
	MusicTrack *string             `json:"music_track,omitempty"`
}

// DashboardCard is one tile on the combined projects dashboard. Shorts and
// translator projects share the five-step progress scale.
type DashboardCard struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ProjectType    string `json:"project_type"`
	Status         string `json:"status"`
	CompletedSteps int    `json:"completed_steps"`
	TotalSteps     int    `json:"total_steps"`
	Thumbnail      string `json:"thumbnail"`
	UpdatedAt      string `json:"updated_at,omitempty"`
	Language       string `json:"language,omitempty"`
	Topic          string `json:"topic,omitempty"`
	SourceOrigin   string `json:"source_origin,omitempty"`
}
