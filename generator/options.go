package generator

import (
	"strings"
	"time"

	"shortsmaker/config"
)

// Options carries the parameters for one generation run. CLI flags and API
// form fields map onto these one to one.
type Options struct {
	Topic       string  `json:"topic"`
	Style       string  `json:"style"`
	Duration    int     `json:"duration"`
	Lang        string  `json:"lang"`
	FPS         int     `json:"fps"`
	Voice       string  `json:"voice"`
	Music       bool    `json:"music"`
	MusicVolume float64 `json:"music_volume"`
	Ducking     float64 `json:"ducking"`
	BurnSubs    bool    `json:"burn_subs"`
	DryRun      bool    `json:"dry_run"`
	SaveJSON    bool    `json:"save_json"`
	ScriptModel string  `json:"script_model"`
	TTSModel    string  `json:"tts_model"`
	OutputName  string  `json:"output_name,omitempty"`
	AssetsDir   string  `json:"-"`
	OutputDir   string  `json:"-"`
}

// ApplyDefaults fills unset fields with the stock generation parameters.
// Music and the volume knobs are left alone: flag and form defaults own them.
func (o *Options) ApplyDefaults() {
	if o.Style == "" {
		o.Style = config.DefaultStyle
	}
	if o.Duration <= 0 {
		o.Duration = config.DefaultDuration
	}
	if o.Lang == "" {
		o.Lang = config.DefaultLanguage
	}
	if o.FPS <= 0 {
		o.FPS = config.DefaultFPS
	}
	if o.Voice == "" {
		o.Voice = config.DefaultVoice
	}
	if o.ScriptModel == "" {
		o.ScriptModel = config.DefaultScriptModel
	}
	if o.TTSModel == "" {
		o.TTSModel = config.DefaultTTSModel
	}
	if o.AssetsDir == "" {
		o.AssetsDir = config.AssetsDir
	}
	if o.OutputDir == "" {
		o.OutputDir = config.OutputDir
	}
}

// BuildOutputName derives the file stem for a run. A custom name wins
// unchanged; otherwise a UTC timestamp prefixes a slug of topic, style and
// language with slashes and whitespace runs collapsed to dashes.
func BuildOutputName(topic, style, lang, custom string) string {
	if custom != "" {
		return custom
	}
	parts := make([]string, 0, 3)
	for _, part := range []string{topic, style, lang} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	slug := strings.ReplaceAll(strings.Join(parts, "-"), "/", "-")
	slug = strings.Join(strings.Fields(slug), "-")
	return time.Now().UTC().Format("20060102-150405") + "-" + slug
}
