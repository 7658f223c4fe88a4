package generator

import "shortsmaker/config"

// Request is the wire form of Options used by the HTTP API and the queue
// intake. The audio knobs are pointers so an absent field keeps the
// pipeline default instead of zeroing it.
type Request struct {
	Topic       string   `json:"topic"`
	Style       string   `json:"style,omitempty"`
	Duration    int      `json:"duration,omitempty"`
	Lang        string   `json:"lang,omitempty"`
	FPS         int      `json:"fps,omitempty"`
	Voice       string   `json:"voice,omitempty"`
	Music       *bool    `json:"music,omitempty"`
	MusicVolume *float64 `json:"music_volume,omitempty"`
	Ducking     *float64 `json:"ducking,omitempty"`
	BurnSubs    bool     `json:"burn_subs,omitempty"`
	DryRun      bool     `json:"dry_run,omitempty"`
	SaveJSON    bool     `json:"save_json,omitempty"`
	OutputName  string   `json:"output_name,omitempty"`
	ScriptModel string   `json:"script_model,omitempty"`
	TTSModel    string   `json:"tts_model,omitempty"`
}

// Options maps the request onto generation options.
func (r *Request) Options() Options {
	opts := Options{
		Topic:       r.Topic,
		Style:       r.Style,
		Duration:    r.Duration,
		Lang:        r.Lang,
		FPS:         r.FPS,
		Voice:       r.Voice,
		Music:       true,
		MusicVolume: config.DefaultMusicVolume,
		Ducking:     config.DefaultDucking,
		BurnSubs:    r.BurnSubs,
		DryRun:      r.DryRun,
		SaveJSON:    r.SaveJSON,
		OutputName:  r.OutputName,
		ScriptModel: r.ScriptModel,
		TTSModel:    r.TTSModel,
	}
	if r.Music != nil {
		opts.Music = *r.Music
	}
	if r.MusicVolume != nil {
		opts.MusicVolume = *r.MusicVolume
	}
	if r.Ducking != nil {
		opts.Ducking = *r.Ducking
	}
	return opts
}
