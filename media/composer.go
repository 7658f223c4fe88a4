package media

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"shortsmaker/config"
	"shortsmaker/types"
)

// RenderRequest carries one fully planned composition pass. Paths are
// resolved before they get here; MusicPath empty means no background track.
type RenderRequest struct {
	OutputPath string
	Duration   float64
	FPS        int
	Plans      []ClipPlan
	Overlays   []OverlayPlan
	VoicePath  string
	MusicPath  string
	Audio      types.AudioSettings
	BurnSubs   bool
	Captions   []types.CaptionLine
	Style      types.SubtitleStyle
}

// Composer runs render passes by handing the whole graph to ffmpeg: looping,
// trimming, scaling, overlays, the audio mix and subtitle burn-in all happen
// inside one process.
type Composer struct{}

// Render builds the filter graph for req and executes it.
func (Composer) Render(req RenderRequest) error {
	if req.VoicePath == "" {
		return fmt.Errorf("voice audio path is not defined in metadata")
	}
	if req.FPS <= 0 {
		req.FPS = config.DefaultFPS
	}
	if req.Duration <= 0 {
		req.Duration = 1.0
	}

	video := baseTrack(req.Plans, req.FPS)
	for _, overlay := range req.Overlays {
		video = applyOverlay(video, overlay, req.FPS)
	}

	if req.BurnSubs && len(req.Captions) > 0 {
		name := strings.TrimSuffix(filepath.Base(req.OutputPath), filepath.Ext(req.OutputPath))
		assPath := filepath.Join(os.TempDir(), name+"_subtitles.ass")
		if err := WriteASS(assPath, req.Captions, req.Style, req.Duration); err != nil {
			return fmt.Errorf("write subtitle file: %w", err)
		}
		defer os.Remove(assPath)

		assPathEscaped := strings.ReplaceAll(filepath.ToSlash(assPath), ":", "\\:")
		video = ffmpeg.Filter([]*ffmpeg.Stream{video}, "ass", ffmpeg.Args{assPathEscaped})
	}

	audio := mixAudio(req)

	err := ffmpeg.Output([]*ffmpeg.Stream{video, audio}, req.OutputPath, ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"c:a":     config.AudioCodec,
		"b:a":     config.AudioBitrate,
		"preset":  config.VideoPreset,
		"pix_fmt": "yuv420p",
		"t":       formatSeconds(req.Duration),
	}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("ffmpeg render failed: %w", err)
	}
	return nil
}

func baseTrack(plans []ClipPlan, fps int) *ffmpeg.Stream {
	if len(plans) == 0 {
		plans = []ClipPlan{{Color: MissingFillColor, Duration: 1.0}}
	}
	streams := make([]*ffmpeg.Stream, 0, len(plans))
	for _, plan := range plans {
		streams = append(streams, clipStream(plan, fps))
	}
	if len(streams) == 1 {
		return streams[0]
	}
	return ffmpeg.Concat(streams)
}

// clipStream opens one planned slot. Color fills come from lavfi, stills
// loop for their window, and videos loop at the demuxer so a short source
// still covers the slot; the input-side trim cuts all three at Duration.
func clipStream(plan ClipPlan, fps int) *ffmpeg.Stream {
	var in *ffmpeg.Stream
	switch {
	case plan.Path == "":
		color := plan.Color
		if color == "" {
			color = MissingFillColor
		}
		spec := fmt.Sprintf("color=c=%s:s=%dx%d:d=%s", color, config.VideoWidth, config.VideoHeight, formatSeconds(plan.Duration))
		in = ffmpeg.Input(spec, ffmpeg.KwArgs{"f": "lavfi"})
	case plan.IsImage:
		in = ffmpeg.Input(plan.Path, ffmpeg.KwArgs{"loop": 1, "framerate": fps, "t": formatSeconds(plan.Duration)})
	default:
		in = ffmpeg.Input(plan.Path, ffmpeg.KwArgs{"stream_loop": -1, "t": formatSeconds(plan.Duration)})
	}
	return fitCanvas(in, fps)
}

// fitCanvas covers the 9:16 frame with a centered crop at the target fps.
func fitCanvas(in *ffmpeg.Stream, fps int) *ffmpeg.Stream {
	size := fmt.Sprintf("%d:%d", config.VideoWidth, config.VideoHeight)
	return in.
		Filter("scale", ffmpeg.Args{size}, ffmpeg.KwArgs{"force_original_aspect_ratio": "increase"}).
		Filter("crop", ffmpeg.Args{size}).
		Filter("setsar", ffmpeg.Args{"1"}).
		Filter("fps", ffmpeg.Args{fmt.Sprint(fps)})
}

func applyOverlay(base *ffmpeg.Stream, overlay OverlayPlan, fps int) *ffmpeg.Stream {
	var in *ffmpeg.Stream
	if overlay.IsImage {
		in = ffmpeg.Input(overlay.Path, ffmpeg.KwArgs{"loop": 1, "framerate": fps, "t": formatSeconds(overlay.End)})
	} else {
		in = ffmpeg.Input(overlay.Path).
			Filter("setpts", ffmpeg.Args{fmt.Sprintf("PTS-STARTPTS+%s/TB", formatSeconds(overlay.Start))})
	}
	x, y := overlayPosition(overlay.Position)
	return ffmpeg.Filter([]*ffmpeg.Stream{base, in}, "overlay", ffmpeg.Args{}, ffmpeg.KwArgs{
		"x":      x,
		"y":      y,
		"enable": fmt.Sprintf("between(t,%s,%s)", formatSeconds(overlay.Start), formatSeconds(overlay.End)),
	})
}

func overlayPosition(position string) (string, string) {
	switch position {
	case "top":
		return "(W-w)/2", "80"
	case "bottom":
		return "(W-w)/2", "H-h-80"
	case "left":
		return "80", "(H-h)/2"
	case "right":
		return "W-w-80", "(H-h)/2"
	}
	return "(W-w)/2", "(H-h)/2"
}

// mixAudio loops the music under the narration with fades and ducking, or
// passes the narration through when music is off or missing.
func mixAudio(req RenderRequest) *ffmpeg.Stream {
	voice := ffmpeg.Input(req.VoicePath).Audio()
	if !req.Audio.MusicEnabled || req.MusicPath == "" {
		return voice
	}

	loopTarget := req.Duration + 1
	fadeOutStart := loopTarget - config.MusicFadeDuration
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}
	musicVolume := math.Max(req.Audio.MusicVolume, 0)
	duckGain := math.Max(1-req.Audio.Ducking, config.DuckingFloor)

	music := ffmpeg.Input(req.MusicPath, ffmpeg.KwArgs{"stream_loop": -1}).Audio().
		Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": formatSeconds(loopTarget)}).
		Filter("volume", ffmpeg.Args{formatSeconds(musicVolume)}).
		Filter("afade", ffmpeg.Args{}, ffmpeg.KwArgs{"t": "in", "st": "0", "d": formatSeconds(config.MusicFadeDuration)}).
		Filter("afade", ffmpeg.Args{}, ffmpeg.KwArgs{"t": "out", "st": formatSeconds(fadeOutStart), "d": formatSeconds(config.MusicFadeDuration)}).
		Filter("volume", ffmpeg.Args{formatSeconds(duckGain)})

	return ffmpeg.Filter([]*ffmpeg.Stream{music, voice}, "amix", ffmpeg.Args{}, ffmpeg.KwArgs{
		"inputs":    2,
		"duration":  "longest",
		"normalize": 0,
	})
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
