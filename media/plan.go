package media

import (
	"math"
	"sort"
	"strconv"

	"shortsmaker/config"
	"shortsmaker/types"
)

// Filler colors for synthesized clips, as 0xRRGGBB ffmpeg color strings.
const (
	GapFillColor     = "0x0A0C12"
	MissingFillColor = "0x0F0F14"
)

const timeEpsilon = 1e-3

// ClipPlan is one slot on the base video track. Path is empty for a color
// fill. A source shorter than Duration loops; a longer one is trimmed.
type ClipPlan struct {
	Path     string
	Color    string
	Duration float64
	IsImage  bool
}

// OverlayPlan composites a clip on top of the base track for a time window.
type OverlayPlan struct {
	Path     string
	Start    float64
	End      float64
	Position string
	IsImage  bool
}

// Resolver maps a segment source onto a playable file.
type Resolver func(source string) (string, bool)

// PlanBaseTrack lays the non-overlay segments onto a contiguous clip list
// covering [0, total]. Gaps between segments and the uncovered tail become
// color fillers; segments whose source cannot be resolved render as a darker
// fill of the same length. An empty timeline yields a single filler.
func PlanBaseTrack(segments []types.TimelineSegment, total float64, resolve Resolver) []ClipPlan {
	base := make([]types.TimelineSegment, 0, len(segments))
	for _, seg := range segments {
		if seg.IsOverlay() {
			continue
		}
		base = append(base, seg)
	}
	sort.SliceStable(base, func(i, j int) bool { return base[i].Start < base[j].Start })

	var plans []ClipPlan
	cursor := 0.0
	for _, seg := range base {
		if seg.Duration() <= 0 {
			continue
		}
		if seg.Start > cursor+timeEpsilon {
			plans = append(plans, ClipPlan{Color: GapFillColor, Duration: seg.Start - cursor})
			cursor = seg.Start
		}
		duration := math.Max(seg.Duration(), config.MinSegmentDuration)
		if path, ok := resolve(seg.Source); ok {
			plans = append(plans, ClipPlan{Path: path, Duration: duration, IsImage: IsImageFile(path)})
		} else {
			plans = append(plans, ClipPlan{Color: MissingFillColor, Duration: duration})
		}
		if seg.End > cursor {
			cursor = seg.End
		}
	}
	if cursor < total-timeEpsilon {
		plans = append(plans, ClipPlan{Color: GapFillColor, Duration: total - cursor})
	}
	if len(plans) == 0 {
		plans = append(plans, ClipPlan{Color: MissingFillColor, Duration: math.Max(total, config.MinSegmentDuration)})
	}
	return plans
}

// PlanOverlays extracts the overlay segments that resolve to a real file.
// Position comes from extras ("center" when absent).
func PlanOverlays(segments []types.TimelineSegment, resolve Resolver) []OverlayPlan {
	var overlays []OverlayPlan
	for _, seg := range segments {
		if !seg.IsOverlay() || seg.Duration() <= 0 {
			continue
		}
		path, ok := resolve(seg.Source)
		if !ok {
			continue
		}
		position, _ := seg.Extras["position"].(string)
		if position == "" {
			position = "center"
		}
		overlays = append(overlays, OverlayPlan{
			Path:     path,
			Start:    seg.Start,
			End:      seg.End,
			Position: position,
			IsImage:  IsImageFile(path),
		})
	}
	sort.SliceStable(overlays, func(i, j int) bool { return overlays[i].Start < overlays[j].Start })
	return overlays
}

// BrollCandidate pairs a library file with its playable duration. Stills
// count as fixed-length clips.
type BrollCandidate struct {
	Path     string
	Duration float64
	IsImage  bool
}

// StillDuration is how long a single image plays on the b-roll track.
const StillDuration = 6.0

// PlanBroll fills total seconds from the given candidates in order, trimming
// the clip that crosses the end. When the pool runs short the last clip loops
// for the remainder; an empty pool yields a single color fill.
func PlanBroll(candidates []BrollCandidate, total float64) []ClipPlan {
	var plans []ClipPlan
	remaining := total
	for _, candidate := range candidates {
		if remaining <= 0 {
			break
		}
		duration := candidate.Duration
		if duration <= 0 {
			continue
		}
		if duration > remaining {
			duration = remaining
		}
		plans = append(plans, ClipPlan{Path: candidate.Path, Duration: duration, IsImage: candidate.IsImage})
		remaining -= duration
	}
	if remaining > timeEpsilon && len(plans) > 0 {
		last := plans[len(plans)-1]
		plans = append(plans, ClipPlan{Path: last.Path, Duration: remaining, IsImage: last.IsImage})
	}
	if len(plans) == 0 {
		plans = append(plans, ClipPlan{Color: MissingFillColor, Duration: math.Max(total, config.MinSegmentDuration)})
	}
	return plans
}

// RenderDuration picks the base track length: the stored duration, then the
// last segment end, then the last caption end, then one second.
func RenderDuration(meta *types.ProjectMetadata) float64 {
	if meta.Duration > 0 {
		return meta.Duration
	}
	if end := meta.MaxSegmentEnd(); end > 0 {
		return end
	}
	if end := meta.MaxCaptionEnd(); end > 0 {
		return end
	}
	return 1.0
}

// RenderFPS reads the fps hint from the first timeline segment carrying one,
// then from the project extra map.
func RenderFPS(meta *types.ProjectMetadata) int {
	for _, seg := range meta.Timeline {
		if fps := intHint(seg.Extras["fps"]); fps > 0 {
			return fps
		}
	}
	if fps := intHint(meta.Extra["fps"]); fps > 0 {
		return fps
	}
	return config.DefaultFPS
}

func intHint(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
