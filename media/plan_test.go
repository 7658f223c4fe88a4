package media

import (
	"math"
	"testing"

	"shortsmaker/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func resolveNone(string) (string, bool) { return "", false }

func resolveAs(path string) Resolver {
	return func(string) (string, bool) { return path, true }
}

func TestPlanBaseTrackFillsGaps(t *testing.T) {
	segments := []types.TimelineSegment{
		{ID: "a", MediaType: "broll", Source: "clip.mp4", Start: 2, End: 5},
	}

	plans := PlanBaseTrack(segments, 10, resolveAs("clip.mp4"))

	if len(plans) != 3 {
		t.Fatalf("PlanBaseTrack returned %d plans; want 3", len(plans))
	}
	if plans[0].Color != GapFillColor || !almostEqual(plans[0].Duration, 2) {
		t.Fatalf("leading gap = %+v; want %s fill of 2s", plans[0], GapFillColor)
	}
	if plans[1].Path != "clip.mp4" || !almostEqual(plans[1].Duration, 3) {
		t.Fatalf("clip plan = %+v; want clip.mp4 for 3s", plans[1])
	}
	if plans[2].Color != GapFillColor || !almostEqual(plans[2].Duration, 5) {
		t.Fatalf("trailing gap = %+v; want %s fill of 5s", plans[2], GapFillColor)
	}
}

func TestPlanBaseTrackMissingSourceBecomesFill(t *testing.T) {
	segments := []types.TimelineSegment{
		{ID: "a", MediaType: "broll", Source: "gone.mp4", Start: 0, End: 4},
	}

	plans := PlanBaseTrack(segments, 4, resolveNone)

	if len(plans) != 1 {
		t.Fatalf("PlanBaseTrack returned %d plans; want 1", len(plans))
	}
	if plans[0].Color != MissingFillColor || !almostEqual(plans[0].Duration, 4) {
		t.Fatalf("plan = %+v; want %s fill of 4s", plans[0], MissingFillColor)
	}
}

func TestPlanBaseTrackEmptyTimeline(t *testing.T) {
	plans := PlanBaseTrack(nil, 8, resolveNone)

	if len(plans) != 1 {
		t.Fatalf("PlanBaseTrack returned %d plans; want 1", len(plans))
	}
	if plans[0].Color != GapFillColor || !almostEqual(plans[0].Duration, 8) {
		t.Fatalf("plan = %+v; want %s fill covering 8s", plans[0], GapFillColor)
	}
}

func TestPlanBaseTrackZeroTotal(t *testing.T) {
	plans := PlanBaseTrack(nil, 0, resolveNone)

	if len(plans) != 1 {
		t.Fatalf("PlanBaseTrack returned %d plans; want 1", len(plans))
	}
	if plans[0].Color != MissingFillColor || plans[0].Duration <= 0 {
		t.Fatalf("plan = %+v; want a non-empty %s fill", plans[0], MissingFillColor)
	}
}

func TestPlanBaseTrackSkipsOverlaysAndEmptySegments(t *testing.T) {
	segments := []types.TimelineSegment{
		{ID: "ov", MediaType: "image_overlay", Source: "logo.png", Start: 0, End: 3},
		{ID: "zero", MediaType: "broll", Source: "clip.mp4", Start: 1, End: 1},
		{ID: "base", MediaType: "broll", Source: "clip.mp4", Start: 0, End: 6},
	}

	plans := PlanBaseTrack(segments, 6, resolveAs("clip.mp4"))

	if len(plans) != 1 {
		t.Fatalf("PlanBaseTrack returned %d plans; want 1", len(plans))
	}
	if plans[0].Path != "clip.mp4" || !almostEqual(plans[0].Duration, 6) {
		t.Fatalf("plan = %+v; want clip.mp4 for 6s", plans[0])
	}
}

func TestPlanBaseTrackSortsSegments(t *testing.T) {
	segments := []types.TimelineSegment{
		{ID: "b", MediaType: "broll", Source: "b.mp4", Start: 3, End: 6},
		{ID: "a", MediaType: "broll", Source: "a.mp4", Start: 0, End: 3},
	}
	resolve := func(source string) (string, bool) { return source, true }

	plans := PlanBaseTrack(segments, 6, resolve)

	if len(plans) != 2 {
		t.Fatalf("PlanBaseTrack returned %d plans; want 2", len(plans))
	}
	if plans[0].Path != "a.mp4" || plans[1].Path != "b.mp4" {
		t.Fatalf("plan order = [%s, %s]; want [a.mp4, b.mp4]", plans[0].Path, plans[1].Path)
	}
}

func TestPlanBaseTrackMarksImages(t *testing.T) {
	segments := []types.TimelineSegment{
		{ID: "a", MediaType: "broll", Source: "still.png", Start: 0, End: 2},
	}

	plans := PlanBaseTrack(segments, 2, resolveAs("still.png"))

	if len(plans) != 1 || !plans[0].IsImage {
		t.Fatalf("plan = %+v; want an image clip", plans[0])
	}
}

func TestPlanOverlays(t *testing.T) {
	segments := []types.TimelineSegment{
		{ID: "base", MediaType: "broll", Source: "clip.mp4", Start: 0, End: 10},
		{ID: "late", MediaType: "overlay", Source: "b.png", Start: 6, End: 8, Extras: map[string]any{"position": "top"}},
		{ID: "early", MediaType: "image", Source: "a.png", Start: 1, End: 3},
		{ID: "gone", MediaType: "overlay", Source: "missing.png", Start: 2, End: 4},
	}
	resolve := func(source string) (string, bool) {
		if source == "missing.png" {
			return "", false
		}
		return source, true
	}

	overlays := PlanOverlays(segments, resolve)

	if len(overlays) != 2 {
		t.Fatalf("PlanOverlays returned %d overlays; want 2", len(overlays))
	}
	if overlays[0].Path != "a.png" || overlays[0].Position != "center" {
		t.Fatalf("first overlay = %+v; want a.png centered", overlays[0])
	}
	if overlays[1].Path != "b.png" || overlays[1].Position != "top" {
		t.Fatalf("second overlay = %+v; want b.png at top", overlays[1])
	}
	if !overlays[0].IsImage {
		t.Fatalf("overlay %+v not marked as image", overlays[0])
	}
}

func TestPlanBroll(t *testing.T) {
	cases := []struct {
		name       string
		candidates []BrollCandidate
		total      float64
		wantPaths  []string
		wantDurs   []float64
	}{
		{
			name: "trims the clip crossing the end",
			candidates: []BrollCandidate{
				{Path: "a.mp4", Duration: 4},
				{Path: "b.mp4", Duration: 10},
			},
			total:     7,
			wantPaths: []string{"a.mp4", "b.mp4"},
			wantDurs:  []float64{4, 3},
		},
		{
			name: "loops the last clip when the pool runs short",
			candidates: []BrollCandidate{
				{Path: "a.mp4", Duration: 3},
				{Path: "b.mp4", Duration: 2},
			},
			total:     9,
			wantPaths: []string{"a.mp4", "b.mp4", "b.mp4"},
			wantDurs:  []float64{3, 2, 4},
		},
		{
			name:       "empty pool falls back to a color fill",
			candidates: nil,
			total:      5,
			wantPaths:  []string{""},
			wantDurs:   []float64{5},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			plans := PlanBroll(c.candidates, c.total)
			if len(plans) != len(c.wantPaths) {
				t.Fatalf("PlanBroll returned %d plans; want %d", len(plans), len(c.wantPaths))
			}
			var covered float64
			for i, plan := range plans {
				if plan.Path != c.wantPaths[i] {
					t.Fatalf("plan %d path = %q; want %q", i, plan.Path, c.wantPaths[i])
				}
				if !almostEqual(plan.Duration, c.wantDurs[i]) {
					t.Fatalf("plan %d duration = %v; want %v", i, plan.Duration, c.wantDurs[i])
				}
				covered += plan.Duration
			}
			if !almostEqual(covered, c.total) {
				t.Fatalf("plans cover %vs; want %vs", covered, c.total)
			}
		})
	}
}

func TestRenderDuration(t *testing.T) {
	cases := []struct {
		name string
		meta types.ProjectMetadata
		want float64
	}{
		{
			name: "stored duration wins",
			meta: types.ProjectMetadata{
				Duration: 12.5,
				Timeline: []types.TimelineSegment{{Start: 0, End: 30}},
			},
			want: 12.5,
		},
		{
			name: "falls back to the last segment end",
			meta: types.ProjectMetadata{
				Timeline: []types.TimelineSegment{{Start: 0, End: 4}, {Start: 4, End: 9}},
			},
			want: 9,
		},
		{
			name: "falls back to the last caption end",
			meta: types.ProjectMetadata{
				Captions: []types.CaptionLine{{Start: 0, End: 3.2}},
			},
			want: 3.2,
		},
		{
			name: "empty project renders one second",
			meta: types.ProjectMetadata{},
			want: 1.0,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := RenderDuration(&c.meta); !almostEqual(got, c.want) {
				t.Fatalf("RenderDuration() = %v; want %v", got, c.want)
			}
		})
	}
}

func TestRenderFPS(t *testing.T) {
	cases := []struct {
		name string
		meta types.ProjectMetadata
		want int
	}{
		{
			name: "segment extras win",
			meta: types.ProjectMetadata{
				Timeline: []types.TimelineSegment{
					{Extras: map[string]any{"fps": float64(30)}},
				},
				Extra: map[string]any{"fps": float64(60)},
			},
			want: 30,
		},
		{
			name: "project extra is the fallback",
			meta: types.ProjectMetadata{
				Timeline: []types.TimelineSegment{{}},
				Extra:    map[string]any{"fps": float64(60)},
			},
			want: 60,
		},
		{
			name: "default applies when nothing is hinted",
			meta: types.ProjectMetadata{},
			want: 24,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := RenderFPS(&c.meta); got != c.want {
				t.Fatalf("RenderFPS() = %d; want %d", got, c.want)
			}
		})
	}
}
