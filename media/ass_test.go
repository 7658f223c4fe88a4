package media

import (
	"strings"
	"testing"

	"shortsmaker/types"
)

func TestBuildASSDefaultStyle(t *testing.T) {
	captions := []types.CaptionLine{
		{Start: 0, End: 2.5, Text: "안녕하세요"},
	}

	doc := BuildASS(captions, types.DefaultSubtitleStyle(), 2.5)

	for _, want := range []string{
		"[Script Info]",
		"PlayResX: 1080",
		"PlayResY: 1920",
		"Style: Default,NanumGothic,62,",
		"Dialogue: 0,0:00:00.00,0:00:02.50,Default,,0,0,0,,안녕하세요",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("BuildASS output missing %q:\n%s", want, doc)
		}
	}
}

func TestBuildASSSkipsEmptyText(t *testing.T) {
	captions := []types.CaptionLine{
		{Start: 0, End: 1.5, Text: "   "},
		{Start: 1.5, End: 3, Text: "second"},
	}

	doc := BuildASS(captions, types.DefaultSubtitleStyle(), 3)

	if got := strings.Count(doc, "Dialogue:"); got != 1 {
		t.Fatalf("BuildASS wrote %d dialogue lines; want 1", got)
	}
}

func TestBuildASSEscapesNewlines(t *testing.T) {
	captions := []types.CaptionLine{
		{Start: 0, End: 2, Text: "line one\nline two"},
	}

	doc := BuildASS(captions, types.DefaultSubtitleStyle(), 2)

	if !strings.Contains(doc, `line one\Nline two`) {
		t.Fatalf("BuildASS did not escape the newline:\n%s", doc)
	}
}

func TestBuildASSBanner(t *testing.T) {
	style := types.DefaultSubtitleStyle()
	style.Template = types.TemplateBanner
	style.BannerPrimaryText = "대단한 소식"
	style.BannerSecondaryText = "지금 확인하세요"

	doc := BuildASS([]types.CaptionLine{{Start: 0, End: 4, Text: "본문"}}, style, 4)

	for _, want := range []string{
		"Style: BannerBox,",
		"Style: BannerPrimary,",
		"Style: BannerSecondary,",
		`{\p1}m 0 0 l 1080 0 1080 403 0 403{\p0}`,
		`{\pos(540,141)}대단한 소식`,
		`{\pos(540,290)}지금 확인하세요`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("BuildASS banner output missing %q:\n%s", want, doc)
		}
	}
}

func TestBuildASSBannerWithoutTextOmitsEvents(t *testing.T) {
	style := types.DefaultSubtitleStyle()
	style.Template = types.TemplateBanner

	doc := BuildASS([]types.CaptionLine{{Start: 0, End: 4, Text: "본문"}}, style, 4)

	if strings.Contains(doc, "BannerPrimary,,") {
		t.Fatalf("BuildASS wrote a banner text event without text:\n%s", doc)
	}
	if !strings.Contains(doc, `{\p1}`) {
		t.Fatalf("BuildASS dropped the banner band:\n%s", doc)
	}
}

func TestBuildASSAnimations(t *testing.T) {
	cases := []struct {
		animation string
		want      string
	}{
		{"slide_up", `{\move(540,1823,540,1670,0,250)}`},
		{"slide_down", `{\move(540,1517,540,1670,0,250)}`},
		{"slide_left", `{\move(669,1670,540,1670,0,250)}`},
		{"slide_right", `{\move(411,1670,540,1670,0,250)}`},
		{"bounce", `{\t(0,120,\fscx112\fscy112)\t(120,260,\fscx100\fscy100)}`},
		{"fire", `{\c&H19C5FF&`},
	}

	for _, c := range cases {
		t.Run(c.animation, func(t *testing.T) {
			style := types.DefaultSubtitleStyle()
			style.Animation = c.animation

			doc := BuildASS([]types.CaptionLine{{Start: 0, End: 2, Text: "텍스트"}}, style, 2)

			if !strings.Contains(doc, c.want) {
				t.Fatalf("animation %q output missing %q:\n%s", c.animation, c.want, doc)
			}
		})
	}
}

func TestBuildASSTypewriter(t *testing.T) {
	style := types.DefaultSubtitleStyle()
	style.Animation = "typewriter"

	doc := BuildASS([]types.CaptionLine{{Start: 0, End: 2.5, Text: "hello"}}, style, 2.5)

	if !strings.Contains(doc, "Style: Typewriter,") {
		t.Fatalf("typewriter style missing:\n%s", doc)
	}
	if !strings.Contains(doc, `{\k50}h{\k50}e{\k50}l{\k50}l{\k50}o`) {
		t.Fatalf("typewriter beats missing:\n%s", doc)
	}
}

func TestBuildASSHighlightUsesBoxedStyle(t *testing.T) {
	style := types.DefaultSubtitleStyle()
	style.Animation = "highlight"

	doc := BuildASS([]types.CaptionLine{{Start: 0, End: 2, Text: "강조"}}, style, 2)

	if !strings.Contains(doc, "Style: Boxed,") {
		t.Fatalf("boxed style missing:\n%s", doc)
	}
	if !strings.Contains(doc, ",Boxed,,0,0,0,,강조") {
		t.Fatalf("dialogue does not use the boxed style:\n%s", doc)
	}
}

func TestFormatASSTimestamp(t *testing.T) {
	cases := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "0:00:00.00"},
		{"minute and change", 65.25, "0:01:05.25"},
		{"over an hour", 3605.5, "1:00:05.50"},
		{"negative clamps to zero", -2, "0:00:00.00"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := formatASSTimestamp(c.seconds); got != c.want {
				t.Fatalf("formatASSTimestamp(%v) = %q; want %q", c.seconds, got, c.want)
			}
		})
	}
}
