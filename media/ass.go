package media

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"shortsmaker/config"
	"shortsmaker/types"
)

// ASS colors in &HAABBGGRR form.
const (
	assWhite      = "&H00FFFFFF"
	assBlack      = "&H00000000"
	assYellow     = "&H0000D4FF" // #ffd400
	assBoxBack    = "&H72341E18" // rgb(24,30,52) at 55% opacity
	assBannerBack = "&H14000000" // black at 92% opacity
	assInvisible  = "&HFF000000"
)

const styleFormatLine = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"

// BuildASS renders an ASS document for burn-in: one Default-style dialogue
// per caption, plus the banner band and text when the banner template is on.
// total is the full video length the banner stays visible for.
func BuildASS(captions []types.CaptionLine, style types.SubtitleStyle, total float64) string {
	font := fontName(style.FontPath)
	marginV := config.SubtitleBottomMargin + style.YOffset
	if style.Template == types.TemplateBanner {
		marginV = config.BannerBottomMargin + style.YOffset
	}
	if marginV < 0 {
		marginV = 0
	}

	var b strings.Builder
	fmt.Fprintln(&b, "[Script Info]")
	fmt.Fprintln(&b, "Title: Shorts Maker Video")
	fmt.Fprintln(&b, "ScriptType: v4.00+")
	fmt.Fprintf(&b, "PlayResX: %d\n", config.VideoWidth)
	fmt.Fprintf(&b, "PlayResY: %d\n", config.VideoHeight)
	fmt.Fprintln(&b, "")
	fmt.Fprintln(&b, "[V4+ Styles]")
	fmt.Fprintln(&b, styleFormatLine)

	captionStyle := "Default"
	switch style.Animation {
	case "highlight":
		// Opaque box behind the text instead of an outline-only look.
		captionStyle = "Boxed"
		fmt.Fprintf(&b, "Style: Boxed,%s,%d,%s,%s,%s,%s,-1,0,0,0,100,100,0,0,3,%d,0,2,60,60,%d,1\n",
			font, style.FontSize, assWhite, assWhite, assBlack, assBoxBack, style.StrokeWidth, marginV)
	case "typewriter":
		// Karaoke fill from a transparent secondary colour reveals the text.
		captionStyle = "Typewriter"
		fmt.Fprintf(&b, "Style: Typewriter,%s,%d,%s,%s,%s,%s,-1,0,0,0,100,100,0,0,1,%d,0,2,60,60,%d,1\n",
			font, style.FontSize, assWhite, assInvisible, assBlack, assBlack, style.StrokeWidth, marginV)
	default:
		fmt.Fprintf(&b, "Style: Default,%s,%d,%s,%s,%s,%s,-1,0,0,0,100,100,0,0,1,%d,0,2,60,60,%d,1\n",
			font, style.FontSize, assWhite, assWhite, assBlack, assBlack, style.StrokeWidth, marginV)
	}

	banner := style.Template == types.TemplateBanner
	if banner {
		bannerStroke := style.StrokeWidth + 1
		if bannerStroke < 2 {
			bannerStroke = 2
		}
		fmt.Fprintf(&b, "Style: BannerBox,%s,20,%s,%s,%s,%s,0,0,0,0,100,100,0,0,1,0,0,7,0,0,0,1\n",
			font, assBannerBack, assBannerBack, assBlack, assBlack)
		fmt.Fprintf(&b, "Style: BannerPrimary,%s,%d,%s,%s,%s,%s,-1,0,0,0,100,100,0,0,1,%d,0,5,80,80,0,1\n",
			font, bannerFontSize(style.BannerPrimaryFontSize, style.FontSize), assWhite, assWhite, assBlack, assBlack, bannerStroke)
		fmt.Fprintf(&b, "Style: BannerSecondary,%s,%d,%s,%s,%s,%s,-1,0,0,0,100,100,0,0,1,%d,0,5,80,80,0,1\n",
			font, bannerFontSize(style.BannerSecondaryFontSize, style.FontSize), assYellow, assYellow, assBlack, assBlack, bannerStroke)
	}

	fmt.Fprintln(&b, "")
	fmt.Fprintln(&b, "[Events]")
	fmt.Fprintln(&b, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text")

	if banner {
		writeBannerEvents(&b, style, total)
	}

	anchorY := config.VideoHeight - marginV
	for _, caption := range captions {
		text := assEscape(caption.Text)
		if text == "" {
			continue
		}
		duration := math.Max(caption.Duration(), config.MinSegmentDuration)
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,%s,,0,0,0,,%s\n",
			formatASSTimestamp(caption.Start),
			formatASSTimestamp(caption.End),
			captionStyle,
			animatedText(style.Animation, text, duration, anchorY))
	}

	return b.String()
}

// WriteASS writes the document next to nothing in particular; callers pick
// the path and clean it up after the render.
func WriteASS(path string, captions []types.CaptionLine, style types.SubtitleStyle, total float64) error {
	return os.WriteFile(path, []byte(BuildASS(captions, style, total)), 0644)
}

func writeBannerEvents(b *strings.Builder, style types.SubtitleStyle, total float64) {
	bannerHeight := config.BannerHeightRatio * config.VideoHeight
	height := int(bannerHeight)
	end := formatASSTimestamp(total)

	fmt.Fprintf(b, "Dialogue: 0,0:00:00.00,%s,BannerBox,,0,0,0,,{\\p1}m 0 0 l %d 0 %d %d 0 %d{\\p0}\n",
		end, config.VideoWidth, config.VideoWidth, height, height)

	spacing := int(style.BannerLineSpacing)
	primaryY := int(float64(height)*0.35) - spacing/2
	secondaryY := int(float64(height)*0.72) + (spacing+1)/2
	centerX := config.VideoWidth / 2

	if primary := assEscape(style.BannerPrimaryText); primary != "" {
		fmt.Fprintf(b, "Dialogue: 1,0:00:00.00,%s,BannerPrimary,,0,0,0,,{\\pos(%d,%d)}%s\n",
			end, centerX, primaryY, primary)
	}
	if secondary := assEscape(style.BannerSecondaryText); secondary != "" {
		fmt.Fprintf(b, "Dialogue: 1,0:00:00.00,%s,BannerSecondary,,0,0,0,,{\\pos(%d,%d)}%s\n",
			end, centerX, secondaryY, secondary)
	}
}

// animatedText wraps one caption in its animation override tags. Slides ease
// in over 250ms; the bounce is approximated as a scale pop; fire pulses the
// fill between two warm tones; typewriter interleaves karaoke beats with the
// runes so glyphs appear left to right.
func animatedText(animation, text string, duration float64, anchorY int) string {
	centerX := config.VideoWidth / 2
	videoHeight := float64(config.VideoHeight)
	videoWidth := float64(config.VideoWidth)
	offsetY := int(videoHeight * 0.08)
	offsetX := int(videoWidth * 0.12)

	switch animation {
	case "slide_up":
		return fmt.Sprintf("{\\move(%d,%d,%d,%d,0,250)}%s", centerX, anchorY+offsetY, centerX, anchorY, text)
	case "slide_down":
		return fmt.Sprintf("{\\move(%d,%d,%d,%d,0,250)}%s", centerX, anchorY-offsetY, centerX, anchorY, text)
	case "slide_left":
		return fmt.Sprintf("{\\move(%d,%d,%d,%d,0,250)}%s", centerX+offsetX, anchorY, centerX, anchorY, text)
	case "slide_right":
		return fmt.Sprintf("{\\move(%d,%d,%d,%d,0,250)}%s", centerX-offsetX, anchorY, centerX, anchorY, text)
	case "bounce":
		return "{\\t(0,120,\\fscx112\\fscy112)\\t(120,260,\\fscx100\\fscy100)}" + text
	case "typewriter":
		return typewriterText(text, duration)
	case "fire":
		return "{\\c&H19C5FF&\\t(0,400,\\c&H0E63FF&)\\t(400,800,\\c&H19C5FF&)}" + text
	}
	return text
}

func typewriterText(text string, duration float64) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	beat := int(duration * 100 / float64(len(runes)))
	if beat < 1 {
		beat = 1
	}
	var b strings.Builder
	for _, r := range runes {
		fmt.Fprintf(&b, "{\\k%d}%c", beat, r)
	}
	return b.String()
}

func assEscape(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "\\N")
	return strings.TrimSpace(text)
}

func fontName(fontPath string) string {
	if fontPath == "" {
		return "NanumGothic"
	}
	base := filepath.Base(fontPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func bannerFontSize(override, fontSize int) int {
	if override > 0 {
		return override
	}
	size := int(float64(fontSize) * 1.05)
	if size < 48 {
		size = 48
	}
	return size
}

// formatASSTimestamp converts seconds to ASS timestamp format (h:mm:ss.cc)
func formatASSTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := int(seconds) % 60
	centisecs := int((seconds - float64(int(seconds))) * 100)

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centisecs)
}
