package subtitles

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"shortsmaker/types"
)

// ParseSubtitleFile reads captions from any sidecar format the downloader
// produces: SRT, WebVTT, ASS/SSA and YouTube's json3 timedtext.
func ParseSubtitleFile(path string) ([]types.CaptionLine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subtitle file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ass", ".ssa":
		return parseASS(string(raw)), nil
	case ".json":
		return parseJSONCaptions(raw), nil
	default:
		// The SRT scanner tolerates WebVTT headers and cue settings.
		return ParseSRT(string(raw)), nil
	}
}

var assOverrideTags = regexp.MustCompile(`\{[^}]*\}`)

// parseASS reads Dialogue event lines. Field order follows the standard
// Format line: the text is everything after the ninth comma.
func parseASS(content string) []types.CaptionLine {
	now := time.Now()
	var captions []types.CaptionLine

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Dialogue:") {
			continue
		}
		fields := strings.SplitN(strings.TrimPrefix(line, "Dialogue:"), ",", 10)
		if len(fields) < 10 {
			continue
		}

		start, err := ParseTimestamp(fields[1])
		if err != nil {
			continue
		}
		end, err := ParseTimestamp(fields[2])
		if err != nil {
			continue
		}

		text := assOverrideTags.ReplaceAllString(fields[9], "")
		text = strings.ReplaceAll(text, `\N`, " ")
		text = strings.ReplaceAll(text, `\n`, " ")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		captions = append(captions, types.CaptionLine{
			ID:        uuid.NewString(),
			Start:     start,
			End:       end,
			Text:      text,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return captions
}

// parseJSONCaptions accepts YouTube's json3 timedtext events and, as a
// fallback, a plain array of {start, end, text} objects.
func parseJSONCaptions(raw []byte) []types.CaptionLine {
	now := time.Now()
	var captions []types.CaptionLine

	appendCaption := func(start, end float64, text string) {
		text = strings.Join(strings.Fields(text), " ")
		if text == "" || end <= start {
			return
		}
		captions = append(captions, types.CaptionLine{
			ID:        uuid.NewString(),
			Start:     start,
			End:       end,
			Text:      text,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if events := gjson.GetBytes(raw, "events"); events.Exists() {
		events.ForEach(func(_, event gjson.Result) bool {
			var text strings.Builder
			event.Get("segs").ForEach(func(_, seg gjson.Result) bool {
				text.WriteString(seg.Get("utf8").String())
				return true
			})
			start := event.Get("tStartMs").Float() / 1000
			end := start + event.Get("dDurationMs").Float()/1000
			appendCaption(start, end, text.String())
			return true
		})
		return captions
	}

	if parsed := gjson.ParseBytes(raw); parsed.IsArray() {
		parsed.ForEach(func(_, item gjson.Result) bool {
			appendCaption(item.Get("start").Float(), item.Get("end").Float(), item.Get("text").String())
			return true
		})
	}
	return captions
}
