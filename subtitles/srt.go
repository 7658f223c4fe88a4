package subtitles

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"shortsmaker/types"
)

// FormatTimestamp renders seconds as an SRT timestamp (HH:MM:SS,mmm).
func FormatTimestamp(seconds float64) string {
	millis := int(math.Round(seconds * 1000))
	if millis < 0 {
		millis = 0
	}
	hours := millis / 3_600_000
	millis %= 3_600_000
	minutes := millis / 60_000
	millis %= 60_000
	secs := millis / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
}

// BuildSRT renders numbered SRT blocks for the captions.
func BuildSRT(captions []types.CaptionLine) string {
	blocks := make([]string, 0, len(captions))
	for i, c := range captions {
		blocks = append(blocks, fmt.Sprintf("%d\n%s --> %s\n%s\n",
			i+1, FormatTimestamp(c.Start), FormatTimestamp(c.End), strings.TrimSpace(c.Text)))
	}
	return strings.Join(blocks, "\n")
}

// WriteSRT regenerates the whole sidecar file from captions.
func WriteSRT(path string, captions []types.CaptionLine) error {
	return os.WriteFile(path, []byte(BuildSRT(captions)), 0644)
}

// ParseSRT reads cue blocks leniently: the index line is optional, both ','
// and '.' millisecond separators are accepted, and cue settings after the
// end timestamp are ignored (tolerates WebVTT-style files). Multi-line cue
// text is joined with a space.
func ParseSRT(content string) []types.CaptionLine {
	now := time.Now()
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var captions []types.CaptionLine
	for _, block := range strings.Split(content, "\n\n") {
		lines := make([]string, 0, 4)
		for _, line := range strings.Split(block, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}

		timingIdx := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timingIdx = i
				break
			}
		}
		if timingIdx == -1 || timingIdx+1 > len(lines) {
			continue
		}

		start, end, err := parseTimingLine(lines[timingIdx])
		if err != nil {
			continue
		}

		text := strings.Join(lines[timingIdx+1:], " ")
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

func parseTimingLine(line string) (float64, float64, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("no arrow in timing line %q", line)
	}

	start, err := ParseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}

	endFields := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("missing end timestamp in %q", line)
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseTimestamp accepts HH:MM:SS,mmm, HH:MM:SS.mmm and MM:SS.mmm forms.
func ParseTimestamp(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	parts := strings.Split(s, ":")

	var hours, minutes int
	var secs float64
	var err error

	switch len(parts) {
	case 3:
		if hours, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("bad hours in %q: %w", s, err)
		}
		if minutes, err = strconv.Atoi(parts[1]); err != nil {
			return 0, fmt.Errorf("bad minutes in %q: %w", s, err)
		}
		if secs, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return 0, fmt.Errorf("bad seconds in %q: %w", s, err)
		}
	case 2:
		if minutes, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("bad minutes in %q: %w", s, err)
		}
		if secs, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return 0, fmt.Errorf("bad seconds in %q: %w", s, err)
		}
	default:
		return 0, fmt.Errorf("unsupported timestamp %q", s)
	}

	return float64(hours)*3600 + float64(minutes)*60 + secs, nil
}
