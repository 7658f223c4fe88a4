package subtitles

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"shortsmaker/config"
	"shortsmaker/types"
)

// AllocateTimings distributes totalDuration across sentences proportionally
// to character count, with a floor of config.MinCaptionDuration per caption.
// Windows are contiguous: each caption starts where the previous one ends,
// ends are clamped to totalDuration, and the final caption's end is forced
// to exactly totalDuration.
func AllocateTimings(sentences []string, totalDuration float64) []types.CaptionLine {
	if len(sentences) == 0 {
		return nil
	}

	totalChars := 0
	for _, s := range sentences {
		totalChars += utf8.RuneCountInString(s)
	}

	now := time.Now()
	captions := make([]types.CaptionLine, 0, len(sentences))
	cursor := 0.0

	for _, s := range sentences {
		var duration float64
		if totalChars <= 0 {
			duration = totalDuration / float64(len(sentences))
		} else {
			ratio := float64(utf8.RuneCountInString(s)) / float64(totalChars)
			duration = math.Max(totalDuration*ratio, config.MinCaptionDuration)
		}

		end := math.Min(cursor+duration, totalDuration)
		captions = append(captions, types.CaptionLine{
			ID:        uuid.NewString(),
			Start:     cursor,
			End:       end,
			Text:      s,
			CreatedAt: now,
			UpdatedAt: now,
		})
		cursor = end
	}

	captions[len(captions)-1].End = totalDuration
	return captions
}
