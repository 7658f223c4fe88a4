package generator

import (
	"fmt"

	"shortsmaker/common"
)

const scriptTemperature = 0.8

// BuildScriptPrompt renders the instruction used to generate a short-form
// video script.
func BuildScriptPrompt(topic, style, lang string, duration int) string {
	return fmt.Sprintf(`Create a %d-second short-form video script in %s.
Topic: %s
Tone or style: %s

Requirements:
- Use an engaging hook in the first sentence.
- Keep the total script length suitable for a voice-over of about %d seconds.
- Split the script into concise sentences separated by newline characters.
- Return only the script, without additional commentary.`,
		duration, common.LanguageName(lang), topic, style, duration)
}
