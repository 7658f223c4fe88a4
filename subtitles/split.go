package subtitles

import (
	"strings"
	"unicode"
)

// SplitSentences breaks narration text into caption-sized sentences.
// A boundary is any whitespace run that follows '.', '!' or '?', or any
// whitespace run containing a newline. Other whitespace stays inside the
// sentence. Empty pieces are dropped.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]
		if !unicode.IsSpace(r) {
			current.WriteRune(r)
			i++
			continue
		}

		j := i
		hasNewline := false
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			if runes[j] == '\n' || runes[j] == '\r' {
				hasNewline = true
			}
			j++
		}

		if hasNewline || (i > 0 && isSentenceEnd(runes[i-1])) {
			flush()
		} else {
			current.WriteString(string(runes[i:j]))
		}
		i = j
	}
	flush()

	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
