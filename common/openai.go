package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"shortsmaker/config"
)

// OpenAI wraps the SDK behind the three calls the pipelines make: script
// generation, translation and narration synthesis.
type OpenAI struct {
	client      openai.Client
	scriptModel string
	ttsModel    string
}

// NewOpenAI reads OPENAI_API_KEY (and optional OPENAI_BASE_URL) and returns
// a ready client. Model names come from SCRIPT_MODEL/TTS_MODEL overrides.
func NewOpenAI() (*OpenAI, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY is not set. Export it or add it to a .env file")
	}

	opts := []option.RequestOption{option.WithAPIKey(key)}
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}

	return &OpenAI{
		client:      openai.NewClient(opts...),
		scriptModel: config.GetEnvOrDefault("SCRIPT_MODEL", config.DefaultScriptModel),
		ttsModel:    config.GetEnvOrDefault("TTS_MODEL", config.DefaultTTSModel),
	}, nil
}

// WithModels returns a copy using the given model names where they are
// non-empty.
func (o *OpenAI) WithModels(scriptModel, ttsModel string) *OpenAI {
	clone := *o
	if scriptModel != "" {
		clone.scriptModel = scriptModel
	}
	if ttsModel != "" {
		clone.ttsModel = ttsModel
	}
	return &clone
}

// GenerateScript asks the chat model for a short-form video script.
func (o *OpenAI) GenerateScript(ctx context.Context, prompt string, temperature float64) (string, error) {
	return o.complete(ctx, "You write concise, high-conversion short video scripts.", prompt, temperature)
}

// LanguageName maps a language code onto the name the prompts use. Unknown
// codes pass through unchanged.
func LanguageName(code string) string {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "ko":
		return "한국어"
	case "en":
		return "English"
	case "ja":
		return "日本語"
	default:
		return code
	}
}

// TranslateText rewrites text into targetLang. mode picks how far from a
// literal translation the model may drift; tone and hint are optional
// steering lines.
func (o *OpenAI) TranslateText(ctx context.Context, text, targetLang, mode, tone, hint string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following narration into %s.\n", LanguageName(targetLang))
	switch mode {
	case "literal":
		b.WriteString("Stay as close to the original wording as the target language allows.\n")
	case "reinterpret":
		b.WriteString("Reinterpret the message freely so it lands naturally with native viewers; keep the meaning, not the phrasing.\n")
	default:
		b.WriteString("Adapt the phrasing so it sounds natural when spoken aloud, keeping the original meaning.\n")
	}
	if tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", tone)
	}
	if hint != "" {
		fmt.Fprintf(&b, "Additional guidance: %s\n", hint)
	}
	b.WriteString("Return only the translated text, without commentary.\n\n")
	b.WriteString(text)

	return o.complete(ctx, "You translate short video narration for dubbing.", b.String(), 0.3)
}

func (o *OpenAI) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       openai.ChatModel(o.scriptModel),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("chat completion returned empty content")
	}
	return content, nil
}

// SynthesizeVoice narrates text with the TTS model and writes an MP3 to
// outputPath, creating parent directories as needed.
func (o *OpenAI) SynthesizeVoice(ctx context.Context, text, voice, outputPath string) error {
	if voice == "" {
		voice = config.DefaultVoice
	}

	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(o.ttsModel),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write narration: %w", err)
	}
	return nil
}
