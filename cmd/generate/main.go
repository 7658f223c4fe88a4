// Command generate produces one short-form video from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"shortsmaker/common"
	"shortsmaker/config"
	"shortsmaker/generator"
)

func main() {
	topic := flag.String("topic", "", "Short-form video topic (required)")
	style := flag.String("style", config.DefaultStyle, "Tone or niche style for the script")
	duration := flag.Int("duration", config.DefaultDuration, "Target duration in seconds")
	lang := flag.String("lang", config.DefaultLanguage, "Language code (ko/en etc)")
	fps := flag.Int("fps", config.DefaultFPS, "Video frames per second")
	voice := flag.String("voice", config.DefaultVoice, "OpenAI TTS voice name")
	music := flag.Bool("music", true, "Enable background music if available")
	noMusic := flag.Bool("no-music", false, "Disable background music")
	musicVolume := flag.Float64("music-volume", config.DefaultMusicVolume, "Background music base volume (0-1)")
	ducking := flag.Float64("ducking", config.DefaultDucking, "Portion to reduce music loudness under narration")
	saveJSON := flag.Bool("save-json", false, "Save generation metadata as JSON")
	burnSubs := flag.Bool("burn-subs", false, "Render subtitles directly into the video")
	dryRun := flag.Bool("dry-run", false, "Generate script + subtitles only")
	scriptModel := flag.String("script-model", config.DefaultScriptModel, "OpenAI model for script generation")
	ttsModel := flag.String("tts-model", config.DefaultTTSModel, "OpenAI TTS model")
	output := flag.String("output", "", "Custom output filename (without extension)")
	logLevel := flag.String("log-level", "INFO", "Log verbosity (DEBUG, INFO, WARNING, ERROR)")
	flag.Parse()

	_ = godotenv.Load()
	configureLogging(*logLevel)

	if strings.TrimSpace(*topic) == "" {
		fmt.Fprintln(os.Stderr, "generate: --topic is required")
		flag.Usage()
		os.Exit(2)
	}

	llm, err := common.NewOpenAI()
	if err != nil {
		fatalf("Generation failed: %v", err)
	}

	opts := generator.Options{
		Topic:       *topic,
		Style:       *style,
		Duration:    *duration,
		Lang:        *lang,
		FPS:         *fps,
		Voice:       *voice,
		Music:       *music && !*noMusic,
		MusicVolume: *musicVolume,
		Ducking:     *ducking,
		BurnSubs:    *burnSubs,
		DryRun:      *dryRun,
		SaveJSON:    *saveJSON,
		ScriptModel: *scriptModel,
		TTSModel:    *ttsModel,
		OutputName:  *output,
	}

	gen := generator.New(llm.WithModels(*scriptModel, *ttsModel))
	result, err := gen.Generate(context.Background(), opts)
	if err != nil {
		fatalf("Generation failed: %v", err)
	}

	if result.VideoPath != "" {
		log.Printf("Done: %s", result.VideoPath)
	} else {
		log.Printf("Done: %s", result.ScriptPath)
	}
}

// configureLogging silences the pipeline's progress logs above INFO. Errors
// still reach stderr through fatalf.
func configureLogging(level string) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "WARNING", "ERROR":
		log.SetOutput(io.Discard)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
