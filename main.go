package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"shortsmaker/api"
	"shortsmaker/archive"
	"shortsmaker/common"
	"shortsmaker/config"
	"shortsmaker/deduplication"
	"shortsmaker/generator"
	"shortsmaker/jobs"
	"shortsmaker/kafka"
	"shortsmaker/media"
	"shortsmaker/projects"
	"shortsmaker/repository"
	"shortsmaker/topics"
	"shortsmaker/translator"
	"shortsmaker/youtube"
)

const (
	// DefaultAPIPort is the default port for the HTTP API server
	DefaultAPIPort = ":8082"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	// Command-line flags
	batchFile := flag.String("batch", "", "Generate one short per topic line in the given file, then exit")
	kafkaMode := flag.Bool("kafka", false, "Run in Kafka consumer mode (consume generation requests)")
	apiPort := flag.String("port", DefaultAPIPort, "API server port (e.g., :8082)")
	flag.Parse()

	log.Println("🎬 AI Shorts Maker - Starting...")

	llm, err := common.NewOpenAI()
	if err != nil {
		log.Fatalf("❌ Failed to initialize OpenAI client: %v", err)
	}

	ctx := context.Background()

	gen := generator.New(llm)
	if archiver, archiveErr := archive.NewArchiverFromEnv(ctx); archiveErr != nil {
		log.Printf("Warning: S3 archiving disabled: %v", archiveErr)
	} else {
		gen.Archiver = archiver
	}
	gen.Uploader = youtube.NewFromEnv(ctx)

	if *batchFile != "" {
		// Batch mode: one generation per topic line, then exit
		log.Println("📁 Running in BATCH mode")
		batch, err := readBatchTopics(*batchFile)
		if err != nil {
			log.Fatalf("❌ Failed to read batch file: %v", err)
		}
		log.Printf("Generating %d shorts from %s", len(batch), *batchFile)

		failures := 0
		for _, res := range gen.GenerateBatch(ctx, batch) {
			if res.Err != nil {
				failures++
			}
		}
		log.Printf("Batch finished: %d/%d succeeded", len(batch)-failures, len(batch))
		if failures > 0 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *kafkaMode {
		// Kafka mode: Consume generation requests from Kafka topic
		log.Println("📨 Running in KAFKA consumer mode")

		intakeConfig := kafka.IntakeConfig{
			Brokers:   kafka.Brokers(),
			Topic:     kafka.Topic(),
			GroupID:   kafka.GroupID(),
			Generator: gen,
			Runner:    jobs.NewRunner(),
		}

		log.Printf("🔗 Kafka Brokers: %v", intakeConfig.Brokers)
		log.Printf("📋 Topic: %s", intakeConfig.Topic)
		log.Printf("👥 Consumer Group: %s", intakeConfig.GroupID)

		if err := kafka.StartIntakeWithGracefulShutdown(intakeConfig); err != nil {
			log.Fatalf("❌ Kafka consumer failed: %v", err)
		}
		os.Exit(0)
	}

	// API mode: Start HTTP server
	log.Println("🌐 Running in API mode")

	store := repository.NewStore(config.OutputDir)
	library := media.NewLibrary(config.OutputDir, config.AssetsDir)

	topicsService := topics.NewService()
	if dedup := deduplication.NewFromEnv(); dedup != nil {
		topicsService.Dedup = dedup
		log.Println("🔍 Topic deduplication enabled")
	}

	server := &api.Server{
		Store:      store,
		Projects:   projects.NewService(store, library),
		Generator:  gen,
		Translator: translator.NewService(translator.NewStore(filepath.Join(config.OutputDir, config.TranslatorDir)), llm),
		Topics:     topicsService,
		Runner:     jobs.NewRunner(),
	}
	router := server.NewRouter()

	log.Printf("🚀 API Server listening on %s", *apiPort)
	log.Println("📌 Endpoints:")
	log.Println("   GET   /api/health")
	log.Println("   GET   /api/projects")
	log.Println("   POST  /api/generate")
	log.Println("   GET   /api/jobs/status")
	log.Println("   GET   /api/dashboard")
	log.Println("   GET   /api/topics/suggest")
	log.Println("   POST  /api/translator")

	if err := router.Run(*apiPort); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// readBatchTopics builds one generation per non-empty line. Lines starting
// with # are comments. Every batch run saves metadata so the results stay
// editable through the API.
func readBatchTopics(path string) ([]generator.Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var batch []generator.Options
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		batch = append(batch, generator.Options{Topic: line, SaveJSON: true})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("no topics found in %s", path)
	}
	return batch, nil
}
