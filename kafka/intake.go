package kafka

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"shortsmaker/config"
	"shortsmaker/generator"
	"shortsmaker/jobs"
)

// GenerationRequest is one queued shorts-generation job.
type GenerationRequest = generator.Request

// IntakeConfig wires the consumer to the generation pipeline.
type IntakeConfig struct {
	Brokers   []string
	Topic     string
	GroupID   string
	Generator *generator.Generator
	Runner    *jobs.Runner
}

// NewIntakeConsumer builds a consumer that runs each valid request through
// the single-slot runner. Requests arriving while a job holds the slot are
// left unmarked so they come back after the slot frees.
func NewIntakeConsumer(cfg IntakeConfig) (*Consumer, error) {
	return NewConsumer(ConsumerConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
		Handler: newIntakeHandler(cfg.Runner, cfg.Generator.Generate),
	})
}

func newIntakeHandler(runner *jobs.Runner, generate func(ctx context.Context, opts generator.Options) (*generator.Result, error)) *TypedMessageHandler[GenerationRequest] {
	return &TypedMessageHandler[GenerationRequest]{
		Validate: func(msg *GenerationRequest) bool {
			if strings.TrimSpace(msg.Topic) == "" {
				log.Printf("Skipping generation request without a topic")
				return false
			}
			return true
		},
		Process: func(ctx context.Context, msg *GenerationRequest) error {
			job, err := runner.Begin("generate", msg.Topic)
			if err != nil {
				log.Printf("Generator busy, leaving request %q for retry", msg.Topic)
				return err
			}

			job.Logf("Generating short for topic: %s", msg.Topic)
			result, genErr := generate(ctx, msg.Options())
			if genErr != nil {
				job.Finish(nil, genErr)
				return genErr
			}
			job.Finish(map[string]string{
				"base_name":  result.BaseName,
				"video_path": result.VideoPath,
			}, nil)
			return nil
		},
		// Junk messages are marked and skipped; busy and failed runs retry.
		AlwaysMark: true,
	}
}

// StartIntakeWithGracefulShutdown consumes until SIGINT/SIGTERM, then gives
// in-flight work a moment before closing the group.
func StartIntakeWithGracefulShutdown(cfg IntakeConfig) error {
	consumer, err := NewIntakeConsumer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return err
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigterm:
		log.Println("Received termination signal")
	case <-ctx.Done():
		log.Println("Context canceled")
	}

	cancel()
	time.Sleep(2 * time.Second)

	return consumer.Close()
}

// Brokers reads the broker list from KAFKA_BOOTSTRAP_SERVERS.
func Brokers() []string {
	return strings.Split(config.GetEnvOrDefault("KAFKA_BOOTSTRAP_SERVERS", "localhost:9093"), ",")
}

// Topic reads the request topic from KAFKA_TOPIC_GENERATION_REQUESTS.
func Topic() string {
	return config.GetEnvOrDefault("KAFKA_TOPIC_GENERATION_REQUESTS", "shorts-generation-requests")
}

// GroupID reads the consumer group from KAFKA_CONSUMER_GROUP_ID.
func GroupID() string {
	return config.GetEnvOrDefault("KAFKA_CONSUMER_GROUP_ID", "shortsmaker-consumer-group")
}
