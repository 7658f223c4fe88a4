// Command enqueue publishes generation requests to the Kafka intake topic.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"shortsmaker/generator"
	"shortsmaker/kafka"
)

func main() {
	_ = godotenv.Load()

	topic := flag.String("topic", "", "Video topic to enqueue")
	file := flag.String("file", "", "File with one topic per line (# comments allowed)")
	style := flag.String("style", "", "Tone or niche style override")
	lang := flag.String("lang", "", "Language code override")
	voice := flag.String("voice", "", "TTS voice override")
	burnSubs := flag.Bool("burn-subs", false, "Render subtitles into the video")
	flag.Parse()

	topicList := collectTopics(*topic, *file, flag.Args())
	if len(topicList) == 0 {
		fmt.Fprintln(os.Stderr, "enqueue: provide --topic, --file or positional topics")
		flag.Usage()
		os.Exit(2)
	}

	producer, err := kafka.NewProducer(kafka.Brokers(), kafka.Topic())
	if err != nil {
		log.Fatalf("❌ Failed to connect producer: %v", err)
	}
	defer producer.Close()

	for _, text := range topicList {
		req := generator.Request{
			Topic:    text,
			Style:    *style,
			Lang:     *lang,
			Voice:    *voice,
			BurnSubs: *burnSubs,
			SaveJSON: true,
		}
		partition, offset, err := producer.Enqueue(req)
		if err != nil {
			log.Fatalf("❌ Enqueue %q failed: %v", text, err)
		}
		log.Printf("📨 Queued %q (partition %d, offset %d)", text, partition, offset)
	}
}

// collectTopics merges the --topic flag, positional arguments and the
// optional topics file, in that order.
func collectTopics(topic, file string, args []string) []string {
	var topicList []string
	if text := strings.TrimSpace(topic); text != "" {
		topicList = append(topicList, text)
	}
	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			topicList = append(topicList, arg)
		}
	}
	if file == "" {
		return topicList
	}

	f, err := os.Open(file)
	if err != nil {
		log.Fatalf("❌ Failed to open %s: %v", file, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		topicList = append(topicList, line)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("❌ Failed to read %s: %v", file, err)
	}
	return topicList
}
