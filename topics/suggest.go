package topics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"

	"shortsmaker/deduplication"
)

const (
	extractWorkers   = 5
	extractorTimeout = 30 * time.Second
)

// Suggestion is one candidate topic for the generate form.
type Suggestion struct {
	ID              string    `json:"id"`
	Topic           string    `json:"topic"`
	URL             string    `json:"url"`
	Source          string    `json:"source"`
	Summary         string    `json:"summary,omitempty"`
	FullText        string    `json:"-"`
	PublishedAt     time.Time `json:"published_at,omitempty"`
	FetchedAt       time.Time `json:"fetched_at"`
	ImageURL        string    `json:"image_url,omitempty"`
	ExtractionError string    `json:"extraction_error,omitempty"`
}

// text returns the fullest text available for similarity checks.
func (s *Suggestion) text() string {
	if s.FullText != "" {
		return s.FullText
	}
	if s.Summary != "" {
		return s.Summary
	}
	return s.Topic
}

// Deduper filters suggestions that were already made into shorts.
type Deduper interface {
	Process(ctx context.Context, topic deduplication.Topic) (*deduplication.Result, error)
}

// Service turns feed entries into deduplicated topic suggestions.
type Service struct {
	Parse   func(url string, ctx context.Context) (*gofeed.Feed, error)
	Extract func(s *Suggestion) error
	Dedup   Deduper
}

// NewService wires a stock gofeed parser and readability extractor. Dedup
// stays nil unless the caller attaches one.
func NewService() *Service {
	parser := gofeed.NewParser()
	return &Service{
		Parse:   parser.ParseURLWithContext,
		Extract: extractReadable,
	}
}

// Suggest fetches up to count entries from the feed (preset key or URL),
// extracts readable article text, and drops topics already seen.
func (s *Service) Suggest(ctx context.Context, feedInput string, count int) ([]*Suggestion, error) {
	if feedInput == "" {
		feedInput = DefaultFeedPreset
	}
	if count <= 0 {
		count = DefaultCount
	}
	cfg := ResolveFeed(feedInput)

	feed, err := s.Parse(cfg.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", cfg.URL, err)
	}

	suggestions := itemsToSuggestions(feed, cfg.Name, count)
	log.Printf("Fetched %d items from %s", len(suggestions), cfg.Name)
	s.extractAll(suggestions)

	if s.Dedup == nil {
		return suggestions, nil
	}

	fresh := make([]*Suggestion, 0, len(suggestions))
	for _, sug := range suggestions {
		result, err := s.Dedup.Process(ctx, deduplication.Topic{
			ID:    sug.ID,
			Title: sug.Topic,
			URL:   sug.URL,
			Text:  sug.text(),
		})
		if err != nil {
			log.Printf("Warning: dedup check failed for %s: %v", sug.URL, err)
			fresh = append(fresh, sug)
			continue
		}
		if result.IsDuplicate {
			log.Printf("Skipping duplicate topic: %s", sug.Topic)
			continue
		}
		fresh = append(fresh, sug)
	}
	return fresh, nil
}

// itemsToSuggestions maps the first count feed items onto suggestions.
func itemsToSuggestions(feed *gofeed.Feed, source string, count int) []*Suggestion {
	if count > len(feed.Items) {
		count = len(feed.Items)
	}

	now := time.Now().UTC()
	suggestions := make([]*Suggestion, 0, count)
	for _, item := range feed.Items[:count] {
		id := item.GUID
		if id == "" && item.Link != "" {
			id = hashID(item.Link)
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		sug := &Suggestion{
			ID:          id,
			Topic:       item.Title,
			URL:         item.Link,
			Source:      source,
			Summary:     summary,
			PublishedAt: published,
			FetchedAt:   now,
		}
		if item.Image != nil {
			sug.ImageURL = item.Image.URL
		}
		suggestions = append(suggestions, sug)
	}
	return suggestions
}

// hashID derives a short stable id from the item link.
func hashID(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:16]
}

// extractAll fills FullText through a bounded worker pool. Extraction
// failures are recorded on the suggestion, not fatal.
func (s *Service) extractAll(suggestions []*Suggestion) {
	var wg sync.WaitGroup
	queue := make(chan *Suggestion, len(suggestions))

	for i := 0; i < extractWorkers; i++ {
		go func() {
			for sug := range queue {
				if err := s.Extract(sug); err != nil {
					sug.ExtractionError = err.Error()
					log.Printf("Failed to extract %s: %v", sug.URL, err)
				}
				wg.Done()
			}
		}()
	}

	for _, sug := range suggestions {
		wg.Add(1)
		queue <- sug
	}
	wg.Wait()
	close(queue)
}

// extractReadable pulls the article body so dedup embeds real content, not
// just the headline.
func extractReadable(sug *Suggestion) error {
	if sug.URL == "" {
		return errors.New("suggestion has no URL")
	}

	article, err := readability.FromURL(sug.URL, extractorTimeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	sug.FullText = article.TextContent
	if sug.Summary == "" {
		sug.Summary = article.Excerpt
	}
	if sug.ImageURL == "" {
		sug.ImageURL = article.Image
	}
	return nil
}
