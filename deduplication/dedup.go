// Package deduplication filters out topics that were already made into
// shorts, pairing a probabilistic exact-match filter with embedding
// similarity over a recency window.
package deduplication

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"
)

const (
	SimilarityThreshold float32 = 0.95
	MaxSearchResults            = 5
	TTL                         = 24 * time.Hour
)

// Topic is the unit of deduplication: one candidate short subject.
type Topic struct {
	ID    string
	Title string
	URL   string
	Text  string
}

// text returns the fullest content available for embedding.
func (t Topic) text() string {
	if t.Text != "" {
		return t.Text
	}
	return t.Title
}

// Result reports one dedup check.
type Result struct {
	IsDuplicate     bool      `json:"is_duplicate"`
	MatchingID      string    `json:"matching_id,omitempty"`
	SimilarityScore float32   `json:"similarity_score,omitempty"`
	CheckedAt       time.Time `json:"checked_at"`
}

// Document is one embedded topic in the vector index.
type Document struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Match is one similarity hit.
type Match struct {
	ID         string
	Similarity float32
	Metadata   map[string]string
}

// VectorStore is the minimal vector index the deduplicator needs.
type VectorStore interface {
	Add(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (*Document, error)
	Update(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, vector []float32, n int) ([]Match, error)
	Count(ctx context.Context) (int, error)
}

// Config tunes the deduplicator. Zero values fall back to the defaults.
type Config struct {
	SimilarityThreshold float32
	MaxSearchResults    int
	TTL                 time.Duration
	Bloom               *RedisBloom
}

// Deduplicator answers "has this topic been covered in the last day".
type Deduplicator struct {
	store      VectorStore
	embeddings EmbeddingsProvider
	bloom      *RedisBloom
	threshold  float32
	maxResults int
	ttl        time.Duration
}

// NewDeduplicator builds a deduplicator over store and embeddings.
func NewDeduplicator(store VectorStore, embeddings EmbeddingsProvider, cfg Config) (*Deduplicator, error) {
	if store == nil {
		return nil, fmt.Errorf("vector store cannot be nil")
	}
	if embeddings == nil {
		return nil, fmt.Errorf("embeddings provider cannot be nil")
	}
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = SimilarityThreshold
	}
	if cfg.MaxSearchResults == 0 {
		cfg.MaxSearchResults = MaxSearchResults
	}
	if cfg.TTL == 0 {
		cfg.TTL = TTL
	}
	return &Deduplicator{
		store:      store,
		embeddings: embeddings,
		bloom:      cfg.Bloom,
		threshold:  cfg.SimilarityThreshold,
		maxResults: cfg.MaxSearchResults,
		ttl:        cfg.TTL,
	}, nil
}

// NewFromEnv wires the in-memory index with the env-selected embeddings
// provider and, when REDIS_ADDR is set, the bloom fast path. Returns nil
// when no embeddings provider is configured.
func NewFromEnv() *Deduplicator {
	provider := NewDefaultEmbeddingsProvider("")
	if provider == nil {
		return nil
	}

	cfg := Config{}
	if os.Getenv("REDIS_ADDR") != "" {
		bloom, err := NewRedisBloom(DefaultBloomConfig())
		if err != nil {
			log.Printf("Warning: bloom filter disabled: %v", err)
		} else {
			cfg.Bloom = bloom
		}
	}

	d, err := NewDeduplicator(NewMemoryStore(), provider, cfg)
	if err != nil {
		return nil
	}
	return d
}

// Check reports whether topic duplicates something indexed within the TTL
// window. Stale or broken index entries encountered along the way are
// dropped.
func (d *Deduplicator) Check(ctx context.Context, topic Topic) (*Result, error) {
	checkedAt := time.Now()

	if d.bloom != nil {
		exists, err := d.bloom.Exists(NormalizeAndHash(topic.URL, topic.Title))
		if err != nil {
			log.Printf("Warning: bloom check failed: %v", err)
		} else if exists {
			return &Result{IsDuplicate: true, CheckedAt: checkedAt}, nil
		}
	}

	content := topic.text()
	if content == "" {
		log.Printf("Warning: no content to check for topic %s", topic.ID)
		return &Result{CheckedAt: checkedAt}, nil
	}

	vectors, err := d.embeddings.EmbedTexts([]string{content})
	if err != nil {
		return nil, fmt.Errorf("embed topic: %w", err)
	}
	matches, err := d.store.Query(ctx, vectors[0], d.maxResults)
	if err != nil {
		return nil, fmt.Errorf("query similar topics: %w", err)
	}

	cutoff := checkedAt.Add(-d.ttl)
	var best *Result
	for _, match := range matches {
		if match.Similarity < d.threshold {
			continue
		}
		lastUpdate, err := time.Parse(time.RFC3339, match.Metadata["last_update"])
		if err != nil {
			log.Printf("Warning: dropping candidate %s with bad timestamp: %v", match.ID, err)
			d.deleteWithLog(ctx, match.ID, "invalid TTL metadata")
			continue
		}
		if lastUpdate.Before(cutoff) {
			d.deleteWithLog(ctx, match.ID, "exceeded TTL")
			continue
		}
		if best == nil || match.Similarity > best.SimilarityScore {
			best = &Result{
				IsDuplicate:     true,
				MatchingID:      match.ID,
				SimilarityScore: match.Similarity,
				CheckedAt:       checkedAt,
			}
		}
	}

	if best != nil {
		if err := d.touch(ctx, best.MatchingID); err != nil {
			log.Printf("Warning: failed to refresh %s: %v", best.MatchingID, err)
		}
		log.Printf("Topic %s matches %s at %.2f%% similarity",
			topic.ID, best.MatchingID, best.SimilarityScore*100)
		return best, nil
	}
	return &Result{CheckedAt: checkedAt}, nil
}

// Add indexes topic so later checks can match it.
func (d *Deduplicator) Add(ctx context.Context, topic Topic) error {
	content := topic.text()
	if content == "" {
		return fmt.Errorf("no content to embed for topic %s", topic.ID)
	}
	vectors, err := d.embeddings.EmbedTexts([]string{content})
	if err != nil {
		return fmt.Errorf("embed topic: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	doc := Document{
		ID:     topic.ID,
		Vector: vectors[0],
		Metadata: map[string]string{
			"title":       topic.Title,
			"url":         topic.URL,
			"added_at":    now,
			"last_update": now,
		},
	}
	if err := d.store.Add(ctx, doc); err != nil {
		return fmt.Errorf("index topic: %w", err)
	}

	if d.bloom != nil {
		if err := d.bloom.Add(NormalizeAndHash(topic.URL, topic.Title)); err != nil {
			log.Printf("Warning: failed to add topic to bloom filter: %v", err)
		}
	}
	return nil
}

// Process checks topic and indexes it when fresh.
func (d *Deduplicator) Process(ctx context.Context, topic Topic) (*Result, error) {
	result, err := d.Check(ctx, topic)
	if err != nil {
		return nil, err
	}
	if !result.IsDuplicate {
		if err := d.Add(ctx, topic); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Close releases the bloom connection, if any.
func (d *Deduplicator) Close() error {
	if d.bloom != nil {
		return d.bloom.Close()
	}
	return nil
}

// touch refreshes the match's recency window.
func (d *Deduplicator) touch(ctx context.Context, id string) error {
	doc, err := d.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]string{}
	}
	doc.Metadata["last_update"] = time.Now().UTC().Format(time.RFC3339)
	return d.store.Update(ctx, *doc)
}

func (d *Deduplicator) deleteWithLog(ctx context.Context, id, reason string) {
	if err := d.store.Delete(ctx, id); err != nil {
		log.Printf("Warning: failed to delete %s (%s): %v", id, reason, err)
		return
	}
	log.Printf("Deleted indexed topic %s (%s)", id, reason)
}
