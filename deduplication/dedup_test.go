package deduplication

import (
	"context"
	"testing"
	"time"
)

// fakeEmbeddings maps each text to a canned vector.
type fakeEmbeddings struct {
	vectors map[string][]float32
	calls   int
}

func (f *fakeEmbeddings) EmbedTexts(texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := f.vectors[text]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbeddings) ModelName() string { return "fake-embed" }

func newTestDeduplicator(t *testing.T, embeddings EmbeddingsProvider) (*Deduplicator, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	d, err := NewDeduplicator(store, embeddings, Config{})
	if err != nil {
		t.Fatalf("NewDeduplicator failed: %v", err)
	}
	return d, store
}

func TestNewDeduplicatorValidates(t *testing.T) {
	if _, err := NewDeduplicator(nil, &fakeEmbeddings{}, Config{}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewDeduplicator(NewMemoryStore(), nil, Config{}); err == nil {
		t.Fatal("expected error for nil embeddings provider")
	}
}

func TestProcessIndexesFreshTopic(t *testing.T) {
	ctx := context.Background()
	embeddings := &fakeEmbeddings{vectors: map[string][]float32{
		"quantum computers explained": {1, 0, 0},
	}}
	d, store := newTestDeduplicator(t, embeddings)

	result, err := d.Process(ctx, Topic{
		ID:    "t1",
		Title: "Quantum computers",
		URL:   "https://example.com/quantum",
		Text:  "quantum computers explained",
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.IsDuplicate {
		t.Fatal("fresh topic reported as duplicate")
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Fatalf("got %d indexed documents, want 1", count)
	}
	doc, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("indexed topic not found: %v", err)
	}
	if doc.Metadata["title"] != "Quantum computers" {
		t.Fatalf("got title metadata %q, want %q", doc.Metadata["title"], "Quantum computers")
	}
	if _, err := time.Parse(time.RFC3339, doc.Metadata["last_update"]); err != nil {
		t.Fatalf("last_update is not RFC3339: %v", err)
	}
}

func TestProcessFlagsNearDuplicate(t *testing.T) {
	ctx := context.Background()
	embeddings := &fakeEmbeddings{vectors: map[string][]float32{
		"quantum computers explained":     {1, 0, 0},
		"an explainer on quantum leaps":   {0.999, 0.04, 0},
		"sourdough starters for beginner": {0, 1, 0},
	}}
	d, store := newTestDeduplicator(t, embeddings)

	if _, err := d.Process(ctx, Topic{ID: "t1", Text: "quantum computers explained"}); err != nil {
		t.Fatalf("seeding Process failed: %v", err)
	}

	result, err := d.Process(ctx, Topic{ID: "t2", Text: "an explainer on quantum leaps"})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !result.IsDuplicate {
		t.Fatal("near-duplicate topic not flagged")
	}
	if result.MatchingID != "t1" {
		t.Fatalf("got matching id %q, want %q", result.MatchingID, "t1")
	}
	if result.SimilarityScore < SimilarityThreshold {
		t.Fatalf("similarity %v below threshold %v", result.SimilarityScore, SimilarityThreshold)
	}

	// Duplicates are not indexed; the original entry stays alone.
	count, _ := store.Count(ctx)
	if count != 1 {
		t.Fatalf("got %d indexed documents, want 1", count)
	}

	// The match keeps its recency window fresh.
	doc, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	lastUpdate, err := time.Parse(time.RFC3339, doc.Metadata["last_update"])
	if err != nil {
		t.Fatalf("last_update is not RFC3339: %v", err)
	}
	if time.Since(lastUpdate) > time.Minute {
		t.Fatalf("match timestamp was not refreshed: %v", lastUpdate)
	}

	// A distinct topic still passes.
	result, err = d.Process(ctx, Topic{ID: "t3", Text: "sourdough starters for beginner"})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.IsDuplicate {
		t.Fatal("distinct topic reported as duplicate")
	}
	count, _ = store.Count(ctx)
	if count != 2 {
		t.Fatalf("got %d indexed documents, want 2", count)
	}
}

func TestCheckDropsStaleEntries(t *testing.T) {
	ctx := context.Background()
	embeddings := &fakeEmbeddings{vectors: map[string][]float32{
		"yesterday's headline": {1, 0, 0},
	}}
	d, store := newTestDeduplicator(t, embeddings)

	stale := time.Now().UTC().Add(-25 * time.Hour).Format(time.RFC3339)
	if err := store.Add(ctx, Document{
		ID:     "old",
		Vector: []float32{1, 0, 0},
		Metadata: map[string]string{
			"title":       "Yesterday's headline",
			"added_at":    stale,
			"last_update": stale,
		},
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	result, err := d.Check(ctx, Topic{ID: "t1", Text: "yesterday's headline"})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.IsDuplicate {
		t.Fatal("expired entry should not count as a duplicate")
	}
	count, _ := store.Count(ctx)
	if count != 0 {
		t.Fatalf("stale entry was not removed, count %d", count)
	}
}

func TestCheckDropsEntriesWithBadTimestamps(t *testing.T) {
	ctx := context.Background()
	embeddings := &fakeEmbeddings{vectors: map[string][]float32{
		"breaking story": {1, 0, 0},
	}}
	d, store := newTestDeduplicator(t, embeddings)

	if err := store.Add(ctx, Document{
		ID:       "corrupt",
		Vector:   []float32{1, 0, 0},
		Metadata: map[string]string{"last_update": "not-a-timestamp"},
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	result, err := d.Check(ctx, Topic{ID: "t1", Text: "breaking story"})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.IsDuplicate {
		t.Fatal("entry with unparsable timestamp should not count as a duplicate")
	}
	count, _ := store.Count(ctx)
	if count != 0 {
		t.Fatalf("corrupt entry was not removed, count %d", count)
	}
}

func TestCheckSkipsEmptyContent(t *testing.T) {
	ctx := context.Background()
	embeddings := &fakeEmbeddings{vectors: map[string][]float32{}}
	d, _ := newTestDeduplicator(t, embeddings)

	result, err := d.Check(ctx, Topic{ID: "t1"})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.IsDuplicate {
		t.Fatal("empty topic reported as duplicate")
	}
	if embeddings.calls != 0 {
		t.Fatalf("embeddings were called %d times for empty content, want 0", embeddings.calls)
	}
}

func TestAddRequiresContent(t *testing.T) {
	embeddings := &fakeEmbeddings{vectors: map[string][]float32{}}
	d, _ := newTestDeduplicator(t, embeddings)

	if err := d.Add(context.Background(), Topic{ID: "t1"}); err == nil {
		t.Fatal("expected error indexing a topic without content")
	}
}
