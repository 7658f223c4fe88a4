package deduplication

import (
	"context"
	"math"
	"testing"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Add(ctx, Document{Vector: []float32{1}}); err == nil {
		t.Fatal("expected error for document without id")
	}

	doc := Document{
		ID:       "a",
		Vector:   []float32{1, 0, 0},
		Metadata: map[string]string{"title": "first"},
	}
	if err := store.Add(ctx, doc); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Metadata["title"] != "first" {
		t.Fatalf("got title %q, want %q", got.Metadata["title"], "first")
	}

	// Mutating the returned copy must not leak into the store.
	got.Metadata["title"] = "mutated"
	again, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.Metadata["title"] != "first" {
		t.Fatalf("stored document was mutated through Get result: %q", again.Metadata["title"])
	}

	if _, err := store.Get(ctx, "missing"); err == nil {
		t.Fatal("expected error for missing document")
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("got count %d, want 1", count)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete of missing document should be a no-op, got %v", err)
	}
	count, _ = store.Count(ctx)
	if count != 0 {
		t.Fatalf("got count %d after delete, want 0", count)
	}
}

func TestMemoryStoreUpdateKeepsVector(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Update(ctx, Document{ID: "ghost"}); err == nil {
		t.Fatal("expected error updating a missing document")
	}

	if err := store.Add(ctx, Document{
		ID:       "a",
		Vector:   []float32{0.5, 0.5},
		Metadata: map[string]string{"last_update": "old"},
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Metadata-only update: empty vector keeps the stored one.
	if err := store.Update(ctx, Document{
		ID:       "a",
		Metadata: map[string]string{"last_update": "new"},
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Metadata["last_update"] != "new" {
		t.Fatalf("got last_update %q, want %q", got.Metadata["last_update"], "new")
	}
	if len(got.Vector) != 2 || got.Vector[0] != 0.5 {
		t.Fatalf("vector was not preserved: %v", got.Vector)
	}
}

func TestMemoryStoreQuery(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	docs := []Document{
		{ID: "exact", Vector: []float32{1, 0, 0}},
		{ID: "near", Vector: []float32{0.9, 0.1, 0}},
		{ID: "far", Vector: []float32{0, 1, 0}},
	}
	for _, doc := range docs {
		if err := store.Add(ctx, doc); err != nil {
			t.Fatalf("Add %s failed: %v", doc.ID, err)
		}
	}

	matches, err := store.Query(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != "exact" || matches[1].ID != "near" {
		t.Fatalf("got order [%s %s], want [exact near]", matches[0].ID, matches[1].ID)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Fatalf("matches not sorted by similarity: %v", matches)
	}

	matches, err = store.Query(ctx, []float32{1, 0, 0}, 0)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if matches != nil {
		t.Fatalf("expected no matches for n=0, got %v", matches)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty", nil, nil, 0},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
