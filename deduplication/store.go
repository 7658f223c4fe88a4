package deduplication

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process vector index. It serves a single instance;
// the VectorStore interface leaves room for an external index later.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryStore returns an empty index.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

func (m *MemoryStore) Add(_ context.Context, doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = cloneDocument(doc)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s not found", id)
	}
	clone := cloneDocument(doc)
	return &clone, nil
}

// Update replaces the stored document, keeping the old vector when the new
// one is empty so metadata-only refreshes stay cheap.
func (m *MemoryStore) Update(_ context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.docs[doc.ID]
	if !ok {
		return fmt.Errorf("document %s not found", doc.ID)
	}
	if len(doc.Vector) == 0 {
		doc.Vector = existing.Vector
	}
	m.docs[doc.ID] = cloneDocument(doc)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs), nil
}

// Query returns the n most similar documents by cosine similarity.
func (m *MemoryStore) Query(_ context.Context, vector []float32, n int) ([]Match, error) {
	if n <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Match, 0, len(m.docs))
	for id, doc := range m.docs {
		matches = append(matches, Match{
			ID:         id,
			Similarity: CosineSimilarity(vector, doc.Vector),
			Metadata:   cloneMetadata(doc.Metadata),
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

// CosineSimilarity is zero for mismatched or zero-norm vectors.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func cloneDocument(doc Document) Document {
	doc.Vector = append([]float32(nil), doc.Vector...)
	doc.Metadata = cloneMetadata(doc.Metadata)
	return doc
}

func cloneMetadata(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
