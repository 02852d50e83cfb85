package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"docrag/internal/domain"
)

// MemoryChunkStore is an in-memory chunk store with the same search
// semantics as the BoltDB store. Used in tests and for ephemeral runs.
type MemoryChunkStore struct {
	dimension int

	mu     sync.RWMutex
	chunks map[string]chunkEntry
	docs   map[string]domain.Document
}

func NewMemoryChunkStore(dimension int) *MemoryChunkStore {
	return &MemoryChunkStore{
		dimension: dimension,
		chunks:    make(map[string]chunkEntry),
		docs:      make(map[string]domain.Document),
	}
}

func (s *MemoryChunkStore) AddChunks(ctx context.Context, doc domain.Document, chunks []domain.StoredChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d != %d", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, chunk := range chunks {
		if len(vectors[i]) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(vectors[i]))
		}
		s.chunks[chunkKey(doc.Name, chunk.ChunkIndex)] = chunkEntry{chunk: chunk, vector: vectors[i]}
	}
	s.docs[doc.Name] = doc
	return nil
}

func (s *MemoryChunkStore) Search(ctx context.Context, vector []float32, topK int, documentFilter string, floor float64) ([]domain.Chunk, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(vector))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		key   string
		entry chunkEntry
		score float64
	}

	matches := make([]scored, 0, len(s.chunks))
	for key, entry := range s.chunks {
		if documentFilter != "" && entry.chunk.DocumentName != documentFilter {
			continue
		}
		sim := clamp01(cosineSimilarity(vector, entry.vector))
		if sim < floor {
			continue
		}
		matches = append(matches, scored{key: key, entry: entry, score: sim})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].key < matches[j].key
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}

	results := make([]domain.Chunk, 0, len(matches))
	for _, m := range matches {
		results = append(results, domain.Chunk{
			Content:      m.entry.chunk.Content,
			DocumentName: m.entry.chunk.DocumentName,
			PageNumber:   m.entry.chunk.PageNumber,
			ContentType:  m.entry.chunk.ContentType,
			Similarity:   m.score,
		})
	}
	return results, nil
}

func (s *MemoryChunkStore) DeleteDocument(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.chunks {
		if entry.chunk.DocumentName == name {
			delete(s.chunks, key)
		}
	}
	delete(s.docs, name)
	return nil
}

func (s *MemoryChunkStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func (s *MemoryChunkStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

func (s *MemoryChunkStore) Close() error {
	return nil
}
