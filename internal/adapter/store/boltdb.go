package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"docrag/internal/domain"
)

var (
	bucketChunks = []byte("chunks")
	bucketDocs   = []byte("docs")
)

// BoltChunkStore persists chunks and their embedding vectors in BoltDB.
// Uses brute-force cosine search over an in-memory mirror for simplicity;
// can be replaced with an ANN index for larger corpora. Safe for
// concurrent reads from multiple in-flight queries.
type BoltChunkStore struct {
	db        *bbolt.DB
	dimension int

	mu     sync.RWMutex
	chunks map[string]chunkEntry
}

type chunkEntry struct {
	chunk  domain.StoredChunk
	vector []float32
}

type storedRecord struct {
	Chunk  domain.StoredChunk `json:"c"`
	Vector []float32          `json:"v"`
}

// NewBoltChunkStore opens (or creates) the store at path.
func NewBoltChunkStore(path string, dimension int) (*BoltChunkStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketChunks, bucketDocs} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltChunkStore{
		db:        db,
		dimension: dimension,
		chunks:    make(map[string]chunkEntry),
	}
	if err := s.loadChunks(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	return s, nil
}

func (s *BoltChunkStore) loadChunks() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var rec storedRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil // Skip corrupted entries
			}
			s.chunks[string(k)] = chunkEntry{chunk: rec.Chunk, vector: rec.Vector}
			return nil
		})
	})
}

func chunkKey(documentName string, index int) string {
	return fmt.Sprintf("%s/%06d", documentName, index)
}

// AddChunks stores a document's chunks with their vectors and records the
// document itself.
func (s *BoltChunkStore) AddChunks(ctx context.Context, doc domain.Document, chunks []domain.StoredChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d != %d", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		cb := tx.Bucket(bucketChunks)
		for i, chunk := range chunks {
			if len(vectors[i]) != s.dimension {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(vectors[i]))
			}
			data, err := json.Marshal(storedRecord{Chunk: chunk, Vector: vectors[i]})
			if err != nil {
				return err
			}
			key := chunkKey(doc.Name, chunk.ChunkIndex)
			if err := cb.Put([]byte(key), data); err != nil {
				return err
			}
			s.chunks[key] = chunkEntry{chunk: chunk, vector: vectors[i]}
		}

		docData, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketDocs).Put([]byte(doc.Name), docData)
	})
}

// Search ranks all stored chunks by cosine similarity to the query vector
// and returns the top-k at or above floor. Ties break on insertion key so
// results are deterministic.
func (s *BoltChunkStore) Search(ctx context.Context, vector []float32, topK int, documentFilter string, floor float64) ([]domain.Chunk, error) {
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

// DeleteDocument removes all chunks for the named document.
func (s *BoltChunkStore) DeleteDocument(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := []byte(name + "/")
	return s.db.Update(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketChunks).Cursor()
		for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
			delete(s.chunks, string(k))
		}
		return tx.Bucket(bucketDocs).Delete([]byte(name))
	})
}

// ListDocuments returns all ingested documents sorted by name.
func (s *BoltChunkStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var doc domain.Document
			if err := json.Unmarshal(v, &doc); err != nil {
				return nil
			}
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Count returns the number of stored chunks.
func (s *BoltChunkStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

func (s *BoltChunkStore) Close() error {
	return s.db.Close()
}

func hasPrefix(k, prefix []byte) bool {
	if len(k) < len(prefix) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// clamp01 bounds floating point drift so similarities stay in [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
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
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
