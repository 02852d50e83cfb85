package port

import (
	"context"

	"docrag/internal/domain"
)

// ChunkStore persists document chunks with their embedding vectors and
// answers vector similarity queries. The store is the sole authority on
// ranking and threshold filtering: Search returns chunks ordered by
// descending similarity, already filtered to similarity >= floor.
// Implementations must be safe for concurrent reads.
type ChunkStore interface {
	// AddChunks stores a document's chunks with their vectors. Chunks and
	// vectors are parallel slices.
	AddChunks(ctx context.Context, doc domain.Document, chunks []domain.StoredChunk, vectors [][]float32) error

	// Search returns up to topK chunks ranked by similarity to the query
	// vector. documentFilter, when non-empty, restricts results to one
	// document. Chunks scoring below floor are excluded.
	Search(ctx context.Context, vector []float32, topK int, documentFilter string, floor float64) ([]domain.Chunk, error)

	// DeleteDocument removes all chunks belonging to the named document.
	DeleteDocument(ctx context.Context, name string) error

	// ListDocuments returns all ingested documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	Close() error
}
