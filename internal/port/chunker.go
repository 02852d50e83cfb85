package port

import "docrag/internal/domain"

// Chunker splits extracted content blocks into storable chunks with
// metadata preserved from their source blocks.
type Chunker interface {
	ChunkBlocks(blocks []domain.ContentBlock, documentName string) []domain.StoredChunk
}
