package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"docrag/internal/domain"
	"docrag/internal/port"
)

// IngestUseCase turns document files into embedded chunks in the store.
// Re-ingesting a document name replaces its previous chunks.
type IngestUseCase struct {
	extractors []port.Extractor
	chunker    port.Chunker
	embedder   port.Embedder
	store      port.ChunkStore
	log        *slog.Logger
}

func NewIngestUseCase(
	extractors []port.Extractor,
	chunker port.Chunker,
	embedder port.Embedder,
	store port.ChunkStore,
	log *slog.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		extractors: extractors,
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		log:        log,
	}
}

// Supports reports whether any configured extractor handles the file.
func (u *IngestUseCase) Supports(path string) bool {
	for _, e := range u.extractors {
		if e.Supports(path) {
			return true
		}
	}
	return false
}

// IngestFile extracts, chunks, embeds and stores one document. The
// document name is the file's base name.
func (u *IngestUseCase) IngestFile(ctx context.Context, path string) (domain.IngestResult, error) {
	name := filepath.Base(path)

	var extractor port.Extractor
	for _, e := range u.extractors {
		if e.Supports(path) {
			extractor = e
			break
		}
	}
	if extractor == nil {
		return domain.IngestResult{}, fmt.Errorf("unsupported file type: %s", path)
	}

	blocks, err := extractor.Extract(path)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("failed to extract %s: %w", name, err)
	}

	chunks := u.chunker.ChunkBlocks(blocks, name)
	if len(chunks) == 0 {
		return domain.IngestResult{}, fmt.Errorf("no content extracted from %s", name)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := u.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("failed to embed %s: %w", name, err)
	}
	if len(vectors) != len(chunks) {
		return domain.IngestResult{}, fmt.Errorf("embedding count mismatch for %s: %d vectors for %d chunks", name, len(vectors), len(chunks))
	}

	replaced, err := u.documentExists(ctx, name)
	if err != nil {
		return domain.IngestResult{}, err
	}
	if replaced {
		if err := u.store.DeleteDocument(ctx, name); err != nil {
			return domain.IngestResult{}, fmt.Errorf("failed to replace %s: %w", name, err)
		}
	}

	doc := domain.Document{
		Name:        name,
		TotalChunks: len(chunks),
		IngestedAt:  time.Now().UTC(),
	}
	if err := u.store.AddChunks(ctx, doc, chunks, vectors); err != nil {
		return domain.IngestResult{}, fmt.Errorf("failed to store %s: %w", name, err)
	}

	u.log.Info("document ingested", "document", name, "chunks", len(chunks), "replaced", replaced)
	return domain.IngestResult{
		DocumentName: name,
		TotalChunks:  len(chunks),
		Replaced:     replaced,
	}, nil
}

func (u *IngestUseCase) documentExists(ctx context.Context, name string) (bool, error) {
	docs, err := u.store.ListDocuments(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list documents: %w", err)
	}
	for _, d := range docs {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}
