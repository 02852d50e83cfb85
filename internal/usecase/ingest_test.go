package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrag/internal/adapter/chunker"
	"docrag/internal/adapter/embedding"
	"docrag/internal/adapter/extractor"
	"docrag/internal/adapter/store"
	"docrag/internal/adapter/tokenizer"
	"docrag/internal/port"
)

func newIngestUseCase(t *testing.T) (*IngestUseCase, *store.MemoryChunkStore) {
	t.Helper()

	embedder := embedding.NewMockEmbedder(32)
	st := store.NewMemoryChunkStore(32)
	t.Cleanup(func() { st.Close() })

	chk := chunker.NewTextChunker(512, 50, tokenizer.NewEstimator())
	uc := NewIngestUseCase([]port.Extractor{extractor.NewTextExtractor()}, chk, embedder, st, testLogger())
	return uc, st
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestIngestFile(t *testing.T) {
	uc, st := newIngestUseCase(t)
	path := writeDoc(t, "notes.txt", "Some notes worth remembering.")

	result, err := uc.IngestFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", result.DocumentName)
	assert.Equal(t, 1, result.TotalChunks)
	assert.False(t, result.Replaced)

	docs, err := st.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "notes.txt", docs[0].Name)
	assert.Equal(t, 1, docs[0].TotalChunks)
}

func TestIngestFileReplacesExisting(t *testing.T) {
	uc, st := newIngestUseCase(t)
	ctx := context.Background()

	first := writeDoc(t, "notes.txt", "Original content.")
	_, err := uc.IngestFile(ctx, first)
	require.NoError(t, err)

	second := writeDoc(t, "notes.txt", "Updated content.\n\nNow with two paragraphs.")
	result, err := uc.IngestFile(ctx, second)
	require.NoError(t, err)
	assert.True(t, result.Replaced)

	// Only the replacement's chunks remain.
	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.TotalChunks, count)
}

func TestIngestFileUnsupportedType(t *testing.T) {
	uc, _ := newIngestUseCase(t)
	path := writeDoc(t, "report.pdf", "%PDF-1.4")

	_, err := uc.IngestFile(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestIngestFileEmptyDocument(t *testing.T) {
	uc, _ := newIngestUseCase(t)
	path := writeDoc(t, "empty.txt", "   \n\n  ")

	_, err := uc.IngestFile(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content")
}

func TestSupports(t *testing.T) {
	uc, _ := newIngestUseCase(t)

	assert.True(t, uc.Supports("a.txt"))
	assert.True(t, uc.Supports("b.md"))
	assert.False(t, uc.Supports("c.pdf"))
}
