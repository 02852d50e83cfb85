package retriever

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrag/internal/adapter/cache"
	"docrag/internal/adapter/embedding"
	"docrag/internal/adapter/store"
	"docrag/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedStore(t *testing.T, embedder *embedding.MockEmbedder, contents ...string) *store.MemoryChunkStore {
	t.Helper()

	st := store.NewMemoryChunkStore(embedder.Dimension())
	chunks := make([]domain.StoredChunk, len(contents))
	for i, c := range contents {
		chunks[i] = domain.StoredChunk{
			Content:      c,
			DocumentName: "doc.txt",
			ContentType:  domain.ContentText,
			ChunkIndex:   i,
			TotalChunks:  len(contents),
		}
	}
	vectors, err := embedder.EmbedBatch(context.Background(), contents)
	require.NoError(t, err)
	require.NoError(t, st.AddChunks(context.Background(), domain.Document{Name: "doc.txt", TotalChunks: len(chunks)}, chunks, vectors))
	return st
}

type failingEmbedder struct {
	*embedding.MockEmbedder
}

func (failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embedding service down")
}

func TestRetrieveExactMatch(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	st := seedStore(t, embedder, "the quick brown fox", "an entirely different sentence")

	r := NewSemanticRetriever(st, embedder, Options{TopK: 5, SimilarityFloor: 0.99}, testLogger())

	chunks, err := r.Retrieve(context.Background(), "the quick brown fox", 0, "")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "the quick brown fox", chunks[0].Content)
	assert.InDelta(t, 1.0, chunks[0].Similarity, 1e-6)
}

func TestRetrieveForQueriesPreservesSubmissionOrder(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	queries := []string{"alpha first topic", "beta second topic", "gamma third topic"}
	st := seedStore(t, embedder, queries...)

	r := NewSemanticRetriever(st, embedder, Options{TopK: 1, SimilarityFloor: 0.99, Concurrency: 2}, testLogger())

	results, err := r.RetrieveForQueries(context.Background(), queries, 1, "")
	require.NoError(t, err)
	require.Len(t, results, len(queries))
	for i, q := range queries {
		assert.Equal(t, q, results[i].Query)
		require.Len(t, results[i].Chunks, 1)
		assert.Equal(t, q, results[i].Chunks[0].Content)
	}
}

func TestRetrieveForQueriesEmptyResultKeepsSlot(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	st := seedStore(t, embedder, "stored content about databases")

	r := NewSemanticRetriever(st, embedder, Options{TopK: 5, SimilarityFloor: 0.99}, testLogger())

	results, err := r.RetrieveForQueries(context.Background(), []string{"completely unrelated query zzz"}, 5, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "completely unrelated query zzz", results[0].Query)
	assert.Empty(t, results[0].Chunks)
}

func TestRetrieveForQueriesFaultFailsWholeCycle(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	st := seedStore(t, embedder, "content")

	r := NewSemanticRetriever(st, failingEmbedder{embedder}, Options{TopK: 5}, testLogger())

	_, err := r.RetrieveForQueries(context.Background(), []string{"q1", "q2"}, 5, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service down")
}

func TestRetrieveForQueriesAllowPartial(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	st := seedStore(t, embedder, "content")

	r := NewSemanticRetriever(st, failingEmbedder{embedder}, Options{TopK: 5, AllowPartial: true}, testLogger())

	results, err := r.RetrieveForQueries(context.Background(), []string{"q1", "q2"}, 5, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Empty(t, results[0].Chunks)
	assert.Empty(t, results[1].Chunks)
}

func TestRetrieveUsesCache(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	st := seedStore(t, embedder, "cached content here")
	qc := cache.NewQueryCache(10, time.Minute)

	r := NewSemanticRetriever(st, embedder, Options{TopK: 5, Cache: qc}, testLogger())

	first, err := r.Retrieve(context.Background(), "cached content here", 0, "")
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, 1, qc.Len())

	// A second call is served from the cache even if the store is gone.
	require.NoError(t, st.Close())
	second, err := r.Retrieve(context.Background(), "cached content here", 0, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
