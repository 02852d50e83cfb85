package retriever

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"docrag/internal/adapter/cache"
	"docrag/internal/domain"
	"docrag/internal/port"
)

// SemanticRetriever embeds queries and searches the chunk store. The
// store is the sole authority on ranking and threshold filtering; no
// re-ranking happens within a single query.
type SemanticRetriever struct {
	store           port.ChunkStore
	embedder        port.Embedder
	topK            int
	similarityFloor float64
	concurrency     int
	allowPartial    bool
	cache           *cache.QueryCache
	log             *slog.Logger
}

// Options configures a SemanticRetriever.
type Options struct {
	TopK            int
	SimilarityFloor float64
	// Concurrency bounds the multi-query fan-out worker pool.
	Concurrency int
	// AllowPartial makes a per-sub-question fault degrade to an empty
	// result set instead of failing the whole cycle.
	AllowPartial bool
	// Cache, when non-nil, caches per-query results.
	Cache *cache.QueryCache
}

func NewSemanticRetriever(store port.ChunkStore, embedder port.Embedder, opts Options, log *slog.Logger) *SemanticRetriever {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &SemanticRetriever{
		store:           store,
		embedder:        embedder,
		topK:            opts.TopK,
		similarityFloor: opts.SimilarityFloor,
		concurrency:     opts.Concurrency,
		allowPartial:    opts.AllowPartial,
		cache:           opts.Cache,
		log:             log,
	}
}

// Retrieve embeds the query (exactly one vector per query) and searches
// the store. Faults from the embedder or the store propagate.
func (r *SemanticRetriever) Retrieve(ctx context.Context, query string, topK int, documentFilter string) ([]domain.Chunk, error) {
	k := topK
	if k <= 0 {
		k = r.topK
	}

	if r.cache != nil {
		if chunks, ok := r.cache.Get(query, k, documentFilter); ok {
			return chunks, nil
		}
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := r.store.Search(ctx, vector, k, documentFilter, r.similarityFloor)
	if err != nil {
		return nil, fmt.Errorf("chunk search failed: %w", err)
	}

	r.log.Debug("retrieved chunks", "query", query, "count", len(chunks))

	if r.cache != nil {
		r.cache.Put(query, k, documentFilter, chunks)
	}
	return chunks, nil
}

// RetrieveForQueries retrieves each query independently and concurrently,
// bounded by the configured worker limit. The result slice preserves
// query submission order regardless of completion order; a query with no
// matches keeps its slot with an empty chunk sequence. Unless partial
// results are allowed, a fault on any query fails the whole fan-out.
func (r *SemanticRetriever) RetrieveForQueries(ctx context.Context, queries []string, topK int, documentFilter string) ([]domain.QueryResult, error) {
	results := make([]domain.QueryResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			chunks, err := r.Retrieve(gctx, query, topK, documentFilter)
			if err != nil {
				if r.allowPartial {
					r.log.Warn("sub-question retrieval failed, continuing with partial results",
						"query", query, "error", err)
					results[i] = domain.QueryResult{Query: query, Chunks: []domain.Chunk{}}
					return nil
				}
				return fmt.Errorf("retrieval for %q: %w", query, err)
			}
			results[i] = domain.QueryResult{Query: query, Chunks: chunks}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.log.Debug("multi-query retrieval complete", "queries", len(queries))
	return results, nil
}
