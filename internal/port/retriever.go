package port

import (
	"context"

	"docrag/internal/domain"
)

// Retriever searches stored chunks for a single query.
type Retriever interface {
	// Retrieve embeds the query and returns the top-k matching chunks.
	// topK <= 0 means use the retriever's configured default.
	Retrieve(ctx context.Context, query string, topK int, documentFilter string) ([]domain.Chunk, error)
}

// MultiQueryRetriever fans a set of queries out independently and collects
// per-query result sets. The returned slice preserves query submission
// order; a query that retrieves nothing still occupies its slot with an
// empty chunk sequence.
type MultiQueryRetriever interface {
	Retriever

	RetrieveForQueries(ctx context.Context, queries []string, topK int, documentFilter string) ([]domain.QueryResult, error)
}
