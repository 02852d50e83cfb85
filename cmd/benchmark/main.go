package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"docrag/config"
	"docrag/internal/adapter/embedding"
	"docrag/internal/adapter/store"
	"docrag/internal/port"
)

func main() {
	dir := flag.String("dir", ".", "Directory holding the chunk store")
	query := flag.String("q", "", "Query to test")
	topK := flag.Int("k", 10, "Number of results")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir . -q \"query\"")
		fmt.Println("\nTests:")
		fmt.Println("  1. Embedding infrastructure (model connection, chunk store)")
		fmt.Println("  2. Semantic similarity (query vs results)")
		fmt.Println("  3. Retrieval latency")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	st, err := store.NewBoltChunkStore(config.StoreDBPath(*dir), cfg.Embedding.Dimension)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening chunk store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedder init failed: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	fmt.Println("SEMANTIC RETRIEVAL BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	count, _ := st.Count(ctx)
	fmt.Printf("Chunks indexed: %d\n", count)
	fmt.Printf("Model: %s (%s)\n", cfg.Embedding.Model, cfg.Embedding.Provider)
	fmt.Printf("Dimension: %d\n", embedder.Dimension())
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	start := time.Now()
	vector, err := embedder.Embed(ctx, *query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedding error: %v\n", err)
		os.Exit(1)
	}
	embedTime := time.Since(start)

	start = time.Now()
	results, err := st.Search(ctx, vector, *topK, "", 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}
	searchTime := time.Since(start)

	fmt.Printf("Embed: %v, search: %v\n\n", embedTime, searchTime)
	fmt.Printf("Top %d semantic matches:\n\n", len(results))

	if len(results) == 0 {
		fmt.Println("No matches. Ingest documents first with 'docrag ingest'.")
		return
	}

	totalScore := 0.0
	for i, r := range results {
		preview := strings.ReplaceAll(r.Content, "\n", " ")
		if len(preview) > 150 {
			preview = preview[:150] + "..."
		}

		totalScore += r.Similarity

		rating := "LOW"
		if r.Similarity > 0.7 {
			rating = "HIGH"
		} else if r.Similarity > 0.5 {
			rating = "GOOD"
		} else if r.Similarity > 0.3 {
			rating = "OK"
		}

		fmt.Printf("%d. [%s %.3f] %s\n", i+1, rating, r.Similarity, r.DocumentName)
		fmt.Printf("   %s\n\n", preview)
	}

	avgScore := totalScore / float64(len(results))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average similarity: %.3f\n", avgScore)
	fmt.Printf("  Top-1 similarity:   %.3f\n", results[0].Similarity)

	if avgScore > 0.5 {
		fmt.Println("  Status: GOOD - semantic retrieval working well")
	} else if avgScore > 0.3 {
		fmt.Println("  Status: OK - results are somewhat related")
	} else {
		fmt.Println("  Status: POOR - may need a better embedding model or re-ingestion")
	}
}

func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL, cfg.Embedding.Dimension, cfg.Embedding.BatchSize)
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.Dimension, cfg.Embedding.BatchSize)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Embedding.Provider)
	}
}
