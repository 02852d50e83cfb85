package cli

import (
	"fmt"
	"log/slog"
	"time"

	"docrag/config"
	"docrag/internal/adapter/cache"
	"docrag/internal/adapter/chunker"
	"docrag/internal/adapter/embedding"
	"docrag/internal/adapter/extractor"
	"docrag/internal/adapter/llm"
	"docrag/internal/adapter/retriever"
	"docrag/internal/adapter/store"
	"docrag/internal/adapter/tokenizer"
	"docrag/internal/agent"
	"docrag/internal/port"
	"docrag/internal/usecase"
)

// pipeline bundles the wired use cases behind one Close.
type pipeline struct {
	query     *usecase.QueryUseCase
	ingest    *usecase.IngestUseCase
	evaluate  *usecase.EvaluateUseCase
	retriever port.MultiQueryRetriever
	store     port.ChunkStore
	cache     *cache.QueryCache
}

func (p *pipeline) Close() error {
	return p.store.Close()
}

// buildPipeline wires adapters and use cases from configuration.
func buildPipeline(cfg *config.Config, rootDir string, log *slog.Logger) (*pipeline, error) {
	st, err := buildStore(cfg, rootDir)
	if err != nil {
		return nil, err
	}

	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		st.Close()
		return nil, err
	}

	model, err := llm.NewClient(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL,
		cfg.LLM.APIKeyEnv, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	queryCache := cache.NewQueryCache(cfg.Retrieve.CacheSize,
		time.Duration(cfg.Retrieve.CacheTTLSeconds)*time.Second)

	sem := retriever.NewSemanticRetriever(st, embedder, retriever.Options{
		TopK:            cfg.Retrieve.TopK,
		SimilarityFloor: cfg.Retrieve.SimilarityThreshold,
		Concurrency:     cfg.Retrieve.Concurrency,
		AllowPartial:    cfg.Retrieve.AllowPartial,
		Cache:           queryCache,
	}, log)

	analyzer := agent.NewAnalyzer(model, log)
	decomposer := agent.NewDecomposer(model, log)
	aggregator := agent.NewAggregator(cfg.Aggregate.MaxContextTokens, log)
	synthesizer := agent.NewSynthesizer(model, log)

	queryUC := usecase.NewQueryUseCase(analyzer, decomposer, sem, aggregator, synthesizer,
		cfg.Retrieve.TopK, log)

	counter, err := buildTokenCounter(cfg.Ingest.Tokenizer)
	if err != nil {
		st.Close()
		return nil, err
	}
	chk := chunker.NewTextChunker(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap, counter)
	extractors := []port.Extractor{extractor.NewTextExtractor()}
	ingestUC := usecase.NewIngestUseCase(extractors, chk, embedder, st, log)

	evalUC := usecase.NewEvaluateUseCase(queryUC, sem, cfg.Retrieve.TopK, log)

	return &pipeline{
		query:     queryUC,
		ingest:    ingestUC,
		evaluate:  evalUC,
		retriever: sem,
		store:     st,
		cache:     queryCache,
	}, nil
}

func buildStore(cfg *config.Config, rootDir string) (port.ChunkStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryChunkStore(cfg.Embedding.Dimension), nil
	default:
		path := cfg.Store.Path
		if path == "" {
			if err := config.EnsureDataDir(rootDir); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
			path = config.StoreDBPath(rootDir)
		}
		st, err := store.NewBoltChunkStore(path, cfg.Embedding.Dimension)
		if err != nil {
			return nil, fmt.Errorf("failed to open chunk store: %w", err)
		}
		return st, nil
	}
}

func buildEmbedder(ec config.EmbeddingConfig) (port.Embedder, error) {
	switch ec.Provider {
	case "mock":
		return embedding.NewMockEmbedder(ec.Dimension), nil
	case "ollama":
		return embedding.NewOllamaEmbedder(ec.Model, ec.BaseURL, ec.Dimension, ec.BatchSize)
	default:
		if ec.BaseURL != "" {
			return embedding.NewOpenAICompatibleEmbedder(ec.APIKeyEnv, ec.Model, ec.BaseURL, ec.Dimension, ec.BatchSize)
		}
		return embedding.NewOpenAIEmbedder(ec.APIKeyEnv, ec.Model, ec.Dimension, ec.BatchSize)
	}
}

func buildTokenCounter(name string) (port.TokenCounter, error) {
	if name == "" || name == "estimate" {
		return tokenizer.NewEstimator(), nil
	}
	counter, err := tokenizer.NewTiktoken(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer: %w", err)
	}
	return counter, nil
}
