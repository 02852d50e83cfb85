package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.SimilarityThreshold != 0.7 {
		t.Errorf("expected SimilarityThreshold=0.7, got %f", cfg.Retrieve.SimilarityThreshold)
	}
	if cfg.Aggregate.MaxContextTokens != 2048 {
		t.Errorf("expected MaxContextTokens=2048, got %d", cfg.Aggregate.MaxContextTokens)
	}
	if cfg.Ingest.ChunkSize != 512 {
		t.Errorf("expected ChunkSize=512, got %d", cfg.Ingest.ChunkSize)
	}
	if cfg.Ingest.ChunkOverlap != 50 {
		t.Errorf("expected ChunkOverlap=50, got %d", cfg.Ingest.ChunkOverlap)
	}
	if cfg.LLM.Temperature != 0.1 {
		t.Errorf("expected Temperature=0.1, got %f", cfg.LLM.Temperature)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docrag.yaml")

	content := `
retrieve:
  top_k: 10
  similarity_threshold: 0.5
aggregate:
  max_context_tokens: 1024
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Retrieve.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.SimilarityThreshold != 0.5 {
		t.Errorf("expected SimilarityThreshold=0.5, got %f", cfg.Retrieve.SimilarityThreshold)
	}
	if cfg.Aggregate.MaxContextTokens != 1024 {
		t.Errorf("expected MaxContextTokens=1024, got %d", cfg.Aggregate.MaxContextTokens)
	}
	// Untouched sections keep defaults.
	if cfg.Ingest.ChunkSize != 512 {
		t.Errorf("expected ChunkSize=512, got %d", cfg.Ingest.ChunkSize)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docrag.yaml")

	content := `
retrieve:
  similarity_threshold: 1.5
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected validation error for threshold > 1")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docrag.yaml")

	content := `
llm:
  provider: local
  model: llama3
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLM.Provider != "local" {
		t.Errorf("expected provider=local, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "llama3" {
		t.Errorf("expected model=llama3, got %s", cfg.LLM.Model)
	}
}

func TestStoreDBPath(t *testing.T) {
	path := StoreDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".docrag", "chunks.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
