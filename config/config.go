package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the document QA pipeline.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Aggregate AggregateConfig `yaml:"aggregate"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig holds chunk store configuration.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "bolt", "memory"
	Path    string `yaml:"path"`    // Bolt database file, empty for default
}

// IngestConfig holds document ingestion configuration.
type IngestConfig struct {
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
	Tokenizer    string   `yaml:"tokenizer"` // "estimate", "cl100k_base", ...
	Includes     []string `yaml:"includes"`
	Excludes     []string `yaml:"excludes"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK                int     `yaml:"top_k"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	Concurrency         int     `yaml:"concurrency"`
	AllowPartial        bool    `yaml:"allow_partial"`
	CacheSize           int     `yaml:"cache_size"`
	CacheTTLSeconds     int     `yaml:"cache_ttl_seconds"`
}

// AggregateConfig holds context aggregation configuration.
type AggregateConfig struct {
	MaxContextTokens int `yaml:"max_context_tokens"`
}

// LLMConfig holds completion model configuration.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "openai", "groq", "deepseek", "local"
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"` // Overrides the provider default
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// EmbeddingConfig holds embedding model configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "openai", "ollama", "mock"
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text", "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Store: StoreConfig{
			Backend: "bolt",
		},
		Ingest: IngestConfig{
			ChunkSize:    512,
			ChunkOverlap: 50,
			Tokenizer:    "estimate",
			Includes:     []string{"**/*.txt", "**/*.md", "**/*.markdown"},
			Excludes:     []string{"**/.git/**", "**/node_modules/**"},
		},
		Retrieve: RetrieveConfig{
			TopK:                5,
			SimilarityThreshold: 0.7,
			Concurrency:         4,
			AllowPartial:        false,
			CacheSize:           256,
			CacheTTLSeconds:     300,
		},
		Aggregate: AggregateConfig{
			MaxContextTokens: 2048,
		},
		LLM: LLMConfig{
			Provider:    "groq",
			Model:       "llama-3.1-8b-instant",
			APIKeyEnv:   "GROQ_API_KEY",
			Temperature: 0.1,
			MaxTokens:   512,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file, applying defaults for any
// missing fields.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Retrieve.TopK <= 0 {
		return fmt.Errorf("retrieve.top_k must be positive, got %d", c.Retrieve.TopK)
	}
	if c.Retrieve.SimilarityThreshold < 0 || c.Retrieve.SimilarityThreshold > 1 {
		return fmt.Errorf("retrieve.similarity_threshold must be in [0, 1], got %g", c.Retrieve.SimilarityThreshold)
	}
	if c.Aggregate.MaxContextTokens <= 0 {
		return fmt.Errorf("aggregate.max_context_tokens must be positive, got %d", c.Aggregate.MaxContextTokens)
	}
	if c.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("ingest.chunk_size must be positive, got %d", c.Ingest.ChunkSize)
	}
	if c.Ingest.ChunkOverlap < 0 || c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		return fmt.Errorf("ingest.chunk_overlap must be in [0, chunk_size), got %d", c.Ingest.ChunkOverlap)
	}
	switch c.Store.Backend {
	case "bolt", "memory":
	default:
		return fmt.Errorf("store.backend must be \"bolt\" or \"memory\", got %q", c.Store.Backend)
	}
	return nil
}

// StoreDBPath returns the path to the chunk database.
func StoreDBPath(dir string) string {
	return filepath.Join(dir, ".docrag", "chunks.db")
}

// EnsureDataDir ensures the .docrag directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".docrag"), 0755)
}
