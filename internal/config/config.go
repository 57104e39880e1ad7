// ABOUTME: Centralized configuration for the recall memory engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Embedding provider names accepted by RECALL_EMBEDDING_PROVIDER.
const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderFallback = "fallback"
)

// Store backend names accepted by RECALL_STORE.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds all configuration for the memory engine
type Config struct {
	// Embedding settings
	OpenAIKey            string
	OpenAIEmbeddingModel string
	GeminiKey            string
	GeminiEmbeddingModel string
	EmbeddingProvider    string // explicit override; empty means auto-select
	EmbedTimeout         time.Duration
	EmbedMaxRetries      int

	// Store settings
	StoreBackend string
	SQLitePath   string
	PostgresDSN  string

	// Chunking and ranking settings
	ChunkSize        int
	RetrieveLimit    int
	RetrieveMaxLimit int
	SimilarityWeight float64
	RecencyWeight    float64
	RecencyWindow    time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		OpenAIEmbeddingModel: getEnv("RECALL_OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		GeminiKey:            os.Getenv("GEMINI_API_KEY"),
		GeminiEmbeddingModel: getEnv("RECALL_GEMINI_EMBEDDING_MODEL", "gemini-embedding-001"),
		EmbeddingProvider:    os.Getenv("RECALL_EMBEDDING_PROVIDER"),
		EmbedTimeout:         getEnvDuration("RECALL_EMBED_TIMEOUT", 30*time.Second),
		EmbedMaxRetries:      getEnvInt("RECALL_EMBED_MAX_RETRIES", 0),
		StoreBackend:         getEnv("RECALL_STORE", StoreSQLite),
		SQLitePath:           os.Getenv("RECALL_SQLITE_PATH"),
		PostgresDSN:          os.Getenv("RECALL_POSTGRES_DSN"),
		ChunkSize:            getEnvInt("RECALL_CHUNK_SIZE", 450),
		RetrieveLimit:        getEnvInt("RECALL_RETRIEVE_LIMIT", 6),
		RetrieveMaxLimit:     getEnvInt("RECALL_RETRIEVE_MAX_LIMIT", 20),
		SimilarityWeight:     getEnvFloat("RECALL_SIMILARITY_WEIGHT", 0.8),
		RecencyWeight:        getEnvFloat("RECALL_RECENCY_WEIGHT", 0.2),
		RecencyWindow:        getEnvDuration("RECALL_RECENCY_WINDOW", 30*24*time.Hour),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.EmbeddingProvider {
	case "", ProviderOpenAI, ProviderGemini, ProviderFallback:
	default:
		return fmt.Errorf("RECALL_EMBEDDING_PROVIDER must be openai, gemini, or fallback, got %q", c.EmbeddingProvider)
	}
	switch c.StoreBackend {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("RECALL_STORE must be memory, sqlite, or postgres, got %q", c.StoreBackend)
	}
	if c.StoreBackend == StorePostgres && c.PostgresDSN == "" {
		return fmt.Errorf("RECALL_POSTGRES_DSN is required when RECALL_STORE=postgres")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("RECALL_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.RetrieveLimit <= 0 || c.RetrieveLimit > c.RetrieveMaxLimit {
		return fmt.Errorf("RECALL_RETRIEVE_LIMIT must be 1-%d, got %d", c.RetrieveMaxLimit, c.RetrieveLimit)
	}
	if c.RetrieveMaxLimit > 100 {
		return fmt.Errorf("RECALL_RETRIEVE_MAX_LIMIT must be at most 100, got %d", c.RetrieveMaxLimit)
	}
	if c.SimilarityWeight < 0 || c.SimilarityWeight > 1 {
		return fmt.Errorf("RECALL_SIMILARITY_WEIGHT must be 0-1, got %f", c.SimilarityWeight)
	}
	if c.RecencyWeight < 0 || c.RecencyWeight > 1 {
		return fmt.Errorf("RECALL_RECENCY_WEIGHT must be 0-1, got %f", c.RecencyWeight)
	}
	if c.SimilarityWeight == 0 && c.RecencyWeight == 0 {
		return fmt.Errorf("similarity and recency weights cannot both be zero")
	}
	if c.RecencyWindow <= 0 {
		return fmt.Errorf("RECALL_RECENCY_WINDOW must be positive, got %v", c.RecencyWindow)
	}
	if c.EmbedMaxRetries < 0 || c.EmbedMaxRetries > 10 {
		return fmt.Errorf("RECALL_EMBED_MAX_RETRIES must be 0-10, got %d", c.EmbedMaxRetries)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
