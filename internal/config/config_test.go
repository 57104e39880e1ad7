// ABOUTME: Tests for environment-driven configuration loading and validation
// ABOUTME: Uses t.Setenv so each case runs against a controlled environment
package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so host settings cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY",
		"RECALL_OPENAI_EMBEDDING_MODEL", "RECALL_GEMINI_EMBEDDING_MODEL",
		"RECALL_EMBEDDING_PROVIDER", "RECALL_EMBED_TIMEOUT", "RECALL_EMBED_MAX_RETRIES",
		"RECALL_STORE", "RECALL_SQLITE_PATH", "RECALL_POSTGRES_DSN",
		"RECALL_CHUNK_SIZE", "RECALL_RETRIEVE_LIMIT", "RECALL_RETRIEVE_MAX_LIMIT",
		"RECALL_SIMILARITY_WEIGHT", "RECALL_RECENCY_WEIGHT", "RECALL_RECENCY_WINDOW",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.StoreBackend != StoreSQLite {
		t.Errorf("StoreBackend = %q, want sqlite", cfg.StoreBackend)
	}
	if cfg.ChunkSize != 450 {
		t.Errorf("ChunkSize = %d, want 450", cfg.ChunkSize)
	}
	if cfg.RetrieveLimit != 6 {
		t.Errorf("RetrieveLimit = %d, want 6", cfg.RetrieveLimit)
	}
	if cfg.RetrieveMaxLimit != 20 {
		t.Errorf("RetrieveMaxLimit = %d, want 20", cfg.RetrieveMaxLimit)
	}
	if cfg.SimilarityWeight != 0.8 || cfg.RecencyWeight != 0.2 {
		t.Errorf("weights = %v/%v, want 0.8/0.2", cfg.SimilarityWeight, cfg.RecencyWeight)
	}
	if cfg.RecencyWindow != 30*24*time.Hour {
		t.Errorf("RecencyWindow = %v, want 720h", cfg.RecencyWindow)
	}
	if cfg.EmbedTimeout != 30*time.Second {
		t.Errorf("EmbedTimeout = %v, want 30s", cfg.EmbedTimeout)
	}
	if cfg.OpenAIEmbeddingModel != "text-embedding-3-small" {
		t.Errorf("OpenAIEmbeddingModel = %q", cfg.OpenAIEmbeddingModel)
	}
	if cfg.GeminiEmbeddingModel != "gemini-embedding-001" {
		t.Errorf("GeminiEmbeddingModel = %q", cfg.GeminiEmbeddingModel)
	}
	if cfg.EmbeddingProvider != "" {
		t.Errorf("EmbeddingProvider = %q, want empty for auto-select", cfg.EmbeddingProvider)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECALL_STORE", "memory")
	t.Setenv("RECALL_EMBEDDING_PROVIDER", "fallback")
	t.Setenv("RECALL_CHUNK_SIZE", "200")
	t.Setenv("RECALL_RETRIEVE_LIMIT", "10")
	t.Setenv("RECALL_SIMILARITY_WEIGHT", "0.6")
	t.Setenv("RECALL_RECENCY_WEIGHT", "0.4")
	t.Setenv("RECALL_RECENCY_WINDOW", "168h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.StoreBackend != StoreMemory {
		t.Errorf("StoreBackend = %q, want memory", cfg.StoreBackend)
	}
	if cfg.EmbeddingProvider != ProviderFallback {
		t.Errorf("EmbeddingProvider = %q, want fallback", cfg.EmbeddingProvider)
	}
	if cfg.ChunkSize != 200 {
		t.Errorf("ChunkSize = %d, want 200", cfg.ChunkSize)
	}
	if cfg.RetrieveLimit != 10 {
		t.Errorf("RetrieveLimit = %d, want 10", cfg.RetrieveLimit)
	}
	if cfg.SimilarityWeight != 0.6 || cfg.RecencyWeight != 0.4 {
		t.Errorf("weights = %v/%v, want 0.6/0.4", cfg.SimilarityWeight, cfg.RecencyWeight)
	}
	if cfg.RecencyWindow != 7*24*time.Hour {
		t.Errorf("RecencyWindow = %v, want 168h", cfg.RecencyWindow)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECALL_CHUNK_SIZE", "not-a-number")
	t.Setenv("RECALL_RECENCY_WINDOW", "eleventy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 450 {
		t.Errorf("ChunkSize = %d, want default 450 for unparseable value", cfg.ChunkSize)
	}
	if cfg.RecencyWindow != 30*24*time.Hour {
		t.Errorf("RecencyWindow = %v, want default for unparseable value", cfg.RecencyWindow)
	}
}

func TestValidate_Failures(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreBackend:     StoreSQLite,
			ChunkSize:        450,
			RetrieveLimit:    6,
			RetrieveMaxLimit: 20,
			SimilarityWeight: 0.8,
			RecencyWeight:    0.2,
			RecencyWindow:    30 * 24 * time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"unknown provider", func(c *Config) { c.EmbeddingProvider = "azure" }, "RECALL_EMBEDDING_PROVIDER"},
		{"unknown store", func(c *Config) { c.StoreBackend = "dynamo" }, "RECALL_STORE"},
		{"postgres without DSN", func(c *Config) { c.StoreBackend = StorePostgres }, "RECALL_POSTGRES_DSN"},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, "RECALL_CHUNK_SIZE"},
		{"negative chunk size", func(c *Config) { c.ChunkSize = -1 }, "RECALL_CHUNK_SIZE"},
		{"limit above max", func(c *Config) { c.RetrieveLimit = 21 }, "RECALL_RETRIEVE_LIMIT"},
		{"zero limit", func(c *Config) { c.RetrieveLimit = 0 }, "RECALL_RETRIEVE_LIMIT"},
		{"max limit too large", func(c *Config) { c.RetrieveMaxLimit = 101; c.RetrieveLimit = 50 }, "RECALL_RETRIEVE_MAX_LIMIT"},
		{"similarity weight above one", func(c *Config) { c.SimilarityWeight = 1.5 }, "RECALL_SIMILARITY_WEIGHT"},
		{"negative recency weight", func(c *Config) { c.RecencyWeight = -0.1 }, "RECALL_RECENCY_WEIGHT"},
		{"both weights zero", func(c *Config) { c.SimilarityWeight = 0; c.RecencyWeight = 0 }, "cannot both be zero"},
		{"zero recency window", func(c *Config) { c.RecencyWindow = 0 }, "RECALL_RECENCY_WINDOW"},
		{"too many retries", func(c *Config) { c.EmbedMaxRetries = 11 }, "RECALL_EMBED_MAX_RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate_PostgresWithDSN(t *testing.T) {
	cfg := &Config{
		StoreBackend:     StorePostgres,
		PostgresDSN:      "postgres://localhost/recall?sslmode=disable",
		ChunkSize:        450,
		RetrieveLimit:    6,
		RetrieveMaxLimit: 20,
		SimilarityWeight: 0.8,
		RecencyWeight:    0.2,
		RecencyWindow:    30 * 24 * time.Hour,
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}
