// ABOUTME: Embedding provider strategy interface and startup selection
// ABOUTME: Live OpenAI/Gemini providers and a deterministic offline fallback
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/harper/recall/internal/config"
)

// ErrProviderFailure indicates a live embedding call failed (auth, network,
// rate limit). It propagates to the caller; retry policy belongs to the
// calling orchestration layer.
var ErrProviderFailure = errors.New("embedding provider failure")

// Provider maps a text string to a fixed-length numeric vector.
// A deployment must use the same provider for both indexing and querying:
// vectors from different providers are not comparable.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimensions() int
	Name() string
}

// NewFromConfig selects a provider once at startup based on configuration.
// An explicit RECALL_EMBEDDING_PROVIDER setting wins; otherwise key presence
// chooses OpenAI, then Gemini, then the offline fallback.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("embedding provider %q selected but OPENAI_API_KEY is not set", cfg.EmbeddingProvider)
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIEmbeddingModel, cfg.EmbedTimeout, cfg.EmbedMaxRetries), nil

	case config.ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("embedding provider %q selected but GEMINI_API_KEY is not set", cfg.EmbeddingProvider)
		}
		return NewGeminiProvider(ctx, cfg.GeminiKey, cfg.GeminiEmbeddingModel, cfg.EmbedTimeout, cfg.EmbedMaxRetries)

	case config.ProviderFallback:
		return NewFallbackProvider(), nil

	case "":
		// Auto-select by key presence
		if cfg.OpenAIKey != "" {
			return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIEmbeddingModel, cfg.EmbedTimeout, cfg.EmbedMaxRetries), nil
		}
		if cfg.GeminiKey != "" {
			return NewGeminiProvider(ctx, cfg.GeminiKey, cfg.GeminiEmbeddingModel, cfg.EmbedTimeout, cfg.EmbedMaxRetries)
		}
		log.Printf("[Embedding] no API key configured, using deterministic fallback provider")
		return NewFallbackProvider(), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.EmbeddingProvider)
	}
}
