// ABOUTME: Live embedding provider backed by the Gemini API via google.golang.org/genai
// ABOUTME: Uses gemini-embedding-001 by default (3072-dimensional vectors)
package embedding

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/harper/recall/internal/util"
)

// DefaultGeminiModel is the default Gemini embedding model.
const DefaultGeminiModel = "gemini-embedding-001"

// geminiModelDimensions maps known Gemini embedding models to their
// native vector lengths.
var geminiModelDimensions = map[string]int{
	"gemini-embedding-001": 3072,
	"text-embedding-004":   768,
}

// GeminiProvider delegates embedding to the Gemini API. Failures propagate
// as hard errors; there is no silent fallback once live mode is selected.
type GeminiProvider struct {
	client     *genai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewGeminiProvider creates a Gemini-backed provider. maxRetries is the
// number of extra attempts after the first; 0 means a single attempt.
func NewGeminiProvider(ctx context.Context, apiKey, model string, timeout time.Duration, maxRetries int) (*GeminiProvider, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiProvider{
		client:     client,
		model:      model,
		timeout:    timeout,
		maxRetries: maxRetries,
		retryDelay: 2 * time.Second,
	}, nil
}

// Embed generates an embedding vector for text via the Gemini API.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(util.CalculateBackoff(p.retryDelay, attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		resp, err := p.client.Models.EmbedContent(callCtx, p.model, genai.Text(text), &genai.EmbedContentConfig{})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		// Convert []float32 to []float64
		values := resp.Embeddings[0].Values
		embedding := make([]float64, len(values))
		for i, v := range values {
			embedding[i] = float64(v)
		}

		return embedding, nil
	}

	return nil, fmt.Errorf("%w: gemini model %s after %d attempt(s): %v",
		ErrProviderFailure, p.model, p.maxRetries+1, lastErr)
}

// Dimensions returns the native vector length of the configured model,
// or 0 when the model is unknown (the ranker tolerates any length).
func (p *GeminiProvider) Dimensions() int {
	return geminiModelDimensions[p.model]
}

// Name identifies the provider in chunk metadata.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Model returns the configured embedding model identifier.
func (p *GeminiProvider) Model() string {
	return p.model
}
