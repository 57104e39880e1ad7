// ABOUTME: Live embedding provider backed by the OpenAI embeddings API
// ABOUTME: Uses text-embedding-3-small by default, converts float32 to float64
package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/recall/internal/util"
)

// DefaultOpenAIModel is the default OpenAI embedding model.
const DefaultOpenAIModel = string(openai.SmallEmbedding3)

// openAIModelDimensions maps known OpenAI embedding models to their
// native vector lengths.
var openAIModelDimensions = map[string]int{
	string(openai.SmallEmbedding3): 1536,
	string(openai.LargeEmbedding3): 3072,
	string(openai.AdaEmbeddingV2):  1536,
}

// OpenAIProvider delegates embedding to the OpenAI API. Failures propagate
// as hard errors; there is no silent fallback once live mode is selected.
type OpenAIProvider struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIProvider creates an OpenAI-backed provider. maxRetries is the
// number of extra attempts after the first; 0 means a single attempt.
func NewOpenAIProvider(apiKey, model string, timeout time.Duration, maxRetries int) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIProvider{
		client:     openai.NewClient(apiKey),
		model:      model,
		timeout:    timeout,
		maxRetries: maxRetries,
		retryDelay: 2 * time.Second,
	}
}

// Embed generates an embedding vector for text via the OpenAI API.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
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
		resp, err := p.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: openai.EmbeddingModel(p.model),
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		// Convert []float32 to []float64
		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}

		return embedding64, nil
	}

	return nil, fmt.Errorf("%w: openai model %s after %d attempt(s): %v",
		ErrProviderFailure, p.model, p.maxRetries+1, lastErr)
}

// Dimensions returns the native vector length of the configured model,
// or 0 when the model is unknown (the ranker tolerates any length).
func (p *OpenAIProvider) Dimensions() int {
	return openAIModelDimensions[p.model]
}

// Name identifies the provider in chunk metadata.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the configured embedding model identifier.
func (p *OpenAIProvider) Model() string {
	return p.model
}
