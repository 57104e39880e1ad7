// ABOUTME: Deterministic offline embedding provider with no network dependency
// ABOUTME: Accumulates character codes into 32 positional buckets, length-normalized
package embedding

import (
	"context"
	"strings"
)

// FallbackDimensions is the vector length produced by the fallback provider.
const FallbackDimensions = 32

// FallbackProvider produces deterministic embeddings without any external
// service: same text always yields the same vector, and lexically similar
// strings land near each other. It is a best-effort offline approximation,
// not a semantic embedding space.
type FallbackProvider struct{}

// NewFallbackProvider creates the deterministic fallback provider.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

// Embed produces a 32-dimensional vector by summing Unicode code points into
// buckets indexed by rune position modulo the vector length, then dividing
// each bucket by the normalized input length (or 1 for empty input).
func (p *FallbackProvider) Embed(_ context.Context, text string) ([]float64, error) {
	normalized := strings.Join(strings.Fields(text), " ")

	vector := make([]float64, FallbackDimensions)
	runes := []rune(normalized)
	for i, r := range runes {
		vector[i%FallbackDimensions] += float64(r)
	}

	length := len(runes)
	if length == 0 {
		length = 1
	}
	for i := range vector {
		vector[i] /= float64(length)
	}

	return vector, nil
}

// Dimensions returns the fixed fallback vector length.
func (p *FallbackProvider) Dimensions() int {
	return FallbackDimensions
}

// Name identifies the provider in chunk metadata.
func (p *FallbackProvider) Name() string {
	return "fallback"
}
