// ABOUTME: Ranker scores stored chunks against a query embedding
// ABOUTME: Blends cosine similarity with linear recency decay, returns top-K
package core

import (
	"math"
	"sort"
	"time"

	"github.com/harper/recall/internal/models"
)

// Default ranking parameters. The blend weights and decay window are a
// deployment configuration surface; these are the reference defaults.
const (
	DefaultSimilarityWeight = 0.8
	DefaultRecencyWeight    = 0.2
	DefaultRecencyWindow    = 30 * 24 * time.Hour
	DefaultRetrieveLimit    = 6
	DefaultMaxRetrieveLimit = 20
)

// Ranker computes blended similarity+recency scores for memory chunks.
type Ranker struct {
	similarityWeight float64
	recencyWeight    float64
	recencyWindow    time.Duration
}

// NewRanker creates a Ranker with the given blend weights and decay window.
func NewRanker(similarityWeight, recencyWeight float64, recencyWindow time.Duration) *Ranker {
	if recencyWindow <= 0 {
		recencyWindow = DefaultRecencyWindow
	}
	return &Ranker{
		similarityWeight: similarityWeight,
		recencyWeight:    recencyWeight,
		recencyWindow:    recencyWindow,
	}
}

// NewDefaultRanker creates a Ranker with the reference weights (0.8 / 0.2)
// and the 30-day decay window.
func NewDefaultRanker() *Ranker {
	return NewRanker(DefaultSimilarityWeight, DefaultRecencyWeight, DefaultRecencyWindow)
}

// Rank scores every chunk against queryEmbedding, sorts descending by
// FinalScore (stable; ties keep input order), and truncates to limit.
// Non-positive limits mean "no truncation"; callers normally clamp upstream.
func (r *Ranker) Rank(chunks []*models.MemoryChunk, queryEmbedding []float64, now time.Time, limit int) []models.RetrievedContext {
	if len(chunks) == 0 {
		return nil
	}

	results := make([]models.RetrievedContext, 0, len(chunks))
	for _, chunk := range chunks {
		similarity := CosineSimilarity(chunk.Embedding, queryEmbedding)
		recency := r.recencyScore(chunk.CreatedAt, now)

		results = append(results, models.RetrievedContext{
			Chunk:           chunk,
			SimilarityScore: similarity,
			RecencyScore:    recency,
			FinalScore:      similarity*r.similarityWeight + recency*r.recencyWeight,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results
}

// recencyScore decays linearly from 1 (created now) to 0 at the window edge.
// Chunks older than the window floor at 0; future-dated chunks (clock skew)
// clamp to 1.
func (r *Ranker) recencyScore(createdAt, now time.Time) float64 {
	age := now.Sub(createdAt)
	score := 1.0 - float64(age)/float64(r.recencyWindow)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Mismatched lengths or a zero-magnitude vector score 0; never NaN.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
