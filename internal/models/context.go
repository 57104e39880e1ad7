// ABOUTME: RetrievedContext is an ephemeral scored retrieval result
// ABOUTME: Computed at query time by the ranker, never persisted
package models

// RetrievedContext pairs a stored chunk with its scores for one query.
// FinalScore blends semantic similarity and recency; results are sorted
// descending by FinalScore before truncation to the requested count.
type RetrievedContext struct {
	Chunk           *MemoryChunk `json:"chunk"`
	SimilarityScore float64      `json:"similarity_score"`
	RecencyScore    float64      `json:"recency_score"`
	FinalScore      float64      `json:"final_score"`
}
