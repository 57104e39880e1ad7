// ABOUTME: Retrieval quality metrics for offline benchmarks
// ABOUTME: Precision@K and Mean Reciprocal Rank over labeled ground truth
package retrieval

// PrecisionAtK computes the fraction of the first k retrieved labels that
// appear in the relevant set. Returns 0 when k is non-positive or nothing
// was retrieved.
func PrecisionAtK(retrieved, relevant []string, k int) float64 {
	if k <= 0 || len(retrieved) == 0 {
		return 0
	}
	if k > len(retrieved) {
		k = len(retrieved)
	}

	relevantSet := make(map[string]struct{}, len(relevant))
	for _, label := range relevant {
		relevantSet[label] = struct{}{}
	}

	hits := 0
	for _, label := range retrieved[:k] {
		if _, ok := relevantSet[label]; ok {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// ReciprocalRank returns 1/rank of the first relevant label in retrieved,
// or 0 when none is present.
func ReciprocalRank(retrieved, relevant []string) float64 {
	relevantSet := make(map[string]struct{}, len(relevant))
	for _, label := range relevant {
		relevantSet[label] = struct{}{}
	}

	for i, label := range retrieved {
		if _, ok := relevantSet[label]; ok {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// MeanReciprocalRank averages reciprocal ranks across queries.
func MeanReciprocalRank(ranks []float64) float64 {
	if len(ranks) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ranks {
		sum += r
	}
	return sum / float64(len(ranks))
}
