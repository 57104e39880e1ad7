// ABOUTME: Offline retrieval benchmark runner over deterministic fixtures
// ABOUTME: Seeds the real pipeline with fallback embeddings, reports quality and latency
package retrieval

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harper/recall/internal/core"
	"github.com/harper/recall/internal/embedding"
	"github.com/harper/recall/internal/storage"
)

// QueryResult records one benchmark query outcome.
type QueryResult struct {
	ScenarioID     string        `json:"scenario_id"`
	QueryID        string        `json:"query_id"`
	PrecisionAtK   float64       `json:"precision_at_k"`
	ReciprocalRank float64       `json:"reciprocal_rank"`
	Retrieved      []string      `json:"retrieved"`
	Latency        time.Duration `json:"latency_ns"`
}

// Report is the aggregate benchmark output.
type Report struct {
	RanAt              string        `json:"ran_at"`
	K                  int           `json:"k"`
	Queries            []QueryResult `json:"queries"`
	MeanPrecisionAtK   float64       `json:"mean_precision_at_k"`
	MeanReciprocalRank float64       `json:"mean_reciprocal_rank"`
	TotalLatency       time.Duration `json:"total_latency_ns"`
}

// Runner executes retrieval scenarios against a fresh in-memory engine
// per scenario, so runs are isolated and fully deterministic.
type Runner struct {
	k       int
	verbose bool
}

// NewRunner creates a benchmark runner; k is the retrieval depth.
func NewRunner(k int, verbose bool) *Runner {
	if k <= 0 {
		k = core.DefaultRetrieveLimit
	}
	return &Runner{k: k, verbose: verbose}
}

// Run executes all scenarios and aggregates the report.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) (*Report, error) {
	report := &Report{
		RanAt: time.Now().Format(time.RFC3339),
		K:     r.k,
	}

	var ranks []float64
	var precisionSum float64

	for _, scenario := range scenarios {
		results, err := r.runScenario(ctx, scenario)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.ID, err)
		}
		for _, result := range results {
			report.Queries = append(report.Queries, result)
			report.TotalLatency += result.Latency
			ranks = append(ranks, result.ReciprocalRank)
			precisionSum += result.PrecisionAtK
		}
	}

	if len(report.Queries) > 0 {
		report.MeanPrecisionAtK = precisionSum / float64(len(report.Queries))
	}
	report.MeanReciprocalRank = MeanReciprocalRank(ranks)

	return report, nil
}

// runScenario seeds one scenario's corpus and runs its queries.
func (r *Runner) runScenario(ctx context.Context, scenario Scenario) ([]QueryResult, error) {
	store := storage.NewMemoryStore()
	defer func() { _ = store.Close() }()

	engine := core.NewEngine(
		store,
		embedding.NewFallbackProvider(),
		core.NewChunker(core.DefaultChunkSize),
		core.NewDefaultRanker(),
		r.k,
		core.DefaultMaxRetrieveLimit,
	)

	// Seed fixtures through the real persist pipeline; remember which
	// chunk belongs to which label for scoring.
	chunkLabels := make(map[string]string)
	for i, fixture := range scenario.Fixtures {
		messageID := fmt.Sprintf("%s-msg-%d", scenario.ID, i)
		chunks, err := engine.PersistMemory(ctx, scenario.UserID, fixture.SessionID, messageID, fixture.Text)
		if err != nil {
			return nil, fmt.Errorf("seeding fixture %s: %w", fixture.Label, err)
		}
		for _, chunk := range chunks {
			chunkLabels[chunk.ID] = fixture.Label
		}
	}

	results := make([]QueryResult, 0, len(scenario.Queries))
	for _, query := range scenario.Queries {
		start := time.Now()
		retrieved, err := engine.RetrieveContext(ctx, scenario.UserID, query.Text, r.k)
		latency := time.Since(start)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", query.ID, err)
		}

		labels := make([]string, 0, len(retrieved))
		for _, result := range retrieved {
			labels = append(labels, chunkLabels[result.Chunk.ID])
		}

		result := QueryResult{
			ScenarioID:     scenario.ID,
			QueryID:        query.ID,
			PrecisionAtK:   PrecisionAtK(labels, query.Relevant, min(r.k, len(query.Relevant))),
			ReciprocalRank: ReciprocalRank(labels, query.Relevant),
			Retrieved:      labels,
			Latency:        latency,
		}
		results = append(results, result)

		if r.verbose {
			log.Printf("[Benchmark] %s/%s: p@k=%.2f rr=%.2f latency=%s",
				scenario.ID, query.ID, result.PrecisionAtK, result.ReciprocalRank, latency)
		}
	}

	return results, nil
}
