// ABOUTME: Command-line benchmark runner for retrieval quality
// ABOUTME: Executes deterministic offline scenarios and outputs JSON results
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harper/recall/benchmarks/retrieval"
)

func main() {
	// Command-line flags
	k := flag.Int("k", 6, "Retrieval depth for Precision@K")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	// Print header
	fmt.Println("========================================")
	fmt.Println("Recall Retrieval Benchmarks")
	fmt.Println("========================================")
	fmt.Println()

	runner := retrieval.NewRunner(*k, *verbose)
	report, err := runner.Run(context.Background(), retrieval.Scenarios())
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	fmt.Printf("Queries:              %d\n", len(report.Queries))
	fmt.Printf("Mean Precision@K:     %.3f\n", report.MeanPrecisionAtK)
	fmt.Printf("Mean Reciprocal Rank: %.3f\n", report.MeanReciprocalRank)
	fmt.Printf("Total latency:        %s\n", report.TotalLatency)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal results: %v", err)
	}
	if err := os.WriteFile(*outputPath, append(data, '\n'), 0644); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}

	fmt.Printf("\nResults written to %s\n", *outputPath)
}
