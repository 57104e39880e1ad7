// ABOUTME: CLI command to search memories for a user
// ABOUTME: Ranks stored chunks by blended similarity and recency
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	searchUser  string
	searchLimit int
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search memories",
		Long: `Search a user's memories with semantic similarity and recency ranking.

Examples:
  recall search --user alice "dentist appointment"
  recall search --user alice --limit 10 "machine learning"
  recall search --user alice --format json "API keys"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVar(&searchUser, "user", "", "User whose memories to search (required)")
	cmd.Flags().IntVar(&searchLimit, "limit", 6, "Maximum results to return")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := args[0]

	ctx := cmd.Context()
	engine, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	results, err := engine.RetrieveContext(ctx, searchUser, query, searchLimit)
	if err != nil {
		return fmt.Errorf("searching memories: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No memories found for query: %s\n", query)
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	// Table format
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tSIMILARITY\tAGE\tSESSION\tTEXT\n")
	fmt.Fprintf(w, "-----\t----------\t---\t-------\t----\n")

	for _, result := range results {
		fmt.Fprintf(w, "%.3f\t%.3f\t%s\t%s\t%s\n",
			result.FinalScore,
			result.SimilarityScore,
			formatTime(result.Chunk.CreatedAt),
			truncate(result.Chunk.SessionID, 20),
			truncate(result.Chunk.TextChunk, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}

	return nil
}
