// ABOUTME: CLI command to display memory store totals
// ABOUTME: Reports chunk, user, and session counts via tabwriter or JSON
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memory store statistics",
		Long: `Show totals for the configured memory store.

Examples:
  recall stats
  recall stats --format json`,
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	ctx := cmd.Context()
	engine, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	stats, err := engine.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Chunks\t%d\n", stats.TotalChunks)
	fmt.Fprintf(w, "Users\t%d\n", stats.DistinctUsers)
	fmt.Fprintf(w, "Sessions\t%d\n", stats.Sessions)
	w.Flush()

	return nil
}
