// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Handles verbose/quiet/format flags shared by all subcommands
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██████╗ ███████╗ ██████╗ █████╗ ██╗     ██╗
██╔══██╗██╔════╝██╔════╝██╔══██╗██║     ██║
██████╔╝█████╗  ██║     ███████║██║     ██║
██╔══██╗██╔══╝  ██║     ██╔══██║██║     ██║
██║  ██║███████╗╚██████╗██║  ██║███████╗███████╗
╚═╝  ╚═╝╚══════╝ ╚═════╝╚═╝  ╚═╝╚══════╝╚══════╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Semantic memory for conversational agents",
		Long: banner + `
Recall turns conversational messages into persisted, retrievable memory
chunks and answers queries with the most relevant prior chunks, ranked
by blended semantic similarity and recency.

Memories are stored per user in SQLite by default; Postgres+pgvector
and an in-memory store are available via RECALL_STORE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			if outputFormat != "table" && outputFormat != "json" {
				return fmt.Errorf("--format must be table or json, got %q", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format: table or json")

	cmd.AddCommand(
		NewAddCmd(),
		NewSearchCmd(),
		NewForgetCmd(),
		NewStatsCmd(),
		NewExportCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
