// ABOUTME: CLI command to delete all chunks from a session
// ABOUTME: Cascading removal with a confirmation prompt unless --yes
package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	forgetSession string
	forgetYes     bool
)

// NewForgetCmd creates forget command
func NewForgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Forget all memories from a session",
		Long: `Delete every memory chunk that originated from a session.

This is the cascading removal used when a conversation is deleted.

Examples:
  recall forget --session standup-2026-08-29
  recall forget --session standup-2026-08-29 --yes`,
		RunE: runForget,
	}

	cmd.Flags().StringVar(&forgetSession, "session", "", "Session whose chunks to remove (required)")
	cmd.Flags().BoolVar(&forgetYes, "yes", false, "Skip confirmation prompt")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func runForget(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if !forgetYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete all chunks from session %q? [y/N]: ", forgetSession)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	ctx := cmd.Context()
	engine, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	removed, err := engine.ForgetSession(ctx, forgetSession)
	if err != nil {
		return fmt.Errorf("forgetting session: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d chunk(s) from session %s\n", removed, forgetSession)
	}

	return nil
}
