// ABOUTME: CLI command to persist a message into semantic memory
// ABOUTME: Handles text from argument, file, or stdin and runs the persist pipeline
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	addUser    string
	addSession string
	addMessage string
	addFile    string
)

// NewAddCmd creates add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a new memory",
		Long: `Add a new memory from text, file, or stdin.

The content is chunked, embedded, and persisted for the given user.

Examples:
  recall add --user alice --session standup "Met with Bob about project X"
  recall add --user alice --file notes.txt
  cat notes.txt | recall add --user alice`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addUser, "user", "", "Owning user ID (required)")
	cmd.Flags().StringVar(&addSession, "session", "default", "Session the memory belongs to")
	cmd.Flags().StringVar(&addMessage, "message", "", "Source message ID (generated when empty)")
	cmd.Flags().StringVar(&addFile, "file", "", "Read memory from file")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	var text string
	if addFile != "" {
		data, err := os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	} else if len(args) > 0 {
		text = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	messageID := addMessage
	if messageID == "" {
		messageID = "msg_" + uuid.New().String()[:8]
	}

	ctx := cmd.Context()
	engine, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	chunks, err := engine.PersistMemory(ctx, addUser, addSession, messageID, text)
	if err != nil {
		return fmt.Errorf("persisting memory: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(chunks) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remember (empty content)")
		}
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d chunk(s) for user %s (message %s)\n",
			len(chunks), addUser, messageID)
		if verbose {
			for _, chunk := range chunks {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", chunk.ID, truncate(chunk.TextChunk, 60))
			}
		}
	}

	return nil
}
