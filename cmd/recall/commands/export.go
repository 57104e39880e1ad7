// ABOUTME: CLI command to export a user's memories as a JSON document
// ABOUTME: Writes version, export timestamp, and all chunks to stdout or a file
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/recall/internal/models"
)

var (
	exportUser   string
	exportOutput string
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string                `json:"version"`
	ExportedAt string                `json:"exported_at"`
	Tool       string                `json:"tool"`
	UserID     string                `json:"user_id"`
	Chunks     []*models.MemoryChunk `json:"chunks"`
}

// NewExportCmd creates export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's memories to JSON",
		Long: `Export all of a user's memory chunks as a JSON document,
including embeddings and provenance metadata.

Examples:
  recall export --user alice
  recall export --user alice --output alice-memories.json`,
		RunE: runExport,
	}

	cmd.Flags().StringVar(&exportUser, "user", "", "User whose memories to export (required)")
	cmd.Flags().StringVar(&exportOutput, "output", "", "Output file (stdout when empty)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	ctx := cmd.Context()
	_, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	chunks, err := store.ListByUser(ctx, exportUser)
	if err != nil {
		return fmt.Errorf("listing chunks: %w", err)
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "recall",
		UserID:     exportUser,
		Chunks:     chunks,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}

	if exportOutput == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if err := os.WriteFile(exportOutput, append(jsonData, '\n'), 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d chunk(s) to %s\n", len(chunks), exportOutput)
	}

	return nil
}
