// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to use recall via stdio
package commands

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/recall/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs recall as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to persist and retrieve memories via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  recall mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "recall": {
  #       "command": "recall",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("[CLI] no .env file found (this is okay for production): %v", err)
	}

	ctx := cmd.Context()
	engine, store, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	server := mcpserver.NewMCPServer(
		"Recall Memory Engine",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, engine)

	if !quiet {
		log.Printf("[CLI] recall MCP server starting on stdio...")
	}
	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
