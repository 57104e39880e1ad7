// ABOUTME: Main entry point for the recall MCP server with stdio transport
// ABOUTME: Wires config, store backend, embedding provider, and MCP tools
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/recall/internal/config"
	"github.com/harper/recall/internal/core"
	"github.com/harper/recall/internal/embedding"
	"github.com/harper/recall/internal/mcp"
	"github.com/harper/recall/internal/storage"
	"github.com/harper/recall/internal/storage/postgres"
	"github.com/harper/recall/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("[Server] no .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] invalid configuration: %v", err)
	}

	ctx := context.Background()

	var store storage.ChunkStore
	switch cfg.StoreBackend {
	case config.StoreMemory:
		store = storage.NewMemoryStore()
	case config.StorePostgres:
		store, err = postgres.NewStore(ctx, cfg.PostgresDSN)
	default:
		store, err = sqlite.NewStore(cfg.SQLitePath)
	}
	if err != nil {
		log.Fatalf("[Server] failed to initialize %s store: %v", cfg.StoreBackend, err)
	}
	defer func() { _ = store.Close() }()

	provider, err := embedding.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("[Server] failed to initialize embedding provider: %v", err)
	}

	engine := core.NewEngine(
		store,
		provider,
		core.NewChunker(cfg.ChunkSize),
		core.NewRanker(cfg.SimilarityWeight, cfg.RecencyWeight, cfg.RecencyWindow),
		cfg.RetrieveLimit,
		cfg.RetrieveMaxLimit,
	)

	server := mcpserver.NewMCPServer(
		"Recall Memory Engine",
		"0.1.0",
	)
	mcp.RegisterTools(server, engine)

	log.Printf("[Server] recall MCP server starting on stdio (store=%s provider=%s)...",
		cfg.StoreBackend, provider.Name())
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("[Server] server error: %v", err)
	}
}
