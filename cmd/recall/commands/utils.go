// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Engine wiring from configuration plus small formatting helpers
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/recall/internal/config"
	"github.com/harper/recall/internal/core"
	"github.com/harper/recall/internal/embedding"
	"github.com/harper/recall/internal/storage"
	"github.com/harper/recall/internal/storage/postgres"
	"github.com/harper/recall/internal/storage/sqlite"
)

// buildEngine wires a memory engine from environment configuration.
// The caller must Close the returned store.
func buildEngine(ctx context.Context) (*core.Engine, storage.ChunkStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

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
		return nil, nil, fmt.Errorf("initializing %s store: %w", cfg.StoreBackend, err)
	}

	provider, err := embedding.NewFromConfig(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("initializing embedding provider: %w", err)
	}

	engine := core.NewEngine(
		store,
		provider,
		core.NewChunker(cfg.ChunkSize),
		core.NewRanker(cfg.SimilarityWeight, cfg.RecencyWeight, cfg.RecencyWindow),
		cfg.RetrieveLimit,
		cfg.RetrieveMaxLimit,
	)

	return engine, store, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
