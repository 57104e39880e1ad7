// ABOUTME: ChunkStore interface and shared types for memory chunk persistence
// ABOUTME: Append-only contract implemented by memory, SQLite, and Postgres backends
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/harper/recall/internal/models"
)

// ErrStoreUnavailable indicates the persistence backend failed. It
// propagates to the caller; there is no silent degradation to another
// backend.
var ErrStoreUnavailable = errors.New("chunk store unavailable")

// ErrInvalidChunk indicates an append request failed validation. A chunk
// without an owner, text, provenance, or embedding never reaches the store.
var ErrInvalidChunk = errors.New("invalid chunk")

// AppendRequest carries the fields for a new chunk. The store assigns the
// ID and creation timestamp.
type AppendRequest struct {
	UserID     string
	SessionID  string
	TextChunk  string
	MessageIDs []string
	Embedding  []float64
	Meta       models.ChunkMeta
}

// Validate checks that the request describes a complete chunk.
func (r *AppendRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: user ID is required", ErrInvalidChunk)
	}
	if r.TextChunk == "" {
		return fmt.Errorf("%w: text chunk is required", ErrInvalidChunk)
	}
	if len(r.MessageIDs) == 0 {
		return fmt.Errorf("%w: at least one message ID is required", ErrInvalidChunk)
	}
	if len(r.Embedding) == 0 {
		return fmt.Errorf("%w: embedding is required", ErrInvalidChunk)
	}
	return nil
}

// Stats reports store-wide totals for the stats surfaces.
type Stats struct {
	TotalChunks   int64 `json:"total_chunks"`
	DistinctUsers int64 `json:"distinct_users"`
	Sessions      int64 `json:"sessions"`
}

// ChunkStore is the append-only persistence contract for memory chunks.
// Chunks are write-once; there is no update operation.
type ChunkStore interface {
	// Append assigns a new ID and creation timestamp, persists the chunk,
	// and returns the stored record. Never overwrites.
	Append(ctx context.Context, req AppendRequest) (*models.MemoryChunk, error)

	// ListByUser returns all chunks owned by userID in implementation-defined
	// order. A missing user yields an empty slice, not an error.
	ListByUser(ctx context.Context, userID string) ([]*models.MemoryChunk, error)

	// DeleteBySession removes all chunks originating from sessionID and
	// returns the removed count. Invoked by the session-deletion collaborator;
	// not part of the hot path.
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)

	// Stats reports store-wide totals.
	Stats(ctx context.Context) (*Stats, error)

	Close() error
}

// NewChunkID generates a unique chunk ID.
func NewChunkID() string {
	return "chunk_" + uuid.New().String()
}
