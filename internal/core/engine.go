// ABOUTME: Engine composes chunker, embedding provider, store, and ranker
// ABOUTME: Implements the persist and retrieve flows of the memory system
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/harper/recall/internal/embedding"
	"github.com/harper/recall/internal/models"
	"github.com/harper/recall/internal/storage"
)

// ErrEmptyQuery is returned by RetrieveContext for blank queries.
var ErrEmptyQuery = errors.New("query must not be empty")

// Engine is the composition root for the memory engine. It owns the
// persist pipeline (chunk, embed, append) and the retrieve pipeline
// (embed query, list, rank, truncate).
type Engine struct {
	store        storage.ChunkStore
	provider     embedding.Provider
	chunker      *Chunker
	ranker       *Ranker
	defaultLimit int
	maxLimit     int
}

// NewEngine wires an Engine from its collaborators. Non-positive limits
// fall back to the reference defaults.
func NewEngine(store storage.ChunkStore, provider embedding.Provider, chunker *Chunker, ranker *Ranker, defaultLimit, maxLimit int) *Engine {
	if defaultLimit <= 0 {
		defaultLimit = DefaultRetrieveLimit
	}
	if maxLimit <= 0 {
		maxLimit = DefaultMaxRetrieveLimit
	}
	return &Engine{
		store:        store,
		provider:     provider,
		chunker:      chunker,
		ranker:       ranker,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Provider returns the configured embedding provider.
func (e *Engine) Provider() embedding.Provider {
	return e.provider
}

// PersistMemory chunks content, embeds each chunk, and appends the
// resulting records for userID. Chunks are embedded sequentially; the
// first embedding or store failure aborts the pipeline and propagates.
// Chunks appended before the failure remain (each is complete); a chunk
// is never appended without its embedding. Empty or whitespace-only
// content is a no-op, not an error.
func (e *Engine) PersistMemory(ctx context.Context, userID, sessionID, messageID, content string) ([]*models.MemoryChunk, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if messageID == "" {
		return nil, fmt.Errorf("message ID is required")
	}

	segments := e.chunker.Chunk(content)
	if len(segments) == 0 {
		return []*models.MemoryChunk{}, nil
	}

	stored := make([]*models.MemoryChunk, 0, len(segments))
	for _, segment := range segments {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		vector, err := e.provider.Embed(ctx, segment)
		if err != nil {
			return stored, fmt.Errorf("failed to embed chunk: %w", err)
		}

		chunk, err := e.store.Append(ctx, storage.AppendRequest{
			UserID:     userID,
			SessionID:  sessionID,
			TextChunk:  segment,
			MessageIDs: []string{messageID},
			Embedding:  vector,
			Meta: models.ChunkMeta{
				Provider:   e.provider.Name(),
				Model:      providerModel(e.provider),
				Dimensions: len(vector),
			},
		})
		if err != nil {
			return stored, fmt.Errorf("failed to store chunk: %w", err)
		}

		stored = append(stored, chunk)
	}

	log.Printf("[Engine] persisted %d chunk(s) for user %s (message %s)", len(stored), userID, messageID)
	return stored, nil
}

// RetrieveContext embeds the query, fetches all of the user's chunks,
// and returns the top-limit results ranked by blended similarity and
// recency. Zero stored chunks is a valid empty result. Limits above the
// configured ceiling clamp; non-positive limits mean the default.
func (e *Engine) RetrieveContext(ctx context.Context, userID, query string, limit int) ([]models.RetrievedContext, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if NormalizeText(query) == "" {
		return nil, ErrEmptyQuery
	}

	if limit <= 0 {
		limit = e.defaultLimit
	}
	if limit > e.maxLimit {
		limit = e.maxLimit
	}

	queryEmbedding, err := e.provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := e.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	if len(chunks) == 0 {
		return []models.RetrievedContext{}, nil
	}

	return e.ranker.Rank(chunks, queryEmbedding, time.Now().UTC(), limit), nil
}

// ForgetSession cascades deletion of all chunks from a session and
// returns the removed count.
func (e *Engine) ForgetSession(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, fmt.Errorf("session ID is required")
	}
	removed, err := e.store.DeleteBySession(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session chunks: %w", err)
	}
	log.Printf("[Engine] forgot session %s (%d chunk(s) removed)", sessionID, removed)
	return removed, nil
}

// Stats reports store-wide totals.
func (e *Engine) Stats(ctx context.Context) (*storage.Stats, error) {
	return e.store.Stats(ctx)
}

// providerModel reports the model identifier when the provider exposes one.
func providerModel(p embedding.Provider) string {
	if m, ok := p.(interface{ Model() string }); ok {
		return m.Model()
	}
	return p.Name()
}
