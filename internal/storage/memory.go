// ABOUTME: In-memory ChunkStore for local development and unit tests
// ABOUTME: Explicitly constructed, injectable instance guarded by RWMutex
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/harper/recall/internal/models"
)

// MemoryStore is an in-process ChunkStore. It implements the same append
// and ranking-feed semantics as the durable backends so tests pass against
// either interchangeably. Construct one per consumer; it is never a hidden
// module-level singleton.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks []*models.MemoryChunk
}

// NewMemoryStore creates an empty in-memory chunk store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append validates the request, assigns an ID and timestamp, and stores
// the chunk. Slices are copied so later caller mutation cannot reach in.
func (s *MemoryStore) Append(_ context.Context, req AppendRequest) (*models.MemoryChunk, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	chunk := &models.MemoryChunk{
		ID:         NewChunkID(),
		UserID:     req.UserID,
		SessionID:  req.SessionID,
		MessageIDs: append([]string(nil), req.MessageIDs...),
		TextChunk:  req.TextChunk,
		Embedding:  append([]float64(nil), req.Embedding...),
		CreatedAt:  time.Now().UTC(),
		Meta:       req.Meta,
	}

	s.mu.Lock()
	s.chunks = append(s.chunks, chunk)
	s.mu.Unlock()

	return chunk, nil
}

// ListByUser returns all chunks owned by userID in insertion order.
func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]*models.MemoryChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*models.MemoryChunk{}
	for _, chunk := range s.chunks {
		if chunk.UserID == userID {
			results = append(results, chunk)
		}
	}
	return results, nil
}

// DeleteBySession removes all chunks from the given session and returns
// the removed count.
func (s *MemoryStore) DeleteBySession(_ context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []*models.MemoryChunk
	var removed int64
	for _, chunk := range s.chunks {
		if chunk.SessionID == sessionID {
			removed++
			continue
		}
		kept = append(kept, chunk)
	}
	s.chunks = kept

	return removed, nil
}

// Stats reports totals across all stored chunks.
func (s *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]struct{})
	sessions := make(map[string]struct{})
	for _, chunk := range s.chunks {
		users[chunk.UserID] = struct{}{}
		sessions[chunk.SessionID] = struct{}{}
	}

	return &Stats{
		TotalChunks:   int64(len(s.chunks)),
		DistinctUsers: int64(len(users)),
		Sessions:      int64(len(sessions)),
	}, nil
}

// Close releases nothing for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
