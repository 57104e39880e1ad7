// ABOUTME: Tests for the persist and retrieve pipelines of the Engine
// ABOUTME: Includes the end-to-end fallback-embedding retrieval scenario
package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/harper/recall/internal/embedding"
	"github.com/harper/recall/internal/models"
	"github.com/harper/recall/internal/storage"
)

// failingProvider returns an error after failAfter successful calls.
type failingProvider struct {
	failAfter int
	calls     int
}

func (p *failingProvider) Embed(_ context.Context, text string) ([]float64, error) {
	p.calls++
	if p.calls > p.failAfter {
		return nil, fmt.Errorf("%w: simulated outage", embedding.ErrProviderFailure)
	}
	return []float64{1, 2, 3}, nil
}

func (p *failingProvider) Dimensions() int { return 3 }
func (p *failingProvider) Name() string    { return "failing" }

func newTestEngine(t *testing.T) (*Engine, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	engine := NewEngine(store, embedding.NewFallbackProvider(), NewChunker(DefaultChunkSize), NewDefaultRanker(), DefaultRetrieveLimit, DefaultMaxRetrieveLimit)
	return engine, store
}

func TestEngine_PersistMemory(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	chunks, err := engine.PersistMemory(ctx, "user1", "session1", "msg1", "I have a dentist appointment Friday")
	if err != nil {
		t.Fatalf("PersistMemory() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	chunk := chunks[0]
	if chunk.ID == "" {
		t.Error("chunk ID should be assigned")
	}
	if chunk.UserID != "user1" || chunk.SessionID != "session1" {
		t.Errorf("chunk ownership = %s/%s, want user1/session1", chunk.UserID, chunk.SessionID)
	}
	if len(chunk.MessageIDs) != 1 || chunk.MessageIDs[0] != "msg1" {
		t.Errorf("MessageIDs = %v, want [msg1]", chunk.MessageIDs)
	}
	if len(chunk.Embedding) != embedding.FallbackDimensions {
		t.Errorf("embedding length = %d, want %d", len(chunk.Embedding), embedding.FallbackDimensions)
	}
	if chunk.Meta.Provider != "fallback" {
		t.Errorf("Meta.Provider = %q, want fallback", chunk.Meta.Provider)
	}

	// Write-then-read visibility: the chunk appears exactly once
	stored, err := store.ListByUser(ctx, "user1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	count := 0
	for _, s := range stored {
		if s.ID == chunk.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("appended chunk appears %d times, want 1", count)
	}
}

func TestEngine_PersistMemory_EmptyContentIsNoOp(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	chunks, err := engine.PersistMemory(ctx, "user1", "session1", "msg1", "   \n\t  ")
	if err != nil {
		t.Fatalf("PersistMemory() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace content, got %d", len(chunks))
	}

	stored, _ := store.ListByUser(ctx, "user1")
	if len(stored) != 0 {
		t.Errorf("store should be empty, has %d chunks", len(stored))
	}
}

func TestEngine_PersistMemory_SplitsLongContent(t *testing.T) {
	store := storage.NewMemoryStore()
	engine := NewEngine(store, embedding.NewFallbackProvider(), NewChunker(10), NewDefaultRanker(), 6, 20)
	ctx := context.Background()

	chunks, err := engine.PersistMemory(ctx, "user1", "session1", "msg1", "this message is long enough for several chunks")
	if err != nil {
		t.Fatalf("PersistMemory() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			t.Errorf("chunk %s stored without embedding", chunk.ID)
		}
	}
}

func TestEngine_PersistMemory_ProviderFailurePropagates(t *testing.T) {
	store := storage.NewMemoryStore()
	provider := &failingProvider{failAfter: 1}
	engine := NewEngine(store, provider, NewChunker(10), NewDefaultRanker(), 6, 20)
	ctx := context.Background()

	// Content yields several chunks; the provider fails on the second embed
	stored, err := engine.PersistMemory(ctx, "user1", "session1", "msg1", "first chunk and then some more text")
	if err == nil {
		t.Fatal("expected error from failing provider")
	}
	if !errors.Is(err, embedding.ErrProviderFailure) {
		t.Errorf("error = %v, want ErrProviderFailure", err)
	}

	// The chunk embedded before the failure remains; nothing partial exists
	if len(stored) != 1 {
		t.Errorf("expected 1 chunk stored before failure, got %d", len(stored))
	}
	persisted, _ := store.ListByUser(ctx, "user1")
	for _, chunk := range persisted {
		if len(chunk.Embedding) == 0 {
			t.Errorf("chunk %s persisted without embedding", chunk.ID)
		}
	}
}

func TestEngine_PersistMemory_CancelledContextStopsPipeline(t *testing.T) {
	engine, store := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.PersistMemory(ctx, "user1", "session1", "msg1", "some content")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}

	persisted, _ := store.ListByUser(context.Background(), "user1")
	for _, chunk := range persisted {
		if len(chunk.Embedding) == 0 {
			t.Errorf("chunk %s persisted without embedding", chunk.ID)
		}
	}
}

func TestEngine_RetrieveContext_EmptyStore(t *testing.T) {
	engine, _ := newTestEngine(t)

	results, err := engine.RetrieveContext(context.Background(), "nobody", "anything", 5)
	if err != nil {
		t.Fatalf("RetrieveContext() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestEngine_RetrieveContext_BlankQuery(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.RetrieveContext(context.Background(), "user1", "   ", 5)
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("error = %v, want ErrEmptyQuery", err)
	}
}

func TestEngine_RetrieveContext_DentistScenario(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	texts := []string{
		"I have a dentist appointment Friday",
		"My favorite color is blue",
		"Dentist appointment moved to Monday",
	}
	for i, text := range texts {
		if _, err := engine.PersistMemory(ctx, "U", "s1", fmt.Sprintf("msg%d", i), text); err != nil {
			t.Fatalf("PersistMemory(%q) error = %v", text, err)
		}
	}

	query := "When is my dentist appointment?"
	results, err := engine.RetrieveContext(ctx, "U", query, 3)
	if err != nil {
		t.Fatalf("RetrieveContext() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// The two dentist chunks outrank the color chunk
	if results[2].Chunk.TextChunk != "My favorite color is blue" {
		t.Errorf("last result = %q, want the color chunk", results[2].Chunk.TextChunk)
	}

	// Scores match a reference computation with the same provider and
	// weights, not hand-picked constants
	provider := embedding.NewFallbackProvider()
	queryVec, _ := provider.Embed(ctx, query)
	for _, result := range results {
		chunkVec, _ := provider.Embed(ctx, result.Chunk.TextChunk)
		wantSim := CosineSimilarity(chunkVec, queryVec)
		if diff := result.SimilarityScore - wantSim; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("similarity for %q = %v, want %v",
				result.Chunk.TextChunk, result.SimilarityScore, wantSim)
		}
		wantFinal := wantSim*DefaultSimilarityWeight + result.RecencyScore*DefaultRecencyWeight
		if diff := result.FinalScore - wantFinal; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("final score for %q = %v, want %v",
				result.Chunk.TextChunk, result.FinalScore, wantFinal)
		}
	}
}

func TestEngine_RetrieveContext_TenantIsolation(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.PersistMemory(ctx, "alice", "s1", "m1", "alice remembers the sea"); err != nil {
		t.Fatalf("PersistMemory() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := engine.PersistMemory(ctx, "bob", "s2", fmt.Sprintf("m%d", i), "bob remembers the mountains"); err != nil {
			t.Fatalf("PersistMemory() error = %v", err)
		}
	}

	results, err := engine.RetrieveContext(ctx, "alice", "what do I remember?", 10)
	if err != nil {
		t.Fatalf("RetrieveContext() error = %v", err)
	}
	for _, result := range results {
		if result.Chunk.UserID != "alice" {
			t.Errorf("result belongs to %s, want alice only", result.Chunk.UserID)
		}
	}
}

func TestEngine_RetrieveContext_LimitClamping(t *testing.T) {
	store := storage.NewMemoryStore()
	engine := NewEngine(store, embedding.NewFallbackProvider(), NewChunker(450), NewDefaultRanker(), 2, 3)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if _, err := engine.PersistMemory(ctx, "u", "s", fmt.Sprintf("m%d", i), fmt.Sprintf("memory number %d", i)); err != nil {
			t.Fatalf("PersistMemory() error = %v", err)
		}
	}

	// limit <= 0 means the default (2)
	results, err := engine.RetrieveContext(ctx, "u", "memory", 0)
	if err != nil {
		t.Fatalf("RetrieveContext() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("default limit results = %d, want 2", len(results))
	}

	// limits above the ceiling clamp (3)
	results, err = engine.RetrieveContext(ctx, "u", "memory", 50)
	if err != nil {
		t.Fatalf("RetrieveContext() error = %v", err)
	}
	if len(results) != 3 {
		t.Errorf("clamped limit results = %d, want 3", len(results))
	}
}

func TestEngine_ForgetSession(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.PersistMemory(ctx, "u", "keep", "m1", "kept memory"); err != nil {
		t.Fatalf("PersistMemory() error = %v", err)
	}
	if _, err := engine.PersistMemory(ctx, "u", "drop", "m2", "dropped memory"); err != nil {
		t.Fatalf("PersistMemory() error = %v", err)
	}

	removed, err := engine.ForgetSession(ctx, "drop")
	if err != nil {
		t.Fatalf("ForgetSession() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	remaining, _ := store.ListByUser(ctx, "u")
	if len(remaining) != 1 || remaining[0].SessionID != "keep" {
		t.Errorf("remaining chunks = %v, want only the keep session", remaining)
	}
}

func TestEngine_RecencyInfluencesRanking(t *testing.T) {
	// Two chunks with identical text: the fresher one must rank first
	store := storage.NewMemoryStore()
	provider := embedding.NewFallbackProvider()
	ranker := NewDefaultRanker()
	ctx := context.Background()

	vec, _ := provider.Embed(ctx, "identical text")
	old, err := store.Append(ctx, storage.AppendRequest{
		UserID: "u", SessionID: "s", TextChunk: "identical text",
		MessageIDs: []string{"m1"}, Embedding: vec,
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	fresh, err := store.Append(ctx, storage.AppendRequest{
		UserID: "u", SessionID: "s", TextChunk: "identical text",
		MessageIDs: []string{"m2"}, Embedding: vec,
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	// Backdate the first chunk well inside the decay window
	old.CreatedAt = time.Now().UTC().Add(-20 * 24 * time.Hour)

	results := ranker.Rank([]*models.MemoryChunk{old, fresh}, vec, time.Now().UTC(), 2)
	if results[0].Chunk.ID != fresh.ID {
		t.Errorf("top result = %s, want the fresher chunk %s", results[0].Chunk.ID, fresh.ID)
	}
}
