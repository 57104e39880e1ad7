// ABOUTME: MemoryChunk is the persisted unit of long-term semantic memory
// ABOUTME: Carries normalized text, its embedding vector, and message provenance
package models

import "time"

// MemoryChunk represents one stored segment of conversational memory.
// Chunks are write-once: created when a message is chunked and embedded,
// never mutated, and removed only when the owning session is deleted.
type MemoryChunk struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SessionID  string    `json:"session_id"`
	MessageIDs []string  `json:"message_ids"`
	TextChunk  string    `json:"text_chunk"`
	Embedding  []float64 `json:"embedding"`
	CreatedAt  time.Time `json:"created_at"`
	Meta       ChunkMeta `json:"meta,omitempty"`
}

// ChunkMeta records how a chunk's embedding was produced.
// Known fields are enumerated; Extra carries forward-compatible
// string annotations without falling back to an untyped blob.
type ChunkMeta struct {
	Provider   string            `json:"provider,omitempty"`
	Model      string            `json:"model,omitempty"`
	Dimensions int               `json:"dimensions,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}
