// ABOUTME: SQLite-backed ChunkStore implementation
// ABOUTME: Stores embedding vectors as little-endian float64 BLOBs
package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/harper/recall/internal/models"
	"github.com/harper/recall/internal/storage"
)

// Store is the durable SQLite ChunkStore.
type Store struct {
	db *DB
}

// NewStore opens a SQLite chunk store at path. An empty path uses the
// XDG default location.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = DefaultDBPath()
	}
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrStoreUnavailable, err)
	}
	return &Store{db: db}, nil
}

// NewInMemoryStore creates a SQLite chunk store backed by :memory: (for testing).
func NewInMemoryStore() (*Store, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrStoreUnavailable, err)
	}
	return &Store{db: db}, nil
}

// Append validates the request, assigns an ID and timestamp, and inserts
// the chunk row. Rows are write-once; there is no update path.
func (s *Store) Append(ctx context.Context, req storage.AppendRequest) (*models.MemoryChunk, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	chunk := &models.MemoryChunk{
		ID:         storage.NewChunkID(),
		UserID:     req.UserID,
		SessionID:  req.SessionID,
		MessageIDs: append([]string(nil), req.MessageIDs...),
		TextChunk:  req.TextChunk,
		Embedding:  append([]float64(nil), req.Embedding...),
		CreatedAt:  time.Now().UTC(),
		Meta:       req.Meta,
	}

	messageIDs, err := json.Marshal(chunk.MessageIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message IDs: %w", err)
	}

	var extra []byte
	if len(chunk.Meta.Extra) > 0 {
		extra, err = json.Marshal(chunk.Meta.Extra)
		if err != nil {
			return nil, fmt.Errorf("failed to encode meta extra: %w", err)
		}
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO chunks (id, user_id, session_id, message_ids, text_chunk, embedding, provider, model, dimensions, extra, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, chunk.ID, chunk.UserID, chunk.SessionID, string(messageIDs), chunk.TextChunk,
		vectorToBlob(chunk.Embedding), chunk.Meta.Provider, chunk.Meta.Model,
		chunk.Meta.Dimensions, nullableString(extra), chunk.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to append chunk: %v", storage.ErrStoreUnavailable, err)
	}

	return chunk, nil
}

// ListByUser returns all chunks owned by userID, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]*models.MemoryChunk, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, user_id, session_id, message_ids, text_chunk, embedding, provider, model, dimensions, extra, created_at
		FROM chunks
		WHERE user_id = ?
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list chunks: %v", storage.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	chunks := []*models.MemoryChunk{}
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read chunk rows: %v", storage.ErrStoreUnavailable, err)
	}

	return chunks, nil
}

// DeleteBySession removes all chunks from the given session and returns
// the removed count.
func (s *Store) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	result, err := s.db.conn.ExecContext(ctx, "DELETE FROM chunks WHERE session_id = ?", sessionID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to delete session chunks: %v", storage.ErrStoreUnavailable, err)
	}
	return result.RowsAffected()
}

// Stats reports store-wide totals via COUNT queries.
func (s *Store) Stats(ctx context.Context) (*storage.Stats, error) {
	stats := &storage.Stats{}
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT user_id), COUNT(DISTINCT session_id) FROM chunks
	`).Scan(&stats.TotalChunks, &stats.DistinctUsers, &stats.Sessions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read stats: %v", storage.ErrStoreUnavailable, err)
	}
	return stats, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanChunk reads one chunk row.
func scanChunk(row scanner) (*models.MemoryChunk, error) {
	var (
		chunk      models.MemoryChunk
		messageIDs string
		blob       []byte
		extra      *string
		createdAt  string
	)

	err := row.Scan(&chunk.ID, &chunk.UserID, &chunk.SessionID, &messageIDs, &chunk.TextChunk,
		&blob, &chunk.Meta.Provider, &chunk.Meta.Model, &chunk.Meta.Dimensions, &extra, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan chunk: %v", storage.ErrStoreUnavailable, err)
	}

	if err := json.Unmarshal([]byte(messageIDs), &chunk.MessageIDs); err != nil {
		return nil, fmt.Errorf("failed to decode message IDs for chunk %s: %w", chunk.ID, err)
	}
	if extra != nil && *extra != "" {
		if err := json.Unmarshal([]byte(*extra), &chunk.Meta.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode meta extra for chunk %s: %w", chunk.ID, err)
		}
	}
	chunk.Embedding = blobToVector(blob)

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for chunk %s: %w", chunk.ID, err)
	}
	chunk.CreatedAt = ts

	return &chunk, nil
}

// nullableString converts an empty byte slice to nil for TEXT columns.
func nullableString(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// vectorToBlob converts a float64 slice to a little-endian binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob back to a float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
