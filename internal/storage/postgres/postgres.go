// ABOUTME: Postgres+pgvector ChunkStore for scale-out deployments
// ABOUTME: Stores embeddings in a vector column via lib/pq, ranks in-process
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/harper/recall/internal/models"
	"github.com/harper/recall/internal/storage"
	"github.com/harper/recall/internal/util"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    session_id TEXT NOT NULL,
    message_ids JSONB NOT NULL,
    text_chunk TEXT NOT NULL,
    embedding vector NOT NULL,
    provider TEXT,
    model TEXT,
    dimensions INTEGER,
    extra JSONB,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_user ON chunks(user_id);
CREATE INDEX IF NOT EXISTS idx_chunks_session ON chunks(session_id);
`

// pingAttempts bounds the startup connectivity check.
const pingAttempts = 5

// Store is the Postgres-backed ChunkStore. All backends feed the same
// in-process ranker, so this store only persists and lists chunks; no
// SQL-side scoring happens here.
type Store struct {
	db *sql.DB
}

// NewStore connects to Postgres, verifies connectivity with bounded
// exponential backoff, and ensures the schema exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open postgres: %v", storage.ErrStoreUnavailable, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	var lastErr error
	for attempt := 0; attempt < pingAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				_ = db.Close()
				return nil, ctx.Err()
			case <-time.After(util.CalculateBackoff(500*time.Millisecond, attempt)):
			}
		}
		if lastErr = db.PingContext(ctx); lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ping postgres after %d attempts: %v",
			storage.ErrStoreUnavailable, pingAttempts, lastErr)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ensure schema: %v", storage.ErrStoreUnavailable, err)
	}

	return &Store{db: db}, nil
}

// Append validates the request, assigns an ID and timestamp, and inserts
// the chunk row.
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

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chunks (id, user_id, session_id, message_ids, text_chunk, embedding, provider, model, dimensions, extra, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::vector, $7, $8, $9, $10, $11)
	`, chunk.ID, chunk.UserID, chunk.SessionID, string(messageIDs), chunk.TextChunk,
		VectorToString(chunk.Embedding), chunk.Meta.Provider, chunk.Meta.Model,
		chunk.Meta.Dimensions, nullableJSON(extra), chunk.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to append chunk: %v", storage.ErrStoreUnavailable, err)
	}

	return chunk, nil
}

// ListByUser returns all chunks owned by userID, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]*models.MemoryChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, session_id, message_ids, text_chunk, embedding::text, provider, model, dimensions, extra, created_at
		FROM chunks
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list chunks: %v", storage.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	chunks := []*models.MemoryChunk{}
	for rows.Next() {
		var (
			chunk      models.MemoryChunk
			messageIDs []byte
			vectorStr  string
			provider   sql.NullString
			model      sql.NullString
			dimensions sql.NullInt64
			extra      []byte
		)

		err := rows.Scan(&chunk.ID, &chunk.UserID, &chunk.SessionID, &messageIDs, &chunk.TextChunk,
			&vectorStr, &provider, &model, &dimensions, &extra, &chunk.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan chunk: %v", storage.ErrStoreUnavailable, err)
		}

		if err := json.Unmarshal(messageIDs, &chunk.MessageIDs); err != nil {
			return nil, fmt.Errorf("failed to decode message IDs for chunk %s: %w", chunk.ID, err)
		}
		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &chunk.Meta.Extra); err != nil {
				return nil, fmt.Errorf("failed to decode meta extra for chunk %s: %w", chunk.ID, err)
			}
		}
		chunk.Embedding, err = VectorFromString(vectorStr)
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedding for chunk %s: %w", chunk.ID, err)
		}
		chunk.Meta.Provider = provider.String
		chunk.Meta.Model = model.String
		chunk.Meta.Dimensions = int(dimensions.Int64)

		chunks = append(chunks, &chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read chunk rows: %v", storage.ErrStoreUnavailable, err)
	}

	return chunks, nil
}

// DeleteBySession removes all chunks from the given session and returns
// the removed count.
func (s *Store) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE session_id = $1", sessionID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to delete session chunks: %v", storage.ErrStoreUnavailable, err)
	}
	return result.RowsAffected()
}

// Stats reports store-wide totals via COUNT queries.
func (s *Store) Stats(ctx context.Context) (*storage.Stats, error) {
	stats := &storage.Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT user_id), COUNT(DISTINCT session_id) FROM chunks
	`).Scan(&stats.TotalChunks, &stats.DistinctUsers, &stats.Sessions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read stats: %v", storage.ErrStoreUnavailable, err)
	}
	return stats, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// nullableJSON converts an empty byte slice to nil for JSONB columns.
func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// VectorToString converts a float64 slice to pgvector literal format: [0.1,0.2,0.3]
func VectorToString(v []float64) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = strconv.FormatFloat(val, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// VectorFromString parses a pgvector literal back into a float64 slice.
func VectorFromString(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("malformed vector literal: %q", s)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if body == "" {
		return []float64{}, nil
	}

	parts := strings.Split(body, ",")
	vector := make([]float64, len(parts))
	for i, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed vector element %d: %w", i, err)
		}
		vector[i] = val
	}
	return vector, nil
}
