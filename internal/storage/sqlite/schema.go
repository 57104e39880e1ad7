// ABOUTME: SQLite schema for memory chunk storage
// ABOUTME: One append-only chunks table with user and session indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Memory chunks table (append-only, write-once rows)
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    session_id TEXT NOT NULL,
    message_ids TEXT NOT NULL,
    text_chunk TEXT NOT NULL,
    embedding BLOB NOT NULL,
    provider TEXT,
    model TEXT,
    dimensions INTEGER,
    extra TEXT,
    created_at DATETIME NOT NULL
);

-- Indexes for tenant-scoped reads and session cascade deletes
CREATE INDEX IF NOT EXISTS idx_chunks_user ON chunks(user_id);
CREATE INDEX IF NOT EXISTS idx_chunks_session ON chunks(session_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
