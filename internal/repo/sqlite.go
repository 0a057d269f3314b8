package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the file-backed message store used when no DATABASE_URL is
// configured (local mode).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite history database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// modernc sqlite does not support concurrent writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL,
			message_id TEXT NOT NULL,
			direction TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure chat_messages table: %w", err)
	}
	return nil
}

// InsertMessage appends one message to the history.
func (s *SQLiteStore) InsertMessage(ctx context.Context, rec MessageRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (conversation_id, message_id, direction, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ConversationID, rec.MessageID.String(), rec.Direction, rec.Content, createdAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// History returns up to limit messages of a conversation in insertion order.
func (s *SQLiteStore) History(ctx context.Context, conversationID string, limit int) ([]MessageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT conversation_id, message_id, direction, content, created_at
		FROM chat_messages
		WHERE conversation_id = ?
		ORDER BY id ASC
		LIMIT ?`,
		conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		var messageID string
		if err := rows.Scan(&rec.ConversationID, &messageID, &rec.Direction, &rec.Content, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if parsed, err := uuid.Parse(messageID); err == nil {
			rec.MessageID = parsed
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
