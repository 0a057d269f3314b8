package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRecord is one persisted chat message.
type MessageRecord struct {
	ConversationID string
	MessageID      uuid.UUID
	Direction      string // "incoming" or "outgoing"
	Content        string
	CreatedAt      time.Time
}

// Store persists chat history. The dialogue engine treats persistence as
// best-effort; a failing store never affects conversation correctness.
type Store interface {
	InsertMessage(ctx context.Context, rec MessageRecord) error
	History(ctx context.Context, conversationID string, limit int) ([]MessageRecord, error)
	Close() error
}

// Repository is the Postgres-backed message store.
type Repository struct {
	pool  *pgxpool.Pool
	table string
}

// Connect opens a Postgres pool, verifies connectivity and ensures the
// history table exists.
func Connect(ctx context.Context, databaseURL, schema string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &Repository{pool: pool, table: fmt.Sprintf("%s.chat_messages", schema)}
	if err := r.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureTable(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			message_id UUID NOT NULL,
			direction TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, r.table))
	if err != nil {
		return fmt.Errorf("ensure chat_messages table: %w", err)
	}
	return nil
}

// InsertMessage appends one message to the history.
func (r *Repository) InsertMessage(ctx context.Context, rec MessageRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (conversation_id, message_id, direction, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`, r.table),
		rec.ConversationID, rec.MessageID, rec.Direction, rec.Content, createdAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// History returns up to limit messages of a conversation in insertion order.
func (r *Repository) History(ctx context.Context, conversationID string, limit int) ([]MessageRecord, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT conversation_id, message_id, direction, content, created_at
		FROM %s
		WHERE conversation_id = $1
		ORDER BY id ASC
		LIMIT $2`, r.table),
		conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(&rec.ConversationID, &rec.MessageID, &rec.Direction, &rec.Content, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}
