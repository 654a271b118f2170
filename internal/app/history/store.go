/*
Package history provides the durable, append-only log of direct messages.

Messages are appended by the message router and read back in chronological
order for history replay. Rows are never updated or deleted.
*/
package history

import (
	"context"
	"fmt"

	"pairchat/internal/app/chat"
	"pairchat/internal/app/db"
)

// Store persists messages in PostgreSQL. It implements chat.HistoryStore.
type Store struct {
	pool db.DBTX
}

// NewStore constructs a Store over the given pool.
func NewStore(pool db.DBTX) *Store {
	return &Store{pool: pool}
}

// Append stores one message and returns it with its storage-assigned id and
// timestamp. The insert is a single transaction; on error nothing is stored.
func (s *Store) Append(ctx context.Context, msg chat.Message) (chat.Message, error) {
	const query = `
		INSERT INTO messages (sender, receiver, body, sent_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, sent_at`

	stored := msg
	err := s.pool.QueryRow(ctx, query, msg.Sender, msg.Receiver, msg.Body).
		Scan(&stored.ID, &stored.SentAt)
	if err != nil {
		return chat.Message{}, fmt.Errorf("failed to append message: %w", err)
	}

	stored.SentAt = stored.SentAt.UTC()

	return stored, nil
}

// Between returns every message exchanged between the two identities, oldest
// first. Ties on sent_at fall back to insertion order via the id column. A
// pair that never exchanged messages yields an empty slice, not an error.
func (s *Store) Between(ctx context.Context, a, b string) ([]chat.Message, error) {
	const query = `
		SELECT id, sender, receiver, body, sent_at
		FROM messages
		WHERE (sender = $1 AND receiver = $2)
		   OR (sender = $2 AND receiver = $1)
		ORDER BY sent_at, id`

	rows, err := s.pool.Query(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	messages := make([]chat.Message, 0)
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.Sender, &msg.Receiver, &msg.Body, &msg.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.SentAt = msg.SentAt.UTC()
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
