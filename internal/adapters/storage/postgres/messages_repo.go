package postgres

import (
	"context"
	"database/sql"

	"pet-rescue-network/internal/domain/messages"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (r *MessagesRepo) Create(ctx context.Context, m messages.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (
			id, sender_id, receiver_id,
			text, image_url, read,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		m.ID,
		m.SenderID,
		m.ReceiverID,
		m.Text,
		m.ImageURL,
		m.Read,
		m.CreatedAt,
	)
	return err
}

func (r *MessagesRepo) ListForUser(ctx context.Context, userID string) ([]messages.Message, error) {
	return r.list(ctx, `
		SELECT id, sender_id, receiver_id, text, image_url, read, created_at
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
	`, userID)
}

func (r *MessagesRepo) ListThread(ctx context.Context, userID, counterpartID string) ([]messages.Message, error) {
	return r.list(ctx, `
		SELECT id, sender_id, receiver_id, text, image_url, read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`, userID, counterpartID)
}

func (r *MessagesRepo) MarkThreadRead(ctx context.Context, userID, counterpartID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages
		SET read = TRUE
		WHERE receiver_id = $1 AND sender_id = $2 AND read = FALSE
	`, userID, counterpartID)
	return err
}

func (r *MessagesRepo) list(ctx context.Context, query string, args ...any) ([]messages.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]messages.Message, 0)
	for rows.Next() {
		var m messages.Message
		if err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Text,
			&m.ImageURL,
			&m.Read,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
