package repository

import (
	"context"
	"time"

	"talentbridge/internal/database"
	"talentbridge/internal/domain/match"
	"talentbridge/internal/domain/message"

	"github.com/google/uuid"
)

type MessageRepository interface {
	// InsertGated persists the message inside the same transaction as a
	// row-locked mutuality check on the parent match. inserted=false
	// with a nil error means the gate was closed; nothing persisted.
	InsertGated(ctx context.Context, m message.Message) (bool, error)
	ListByMatch(ctx context.Context, matchID uuid.UUID) ([]message.Message, error)
	// MarkReadFromSender marks every unread message written by sender
	// as read (the counterparty opened the thread).
	MarkReadFromSender(ctx context.Context, matchID uuid.UUID, sender match.Role) error
}

type PostgresMessageRepository struct {
	db database.DB
}

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) InsertGated(ctx context.Context, m message.Message) (bool, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	inserted := false
	err := withTx(ctx, r.db, func(tx database.Tx) error {
		var mutual bool
		err := tx.QueryRow(ctx,
			`SELECT is_mutual FROM matches WHERE id = $1 FOR UPDATE`, m.MatchID).Scan(&mutual)
		if err != nil {
			if isNoRows(err) {
				return match.ErrNotFound
			}
			return err
		}
		if !mutual {
			return nil
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO messages (id, match_id, sender_type, content, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			m.ID, m.MatchID, string(m.SenderType), m.Content, m.CreatedAt,
		)
		if err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (r *PostgresMessageRepository) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]message.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, match_id, sender_type, content, is_read, created_at
		 FROM messages WHERE match_id = $1
		 ORDER BY created_at ASC`,
		matchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]message.Message, 0)
	for rows.Next() {
		var m message.Message
		var sender string
		if err := rows.Scan(&m.ID, &m.MatchID, &sender, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.SenderType = match.Role(sender)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresMessageRepository) MarkReadFromSender(ctx context.Context, matchID uuid.UUID, sender match.Role) error {
	_, err := r.db.Exec(ctx,
		`UPDATE messages SET is_read = TRUE
		 WHERE match_id = $1 AND sender_type = $2 AND NOT is_read`,
		matchID, string(sender),
	)
	return err
}
