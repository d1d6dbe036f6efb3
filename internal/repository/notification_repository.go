package repository

import (
	"context"
	"time"

	"talentbridge/internal/database"
	"talentbridge/internal/domain/notification"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	// Insert writes the notification unless its dedup key already
	// exists; created reports whether a row was written.
	Insert(ctx context.Context, n notification.Notification) (bool, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	UnreadCountByType(ctx context.Context, userID uuid.UUID, typ notification.Type) (int, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Insert(ctx context.Context, n notification.Notification) (bool, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	var related any
	if n.RelatedID != uuid.Nil {
		related = n.RelatedID
	}

	affected, err := r.db.Exec(ctx,
		`INSERT INTO notifications (id, user_id, type, title, message, related_id, dedup_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (dedup_key) DO NOTHING`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, related, n.DedupKey, n.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresNotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT is_read`,
		userID).Scan(&n)
	return n, err
}

func (r *PostgresNotificationRepository) UnreadCountByType(ctx context.Context, userID uuid.UUID, typ notification.Type) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND type = $2 AND NOT is_read`,
		userID, string(typ)).Scan(&n)
	return n, err
}

func (r *PostgresNotificationRepository) List(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, title, message, COALESCE(related_id, '00000000-0000-0000-0000-000000000000'), is_read, created_at
		 FROM notifications WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, normalizeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &n.RelatedID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = notification.Type(typ)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`,
		userID)
	return err
}

func (r *PostgresNotificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return notification.ErrNotFound
	}
	return nil
}
