package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/graduat/graduat-backend/internal/model"
)

// NotificationRepository handles notification data access.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a single notification.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (id, type, student_usuario, test_id, subject, score, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.Type, n.StudentID, n.TestID, n.Subject, n.Score, n.Read, n.CreatedAt,
	)
	return err
}

// CreateBatch inserts notifications drained from the persistence queue in
// one round-trip.
func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range ns {
		if ns[i].ID == uuid.Nil {
			ns[i].ID = uuid.New()
		}
		batch.Queue(
			`INSERT INTO notifications (id, type, student_usuario, test_id, subject, score, read, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ns[i].ID, ns[i].Type, ns[i].StudentID, ns[i].TestID, ns[i].Subject, ns[i].Score, ns[i].Read, ns[i].CreatedAt,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range ns {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListUnreadBySubjects retrieves unread notifications in the given subjects,
// newest first.
func (r *NotificationRepository) ListUnreadBySubjects(ctx context.Context, subjects []string) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, type, student_usuario, test_id, subject, score, read, created_at
		 FROM notifications
		 WHERE read = FALSE AND subject = ANY($1)
		 ORDER BY created_at DESC`, subjects,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.StudentID, &n.TestID, &n.Subject, &n.Score, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flips one notification to read. ErrNotFound when the id matches
// no row.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBySubjects removes all notifications in the given subjects.
func (r *NotificationRepository) DeleteBySubjects(ctx context.Context, subjects []string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE subject = ANY($1)`, subjects)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
