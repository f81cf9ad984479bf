package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"buildshare/internal/domain"
)

// NotificationRepository define el contrato de persistencia para notificaciones.
type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type PgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgNotificationRepository(pool *pgxpool.Pool) *PgNotificationRepository {
	return &PgNotificationRepository{pool: pool}
}

func (r *PgNotificationRepository) Create(ctx context.Context, n domain.Notification) error {
	const query = `
		INSERT INTO notifications (id, user_id, type, message, related_project, related_user, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		n.ID,
		n.UserID,
		n.Type,
		n.Message,
		nullIfEmpty(n.RelatedProject),
		nullIfEmpty(n.RelatedUser),
		n.Read,
		n.CreatedAt,
	)
	return err
}

func (r *PgNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	const query = `
		SELECT id, user_id, type, message, related_project, related_user, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var relatedProject, relatedUser *string
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Message,
			&relatedProject,
			&relatedUser,
			&n.Read,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if relatedProject != nil {
			n.RelatedProject = *relatedProject
		}
		if relatedUser != nil {
			n.RelatedUser = *relatedUser
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead solo afecta notificaciones del propio usuario; devuelve
// pgx.ErrNoRows si no existe o pertenece a otro.
func (r *PgNotificationRepository) MarkRead(ctx context.Context, id, userID string) (domain.Notification, error) {
	const query = `
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, type, message, related_project, related_user, read, created_at
	`
	var n domain.Notification
	var relatedProject, relatedUser *string
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.Message,
		&relatedProject,
		&relatedUser,
		&n.Read,
		&n.CreatedAt,
	)
	if err != nil {
		return domain.Notification{}, err
	}
	if relatedProject != nil {
		n.RelatedProject = *relatedProject
	}
	if relatedUser != nil {
		n.RelatedUser = *relatedUser
	}
	return n, nil
}

func (r *PgNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	const query = `
		UPDATE notifications
		SET read = TRUE
		WHERE user_id = $1 AND NOT read
	`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
