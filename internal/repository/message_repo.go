package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"buildshare/internal/domain"
)

// MessageRepository define el contrato de persistencia para mensajes.
// Los registros son append-only: despues de Create solo cambia el flag read.
type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	ListByConversation(ctx context.Context, conversationID string, page domain.MessagePage) ([]domain.Message, error)
	ListByParticipant(ctx context.Context, userID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, conversationID, recipientID string) (int64, error)
	UnreadCount(ctx context.Context, conversationID, userID string) (int, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (id, sender_id, recipient_id, content, read, conversation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.SenderID,
		message.RecipientID,
		message.Content,
		message.Read,
		message.ConversationID,
		message.CreatedAt,
	)
	return err
}

// ListByConversation devuelve el historial ascendente por created_at. El
// cursor es opcional: Before/Limit en cero devuelven el historial completo.
func (r *PgMessageRepository) ListByConversation(ctx context.Context, conversationID string, page domain.MessagePage) ([]domain.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, content, read, conversation_id, created_at
		FROM messages
		WHERE conversation_id = $1
	`
	args := []any{conversationID}

	if !page.Before.IsZero() {
		args = append(args, page.Before)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	query += " ORDER BY created_at ASC"
	if page.Limit > 0 {
		args = append(args, page.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListByParticipant devuelve todos los mensajes donde el usuario es emisor o
// receptor, descendente por created_at. Alimenta al agregador de conversaciones.
func (r *PgMessageRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Message, error) {
	const query = `
		SELECT id, sender_id, recipient_id, content, read, conversation_id, created_at
		FROM messages
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// MarkRead marca como leidos los mensajes no leidos dirigidos al receptor en
// la conversacion. Idempotente: repetir la llamada no afecta filas.
func (r *PgMessageRepository) MarkRead(ctx context.Context, conversationID, recipientID string) (int64, error) {
	const query = `
		UPDATE messages
		SET read = TRUE
		WHERE conversation_id = $1 AND recipient_id = $2 AND NOT read
	`
	tag, err := r.pool.Exec(ctx, query, conversationID, recipientID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UnreadCount se recalcula en cada request; no hay contadores cacheados que
// puedan divergir.
func (r *PgMessageRepository) UnreadCount(ctx context.Context, conversationID, userID string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM messages
		WHERE conversation_id = $1 AND recipient_id = $2 AND NOT read
	`
	var count int
	err := r.pool.QueryRow(ctx, query, conversationID, userID).Scan(&count)
	return count, err
}

func scanMessages(rows pgx.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.RecipientID,
			&msg.Content,
			&msg.Read,
			&msg.ConversationID,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
