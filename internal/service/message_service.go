package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"buildshare/internal/domain"
	"buildshare/internal/repository"
)

// Broadcaster empuja mensajes recien creados al canal en tiempo real de la
// conversacion. La implementacion vive en internal/ws.
type Broadcaster interface {
	NewMessage(msg domain.Message)
}

// NotificationSink encola notificaciones fire-and-forget. La implementacion
// es el Notifier asincrono de este paquete.
type NotificationSink interface {
	Notify(userID, notifType, message, relatedProject, relatedUser string)
}

var (
	ErrEmptyContent         = errors.New("message content is empty")
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrNotParticipant       = errors.New("not a conversation participant")
	ErrConversationNotFound = errors.New("conversation not found")
)

// MessageService coordina el envio de mensajes: validacion, clave de
// conversacion, persistencia, push en tiempo real y notificacion.
type MessageService struct {
	logger      *zap.Logger
	messages    repository.MessageRepository
	users       repository.UserRepository
	broadcaster Broadcaster
	notifier    NotificationSink
}

func NewMessageService(
	logger *zap.Logger,
	messages repository.MessageRepository,
	users repository.UserRepository,
	broadcaster Broadcaster,
	notifier NotificationSink,
) *MessageService {
	return &MessageService{
		logger:      logger,
		messages:    messages,
		users:       users,
		broadcaster: broadcaster,
		notifier:    notifier,
	}
}

// Send valida y persiste un mensaje nuevo con read=false y timestamp del
// servidor, luego lo publica en el canal de la conversacion y encola la
// notificacion al receptor. Ni el push ni la notificacion pueden hacer
// fallar el envio.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, ErrEmptyContent
	}

	conversationID, err := ConversationID(senderID, recipientID)
	if err != nil {
		return domain.Message{}, err
	}

	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Message{}, ErrRecipientNotFound
		}
		return domain.Message{}, err
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return domain.Message{}, err
	}

	msg := domain.Message{
		ID:             uuid.NewString(),
		SenderID:       sender.ID,
		RecipientID:    recipient.ID,
		Content:        content,
		Read:           false,
		ConversationID: conversationID,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return domain.Message{}, err
	}

	if s.broadcaster != nil {
		s.broadcaster.NewMessage(msg)
	}
	if s.notifier != nil {
		s.notifier.Notify(
			recipient.ID,
			domain.NotificationMessage,
			fmt.Sprintf("%s sent you a message", sender.Name),
			"",
			sender.ID,
		)
	}

	return msg, nil
}

// GetConversation devuelve el historial ascendente y marca como leidos los
// mensajes dirigidos al usuario. Solo los dos participantes pueden leerlo.
func (s *MessageService) GetConversation(ctx context.Context, conversationID, userID string, page domain.MessagePage) ([]domain.Message, error) {
	if !IsParticipant(conversationID, userID) {
		return nil, ErrNotParticipant
	}

	messages, err := s.messages.ListByConversation(ctx, conversationID, page)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, ErrConversationNotFound
	}

	if _, err := s.messages.MarkRead(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return messages, nil
}
