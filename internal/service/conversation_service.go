package service

import (
	"context"

	"buildshare/internal/domain"
	"buildshare/internal/repository"
)

// ConversationService pliega el historial de un usuario en resumenes de
// conversacion deduplicados y ordenados por ultimo mensaje.
type ConversationService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
}

func NewConversationService(messages repository.MessageRepository, users repository.UserRepository) *ConversationService {
	return &ConversationService{messages: messages, users: users}
}

// Summaries recorre los mensajes del usuario (ya ordenados descendente por
// el repositorio) y se queda con el primero de cada conversacion como
// semilla del resumen; el orden de aparicion resuelve empates de timestamp.
// Un usuario sin mensajes produce una lista vacia, no un error.
func (s *ConversationService) Summaries(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	messages, err := s.messages.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ConversationSummary, 0, len(messages))
	seen := make(map[string]int)
	var otherIDs []string

	for _, msg := range messages {
		if _, ok := seen[msg.ConversationID]; ok {
			continue
		}
		otherID := msg.SenderID
		if otherID == userID {
			otherID = msg.RecipientID
		}
		seen[msg.ConversationID] = len(summaries)
		otherIDs = append(otherIDs, otherID)
		summaries = append(summaries, domain.ConversationSummary{
			ConversationID:  msg.ConversationID,
			OtherUser:       domain.UserRef{ID: otherID},
			LastMessage:     msg.Content,
			LastMessageTime: msg.CreatedAt,
		})
	}

	refs, err := s.users.ListRefs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		if ref, ok := refs[summaries[i].OtherUser.ID]; ok {
			summaries[i].OtherUser = ref
		}
		count, err := s.messages.UnreadCount(ctx, summaries[i].ConversationID, userID)
		if err != nil {
			return nil, err
		}
		summaries[i].UnreadCount = count
	}

	return summaries, nil
}
