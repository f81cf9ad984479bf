package domain

import "time"

// Message es un registro inmutable de mensajeria 1:1. Solo el flag Read
// cambia despues de creado; nunca se borra.
type Message struct {
	ID             string    `json:"id"`
	SenderID       string    `json:"sender_id"`
	RecipientID    string    `json:"recipient_id"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	ConversationID string    `json:"conversation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessagePage es un cursor opcional para el historial de una conversacion.
// El valor cero devuelve el historial completo.
type MessagePage struct {
	Before time.Time
	Limit  int
}

// ConversationSummary es una vista derivada, nunca persistida: una entrada
// por conversacion del usuario, ordenada por ultimo mensaje.
type ConversationSummary struct {
	ConversationID  string    `json:"conversation_id"`
	OtherUser       UserRef   `json:"other_user"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int       `json:"unread_count"`
}
