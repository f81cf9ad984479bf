package service

import (
	"errors"
	"strings"
)

// El separador no es un caracter valido dentro de un UUID, asi que la
// concatenacion de dos IDs ordenados nunca colisiona entre pares distintos.
const conversationSeparator = "_"

var (
	ErrSelfConversation      = errors.New("conversation requires two distinct users")
	ErrInvalidConversationID = errors.New("invalid conversation id")
)

// ConversationID deriva la clave canonica de una conversacion 1:1: los dos
// IDs ordenados lexicograficamente y unidos por el separador. Simetrica:
// ConversationID(a, b) == ConversationID(b, a).
func ConversationID(a, b string) (string, error) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" || a == b {
		return "", ErrSelfConversation
	}
	if a > b {
		a, b = b, a
	}
	return a + conversationSeparator + b, nil
}

// ConversationParticipants recupera los dos IDs de participante de una clave.
func ConversationParticipants(conversationID string) (string, string, error) {
	parts := strings.Split(conversationID, conversationSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || parts[0] == parts[1] {
		return "", "", ErrInvalidConversationID
	}
	return parts[0], parts[1], nil
}

// IsParticipant indica si el usuario es uno de los dos miembros de la
// conversacion. Es la base del control de acceso a canales y al historial.
func IsParticipant(conversationID, userID string) bool {
	a, b, err := ConversationParticipants(conversationID)
	if err != nil {
		return false
	}
	return userID != "" && (userID == a || userID == b)
}

// OtherParticipant devuelve el miembro de la conversacion que no es userID.
func OtherParticipant(conversationID, userID string) (string, error) {
	a, b, err := ConversationParticipants(conversationID)
	if err != nil {
		return "", err
	}
	switch userID {
	case a:
		return b, nil
	case b:
		return a, nil
	}
	return "", ErrInvalidConversationID
}
