package domain

import "time"

const (
	NotificationResponse = "response"
	NotificationSave     = "save"
	NotificationHelpful  = "helpful"
	NotificationMessage  = "message"
	NotificationUpdate   = "update"
)

type Notification struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	RelatedProject string    `json:"related_project,omitempty"`
	RelatedUser    string    `json:"related_user,omitempty"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidNotificationType valida contra el enum del esquema.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationResponse, NotificationSave, NotificationHelpful, NotificationMessage, NotificationUpdate:
		return true
	}
	return false
}
