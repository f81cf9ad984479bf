package domain

import "time"

const (
	UserTypeDeveloper = "developer"
	UserTypeEmployer  = "employer"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	UserType     string    `json:"user_type"`
	Title        string    `json:"title,omitempty"`
	Location     string    `json:"location,omitempty"`
	Company      string    `json:"company,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRef es la vista reducida de un usuario que viaja dentro de otros
// recursos (resumen de conversacion, notificacion).
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Title: u.Title}
}
