package domain

import "time"

// Project es una vista de solo lectura: el CRUD de proyectos vive fuera de
// este servicio, aqui solo se consulta el dueno y el set de guardados para
// el fan-out de notificaciones.
type Project struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Saves     []string  `json:"saves,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	UpdateTypeFeature      = "feature"
	UpdateTypeBugfix       = "bugfix"
	UpdateTypeImprovement  = "improvement"
	UpdateTypeAnnouncement = "announcement"
)

type ProjectUpdate struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Version    string    `json:"version,omitempty"`
	UpdateType string    `json:"update_type"`
	CreatedAt  time.Time `json:"created_at"`
}
