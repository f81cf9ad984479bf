package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"buildshare/internal/domain"
)

// ProjectRepository expone la vista minima de proyectos que necesita el
// fan-out de notificaciones: dueno, titulo y set de usuarios que guardaron.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (domain.Project, error)
}

// ProjectUpdateRepository define el contrato de persistencia para updates.
type ProjectUpdateRepository interface {
	Create(ctx context.Context, update domain.ProjectUpdate) error
	ListByProject(ctx context.Context, projectID string) ([]domain.ProjectUpdate, error)
}

type PgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

func (r *PgProjectRepository) GetByID(ctx context.Context, id string) (domain.Project, error) {
	const query = `
		SELECT id, user_id, title, created_at
		FROM projects
		WHERE id = $1
	`
	var p domain.Project
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.UserID, &p.Title, &p.CreatedAt)
	if err != nil {
		return domain.Project{}, err
	}

	const savesQuery = `
		SELECT user_id
		FROM project_saves
		WHERE project_id = $1
	`
	rows, err := r.pool.Query(ctx, savesQuery, id)
	if err != nil {
		return domain.Project{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return domain.Project{}, err
		}
		p.Saves = append(p.Saves, userID)
	}
	return p, rows.Err()
}

type PgProjectUpdateRepository struct {
	pool *pgxpool.Pool
}

func NewPgProjectUpdateRepository(pool *pgxpool.Pool) *PgProjectUpdateRepository {
	return &PgProjectUpdateRepository{pool: pool}
}

func (r *PgProjectUpdateRepository) Create(ctx context.Context, update domain.ProjectUpdate) error {
	const query = `
		INSERT INTO project_updates (id, project_id, user_id, title, content, version, update_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		update.ID,
		update.ProjectID,
		update.UserID,
		update.Title,
		update.Content,
		update.Version,
		update.UpdateType,
		update.CreatedAt,
	)
	return err
}

func (r *PgProjectUpdateRepository) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectUpdate, error) {
	const query = `
		SELECT id, project_id, user_id, title, content, version, update_type, created_at
		FROM project_updates
		WHERE project_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []domain.ProjectUpdate
	for rows.Next() {
		var u domain.ProjectUpdate
		err := rows.Scan(
			&u.ID,
			&u.ProjectID,
			&u.UserID,
			&u.Title,
			&u.Content,
			&u.Version,
			&u.UpdateType,
			&u.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}
