package repository

import (
	"context"
	"database/sql"
	"fmt"

	"netros/internal/db"
	"netros/internal/domain"
)

var _ domain.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implements ProjectRepository backed by SQLite.
type ProjectRepo struct {
	q db.DBTX
}

// NewProjectRepo creates a new ProjectRepo.
func NewProjectRepo(conn *sql.DB) *ProjectRepo {
	return &ProjectRepo{q: conn}
}

// WithTx returns a copy of the repo bound to the transaction.
func (r *ProjectRepo) WithTx(tx *sql.Tx) domain.ProjectRepository {
	return &ProjectRepo{q: tx}
}

// Create inserts a new project and returns the stored row.
func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO projects (name, description) VALUES (?, ?)",
		p.Name, nullStr(p.Description))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("project insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns one project.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return p, nil
}

// List returns all projects ordered by name.
func (r *ProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// Update writes the project's name and description.
func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	res, err := r.q.ExecContext(ctx,
		"UPDATE projects SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		p.Name, nullStr(p.Description), p.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("project %d not found", p.ID)
	}
	return r.GetByID(ctx, p.ID)
}

// Delete removes the project. Risks keep their rows with project_id cleared.
func (r *ProjectRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("project %d not found", id)
	}
	return nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p           domain.Project
		description sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Description = strPtr(description)
	return &p, nil
}
