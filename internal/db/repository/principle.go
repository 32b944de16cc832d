package repository

import (
	"context"
	"database/sql"
	"fmt"

	"netros/internal/db"
	"netros/internal/domain"
)

var _ domain.PrincipleRepository = (*PrincipleRepo)(nil)

const principleColumns = `id, framework, code, category, title, description,
	legal_text, sort_order, version, effective_date, deprecated_date,
	created_at, updated_at`

// PrincipleRepo implements PrincipleRepository backed by SQLite. Principles
// are reference data; writes happen during seeding and framework updates.
type PrincipleRepo struct {
	q db.DBTX
}

// NewPrincipleRepo creates a new PrincipleRepo.
func NewPrincipleRepo(conn *sql.DB) *PrincipleRepo {
	return &PrincipleRepo{q: conn}
}

// Create inserts a principle and returns the stored row.
func (r *PrincipleRepo) Create(ctx context.Context, p *domain.Principle) (*domain.Principle, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO principles (framework, code, category, title, description, legal_text, sort_order, version, effective_date, deprecated_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.Framework), p.Code, p.Category, p.Title, nullStr(p.Description),
		nullStr(p.LegalText), p.SortOrder, p.Version, nullTime(p.EffectiveDate), nullTime(p.DeprecatedDate),
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("principle insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns one principle.
func (r *PrincipleRepo) GetByID(ctx context.Context, id int64) (*domain.Principle, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+principleColumns+" FROM principles WHERE id = ?", id)
	p, err := scanPrinciple(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return p, nil
}

// GetByCode returns one principle by its framework-scoped code.
func (r *PrincipleRepo) GetByCode(ctx context.Context, framework domain.Framework, code string) (*domain.Principle, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+principleColumns+" FROM principles WHERE framework = ? AND code = ?",
		string(framework), code)
	p, err := scanPrinciple(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return p, nil
}

// ListByFramework returns a framework's principles in sort order.
func (r *PrincipleRepo) ListByFramework(ctx context.Context, framework domain.Framework) ([]domain.Principle, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+principleColumns+" FROM principles WHERE framework = ? ORDER BY sort_order, code",
		string(framework))
	if err != nil {
		return nil, fmt.Errorf("list principles: %w", err)
	}
	defer rows.Close()

	var principles []domain.Principle
	for rows.Next() {
		p, err := scanPrinciple(rows)
		if err != nil {
			return nil, fmt.Errorf("scan principle: %w", err)
		}
		principles = append(principles, *p)
	}
	return principles, rows.Err()
}

// Update writes all mutable fields of the principle.
func (r *PrincipleRepo) Update(ctx context.Context, p *domain.Principle) (*domain.Principle, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE principles SET
			framework = ?, code = ?, category = ?, title = ?, description = ?,
			legal_text = ?, sort_order = ?, version = ?, effective_date = ?, deprecated_date = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		string(p.Framework), p.Code, p.Category, p.Title, nullStr(p.Description),
		nullStr(p.LegalText), p.SortOrder, p.Version, nullTime(p.EffectiveDate), nullTime(p.DeprecatedDate),
		p.ID,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("principle %d not found", p.ID)
	}
	return r.GetByID(ctx, p.ID)
}

// Delete removes the principle; mapping rows cascade.
func (r *PrincipleRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM principles WHERE id = ?", id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("principle %d not found", id)
	}
	return nil
}

func scanPrinciple(row rowScanner) (*domain.Principle, error) {
	var (
		p                     domain.Principle
		framework             string
		description, legal    sql.NullString
		effective, deprecated sql.NullTime
	)
	err := row.Scan(&p.ID, &framework, &p.Code, &p.Category, &p.Title,
		&description, &legal, &p.SortOrder, &p.Version, &effective, &deprecated,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Framework = domain.Framework(framework)
	p.Description = strPtr(description)
	p.LegalText = strPtr(legal)
	p.EffectiveDate = timePtr(effective)
	p.DeprecatedDate = timePtr(deprecated)
	return &p, nil
}
