package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"netros/internal/db"
	"netros/internal/domain"
)

var _ domain.ActionRepository = (*ActionRepo)(nil)

const actionColumns = `a.id, a.title, a.description, a.priority, a.status,
	a.due_date, a.completed_at, a.assignee, a.created_at, a.updated_at`

// ActionRepo implements ActionRepository backed by SQLite.
type ActionRepo struct {
	q db.DBTX
}

// NewActionRepo creates a new ActionRepo.
func NewActionRepo(conn *sql.DB) *ActionRepo {
	return &ActionRepo{q: conn}
}

// WithTx returns a copy of the repo bound to the transaction.
func (r *ActionRepo) WithTx(tx *sql.Tx) domain.ActionRepository {
	return &ActionRepo{q: tx}
}

// Create inserts a new action and returns the stored row.
func (r *ActionRepo) Create(ctx context.Context, a *domain.Action) (*domain.Action, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO actions (title, description, priority, status, due_date, completed_at, assignee)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Title, nullStr(a.Description), string(a.Priority), string(a.Status),
		nullTime(a.DueDate), nullTime(a.CompletedAt), nullStr(a.Assignee))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("action insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns one action.
func (r *ActionRepo) GetByID(ctx context.Context, id int64) (*domain.Action, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+actionColumns+" FROM actions a WHERE a.id = ?", id)
	a, err := scanAction(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return a, nil
}

// List returns a filtered, paginated page of actions, newest first.
func (r *ActionRepo) List(ctx context.Context, filter domain.ActionFilter) ([]domain.Action, int64, error) {
	var conds []string
	var args []any
	join := ""
	if filter.Status != nil {
		conds = append(conds, "a.status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Priority != nil {
		conds = append(conds, "a.priority = ?")
		args = append(args, string(*filter.Priority))
	}
	if filter.RiskID != nil {
		join = " JOIN risk_actions ra ON ra.action_id = a.id"
		conds = append(conds, "ra.risk_id = ?")
		args = append(args, *filter.RiskID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM actions a"+join+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count actions: %w", err)
	}

	args = append(args, filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+actionColumns+` FROM actions a`+join+where+`
		ORDER BY a.created_at DESC, a.id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	actions, err := collectActions(rows)
	if err != nil {
		return nil, 0, err
	}
	return actions, total, nil
}

// ListAll returns every action in creation order. Dashboard input.
func (r *ActionRepo) ListAll(ctx context.Context) ([]domain.Action, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+actionColumns+" FROM actions a ORDER BY a.id")
	if err != nil {
		return nil, fmt.Errorf("list all actions: %w", err)
	}
	defer rows.Close()
	return collectActions(rows)
}

// Update writes all mutable fields of the action.
func (r *ActionRepo) Update(ctx context.Context, a *domain.Action) (*domain.Action, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE actions SET
			title = ?, description = ?, priority = ?, status = ?,
			due_date = ?, completed_at = ?, assignee = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		a.Title, nullStr(a.Description), string(a.Priority), string(a.Status),
		nullTime(a.DueDate), nullTime(a.CompletedAt), nullStr(a.Assignee), a.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("action %d not found", a.ID)
	}
	return r.GetByID(ctx, a.ID)
}

// Delete removes the action; link rows cascade.
func (r *ActionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM actions WHERE id = ?", id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("action %d not found", id)
	}
	return nil
}

// Count returns the number of actions.
func (r *ActionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM actions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return n, nil
}

func scanAction(row rowScanner) (*domain.Action, error) {
	var (
		a                     domain.Action
		description, assignee sql.NullString
		priority, status      string
		dueDate, completedAt  sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Title, &description, &priority, &status,
		&dueDate, &completedAt, &assignee, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Description = strPtr(description)
	a.Priority = domain.ActionPriority(priority)
	a.Status = domain.ActionStatus(status)
	a.DueDate = timePtr(dueDate)
	a.CompletedAt = timePtr(completedAt)
	a.Assignee = strPtr(assignee)
	return &a, nil
}

func collectActions(rows *sql.Rows) ([]domain.Action, error) {
	var actions []domain.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, *a)
	}
	return actions, rows.Err()
}
