package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"netros/internal/db"
	"netros/internal/domain"
)

var _ domain.AuditRepository = (*AuditRepo)(nil)

const auditColumns = `id, timestamp, actor, action, entity_type, entity_id,
	old_values, new_values, description`

// AuditRepo implements the append-only audit trail. Rows are only ever
// inserted; there is no update or delete path.
type AuditRepo struct {
	q db.DBTX
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(conn *sql.DB) *AuditRepo {
	return &AuditRepo{q: conn}
}

// WithTx returns a copy of the repo bound to the transaction.
func (r *AuditRepo) WithTx(tx *sql.Tx) domain.AuditRepository {
	return &AuditRepo{q: tx}
}

// Insert appends one entry. Call inside the same transaction as the mutation
// the entry describes.
func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	oldJSON, err := marshalChangeSet(e.OldValues)
	if err != nil {
		return fmt.Errorf("marshal old values: %w", err)
	}
	newJSON, err := marshalChangeSet(e.NewValues)
	if err != nil {
		return fmt.Errorf("marshal new values: %w", err)
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO audit_logs (timestamp, actor, action, entity_type, entity_id, old_values, new_values, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp, nullStr(e.Actor), string(e.Action), e.EntityType,
		nullInt64(e.EntityID), oldJSON, newJSON, nullStr(e.Description),
	)
	if err != nil {
		return mapDBError(err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("audit insert id: %w", err)
	}
	return nil
}

// History returns the entries for one entity, newest first.
func (r *AuditRepo) History(ctx context.Context, entityType string, entityID int64, page domain.PageRequest) ([]domain.AuditEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+auditColumns+` FROM audit_logs
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?`,
		entityType, entityID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("audit history: %w", err)
	}
	defer rows.Close()
	return collectAuditEntries(rows)
}

// Activity returns the entries attributed to one actor, newest first.
func (r *AuditRepo) Activity(ctx context.Context, actor string, page domain.PageRequest) ([]domain.AuditEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+auditColumns+` FROM audit_logs
		WHERE actor = ?
		ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?`,
		actor, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("audit activity: %w", err)
	}
	defer rows.Close()
	return collectAuditEntries(rows)
}

// Recent returns the filtered global feed with a total count, newest first.
func (r *AuditRepo) Recent(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	where := ""
	var args []any
	if filter.Action != nil {
		where = " WHERE action = ?"
		args = append(args, string(*filter.Action))
	}
	if filter.EntityType != nil {
		if where == "" {
			where = " WHERE entity_type = ?"
		} else {
			where += " AND entity_type = ?"
		}
		args = append(args, *filter.EntityType)
	}

	var total int64
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	args = append(args, filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+auditColumns+` FROM audit_logs`+where+`
		ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("recent audit entries: %w", err)
	}
	defer rows.Close()

	entries, err := collectAuditEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func marshalChangeSet(cs domain.ChangeSet) (sql.NullString, error) {
	if cs == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(cs)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalChangeSet(ns sql.NullString) (domain.ChangeSet, error) {
	if !ns.Valid {
		return nil, nil
	}
	var cs domain.ChangeSet
	if err := json.Unmarshal([]byte(ns.String), &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func collectAuditEntries(rows *sql.Rows) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e                  domain.AuditEntry
			actor, description sql.NullString
			entityID           sql.NullInt64
			oldJSON, newJSON   sql.NullString
			action             string
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &actor, &action, &e.EntityType,
			&entityID, &oldJSON, &newJSON, &description); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Actor = strPtr(actor)
		e.Action = domain.AuditAction(action)
		e.EntityID = int64Ptr(entityID)
		e.Description = strPtr(description)
		var err error
		if e.OldValues, err = unmarshalChangeSet(oldJSON); err != nil {
			return nil, fmt.Errorf("decode old values: %w", err)
		}
		if e.NewValues, err = unmarshalChangeSet(newJSON); err != nil {
			return nil, fmt.Errorf("decode new values: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
