package repository

import (
	"context"
	"database/sql"
	"fmt"

	"netros/internal/db"
	"netros/internal/domain"
)

var _ domain.ComplianceRepository = (*ComplianceRepo)(nil)

const riskMappingColumns = `m.id, m.risk_id, m.principle_id, m.compliance_status,
	m.notes, m.created_at, p.code, p.title, p.category`

// ComplianceRepo manages risk↔principle and action↔principle mapping rows.
type ComplianceRepo struct {
	q db.DBTX
}

// NewComplianceRepo creates a new ComplianceRepo.
func NewComplianceRepo(conn *sql.DB) *ComplianceRepo {
	return &ComplianceRepo{q: conn}
}

// WithTx returns a copy of the repo bound to the transaction.
func (r *ComplianceRepo) WithTx(tx *sql.Tx) domain.ComplianceRepository {
	return &ComplianceRepo{q: tx}
}

// CreateRiskMapping inserts one risk↔principle mapping.
func (r *ComplianceRepo) CreateRiskMapping(ctx context.Context, m *domain.RiskPrincipleMapping) (*domain.RiskPrincipleMapping, error) {
	var status sql.NullString
	if m.ComplianceStatus != nil {
		status = sql.NullString{String: string(*m.ComplianceStatus), Valid: true}
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO risk_principle_mappings (risk_id, principle_id, compliance_status, notes)
		VALUES (?, ?, ?, ?)`,
		m.RiskID, m.PrincipleID, status, nullStr(m.Notes))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("risk mapping insert id: %w", err)
	}
	return r.getRiskMapping(ctx, id)
}

// UpdateRiskMapping sets the assessed status and notes of one mapping.
func (r *ComplianceRepo) UpdateRiskMapping(ctx context.Context, id int64, status *domain.ComplianceStatus, notes *string) (*domain.RiskPrincipleMapping, error) {
	var st sql.NullString
	if status != nil {
		st = sql.NullString{String: string(*status), Valid: true}
	}
	res, err := r.q.ExecContext(ctx,
		"UPDATE risk_principle_mappings SET compliance_status = ?, notes = ? WHERE id = ?",
		st, nullStr(notes), id)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("mapping %d not found", id)
	}
	return r.getRiskMapping(ctx, id)
}

// DeleteRiskMapping removes one mapping.
func (r *ComplianceRepo) DeleteRiskMapping(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM risk_principle_mappings WHERE id = ?", id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("mapping %d not found", id)
	}
	return nil
}

// ListRiskMappings returns one risk's mappings within a framework, joined
// with principle descriptors, in principle sort order.
func (r *ComplianceRepo) ListRiskMappings(ctx context.Context, riskID int64, framework domain.Framework) ([]domain.RiskPrincipleMapping, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+riskMappingColumns+`
		FROM risk_principle_mappings m
		JOIN principles p ON p.id = m.principle_id
		WHERE m.risk_id = ? AND p.framework = ?
		ORDER BY p.sort_order, p.code`, riskID, string(framework))
	if err != nil {
		return nil, fmt.Errorf("list risk mappings: %w", err)
	}
	defer rows.Close()
	return collectRiskMappings(rows)
}

// ListByFramework returns every risk mapping within a framework.
func (r *ComplianceRepo) ListByFramework(ctx context.Context, framework domain.Framework) ([]domain.RiskPrincipleMapping, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+riskMappingColumns+`
		FROM risk_principle_mappings m
		JOIN principles p ON p.id = m.principle_id
		WHERE p.framework = ?
		ORDER BY p.sort_order, p.code, m.risk_id`, string(framework))
	if err != nil {
		return nil, fmt.Errorf("list framework mappings: %w", err)
	}
	defer rows.Close()
	return collectRiskMappings(rows)
}

// ReplaceRiskMappings deletes the risk's mappings within one framework and
// inserts the given principle IDs with no assessed status. Runs on whatever
// connection the repo is bound to; callers wrap it in their transaction.
func (r *ComplianceRepo) ReplaceRiskMappings(ctx context.Context, riskID int64, framework domain.Framework, principleIDs []int64) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM risk_principle_mappings
		WHERE risk_id = ? AND principle_id IN (SELECT id FROM principles WHERE framework = ?)`,
		riskID, string(framework))
	if err != nil {
		return mapDBError(err)
	}
	for _, pid := range principleIDs {
		_, err := r.q.ExecContext(ctx,
			"INSERT INTO risk_principle_mappings (risk_id, principle_id) VALUES (?, ?)",
			riskID, pid)
		if err != nil {
			return mapDBError(err)
		}
	}
	return nil
}

// CreateActionMapping inserts one action↔principle link.
func (r *ComplianceRepo) CreateActionMapping(ctx context.Context, m *domain.ActionPrincipleMapping) (*domain.ActionPrincipleMapping, error) {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO action_principle_mappings (action_id, principle_id, notes) VALUES (?, ?, ?)",
		m.ActionID, m.PrincipleID, nullStr(m.Notes))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("action mapping insert id: %w", err)
	}
	row := r.q.QueryRowContext(ctx,
		"SELECT id, action_id, principle_id, notes, created_at FROM action_principle_mappings WHERE id = ?", id)
	out, err := scanActionMapping(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return out, nil
}

// DeleteActionMapping removes one action↔principle link.
func (r *ComplianceRepo) DeleteActionMapping(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM action_principle_mappings WHERE id = ?", id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("action mapping %d not found", id)
	}
	return nil
}

// ListActionMappings returns the principle links of one action.
func (r *ComplianceRepo) ListActionMappings(ctx context.Context, actionID int64) ([]domain.ActionPrincipleMapping, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT m.id, m.action_id, m.principle_id, m.notes, m.created_at
		FROM action_principle_mappings m
		JOIN principles p ON p.id = m.principle_id
		WHERE m.action_id = ?
		ORDER BY p.sort_order, p.code`, actionID)
	if err != nil {
		return nil, fmt.Errorf("list action mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.ActionPrincipleMapping
	for rows.Next() {
		m, err := scanActionMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action mapping: %w", err)
		}
		mappings = append(mappings, *m)
	}
	return mappings, rows.Err()
}

func (r *ComplianceRepo) getRiskMapping(ctx context.Context, id int64) (*domain.RiskPrincipleMapping, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+riskMappingColumns+`
		FROM risk_principle_mappings m
		JOIN principles p ON p.id = m.principle_id
		WHERE m.id = ?`, id)
	m, err := scanRiskMapping(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return m, nil
}

func scanRiskMapping(row rowScanner) (*domain.RiskPrincipleMapping, error) {
	var (
		m             domain.RiskPrincipleMapping
		status, notes sql.NullString
	)
	err := row.Scan(&m.ID, &m.RiskID, &m.PrincipleID, &status, &notes, &m.CreatedAt,
		&m.PrincipleCode, &m.PrincipleTitle, &m.PrincipleCategory)
	if err != nil {
		return nil, err
	}
	if status.Valid {
		cs := domain.ComplianceStatus(status.String)
		m.ComplianceStatus = &cs
	}
	m.Notes = strPtr(notes)
	return &m, nil
}

func collectRiskMappings(rows *sql.Rows) ([]domain.RiskPrincipleMapping, error) {
	var mappings []domain.RiskPrincipleMapping
	for rows.Next() {
		m, err := scanRiskMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scan risk mapping: %w", err)
		}
		mappings = append(mappings, *m)
	}
	return mappings, rows.Err()
}

func scanActionMapping(row rowScanner) (*domain.ActionPrincipleMapping, error) {
	var (
		m     domain.ActionPrincipleMapping
		notes sql.NullString
	)
	if err := row.Scan(&m.ID, &m.ActionID, &m.PrincipleID, &notes, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Notes = strPtr(notes)
	return &m, nil
}
