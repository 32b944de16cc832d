package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"netros/internal/db"
	"netros/internal/domain"
)

// Compile-time check.
var _ domain.RiskRepository = (*RiskRepo)(nil)

const riskColumns = `r.id, r.title, r.description, r.risk_type, r.project_id,
	r.likelihood, r.consequence, r.target_likelihood, r.target_consequence,
	r.status, r.owner, r.vulnerability_description, r.threat_description,
	r.existing_controls, r.proposed_measures, r.last_reviewed_at, r.next_review_date,
	r.accepted_by, r.accepted_at, r.acceptance_rationale, r.acceptance_valid_until,
	r.created_at, r.updated_at, p.name`

// RiskRepo implements RiskRepository backed by SQLite.
type RiskRepo struct {
	q db.DBTX
}

// NewRiskRepo creates a new RiskRepo.
func NewRiskRepo(conn *sql.DB) *RiskRepo {
	return &RiskRepo{q: conn}
}

// WithTx returns a copy of the repo bound to the transaction.
func (r *RiskRepo) WithTx(tx *sql.Tx) domain.RiskRepository {
	return &RiskRepo{q: tx}
}

// Create inserts a new risk and returns the stored row.
func (r *RiskRepo) Create(ctx context.Context, risk *domain.Risk) (*domain.Risk, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO risks (
			title, description, risk_type, project_id,
			likelihood, consequence, target_likelihood, target_consequence,
			status, owner, vulnerability_description, threat_description,
			existing_controls, proposed_measures, last_reviewed_at, next_review_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		risk.Title, nullStr(risk.Description), string(risk.RiskType), nullInt64(risk.ProjectID),
		risk.Likelihood, risk.Consequence, nullScale(risk.TargetLikelihood), nullScale(risk.TargetConsequence),
		string(risk.Status), nullStr(risk.Owner), nullStr(risk.VulnerabilityDescription), nullStr(risk.ThreatDescription),
		nullStr(risk.ExistingControls), nullStr(risk.ProposedMeasures), nullTime(risk.LastReviewedAt), nullTime(risk.NextReviewDate),
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("risk insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns one risk with its project name resolved.
func (r *RiskRepo) GetByID(ctx context.Context, id int64) (*domain.Risk, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+riskColumns+`
		FROM risks r LEFT JOIN projects p ON p.id = r.project_id
		WHERE r.id = ?`, id)
	risk, err := scanRisk(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return risk, nil
}

// List returns a filtered, paginated page of risks, newest first.
func (r *RiskRepo) List(ctx context.Context, filter domain.RiskFilter) ([]domain.Risk, int64, error) {
	where, args := riskWhere(filter)

	var total int64
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM risks r"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count risks: %w", err)
	}

	query := `SELECT ` + riskColumns + `
		FROM risks r LEFT JOIN projects p ON p.id = r.project_id` + where + `
		ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Page.Limit(), filter.Page.Offset())

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list risks: %w", err)
	}
	defer rows.Close()

	risks, err := collectRisks(rows)
	if err != nil {
		return nil, 0, err
	}
	return risks, total, nil
}

// ListAll returns every risk in creation order. The matrix builder relies on
// this ordering being stable between calls.
func (r *RiskRepo) ListAll(ctx context.Context, projectID *int64) ([]domain.Risk, error) {
	query := `SELECT ` + riskColumns + `
		FROM risks r LEFT JOIN projects p ON p.id = r.project_id`
	var args []any
	if projectID != nil {
		query += " WHERE r.project_id = ?"
		args = append(args, *projectID)
	}
	query += " ORDER BY r.id"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list all risks: %w", err)
	}
	defer rows.Close()
	return collectRisks(rows)
}

// Update writes all mutable fields of the risk.
func (r *RiskRepo) Update(ctx context.Context, risk *domain.Risk) (*domain.Risk, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE risks SET
			title = ?, description = ?, risk_type = ?, project_id = ?,
			likelihood = ?, consequence = ?, target_likelihood = ?, target_consequence = ?,
			status = ?, owner = ?, vulnerability_description = ?, threat_description = ?,
			existing_controls = ?, proposed_measures = ?, last_reviewed_at = ?, next_review_date = ?,
			accepted_by = ?, accepted_at = ?, acceptance_rationale = ?, acceptance_valid_until = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		risk.Title, nullStr(risk.Description), string(risk.RiskType), nullInt64(risk.ProjectID),
		risk.Likelihood, risk.Consequence, nullScale(risk.TargetLikelihood), nullScale(risk.TargetConsequence),
		string(risk.Status), nullStr(risk.Owner), nullStr(risk.VulnerabilityDescription), nullStr(risk.ThreatDescription),
		nullStr(risk.ExistingControls), nullStr(risk.ProposedMeasures), nullTime(risk.LastReviewedAt), nullTime(risk.NextReviewDate),
		nullStr(risk.AcceptedBy), nullTime(risk.AcceptedAt), nullStr(risk.AcceptanceRationale), nullTime(risk.AcceptanceValidUntil),
		risk.ID,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("risk %d not found", risk.ID)
	}
	return r.GetByID(ctx, risk.ID)
}

// Delete removes the risk; mapping and link rows cascade.
func (r *RiskRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM risks WHERE id = ?", id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("risk %d not found", id)
	}
	return nil
}

// Count returns the number of risks.
func (r *RiskRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM risks").Scan(&n); err != nil {
		return 0, fmt.Errorf("count risks: %w", err)
	}
	return n, nil
}

func riskWhere(filter domain.RiskFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.ProjectID != nil {
		conds = append(conds, "r.project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Status != nil {
		conds = append(conds, "r.status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Likelihood != nil {
		conds = append(conds, "r.likelihood = ?")
		args = append(args, *filter.Likelihood)
	}
	if filter.Consequence != nil {
		conds = append(conds, "r.consequence = ?")
		args = append(args, *filter.Consequence)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRisk(row rowScanner) (*domain.Risk, error) {
	var (
		risk                             domain.Risk
		description, owner               sql.NullString
		vulnDesc, threatDesc             sql.NullString
		controls, measures               sql.NullString
		acceptedBy, rationale            sql.NullString
		projectName                      sql.NullString
		riskType, status                 string
		projectID                        sql.NullInt64
		targetL, targetC                 sql.NullInt64
		lastReviewed, nextReview         sql.NullTime
		acceptedAt, validUntil           sql.NullTime
	)
	err := row.Scan(
		&risk.ID, &risk.Title, &description, &riskType, &projectID,
		&risk.Likelihood, &risk.Consequence, &targetL, &targetC,
		&status, &owner, &vulnDesc, &threatDesc,
		&controls, &measures, &lastReviewed, &nextReview,
		&acceptedBy, &acceptedAt, &rationale, &validUntil,
		&risk.CreatedAt, &risk.UpdatedAt, &projectName,
	)
	if err != nil {
		return nil, err
	}
	risk.Description = strPtr(description)
	risk.RiskType = domain.RiskType(riskType)
	risk.ProjectID = int64Ptr(projectID)
	risk.TargetLikelihood = scalePtr(targetL)
	risk.TargetConsequence = scalePtr(targetC)
	risk.Status = domain.RiskStatus(status)
	risk.Owner = strPtr(owner)
	risk.VulnerabilityDescription = strPtr(vulnDesc)
	risk.ThreatDescription = strPtr(threatDesc)
	risk.ExistingControls = strPtr(controls)
	risk.ProposedMeasures = strPtr(measures)
	risk.LastReviewedAt = timePtr(lastReviewed)
	risk.NextReviewDate = timePtr(nextReview)
	risk.AcceptedBy = strPtr(acceptedBy)
	risk.AcceptedAt = timePtr(acceptedAt)
	risk.AcceptanceRationale = strPtr(rationale)
	risk.AcceptanceValidUntil = timePtr(validUntil)
	risk.ProjectName = strPtr(projectName)
	return &risk, nil
}

func collectRisks(rows *sql.Rows) ([]domain.Risk, error) {
	var risks []domain.Risk
	for rows.Next() {
		risk, err := scanRisk(rows)
		if err != nil {
			return nil, fmt.Errorf("scan risk: %w", err)
		}
		risks = append(risks, *risk)
	}
	return risks, rows.Err()
}
