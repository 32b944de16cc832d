package repository

import (
	"context"
	"database/sql"
	"fmt"

	"netros/internal/db"
	"netros/internal/domain"
)

var _ domain.LinkRepository = (*LinkRepo)(nil)

// LinkRepo manages the asset↔risk, risk↔action and review↔risk join tables.
type LinkRepo struct {
	q db.DBTX
}

// NewLinkRepo creates a new LinkRepo.
func NewLinkRepo(conn *sql.DB) *LinkRepo {
	return &LinkRepo{q: conn}
}

// WithTx returns a copy of the repo bound to the transaction.
func (r *LinkRepo) WithTx(tx *sql.Tx) domain.LinkRepository {
	return &LinkRepo{q: tx}
}

// LinkRiskAsset connects a risk to an asset.
func (r *LinkRepo) LinkRiskAsset(ctx context.Context, riskID, assetID int64) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO asset_risks (asset_id, risk_id) VALUES (?, ?)", assetID, riskID)
	return mapDBError(err)
}

// UnlinkRiskAsset removes a risk↔asset link.
func (r *LinkRepo) UnlinkRiskAsset(ctx context.Context, riskID, assetID int64) error {
	res, err := r.q.ExecContext(ctx,
		"DELETE FROM asset_risks WHERE asset_id = ? AND risk_id = ?", assetID, riskID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("risk %d is not linked to asset %d", riskID, assetID)
	}
	return nil
}

// ListRiskAssets returns the assets linked to a risk.
func (r *LinkRepo) ListRiskAssets(ctx context.Context, riskID int64) ([]domain.Asset, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT a.id, a.name, a.description, a.asset_type, a.category, a.criticality,
			a.parent_id, a.location, a.externally_sourced, a.created_at, a.updated_at
		FROM assets a
		JOIN asset_risks ar ON ar.asset_id = a.id
		WHERE ar.risk_id = ?
		ORDER BY a.name`, riskID)
	if err != nil {
		return nil, fmt.Errorf("list risk assets: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

// ReplaceRiskAssets replaces a risk's asset links with the given set.
func (r *LinkRepo) ReplaceRiskAssets(ctx context.Context, riskID int64, assetIDs []int64) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM asset_risks WHERE risk_id = ?", riskID)
	if err != nil {
		return mapDBError(err)
	}
	for _, assetID := range assetIDs {
		_, err := r.q.ExecContext(ctx,
			"INSERT INTO asset_risks (asset_id, risk_id) VALUES (?, ?)", assetID, riskID)
		if err != nil {
			return mapDBError(err)
		}
	}
	return nil
}

// LinkRiskAction connects a risk to a mitigation action.
func (r *LinkRepo) LinkRiskAction(ctx context.Context, riskID, actionID int64) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO risk_actions (risk_id, action_id) VALUES (?, ?)", riskID, actionID)
	return mapDBError(err)
}

// UnlinkRiskAction removes a risk↔action link.
func (r *LinkRepo) UnlinkRiskAction(ctx context.Context, riskID, actionID int64) error {
	res, err := r.q.ExecContext(ctx,
		"DELETE FROM risk_actions WHERE risk_id = ? AND action_id = ?", riskID, actionID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("risk %d is not linked to action %d", riskID, actionID)
	}
	return nil
}

// ListRiskActions returns the actions linked to a risk.
func (r *LinkRepo) ListRiskActions(ctx context.Context, riskID int64) ([]domain.Action, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT a.id, a.title, a.description, a.priority, a.status, a.due_date,
			a.completed_at, a.assignee, a.created_at, a.updated_at
		FROM actions a
		JOIN risk_actions ra ON ra.action_id = a.id
		WHERE ra.risk_id = ?
		ORDER BY a.id`, riskID)
	if err != nil {
		return nil, fmt.Errorf("list risk actions: %w", err)
	}
	defer rows.Close()
	return collectActions(rows)
}

// LinkReviewRisk records that a review covered a risk.
func (r *LinkRepo) LinkReviewRisk(ctx context.Context, reviewID, riskID int64) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO review_risks (review_id, risk_id) VALUES (?, ?)", reviewID, riskID)
	return mapDBError(err)
}

// ListReviewRisks returns the risks covered by a review.
func (r *LinkRepo) ListReviewRisks(ctx context.Context, reviewID int64) ([]domain.Risk, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+riskColumns+`
		FROM risks r
		JOIN review_risks rr ON rr.risk_id = r.id
		LEFT JOIN projects p ON p.id = r.project_id
		WHERE rr.review_id = ?
		ORDER BY r.id`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list review risks: %w", err)
	}
	defer rows.Close()
	return collectRisks(rows)
}
