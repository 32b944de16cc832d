package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"netros/internal/db"
	"netros/internal/domain"
)

var _ domain.AssetRepository = (*AssetRepo)(nil)

const assetColumns = `a.id, a.name, a.description, a.asset_type, a.category,
	a.criticality, a.parent_id, a.location, a.externally_sourced,
	a.created_at, a.updated_at`

// AssetRepo implements AssetRepository backed by SQLite.
type AssetRepo struct {
	q db.DBTX
}

// NewAssetRepo creates a new AssetRepo.
func NewAssetRepo(conn *sql.DB) *AssetRepo {
	return &AssetRepo{q: conn}
}

// WithTx returns a copy of the repo bound to the transaction.
func (r *AssetRepo) WithTx(tx *sql.Tx) domain.AssetRepository {
	return &AssetRepo{q: tx}
}

// Create inserts a new asset and returns the stored row.
func (r *AssetRepo) Create(ctx context.Context, a *domain.Asset) (*domain.Asset, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO assets (name, description, asset_type, category, criticality, parent_id, location, externally_sourced)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, nullStr(a.Description), string(a.AssetType), string(a.Category),
		a.Criticality, nullInt64(a.ParentID), nullStr(a.Location), boolToInt(a.ExternallySourced))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("asset insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns one asset.
func (r *AssetRepo) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+assetColumns+" FROM assets a WHERE a.id = ?", id)
	a, err := scanAsset(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return a, nil
}

// List returns a filtered, paginated page of assets ordered by name.
func (r *AssetRepo) List(ctx context.Context, filter domain.AssetFilter) ([]domain.Asset, int64, error) {
	var conds []string
	var args []any
	if filter.Category != nil {
		conds = append(conds, "a.category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.ParentID != nil {
		conds = append(conds, "a.parent_id = ?")
		args = append(args, *filter.ParentID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets a"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}

	args = append(args, filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+assetColumns+` FROM assets a`+where+`
		ORDER BY a.name, a.id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	assets, err := collectAssets(rows)
	if err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

// ListChildren returns the direct children of an asset.
func (r *AssetRepo) ListChildren(ctx context.Context, parentID int64) ([]domain.Asset, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+assetColumns+" FROM assets a WHERE a.parent_id = ? ORDER BY a.name", parentID)
	if err != nil {
		return nil, fmt.Errorf("list asset children: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

// Update writes all mutable fields of the asset.
func (r *AssetRepo) Update(ctx context.Context, a *domain.Asset) (*domain.Asset, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE assets SET
			name = ?, description = ?, asset_type = ?, category = ?, criticality = ?,
			parent_id = ?, location = ?, externally_sourced = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		a.Name, nullStr(a.Description), string(a.AssetType), string(a.Category),
		a.Criticality, nullInt64(a.ParentID), nullStr(a.Location), boolToInt(a.ExternallySourced), a.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("asset %d not found", a.ID)
	}
	return r.GetByID(ctx, a.ID)
}

// Delete removes the asset. Children keep their rows with parent_id cleared.
func (r *AssetRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("asset %d not found", id)
	}
	return nil
}

// Count returns the number of assets.
func (r *AssetRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets").Scan(&n); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return n, nil
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var (
		a                     domain.Asset
		description, location sql.NullString
		assetType, category   string
		parentID              sql.NullInt64
		external              int64
	)
	err := row.Scan(&a.ID, &a.Name, &description, &assetType, &category,
		&a.Criticality, &parentID, &location, &external, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Description = strPtr(description)
	a.AssetType = domain.AssetType(assetType)
	a.Category = domain.AssetCategory(category)
	a.ParentID = int64Ptr(parentID)
	a.Location = strPtr(location)
	a.ExternallySourced = external != 0
	return &a, nil
}

func collectAssets(rows *sql.Rows) ([]domain.Asset, error) {
	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}
