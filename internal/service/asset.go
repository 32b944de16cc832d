package service

import (
	"context"
	"database/sql"
	"log/slog"

	"netros/internal/db"
	"netros/internal/domain"
)

// AssetService provides CRUD operations for the asset inventory.
type AssetService struct {
	writeDB *sql.DB
	assets  domain.AssetRepository
	audit   *AuditService
	logger  *slog.Logger
}

// NewAssetService creates a new AssetService.
func NewAssetService(writeDB *sql.DB, assets domain.AssetRepository, audit *AuditService, logger *slog.Logger) *AssetService {
	return &AssetService{
		writeDB: writeDB,
		assets:  assets,
		audit:   audit,
		logger:  logger.With("component", "asset_service"),
	}
}

// Create validates and persists a new asset.
func (s *AssetService) Create(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	if asset.Criticality == 0 {
		asset.Criticality = 3
	}
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	if asset.ParentID != nil {
		if _, err := s.assets.GetByID(ctx, *asset.ParentID); err != nil {
			return nil, err
		}
	}

	var created *domain.Asset
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		created, err = s.assets.WithTx(tx).Create(ctx, asset)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionCreate, entityAsset, &created.ID, nil, assetChangeSet(created))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID returns one asset.
func (s *AssetService) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	return s.assets.GetByID(ctx, id)
}

// List returns a filtered, paginated page of assets.
func (s *AssetService) List(ctx context.Context, filter domain.AssetFilter) ([]domain.Asset, int64, error) {
	return s.assets.List(ctx, filter)
}

// ListChildren returns the direct children of an asset.
func (s *AssetService) ListChildren(ctx context.Context, parentID int64) ([]domain.Asset, error) {
	if _, err := s.assets.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	return s.assets.ListChildren(ctx, parentID)
}

// Update validates and persists the full new state of an asset. An asset
// cannot become its own parent.
func (s *AssetService) Update(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	if asset.ParentID != nil && *asset.ParentID == asset.ID {
		return nil, domain.ErrValidation("asset cannot be its own parent")
	}
	existing, err := s.assets.GetByID(ctx, asset.ID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Asset
	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.assets.WithTx(tx).Update(ctx, asset)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entityAsset, &asset.ID, assetChangeSet(existing), assetChangeSet(updated))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an asset. Children keep their rows with the parent cleared.
func (s *AssetService) Delete(ctx context.Context, id int64) error {
	existing, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		if err := s.assets.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionDelete, entityAsset, &id, assetChangeSet(existing), nil)
	})
}
