package domain

import (
	"context"
	"database/sql"
)

// Repositories that participate in multi-statement mutations expose WithTx,
// returning a copy bound to the transaction. A mutation and its audit entry
// always share one transaction.

// RiskRepository provides CRUD operations for risks.
type RiskRepository interface {
	WithTx(tx *sql.Tx) RiskRepository
	Create(ctx context.Context, r *Risk) (*Risk, error)
	GetByID(ctx context.Context, id int64) (*Risk, error)
	List(ctx context.Context, filter RiskFilter) ([]Risk, int64, error)
	// ListAll returns every risk (optionally scoped to a project) in
	// creation order, with project names resolved. Matrix input.
	ListAll(ctx context.Context, projectID *int64) ([]Risk, error)
	Update(ctx context.Context, r *Risk) (*Risk, error)
	// Delete removes the risk and cascades its mapping and link rows.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// PrincipleRepository provides operations for regulatory reference data.
type PrincipleRepository interface {
	Create(ctx context.Context, p *Principle) (*Principle, error)
	GetByID(ctx context.Context, id int64) (*Principle, error)
	GetByCode(ctx context.Context, framework Framework, code string) (*Principle, error)
	ListByFramework(ctx context.Context, framework Framework) ([]Principle, error)
	Update(ctx context.Context, p *Principle) (*Principle, error)
	Delete(ctx context.Context, id int64) error
}

// ComplianceRepository provides operations for risk↔principle and
// action↔principle mapping rows.
type ComplianceRepository interface {
	WithTx(tx *sql.Tx) ComplianceRepository
	CreateRiskMapping(ctx context.Context, m *RiskPrincipleMapping) (*RiskPrincipleMapping, error)
	UpdateRiskMapping(ctx context.Context, id int64, status *ComplianceStatus, notes *string) (*RiskPrincipleMapping, error)
	DeleteRiskMapping(ctx context.Context, id int64) error
	// ListRiskMappings returns the mappings of one risk within a framework,
	// joined with principle descriptors, in principle sort order.
	ListRiskMappings(ctx context.Context, riskID int64, framework Framework) ([]RiskPrincipleMapping, error)
	// ListByFramework returns every risk mapping in a framework.
	ListByFramework(ctx context.Context, framework Framework) ([]RiskPrincipleMapping, error)
	// ReplaceRiskMappings deletes a risk's mappings within one framework and
	// inserts the given principle IDs. Must run inside the caller's
	// transaction next to the risk update it accompanies.
	ReplaceRiskMappings(ctx context.Context, riskID int64, framework Framework, principleIDs []int64) error

	CreateActionMapping(ctx context.Context, m *ActionPrincipleMapping) (*ActionPrincipleMapping, error)
	DeleteActionMapping(ctx context.Context, id int64) error
	ListActionMappings(ctx context.Context, actionID int64) ([]ActionPrincipleMapping, error)
}

// LinkRepository provides operations for the remaining join tables.
type LinkRepository interface {
	WithTx(tx *sql.Tx) LinkRepository
	LinkRiskAsset(ctx context.Context, riskID, assetID int64) error
	UnlinkRiskAsset(ctx context.Context, riskID, assetID int64) error
	ListRiskAssets(ctx context.Context, riskID int64) ([]Asset, error)
	ReplaceRiskAssets(ctx context.Context, riskID int64, assetIDs []int64) error
	LinkRiskAction(ctx context.Context, riskID, actionID int64) error
	UnlinkRiskAction(ctx context.Context, riskID, actionID int64) error
	ListRiskActions(ctx context.Context, riskID int64) ([]Action, error)
	LinkReviewRisk(ctx context.Context, reviewID, riskID int64) error
	ListReviewRisks(ctx context.Context, reviewID int64) ([]Risk, error)
}

// ActionRepository provides CRUD operations for mitigation actions.
type ActionRepository interface {
	WithTx(tx *sql.Tx) ActionRepository
	Create(ctx context.Context, a *Action) (*Action, error)
	GetByID(ctx context.Context, id int64) (*Action, error)
	List(ctx context.Context, filter ActionFilter) ([]Action, int64, error)
	ListAll(ctx context.Context) ([]Action, error)
	Update(ctx context.Context, a *Action) (*Action, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// AssetRepository provides CRUD operations for assets.
type AssetRepository interface {
	WithTx(tx *sql.Tx) AssetRepository
	Create(ctx context.Context, a *Asset) (*Asset, error)
	GetByID(ctx context.Context, id int64) (*Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]Asset, int64, error)
	ListChildren(ctx context.Context, parentID int64) ([]Asset, error)
	Update(ctx context.Context, a *Asset) (*Asset, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// SupplierRepository provides CRUD operations for suppliers.
type SupplierRepository interface {
	WithTx(tx *sql.Tx) SupplierRepository
	Create(ctx context.Context, s *Supplier) (*Supplier, error)
	GetByID(ctx context.Context, id int64) (*Supplier, error)
	List(ctx context.Context, page PageRequest) ([]Supplier, int64, error)
	ListAll(ctx context.Context) ([]Supplier, error)
	Update(ctx context.Context, s *Supplier) (*Supplier, error)
	Delete(ctx context.Context, id int64) error
}

// ReviewRepository provides CRUD operations for reviews.
type ReviewRepository interface {
	WithTx(tx *sql.Tx) ReviewRepository
	Create(ctx context.Context, r *Review) (*Review, error)
	GetByID(ctx context.Context, id int64) (*Review, error)
	List(ctx context.Context, page PageRequest) ([]Review, int64, error)
	ListPending(ctx context.Context) ([]Review, error)
	Update(ctx context.Context, r *Review) (*Review, error)
	Delete(ctx context.Context, id int64) error
}

// ProjectRepository provides CRUD operations for projects.
type ProjectRepository interface {
	WithTx(tx *sql.Tx) ProjectRepository
	Create(ctx context.Context, p *Project) (*Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, p *Project) (*Project, error)
	Delete(ctx context.Context, id int64) error
}

// DocumentRepository provides operations for document metadata.
type DocumentRepository interface {
	WithTx(tx *sql.Tx) DocumentRepository
	Create(ctx context.Context, d *Document) (*Document, error)
	GetByID(ctx context.Context, id int64) (*Document, error)
	ListForEntity(ctx context.Context, kind EntityKind, entityID int64) ([]Document, error)
	Delete(ctx context.Context, id int64) error
}

// AuditRepository provides append and read operations for the audit trail.
// There is deliberately no update or delete.
type AuditRepository interface {
	WithTx(tx *sql.Tx) AuditRepository
	Insert(ctx context.Context, e *AuditEntry) error
	History(ctx context.Context, entityType string, entityID int64, page PageRequest) ([]AuditEntry, error)
	Activity(ctx context.Context, actor string, page PageRequest) ([]AuditEntry, error)
	Recent(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}
