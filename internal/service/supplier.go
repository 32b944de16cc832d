package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"netros/internal/db"
	"netros/internal/domain"
)

// SupplierService provides CRUD and assessment tracking for suppliers.
type SupplierService struct {
	writeDB   *sql.DB
	suppliers domain.SupplierRepository
	audit     *AuditService
	logger    *slog.Logger
	now       func() time.Time
}

// NewSupplierService creates a new SupplierService.
func NewSupplierService(writeDB *sql.DB, suppliers domain.SupplierRepository, audit *AuditService, logger *slog.Logger) *SupplierService {
	return &SupplierService{
		writeDB:   writeDB,
		suppliers: suppliers,
		audit:     audit,
		logger:    logger.With("component", "supplier_service"),
		now:       time.Now,
	}
}

// Create validates and persists a new supplier.
func (s *SupplierService) Create(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if supplier.Criticality == 0 {
		supplier.Criticality = 3
	}
	if err := supplier.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Supplier
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		created, err = s.suppliers.WithTx(tx).Create(ctx, supplier)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionCreate, entitySupplier, &created.ID, nil, supplierChangeSet(created))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID returns one supplier.
func (s *SupplierService) GetByID(ctx context.Context, id int64) (*domain.Supplier, error) {
	return s.suppliers.GetByID(ctx, id)
}

// List returns a paginated page of suppliers.
func (s *SupplierService) List(ctx context.Context, page domain.PageRequest) ([]domain.Supplier, int64, error) {
	return s.suppliers.List(ctx, page)
}

// Update validates and persists the full new state of a supplier.
func (s *SupplierService) Update(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if err := supplier.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.suppliers.GetByID(ctx, supplier.ID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Supplier
	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.suppliers.WithTx(tx).Update(ctx, supplier)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entitySupplier, &supplier.ID, supplierChangeSet(existing), supplierChangeSet(updated))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordAssessment stamps the supplier's last risk assessment at now,
// clearing any stale-assessment alert.
func (s *SupplierService) RecordAssessment(ctx context.Context, id int64) (*domain.Supplier, error) {
	existing, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *existing
	assessed := s.now().UTC()
	next.LastAssessedAt = &assessed

	var updated *domain.Supplier
	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.suppliers.WithTx(tx).Update(ctx, &next)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entitySupplier, &id, supplierChangeSet(existing), supplierChangeSet(updated))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a supplier, recording the final state.
func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	existing, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		if err := s.suppliers.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionDelete, entitySupplier, &id, supplierChangeSet(existing), nil)
	})
}
