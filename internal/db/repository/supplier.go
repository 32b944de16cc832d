package repository

import (
	"context"
	"database/sql"
	"fmt"

	"netros/internal/db"
	"netros/internal/domain"
)

var _ domain.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, description, supplier_type, criticality,
	contact_info, contract_reference, contract_expiry, last_assessed_at,
	created_at, updated_at`

// SupplierRepo implements SupplierRepository backed by SQLite.
type SupplierRepo struct {
	q db.DBTX
}

// NewSupplierRepo creates a new SupplierRepo.
func NewSupplierRepo(conn *sql.DB) *SupplierRepo {
	return &SupplierRepo{q: conn}
}

// WithTx returns a copy of the repo bound to the transaction.
func (r *SupplierRepo) WithTx(tx *sql.Tx) domain.SupplierRepository {
	return &SupplierRepo{q: tx}
}

// Create inserts a new supplier and returns the stored row.
func (r *SupplierRepo) Create(ctx context.Context, s *domain.Supplier) (*domain.Supplier, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO suppliers (name, description, supplier_type, criticality, contact_info, contract_reference, contract_expiry, last_assessed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, nullStr(s.Description), string(s.SupplierType), s.Criticality,
		nullStr(s.ContactInfo), nullStr(s.ContractReference), nullTime(s.ContractExpiry), nullTime(s.LastAssessedAt))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("supplier insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns one supplier.
func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*domain.Supplier, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE id = ?", id)
	s, err := scanSupplier(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return s, nil
}

// List returns a paginated page of suppliers ordered by name.
func (r *SupplierRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Supplier, int64, error) {
	var total int64
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM suppliers").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}

	rows, err := r.q.QueryContext(ctx,
		"SELECT "+supplierColumns+" FROM suppliers ORDER BY name, id LIMIT ? OFFSET ?",
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers, err := collectSuppliers(rows)
	if err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}

// ListAll returns every supplier. Dashboard input.
func (r *SupplierRepo) ListAll(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+supplierColumns+" FROM suppliers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list all suppliers: %w", err)
	}
	defer rows.Close()
	return collectSuppliers(rows)
}

// Update writes all mutable fields of the supplier.
func (r *SupplierRepo) Update(ctx context.Context, s *domain.Supplier) (*domain.Supplier, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE suppliers SET
			name = ?, description = ?, supplier_type = ?, criticality = ?,
			contact_info = ?, contract_reference = ?, contract_expiry = ?, last_assessed_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		s.Name, nullStr(s.Description), string(s.SupplierType), s.Criticality,
		nullStr(s.ContactInfo), nullStr(s.ContractReference), nullTime(s.ContractExpiry), nullTime(s.LastAssessedAt),
		s.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("supplier %d not found", s.ID)
	}
	return r.GetByID(ctx, s.ID)
}

// Delete removes the supplier.
func (r *SupplierRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM suppliers WHERE id = ?", id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("supplier %d not found", id)
	}
	return nil
}

func scanSupplier(row rowScanner) (*domain.Supplier, error) {
	var (
		s                      domain.Supplier
		description, contact   sql.NullString
		contractRef            sql.NullString
		supplierType           string
		expiry, lastAssessedAt sql.NullTime
	)
	err := row.Scan(&s.ID, &s.Name, &description, &supplierType, &s.Criticality,
		&contact, &contractRef, &expiry, &lastAssessedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Description = strPtr(description)
	s.SupplierType = domain.SupplierType(supplierType)
	s.ContactInfo = strPtr(contact)
	s.ContractReference = strPtr(contractRef)
	s.ContractExpiry = timePtr(expiry)
	s.LastAssessedAt = timePtr(lastAssessedAt)
	return &s, nil
}

func collectSuppliers(rows *sql.Rows) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, *s)
	}
	return suppliers, rows.Err()
}
