package repository

import (
	"context"
	"database/sql"
	"fmt"

	"netros/internal/db"
	"netros/internal/domain"
)

var _ domain.DocumentRepository = (*DocumentRepo)(nil)

const documentColumns = `id, entity_kind, entity_id, filename, content_type, uploaded_by, created_at`

// DocumentRepo implements DocumentRepository backed by SQLite.
type DocumentRepo struct {
	q db.DBTX
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(conn *sql.DB) *DocumentRepo {
	return &DocumentRepo{q: conn}
}

// WithTx returns a copy of the repo bound to the transaction.
func (r *DocumentRepo) WithTx(tx *sql.Tx) domain.DocumentRepository {
	return &DocumentRepo{q: tx}
}

// Create inserts a document metadata record.
func (r *DocumentRepo) Create(ctx context.Context, d *domain.Document) (*domain.Document, error) {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO documents (entity_kind, entity_id, filename, content_type, uploaded_by) VALUES (?, ?, ?, ?, ?)",
		string(d.EntityKind), d.EntityID, d.Filename, nullStr(d.ContentType), nullStr(d.UploadedBy))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("document insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns one document record.
func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	d, err := scanDocument(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return d, nil
}

// ListForEntity returns the documents attached to one entity, newest first.
func (r *DocumentRepo) ListForEntity(ctx context.Context, kind domain.EntityKind, entityID int64) ([]domain.Document, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE entity_kind = ? AND entity_id = ?
		ORDER BY created_at DESC, id DESC`, string(kind), entityID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// Delete removes the document record.
func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("document %d not found", id)
	}
	return nil
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		d                       domain.Document
		kind                    string
		contentType, uploadedBy sql.NullString
	)
	if err := row.Scan(&d.ID, &kind, &d.EntityID, &d.Filename, &contentType, &uploadedBy, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.EntityKind = domain.EntityKind(kind)
	d.ContentType = strPtr(contentType)
	d.UploadedBy = strPtr(uploadedBy)
	return &d, nil
}
