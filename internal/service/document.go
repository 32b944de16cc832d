package service

import (
	"context"
	"database/sql"
	"log/slog"

	"netros/internal/db"
	"netros/internal/domain"
	"netros/internal/middleware"
)

// DocumentService manages document metadata attached to register entities.
// Blob storage is out of scope; only references live here.
type DocumentService struct {
	writeDB   *sql.DB
	documents domain.DocumentRepository
	audit     *AuditService
	logger    *slog.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(writeDB *sql.DB, documents domain.DocumentRepository, audit *AuditService, logger *slog.Logger) *DocumentService {
	return &DocumentService{
		writeDB:   writeDB,
		documents: documents,
		audit:     audit,
		logger:    logger.With("component", "document_service"),
	}
}

// Create validates and persists a document reference. The uploader defaults
// to the authenticated actor.
func (s *DocumentService) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if doc.UploadedBy == nil {
		doc.UploadedBy = middleware.ActorPtr(ctx)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Document
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		created, err = s.documents.WithTx(tx).Create(ctx, doc)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionCreate, entityDocument, &created.ID, nil, documentChangeSet(created))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID returns one document record.
func (s *DocumentService) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	return s.documents.GetByID(ctx, id)
}

// ListForEntity returns the documents attached to one entity.
func (s *DocumentService) ListForEntity(ctx context.Context, kind domain.EntityKind, entityID int64) ([]domain.Document, error) {
	if !kind.Valid() {
		return nil, domain.ErrValidation("unknown entity kind %q", kind)
	}
	return s.documents.ListForEntity(ctx, kind, entityID)
}

// Delete removes a document record.
func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	existing, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		if err := s.documents.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionDelete, entityDocument, &id, documentChangeSet(existing), nil)
	})
}
