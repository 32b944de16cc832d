package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"netros/internal/domain"
	"netros/internal/middleware"
)

// AuditService reads the audit trail and appends entries for mutations.
// Writers pass their open transaction so the entry commits or rolls back
// together with the state change it describes.
type AuditService struct {
	repo domain.AuditRepository
	now  func() time.Time
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// Record appends one entry inside the caller's transaction. The actor is
// taken from the request context; system actions have none.
func (s *AuditService) Record(ctx context.Context, tx *sql.Tx, action domain.AuditAction, entityType string, entityID *int64, oldValues, newValues domain.ChangeSet) error {
	return s.repo.WithTx(tx).Insert(ctx, &domain.AuditEntry{
		Timestamp:   s.now().UTC(),
		Actor:       middleware.ActorPtr(ctx),
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		OldValues:   oldValues,
		NewValues:   newValues,
		Description: describeAction(action, entityType, entityID),
	})
}

var auditVerbs = map[domain.AuditAction]string{
	domain.AuditActionCreate:  "Opprettet",
	domain.AuditActionUpdate:  "Oppdaterte",
	domain.AuditActionDelete:  "Slettet",
	domain.AuditActionApprove: "Godkjente",
	domain.AuditActionExport:  "Eksporterte",
}

// describeAction renders the Norwegian one-liner shown in activity feeds,
// e.g. "Opprettet risk #7".
func describeAction(action domain.AuditAction, entityType string, entityID *int64) *string {
	verb, ok := auditVerbs[action]
	if !ok {
		return nil
	}
	desc := fmt.Sprintf("%s %s", verb, entityType)
	if entityID != nil {
		desc = fmt.Sprintf("%s #%d", desc, *entityID)
	}
	return &desc
}

// History returns the entries for one entity, newest first.
func (s *AuditService) History(ctx context.Context, entityType string, entityID int64, page domain.PageRequest) ([]domain.AuditEntry, error) {
	return s.repo.History(ctx, entityType, entityID, page)
}

// Activity returns the entries attributed to one actor, newest first.
func (s *AuditService) Activity(ctx context.Context, actor string, page domain.PageRequest) ([]domain.AuditEntry, error) {
	return s.repo.Activity(ctx, actor, page)
}

// Recent returns the filtered global feed, newest first.
func (s *AuditService) Recent(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	return s.repo.Recent(ctx, filter)
}
