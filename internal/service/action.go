package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"netros/internal/db"
	"netros/internal/domain"
)

// ActionService provides CRUD and lifecycle operations for mitigation
// actions.
type ActionService struct {
	writeDB *sql.DB
	actions domain.ActionRepository
	audit   *AuditService
	logger  *slog.Logger
	now     func() time.Time
}

// NewActionService creates a new ActionService.
func NewActionService(writeDB *sql.DB, actions domain.ActionRepository, audit *AuditService, logger *slog.Logger) *ActionService {
	return &ActionService{
		writeDB: writeDB,
		actions: actions,
		audit:   audit,
		logger:  logger.With("component", "action_service"),
		now:     time.Now,
	}
}

// Create validates and persists a new action.
func (s *ActionService) Create(ctx context.Context, action *domain.Action) (*domain.Action, error) {
	if action.Priority == "" {
		action.Priority = domain.ActionPriorityMedium
	}
	if action.Status == "" {
		action.Status = domain.ActionStatusPlanned
	}
	if err := action.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Action
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		created, err = s.actions.WithTx(tx).Create(ctx, action)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionCreate, entityAction, &created.ID, nil, actionChangeSet(created))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID returns one action.
func (s *ActionService) GetByID(ctx context.Context, id int64) (*domain.Action, error) {
	return s.actions.GetByID(ctx, id)
}

// List returns a filtered, paginated page of actions.
func (s *ActionService) List(ctx context.Context, filter domain.ActionFilter) ([]domain.Action, int64, error) {
	return s.actions.List(ctx, filter)
}

// Update validates and persists the full new state of an action. Moving to
// done stamps the completion time; leaving done clears it.
func (s *ActionService) Update(ctx context.Context, action *domain.Action) (*domain.Action, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.actions.GetByID(ctx, action.ID)
	if err != nil {
		return nil, err
	}

	if action.Status == domain.ActionStatusDone && action.CompletedAt == nil {
		completed := s.now().UTC()
		action.CompletedAt = &completed
	}
	if action.Status != domain.ActionStatusDone {
		action.CompletedAt = nil
	}

	var updated *domain.Action
	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.actions.WithTx(tx).Update(ctx, action)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entityAction, &action.ID, actionChangeSet(existing), actionChangeSet(updated))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an action, recording the final state.
func (s *ActionService) Delete(ctx context.Context, id int64) error {
	existing, err := s.actions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		if err := s.actions.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionDelete, entityAction, &id, actionChangeSet(existing), nil)
	})
}

// Progress counts actions per lifecycle state.
func (s *ActionService) Progress(ctx context.Context) (domain.ActionProgress, error) {
	actions, err := s.actions.ListAll(ctx)
	if err != nil {
		return domain.ActionProgress{}, err
	}
	return actionProgress(actions, s.now()), nil
}
