package service

import (
	"context"
	"database/sql"
	"log/slog"

	"netros/internal/db"
	"netros/internal/domain"
)

// ProjectService provides CRUD operations for projects.
type ProjectService struct {
	writeDB  *sql.DB
	projects domain.ProjectRepository
	audit    *AuditService
	logger   *slog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(writeDB *sql.DB, projects domain.ProjectRepository, audit *AuditService, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		writeDB:  writeDB,
		projects: projects,
		audit:    audit,
		logger:   logger.With("component", "project_service"),
	}
}

// Create validates and persists a new project.
func (s *ProjectService) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Project
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		created, err = s.projects.WithTx(tx).Create(ctx, project)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionCreate, entityProject, &created.ID, nil, projectChangeSet(created))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID returns one project.
func (s *ProjectService) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// List returns all projects.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

// Update validates and persists the project's name and description.
func (s *ProjectService) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.projects.GetByID(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Project
	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.projects.WithTx(tx).Update(ctx, project)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entityProject, &project.ID, projectChangeSet(existing), projectChangeSet(updated))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a project. Its risks keep their rows, unscoped.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	existing, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		if err := s.projects.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionDelete, entityProject, &id, projectChangeSet(existing), nil)
	})
}
