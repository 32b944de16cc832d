// Package app provides application-level wiring and dependency injection
// for the risk register server.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"netros/internal/api"
	"netros/internal/config"
	"netros/internal/db/repository"
	"netros/internal/service"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers the API handler needs.
type Services struct {
	Risk       *service.RiskService
	Action     *service.ActionService
	Asset      *service.AssetService
	Supplier   *service.SupplierService
	Review     *service.ReviewService
	Project    *service.ProjectService
	Document   *service.DocumentService
	Compliance *service.ComplianceService
	Dashboard  *service.DashboardService
	Audit      *service.AuditService
}

// App holds the fully-wired application.
type App struct {
	Services Services
	Handler  *api.Handler
}

// New wires all repositories and services from the provided deps and runs
// the reference-data seed.
func New(ctx context.Context, deps Deps) (*App, error) {
	logger := deps.Logger

	// === Repositories (write-pool) ===
	// Mutations and their audit entries share transactions, so everything a
	// service writes through lives on the single-connection write pool.
	riskRepo := repository.NewRiskRepo(deps.WriteDB)
	principleRepo := repository.NewPrincipleRepo(deps.WriteDB)
	complianceRepo := repository.NewComplianceRepo(deps.WriteDB)
	linkRepo := repository.NewLinkRepo(deps.WriteDB)
	actionRepo := repository.NewActionRepo(deps.WriteDB)
	assetRepo := repository.NewAssetRepo(deps.WriteDB)
	supplierRepo := repository.NewSupplierRepo(deps.WriteDB)
	reviewRepo := repository.NewReviewRepo(deps.WriteDB)
	projectRepo := repository.NewProjectRepo(deps.WriteDB)
	documentRepo := repository.NewDocumentRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)

	// === Repositories (read-pool) ===
	// Dashboard composition only reads, so it runs on the concurrent pool.
	readRiskRepo := repository.NewRiskRepo(deps.ReadDB)
	readActionRepo := repository.NewActionRepo(deps.ReadDB)
	readAssetRepo := repository.NewAssetRepo(deps.ReadDB)
	readSupplierRepo := repository.NewSupplierRepo(deps.ReadDB)
	readReviewRepo := repository.NewReviewRepo(deps.ReadDB)
	readComplianceRepo := repository.NewComplianceRepo(deps.ReadDB)

	// === Seed reference data ===
	created, err := SeedPrinciples(ctx, principleRepo)
	if err != nil {
		return nil, fmt.Errorf("seed principles: %w", err)
	}
	if created > 0 {
		logger.Info("seeded framework principles", "created", created)
	}

	// === Services ===
	audit := service.NewAuditService(auditRepo)
	compliance := service.NewComplianceService(deps.WriteDB, principleRepo, complianceRepo, audit, logger)

	svcs := Services{
		Risk:       service.NewRiskService(deps.WriteDB, riskRepo, principleRepo, complianceRepo, linkRepo, audit, logger),
		Action:     service.NewActionService(deps.WriteDB, actionRepo, audit, logger),
		Asset:      service.NewAssetService(deps.WriteDB, assetRepo, audit, logger),
		Supplier:   service.NewSupplierService(deps.WriteDB, supplierRepo, audit, logger),
		Review:     service.NewReviewService(deps.WriteDB, reviewRepo, riskRepo, linkRepo, audit, logger),
		Project:    service.NewProjectService(deps.WriteDB, projectRepo, audit, logger),
		Document:   service.NewDocumentService(deps.WriteDB, documentRepo, audit, logger),
		Compliance: compliance,
		Dashboard: service.NewDashboardService(readRiskRepo, readActionRepo, readAssetRepo,
			readSupplierRepo, readReviewRepo, readComplianceRepo, compliance, audit, logger),
		Audit: audit,
	}

	handler := api.NewHandler(
		svcs.Risk, svcs.Action, svcs.Asset, svcs.Supplier, svcs.Review,
		svcs.Project, svcs.Document, svcs.Compliance, svcs.Dashboard, svcs.Audit,
	)

	return &App{Services: svcs, Handler: handler}, nil
}
