package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"netros/internal/db"
	"netros/internal/db/repository"
	"netros/internal/domain"
	"netros/internal/middleware"
)

// testEnv wires every service against one real SQLite database.
type testEnv struct {
	risks      *RiskService
	actions    *ActionService
	assets     *AssetService
	suppliers  *SupplierService
	reviews    *ReviewService
	projects   *ProjectService
	documents  *DocumentService
	compliance *ComplianceService
	dashboard  *DashboardService
	audit      *AuditService

	principleRepo domain.PrincipleRepository
	riskRepo      domain.RiskRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	writeDB, _ := db.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	riskRepo := repository.NewRiskRepo(writeDB)
	principleRepo := repository.NewPrincipleRepo(writeDB)
	complianceRepo := repository.NewComplianceRepo(writeDB)
	linkRepo := repository.NewLinkRepo(writeDB)
	actionRepo := repository.NewActionRepo(writeDB)
	assetRepo := repository.NewAssetRepo(writeDB)
	supplierRepo := repository.NewSupplierRepo(writeDB)
	reviewRepo := repository.NewReviewRepo(writeDB)
	projectRepo := repository.NewProjectRepo(writeDB)
	documentRepo := repository.NewDocumentRepo(writeDB)
	auditRepo := repository.NewAuditRepo(writeDB)

	audit := NewAuditService(auditRepo)
	compliance := NewComplianceService(writeDB, principleRepo, complianceRepo, audit, logger)

	return &testEnv{
		risks:      NewRiskService(writeDB, riskRepo, principleRepo, complianceRepo, linkRepo, audit, logger),
		actions:    NewActionService(writeDB, actionRepo, audit, logger),
		assets:     NewAssetService(writeDB, assetRepo, audit, logger),
		suppliers:  NewSupplierService(writeDB, supplierRepo, audit, logger),
		reviews:    NewReviewService(writeDB, reviewRepo, riskRepo, linkRepo, audit, logger),
		projects:   NewProjectService(writeDB, projectRepo, audit, logger),
		documents:  NewDocumentService(writeDB, documentRepo, audit, logger),
		compliance: compliance,
		dashboard: NewDashboardService(riskRepo, actionRepo, assetRepo, supplierRepo,
			reviewRepo, complianceRepo, compliance, audit, logger),
		audit: audit,

		principleRepo: principleRepo,
		riskRepo:      riskRepo,
	}
}

// actorCtx returns a context carrying an authenticated actor, the way the
// auth middleware would populate it.
func actorCtx(name string) context.Context {
	return middleware.WithActor(context.Background(), name)
}

func contextWithoutActor() context.Context {
	return context.Background()
}

func (e *testEnv) mustPrinciple(t *testing.T, framework domain.Framework, code, category, title string) *domain.Principle {
	t.Helper()
	p, err := e.principleRepo.Create(context.Background(), &domain.Principle{
		Framework: framework,
		Code:      code,
		Category:  category,
		Title:     title,
		Version:   "2.0",
	})
	if err != nil {
		t.Fatalf("create principle %s: %v", code, err)
	}
	return p
}

func (e *testEnv) mustRisk(t *testing.T, ctx context.Context, title string, likelihood, consequence int) *domain.Risk {
	t.Helper()
	r, err := e.risks.Create(ctx, &domain.Risk{
		Title:       title,
		RiskType:    domain.RiskTypeTechnical,
		Likelihood:  likelihood,
		Consequence: consequence,
		Status:      domain.RiskStatusIdentified,
	})
	if err != nil {
		t.Fatalf("create risk %q: %v", title, err)
	}
	return r
}

func datePtr(t time.Time) *time.Time { return &t }
