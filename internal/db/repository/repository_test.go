package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netros/internal/db"
	"netros/internal/domain"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func newTestRisk(title string, likelihood, consequence int) *domain.Risk {
	return &domain.Risk{
		Title:       title,
		RiskType:    domain.RiskTypeTechnical,
		Likelihood:  likelihood,
		Consequence: consequence,
		Status:      domain.RiskStatusIdentified,
	}
}

func TestRiskRepo_CreateGetUpdateDelete(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()
	repo := NewRiskRepo(writeDB)

	risk := newTestRisk("Fiberbrudd i transportnett", 5, 4)
	risk.Owner = strp("netops")

	created, err := repo.Create(ctx, risk)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 20, created.Score())
	assert.Equal(t, domain.BandHigh, created.Band())
	assert.Nil(t, created.TargetLikelihood)
	assert.Nil(t, created.ProjectName)

	created.TargetLikelihood = intp(2)
	created.TargetConsequence = intp(2)
	created.Status = domain.RiskStatusMitigated
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	ts, ok := updated.TargetScore()
	require.True(t, ok)
	assert.Equal(t, 4, ts)
	assert.Equal(t, domain.RiskStatusMitigated, updated.Status)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fiberbrudd i transportnett", got.Title)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestRiskRepo_GetByID_NotFound(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	repo := NewRiskRepo(writeDB)

	_, err := repo.GetByID(context.Background(), 9999)
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestRiskRepo_OutOfRangeRejectedByCheck(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	repo := NewRiskRepo(writeDB)

	risk := newTestRisk("Ugyldig", 6, 3)
	_, err := repo.Create(context.Background(), risk)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestRiskRepo_ProjectNameResolved(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()

	project, err := NewProjectRepo(writeDB).Create(ctx, &domain.Project{Name: "5G-utrulling"})
	require.NoError(t, err)

	repo := NewRiskRepo(writeDB)
	risk := newTestRisk("Forsinket leveranse", 3, 3)
	risk.ProjectID = &project.ID
	created, err := repo.Create(ctx, risk)
	require.NoError(t, err)
	require.NotNil(t, created.ProjectName)
	assert.Equal(t, "5G-utrulling", *created.ProjectName)
}

func TestRiskRepo_ListAllPreservesCreationOrder(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()
	repo := NewRiskRepo(writeDB)

	for _, title := range []string{"a", "b", "c"} {
		_, err := repo.Create(ctx, newTestRisk(title, 2, 2))
		require.NoError(t, err)
	}

	risks, err := repo.ListAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, risks, 3)
	assert.Equal(t, "a", risks[0].Title)
	assert.Equal(t, "b", risks[1].Title)
	assert.Equal(t, "c", risks[2].Title)
}

func TestRiskRepo_ListFilters(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()
	repo := NewRiskRepo(writeDB)

	open := newTestRisk("åpen", 4, 4)
	_, err := repo.Create(ctx, open)
	require.NoError(t, err)

	closed := newTestRisk("lukket", 2, 2)
	closed.Status = domain.RiskStatusClosed
	_, err = repo.Create(ctx, closed)
	require.NoError(t, err)

	status := domain.RiskStatusClosed
	risks, total, err := repo.List(ctx, domain.RiskFilter{Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, risks, 1)
	assert.Equal(t, "lukket", risks[0].Title)
}

func TestAuditRepo_InsertAndHistoryRoundTrip(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()
	repo := NewAuditRepo(writeDB)

	entityID := int64(42)
	entry := &domain.AuditEntry{
		Timestamp:  time.Now().UTC(),
		Actor:      strp("kari"),
		Action:     domain.AuditActionUpdate,
		EntityType: "risk",
		EntityID:   &entityID,
		OldValues:  domain.ChangeSet{"likelihood": 4, "status": "identified"},
		NewValues:  domain.ChangeSet{"likelihood": 2, "status": "mitigated"},
	}
	require.NoError(t, repo.Insert(ctx, entry))
	assert.NotZero(t, entry.ID)

	entries, err := repo.History(ctx, "risk", entityID, domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got := entries[0]
	assert.Equal(t, domain.AuditActionUpdate, got.Action)
	require.NotNil(t, got.Actor)
	assert.Equal(t, "kari", *got.Actor)
	// JSON decodes numbers as float64; values compare by content.
	assert.EqualValues(t, 4, got.OldValues["likelihood"])
	assert.Equal(t, "mitigated", got.NewValues["status"])
}

func TestAuditRepo_RecentOrderingAndFilter(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()
	repo := NewAuditRepo(writeDB)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, action := range []domain.AuditAction{domain.AuditActionCreate, domain.AuditActionUpdate, domain.AuditActionDelete} {
		id := int64(i + 1)
		require.NoError(t, repo.Insert(ctx, &domain.AuditEntry{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Action:     action,
			EntityType: "risk",
			EntityID:   &id,
		}))
	}
	// Same timestamp as the last entry; insertion order breaks the tie.
	id := int64(4)
	require.NoError(t, repo.Insert(ctx, &domain.AuditEntry{
		Timestamp:  base.Add(2 * time.Minute),
		Action:     domain.AuditActionExport,
		EntityType: "risk",
		EntityID:   &id,
	}))

	entries, total, err := repo.Recent(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, entries, 4)
	assert.Equal(t, domain.AuditActionExport, entries[0].Action)
	assert.Equal(t, domain.AuditActionDelete, entries[1].Action)
	assert.Equal(t, domain.AuditActionCreate, entries[3].Action)

	action := domain.AuditActionUpdate
	filtered, total, err := repo.Recent(ctx, domain.AuditFilter{Action: &action})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, filtered, 1)
}

func TestAuditRepo_ActorActivity(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()
	repo := NewAuditRepo(writeDB)

	require.NoError(t, repo.Insert(ctx, &domain.AuditEntry{
		Timestamp: time.Now().UTC(), Actor: strp("ola"),
		Action: domain.AuditActionLogin, EntityType: "session",
	}))
	require.NoError(t, repo.Insert(ctx, &domain.AuditEntry{
		Timestamp: time.Now().UTC(),
		Action:    domain.AuditActionCreate, EntityType: "risk",
	}))

	entries, err := repo.Activity(ctx, "ola", domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionLogin, entries[0].Action)
}

func TestComplianceRepo_MappingLifecycle(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()

	principleRepo := NewPrincipleRepo(writeDB)
	p1, err := principleRepo.Create(ctx, &domain.Principle{
		Framework: domain.FrameworkNSM, Code: "1.1",
		Category: "Identifisere", Title: "Kartlegg styringsstrukturer", Version: "2.0",
	})
	require.NoError(t, err)
	p2, err := principleRepo.Create(ctx, &domain.Principle{
		Framework: domain.FrameworkNSM, Code: "2.3",
		Category: "Beskytte", Title: "Ivareta en sikker IKT-arkitektur", Version: "2.0",
	})
	require.NoError(t, err)

	risk, err := NewRiskRepo(writeDB).Create(ctx, newTestRisk("DDoS mot kjernenett", 4, 5))
	require.NoError(t, err)

	repo := NewComplianceRepo(writeDB)
	mapping, err := repo.CreateRiskMapping(ctx, &domain.RiskPrincipleMapping{
		RiskID: risk.ID, PrincipleID: p1.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, mapping.ComplianceStatus)
	assert.Equal(t, "1.1", mapping.PrincipleCode)

	// Duplicate pair violates the unique constraint.
	_, err = repo.CreateRiskMapping(ctx, &domain.RiskPrincipleMapping{
		RiskID: risk.ID, PrincipleID: p1.ID,
	})
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)

	status := domain.CompliancePartial
	updated, err := repo.UpdateRiskMapping(ctx, mapping.ID, &status, strp("delvis dekket"))
	require.NoError(t, err)
	require.NotNil(t, updated.ComplianceStatus)
	assert.Equal(t, domain.CompliancePartial, *updated.ComplianceStatus)

	require.NoError(t, repo.ReplaceRiskMappings(ctx, risk.ID, domain.FrameworkNSM, []int64{p1.ID, p2.ID}))
	mappings, err := repo.ListRiskMappings(ctx, risk.ID, domain.FrameworkNSM)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	// Replacement discards assessed statuses.
	assert.Nil(t, mappings[0].ComplianceStatus)
	assert.Nil(t, mappings[1].ComplianceStatus)
}

func TestComplianceRepo_MappingToMissingPrinciple(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()

	risk, err := NewRiskRepo(writeDB).Create(ctx, newTestRisk("r", 3, 3))
	require.NoError(t, err)

	_, err = NewComplianceRepo(writeDB).CreateRiskMapping(ctx, &domain.RiskPrincipleMapping{
		RiskID: risk.ID, PrincipleID: 9999,
	})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestRiskRepo_DeleteCascadesMappings(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()

	principle, err := NewPrincipleRepo(writeDB).Create(ctx, &domain.Principle{
		Framework: domain.FrameworkEkom, Code: "2-2",
		Category: "Sikkerhet og beredskap", Title: "Sikkerhet i nett og tjeneste", Version: "1.0",
	})
	require.NoError(t, err)

	riskRepo := NewRiskRepo(writeDB)
	risk, err := riskRepo.Create(ctx, newTestRisk("Strømbrudd basestasjon", 3, 4))
	require.NoError(t, err)

	complianceRepo := NewComplianceRepo(writeDB)
	_, err = complianceRepo.CreateRiskMapping(ctx, &domain.RiskPrincipleMapping{
		RiskID: risk.ID, PrincipleID: principle.ID,
	})
	require.NoError(t, err)

	require.NoError(t, riskRepo.Delete(ctx, risk.ID))

	mappings, err := complianceRepo.ListByFramework(ctx, domain.FrameworkEkom)
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestPrincipleRepo_UniquePerFramework(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()
	repo := NewPrincipleRepo(writeDB)

	_, err := repo.Create(ctx, &domain.Principle{
		Framework: domain.FrameworkNSM, Code: "1.1", Category: "Identifisere", Title: "t", Version: "2.0",
	})
	require.NoError(t, err)

	// Same code in the other framework is fine.
	_, err = repo.Create(ctx, &domain.Principle{
		Framework: domain.FrameworkEkom, Code: "1.1", Category: "Annet", Title: "t", Version: "1.0",
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Principle{
		Framework: domain.FrameworkNSM, Code: "1.1", Category: "Identifisere", Title: "dup", Version: "2.0",
	})
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)

	got, err := repo.GetByCode(ctx, domain.FrameworkNSM, "1.1")
	require.NoError(t, err)
	assert.Equal(t, domain.FrameworkNSM, got.Framework)
}

func TestLinkRepo_RiskAssetLinks(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()

	asset, err := NewAssetRepo(writeDB).Create(ctx, &domain.Asset{
		Name: "Kjerneruter Oslo", AssetType: domain.AssetTypePhysical,
		Category: domain.AssetCategoryCoreNetwork, Criticality: 5,
	})
	require.NoError(t, err)

	risk, err := NewRiskRepo(writeDB).Create(ctx, newTestRisk("Maskinvarefeil", 2, 5))
	require.NoError(t, err)

	repo := NewLinkRepo(writeDB)
	require.NoError(t, repo.LinkRiskAsset(ctx, risk.ID, asset.ID))

	assets, err := repo.ListRiskAssets(ctx, risk.ID)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "Kjerneruter Oslo", assets[0].Name)

	require.NoError(t, repo.UnlinkRiskAsset(ctx, risk.ID, asset.ID))
	assets, err = repo.ListRiskAssets(ctx, risk.ID)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestRunInTx_RollbackLeavesNoPartialState(t *testing.T) {
	writeDB, _ := db.OpenTestSQLite(t)
	ctx := context.Background()

	riskRepo := NewRiskRepo(writeDB)
	auditRepo := NewAuditRepo(writeDB)

	err := db.RunInTx(ctx, writeDB, func(tx *sql.Tx) error {
		if _, err := riskRepo.WithTx(tx).Create(ctx, newTestRisk("flyktig", 3, 3)); err != nil {
			return err
		}
		if err := auditRepo.WithTx(tx).Insert(ctx, &domain.AuditEntry{
			Timestamp: time.Now().UTC(), Action: domain.AuditActionCreate, EntityType: "risk",
		}); err != nil {
			return err
		}
		return domain.ErrValidation("forced failure")
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	n, err := riskRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	entries, total, err := auditRepo.Recent(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)
}
