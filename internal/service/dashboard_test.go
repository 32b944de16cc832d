package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netros/internal/domain"
)

func TestDashboardService_AlertsOrderedBySeverity(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")
	now := time.Now()

	// danger: open high-band risk.
	env.mustRisk(t, ctx, "Sabotasje mot kjernenett", 5, 5)

	// warning: overdue action.
	_, err := env.actions.Create(ctx, &domain.Action{
		Title:    "Etabler reservesamband",
		Priority: domain.ActionPriorityHigh,
		Status:   domain.ActionStatusInProgress,
		DueDate:  datePtr(now.AddDate(0, 0, -3)),
	})
	require.NoError(t, err)

	// info: review scheduled within a week.
	_, err = env.reviews.Create(ctx, &domain.Review{
		Title:         "Kvartalsvis gjennomgang",
		ReviewType:    domain.ReviewTypePeriodic,
		ScheduledDate: datePtr(now.AddDate(0, 0, 3)),
	})
	require.NoError(t, err)

	alerts, err := env.dashboard.Alerts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, alerts)

	// Severity is monotonically non-increasing: danger, then warning, then info.
	rank := map[domain.AlertSeverity]int{domain.AlertDanger: 0, domain.AlertWarning: 1, domain.AlertInfo: 2}
	for i := 1; i < len(alerts); i++ {
		assert.LessOrEqual(t, rank[alerts[i-1].Severity], rank[alerts[i].Severity])
	}
	assert.Equal(t, domain.AlertDanger, alerts[0].Severity)
	assert.Equal(t, "high_risk", alerts[0].Category)
}

func TestDashboardService_AcceptedHighRiskNotAlerted(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("sikkerhetsleder")

	risk := env.mustRisk(t, ctx, "Akseptert restrisiko", 5, 4)
	_, err := env.risks.Accept(ctx, risk.ID, "styrevedtak", nil)
	require.NoError(t, err)

	alerts, err := env.dashboard.Alerts(ctx)
	require.NoError(t, err)
	for _, a := range alerts {
		assert.NotEqual(t, "high_risk", a.Category)
		assert.NotEqual(t, "missing_nsm_mapping", a.Category)
	}
}

func TestDashboardService_ContractExpiryTiers(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")
	now := time.Now()

	cases := []struct {
		name     string
		days     int
		severity domain.AlertSeverity
	}{
		{"Leverandør A", 20, domain.AlertDanger},
		{"Leverandør B", 45, domain.AlertWarning},
		{"Leverandør C", 80, domain.AlertInfo},
	}
	for _, c := range cases {
		_, err := env.suppliers.Create(ctx, &domain.Supplier{
			Name:           c.name,
			SupplierType:   domain.SupplierTypeEquipment,
			Criticality:    2,
			ContractExpiry: datePtr(now.AddDate(0, 0, c.days)),
		})
		require.NoError(t, err)
	}
	// Far-future expiry generates nothing.
	_, err := env.suppliers.Create(ctx, &domain.Supplier{
		Name:           "Leverandør D",
		SupplierType:   domain.SupplierTypeService,
		Criticality:    2,
		ContractExpiry: datePtr(now.AddDate(1, 0, 0)),
	})
	require.NoError(t, err)
	// Neither does an already-expired contract.
	_, err = env.suppliers.Create(ctx, &domain.Supplier{
		Name:           "Leverandør E",
		SupplierType:   domain.SupplierTypeService,
		Criticality:    2,
		ContractExpiry: datePtr(now.AddDate(0, 0, -10)),
	})
	require.NoError(t, err)

	alerts, err := env.dashboard.Alerts(ctx)
	require.NoError(t, err)

	severities := map[domain.AlertSeverity]int{}
	count := 0
	for _, a := range alerts {
		if a.Category != "contract_expiry" {
			continue
		}
		count++
		severities[a.Severity]++
	}
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, severities[domain.AlertDanger])
	assert.Equal(t, 1, severities[domain.AlertWarning])
	assert.Equal(t, 1, severities[domain.AlertInfo])
}

func TestDashboardService_CriticalSupplierNeedsAssessment(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")
	now := time.Now()

	stale, err := env.suppliers.Create(ctx, &domain.Supplier{
		Name:           "Kritisk leverandør",
		SupplierType:   domain.SupplierTypeEquipment,
		Criticality:    5,
		LastAssessedAt: datePtr(now.AddDate(-2, 0, 0)),
	})
	require.NoError(t, err)
	_, err = env.suppliers.Create(ctx, &domain.Supplier{
		Name:           "Fersk leverandør",
		SupplierType:   domain.SupplierTypeService,
		Criticality:    5,
		LastAssessedAt: datePtr(now.AddDate(0, -1, 0)),
	})
	require.NoError(t, err)
	_, err = env.suppliers.Create(ctx, &domain.Supplier{
		Name:         "Ukritisk leverandør",
		SupplierType: domain.SupplierTypeSubcontractor,
		Criticality:  2,
	})
	require.NoError(t, err)

	alerts, err := env.dashboard.Alerts(ctx)
	require.NoError(t, err)

	var assessmentAlerts []domain.Alert
	for _, a := range alerts {
		if a.Category == "supplier_assessment" {
			assessmentAlerts = append(assessmentAlerts, a)
		}
	}
	require.Len(t, assessmentAlerts, 1)
	assert.Equal(t, stale.ID, assessmentAlerts[0].EntityID)

	// Recording an assessment clears the alert.
	_, err = env.suppliers.RecordAssessment(ctx, stale.ID)
	require.NoError(t, err)
	alerts, err = env.dashboard.Alerts(ctx)
	require.NoError(t, err)
	for _, a := range alerts {
		assert.NotEqual(t, "supplier_assessment", a.Category)
	}
}

func TestDashboardService_MissingNSMMappingAlert(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	p := env.mustPrinciple(t, domain.FrameworkNSM, "3.2", "Oppdage", "Etabler sikkerhetsovervåkning")
	mapped := env.mustRisk(t, ctx, "Med kobling", 2, 2)
	unmapped := env.mustRisk(t, ctx, "Uten kobling", 2, 2)

	_, err := env.compliance.CreateMapping(ctx, &domain.RiskPrincipleMapping{
		RiskID: mapped.ID, PrincipleID: p.ID,
	})
	require.NoError(t, err)

	alerts, err := env.dashboard.Alerts(ctx)
	require.NoError(t, err)

	var nsmAlerts []domain.Alert
	for _, a := range alerts {
		if a.Category == "missing_nsm_mapping" {
			nsmAlerts = append(nsmAlerts, a)
		}
	}
	require.Len(t, nsmAlerts, 1)
	assert.Equal(t, unmapped.ID, nsmAlerts[0].EntityID)
	assert.Equal(t, domain.AlertInfo, nsmAlerts[0].Severity)
}

func TestDashboardService_SummaryComposition(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")
	now := time.Now()

	env.mustPrinciple(t, domain.FrameworkNSM, "1.1", "Identifisere", "a")
	env.mustPrinciple(t, domain.FrameworkEkom, "2-2", "Sikkerhet og beredskap", "b")

	env.mustRisk(t, ctx, "Høy", 5, 5)
	closedRisk := env.mustRisk(t, ctx, "Lukket", 2, 2)
	next := *closedRisk
	next.Status = domain.RiskStatusClosed
	_, err := env.risks.Update(ctx, &next)
	require.NoError(t, err)

	_, err = env.actions.Create(ctx, &domain.Action{
		Title: "Pågående", Priority: domain.ActionPriorityMedium,
		Status: domain.ActionStatusInProgress, DueDate: datePtr(now.AddDate(0, 0, -1)),
	})
	require.NoError(t, err)
	_, err = env.assets.Create(ctx, &domain.Asset{
		Name: "Kjerneruter", AssetType: domain.AssetTypePhysical,
		Category: domain.AssetCategoryCoreNetwork, Criticality: 5,
	})
	require.NoError(t, err)

	summary, err := env.dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.TotalRisks)
	assert.Equal(t, 1, summary.OpenRisks)
	assert.EqualValues(t, 1, summary.TotalAssets)
	assert.EqualValues(t, 1, summary.TotalActions)
	assert.Equal(t, 1, summary.Distribution.High)
	assert.Equal(t, 1, summary.Distribution.Acceptable)
	assert.Equal(t, 1, summary.ActionProgress.InProgress)
	assert.Equal(t, 1, summary.ActionProgress.Overdue)
	require.NotNil(t, summary.NSMCoverage)
	assert.Equal(t, domain.FrameworkNSM, summary.NSMCoverage.Framework)
	require.NotNil(t, summary.EkomCoverage)
	assert.NotEmpty(t, summary.Alerts)
	assert.NotEmpty(t, summary.RecentActivity)
}
