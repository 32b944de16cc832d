package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netros/internal/domain"
)

func TestComplianceService_CoverageAndGaps(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	p11 := env.mustPrinciple(t, domain.FrameworkNSM, "1.1", "Identifisere", "Kartlegg styringsstrukturer")
	p23 := env.mustPrinciple(t, domain.FrameworkNSM, "2.3", "Beskytte", "Ivareta en sikker IKT-arkitektur")

	r1 := env.mustRisk(t, ctx, "DDoS mot kjernenett", 4, 5)
	r2 := env.mustRisk(t, ctx, "Manglende oversikt", 3, 2)

	// Two risks map to 1.1; 2.3 stays unmapped.
	for _, riskID := range []int64{r1.ID, r2.ID} {
		_, err := env.compliance.CreateMapping(ctx, &domain.RiskPrincipleMapping{
			RiskID: riskID, PrincipleID: p11.ID,
		})
		require.NoError(t, err)
	}

	coverage, err := env.compliance.Coverage(ctx, domain.FrameworkNSM, domain.ReportActiveOnly)
	require.NoError(t, err)
	require.Len(t, coverage, 2)
	assert.Equal(t, "1.1", coverage[0].Code)
	assert.Equal(t, 2, coverage[0].RiskCount)
	assert.True(t, coverage[0].Covered)
	assert.Equal(t, "2.3", coverage[1].Code)
	assert.Zero(t, coverage[1].RiskCount)
	assert.False(t, coverage[1].Covered)

	gaps, err := env.compliance.Gaps(ctx, domain.FrameworkNSM)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, p23.ID, gaps[0].PrincipleID)
	assert.Equal(t, "2.3", gaps[0].FullCode)
}

func TestComplianceService_SummaryPercentage(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	p1 := env.mustPrinciple(t, domain.FrameworkNSM, "1.1", "Identifisere", "a")
	p2 := env.mustPrinciple(t, domain.FrameworkNSM, "1.2", "Identifisere", "b")
	p3 := env.mustPrinciple(t, domain.FrameworkNSM, "2.1", "Beskytte", "c")

	risk := env.mustRisk(t, ctx, "r", 3, 3)

	compliant := domain.ComplianceCompliant
	partial := domain.CompliancePartial
	for _, m := range []domain.RiskPrincipleMapping{
		{RiskID: risk.ID, PrincipleID: p1.ID, ComplianceStatus: &compliant},
		{RiskID: risk.ID, PrincipleID: p2.ID, ComplianceStatus: &partial},
		{RiskID: risk.ID, PrincipleID: p3.ID}, // unassessed
	} {
		m := m
		_, err := env.compliance.CreateMapping(ctx, &m)
		require.NoError(t, err)
	}

	summary, err := env.compliance.Summary(ctx, domain.FrameworkNSM, domain.ReportActiveOnly)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalPrinciples)
	assert.Equal(t, 3, summary.CoveredPrinciples)
	assert.Equal(t, 1, summary.RisksWithMapping)
	assert.Equal(t, 1, summary.Compliant)
	assert.Equal(t, 1, summary.Partial)
	assert.Equal(t, 1, summary.NotAssessed)
	// (1 compliant + 1 partial) / 3 mappings = 66.7%.
	assert.InDelta(t, 66.7, summary.CoveragePercentage, 0.01)
}

func TestComplianceService_SummaryEmptyFramework(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.compliance.Summary(actorCtx("kari"), domain.FrameworkEkom, domain.ReportActiveOnly)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalPrinciples)
	assert.Zero(t, summary.CoveredPrinciples)
	assert.Zero(t, summary.CoveragePercentage)
}

func TestComplianceService_ByCategoryCountsUnmappedAsNotAssessed(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	p1 := env.mustPrinciple(t, domain.FrameworkNSM, "1.1", "Identifisere", "a")
	env.mustPrinciple(t, domain.FrameworkNSM, "1.2", "Identifisere", "b")
	env.mustPrinciple(t, domain.FrameworkNSM, "2.1", "Beskytte", "c")

	risk := env.mustRisk(t, ctx, "r", 2, 2)
	compliant := domain.ComplianceCompliant
	_, err := env.compliance.CreateMapping(ctx, &domain.RiskPrincipleMapping{
		RiskID: risk.ID, PrincipleID: p1.ID, ComplianceStatus: &compliant,
	})
	require.NoError(t, err)

	categories, err := env.compliance.ByCategory(ctx, domain.FrameworkNSM, domain.ReportActiveOnly)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	identifisere := categories[0]
	assert.Equal(t, "Identifisere", identifisere.Category)
	assert.Equal(t, 2, identifisere.Principles)
	assert.Equal(t, 1, identifisere.Compliant)
	assert.Equal(t, 1, identifisere.NotAssessed) // 1.2 has no mappings

	beskytte := categories[1]
	assert.Equal(t, "Beskytte", beskytte.Category)
	assert.Equal(t, 1, beskytte.NotAssessed)
}

func TestComplianceService_ActiveOnlyExcludesDeprecated(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	env.mustPrinciple(t, domain.FrameworkNSM, "1.1", "Identifisere", "aktiv")

	past := time.Now().AddDate(-1, 0, 0)
	_, err := env.principleRepo.Create(ctx, &domain.Principle{
		Framework:      domain.FrameworkNSM,
		Code:           "9.9",
		Category:       "Utgått",
		Title:          "utgått prinsipp",
		Version:        "1.0",
		DeprecatedDate: &past,
	})
	require.NoError(t, err)

	activeOnly, err := env.compliance.Summary(ctx, domain.FrameworkNSM, domain.ReportActiveOnly)
	require.NoError(t, err)
	assert.Equal(t, 1, activeOnly.TotalPrinciples)

	all, err := env.compliance.Summary(ctx, domain.FrameworkNSM, domain.ReportAll)
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalPrinciples)

	// Deprecated principles never show up as gaps.
	gaps, err := env.compliance.Gaps(ctx, domain.FrameworkNSM)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, "1.1", gaps[0].Code)
}

func TestComplianceService_UpdateMappingAssessment(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	p := env.mustPrinciple(t, domain.FrameworkEkom, "2-7", "Konfidensialitet", "Kommunikasjonsvern")
	risk := env.mustRisk(t, ctx, "Avlytting", 2, 5)

	mapping, err := env.compliance.CreateMapping(ctx, &domain.RiskPrincipleMapping{
		RiskID: risk.ID, PrincipleID: p.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ComplianceNotAssessed, domain.NormalizeCompliance(mapping.ComplianceStatus))

	status := domain.ComplianceNonCompliant
	notes := "kryptering mangler på eldre samband"
	updated, err := env.compliance.UpdateMapping(ctx, mapping.ID, &status, &notes)
	require.NoError(t, err)
	require.NotNil(t, updated.ComplianceStatus)
	assert.Equal(t, domain.ComplianceNonCompliant, *updated.ComplianceStatus)

	bad := domain.ComplianceStatus("utterly_fine")
	_, err = env.compliance.UpdateMapping(ctx, mapping.ID, &bad, nil)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestComplianceService_EkomFullCodePrefix(t *testing.T) {
	env := newTestEnv(t)
	ctx := actorCtx("kari")

	env.mustPrinciple(t, domain.FrameworkEkom, "2-2", "Sikkerhet og beredskap", "Sikkerhet i nett og tjeneste")

	gaps, err := env.compliance.Gaps(ctx, domain.FrameworkEkom)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, "Ekomforskriften § 2-2", gaps[0].FullCode)
}
