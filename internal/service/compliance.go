package service

import (
	"context"
	"database/sql"
	"log/slog"
	"math"
	"time"

	"netros/internal/db"
	"netros/internal/domain"
)

// ComplianceService aggregates framework coverage and manages mapping
// assessments. Both frameworks run through the same code path; only the
// framework discriminator differs.
type ComplianceService struct {
	writeDB    *sql.DB
	principles domain.PrincipleRepository
	compliance domain.ComplianceRepository
	audit      *AuditService
	logger     *slog.Logger
	now        func() time.Time
}

// NewComplianceService creates a new ComplianceService.
func NewComplianceService(
	writeDB *sql.DB,
	principles domain.PrincipleRepository,
	compliance domain.ComplianceRepository,
	audit *AuditService,
	logger *slog.Logger,
) *ComplianceService {
	return &ComplianceService{
		writeDB:    writeDB,
		principles: principles,
		compliance: compliance,
		audit:      audit,
		logger:     logger.With("component", "compliance_service"),
		now:        time.Now,
	}
}

// ListPrinciples returns a framework's principles in sort order.
func (s *ComplianceService) ListPrinciples(ctx context.Context, framework domain.Framework) ([]domain.Principle, error) {
	if !framework.Valid() {
		return nil, domain.ErrValidation("unknown framework %q", framework)
	}
	return s.principles.ListByFramework(ctx, framework)
}

// GetPrinciple returns one principle.
func (s *ComplianceService) GetPrinciple(ctx context.Context, id int64) (*domain.Principle, error) {
	return s.principles.GetByID(ctx, id)
}

// CreateMapping links a risk to a principle, optionally with an initial
// assessment.
func (s *ComplianceService) CreateMapping(ctx context.Context, m *domain.RiskPrincipleMapping) (*domain.RiskPrincipleMapping, error) {
	if m.ComplianceStatus != nil && !m.ComplianceStatus.Valid() {
		return nil, domain.ErrValidation("unknown compliance status %q", *m.ComplianceStatus)
	}

	var created *domain.RiskPrincipleMapping
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		created, err = s.compliance.WithTx(tx).CreateRiskMapping(ctx, m)
		if err != nil {
			return err
		}
		newValues := domain.ChangeSet{
			"risk_id":           created.RiskID,
			"principle_id":      created.PrincipleID,
			"compliance_status": string(domain.NormalizeCompliance(created.ComplianceStatus)),
		}
		return s.audit.Record(ctx, tx, domain.AuditActionCreate, entityMapping, &created.ID, nil, newValues)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateMapping sets the assessed status and notes of one mapping.
func (s *ComplianceService) UpdateMapping(ctx context.Context, id int64, status *domain.ComplianceStatus, notes *string) (*domain.RiskPrincipleMapping, error) {
	if status != nil && !status.Valid() {
		return nil, domain.ErrValidation("unknown compliance status %q", *status)
	}

	var updated *domain.RiskPrincipleMapping
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.compliance.WithTx(tx).UpdateRiskMapping(ctx, id, status, notes)
		if err != nil {
			return err
		}
		newValues := domain.ChangeSet{
			"compliance_status": string(domain.NormalizeCompliance(updated.ComplianceStatus)),
			"notes":             csStr(updated.Notes),
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entityMapping, &id, nil, newValues)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteMapping removes one mapping.
func (s *ComplianceService) DeleteMapping(ctx context.Context, id int64) error {
	return db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		if err := s.compliance.WithTx(tx).DeleteRiskMapping(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionDelete, entityMapping, &id, nil, nil)
	})
}

// CreateActionMapping links a mitigating action to a principle. Presence
// only; it never feeds status rollups.
func (s *ComplianceService) CreateActionMapping(ctx context.Context, m *domain.ActionPrincipleMapping) (*domain.ActionPrincipleMapping, error) {
	return s.compliance.CreateActionMapping(ctx, m)
}

// DeleteActionMapping removes an action↔principle link.
func (s *ComplianceService) DeleteActionMapping(ctx context.Context, id int64) error {
	return s.compliance.DeleteActionMapping(ctx, id)
}

// ListActionMappings returns the principle links of one action.
func (s *ComplianceService) ListActionMappings(ctx context.Context, actionID int64) ([]domain.ActionPrincipleMapping, error) {
	return s.compliance.ListActionMappings(ctx, actionID)
}

// Summary computes the framework-level coverage picture. Coverage percentage
// is (compliant + partial) / total mappings × 100, rounded to one decimal;
// zero when the framework has no mappings at all.
func (s *ComplianceService) Summary(ctx context.Context, framework domain.Framework, mode domain.ReportingMode) (*domain.CoverageSummary, error) {
	principles, mappings, err := s.load(ctx, framework, mode)
	if err != nil {
		return nil, err
	}

	covered := make(map[int64]struct{})
	risks := make(map[int64]struct{})
	summary := &domain.CoverageSummary{Framework: framework, Mode: mode, TotalPrinciples: len(principles)}

	for _, m := range mappings {
		covered[m.PrincipleID] = struct{}{}
		risks[m.RiskID] = struct{}{}
		switch domain.NormalizeCompliance(m.ComplianceStatus) {
		case domain.ComplianceCompliant:
			summary.Compliant++
		case domain.CompliancePartial:
			summary.Partial++
		case domain.ComplianceNonCompliant:
			summary.NonCompliant++
		default:
			summary.NotAssessed++
		}
	}
	summary.CoveredPrinciples = len(covered)
	summary.RisksWithMapping = len(risks)

	if total := len(mappings); total > 0 {
		pct := float64(summary.Compliant+summary.Partial) / float64(total) * 100
		summary.CoveragePercentage = math.Round(pct*10) / 10
	}
	return summary, nil
}

// ByCategory rolls mapping statuses up per principle category. A principle
// with zero mappings counts entirely as not_assessed.
func (s *ComplianceService) ByCategory(ctx context.Context, framework domain.Framework, mode domain.ReportingMode) ([]domain.CategoryCompliance, error) {
	principles, mappings, err := s.load(ctx, framework, mode)
	if err != nil {
		return nil, err
	}

	byPrinciple := make(map[int64][]domain.RiskPrincipleMapping)
	for _, m := range mappings {
		byPrinciple[m.PrincipleID] = append(byPrinciple[m.PrincipleID], m)
	}

	index := make(map[string]int)
	var categories []domain.CategoryCompliance
	for _, p := range principles {
		i, ok := index[p.Category]
		if !ok {
			i = len(categories)
			index[p.Category] = i
			categories = append(categories, domain.CategoryCompliance{Category: p.Category})
		}
		cat := &categories[i]
		cat.Principles++

		ms := byPrinciple[p.ID]
		if len(ms) == 0 {
			cat.NotAssessed++
			continue
		}
		for _, m := range ms {
			switch domain.NormalizeCompliance(m.ComplianceStatus) {
			case domain.ComplianceCompliant:
				cat.Compliant++
			case domain.CompliancePartial:
				cat.Partial++
			case domain.ComplianceNonCompliant:
				cat.NonCompliant++
			default:
				cat.NotAssessed++
			}
		}
	}
	return categories, nil
}

// Coverage returns the per-principle risk counts.
func (s *ComplianceService) Coverage(ctx context.Context, framework domain.Framework, mode domain.ReportingMode) ([]domain.PrincipleCoverage, error) {
	principles, mappings, err := s.load(ctx, framework, mode)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int)
	for _, m := range mappings {
		counts[m.PrincipleID]++
	}

	today := s.now()
	coverage := make([]domain.PrincipleCoverage, 0, len(principles))
	for _, p := range principles {
		n := counts[p.ID]
		coverage = append(coverage, domain.PrincipleCoverage{
			PrincipleID: p.ID,
			Code:        p.Code,
			Title:       p.Title,
			Category:    p.Category,
			RiskCount:   n,
			Covered:     n > 0,
			Deprecated:  p.Deprecated(today),
		})
	}
	return coverage, nil
}

// Gaps returns the active principles with zero risk mappings, the
// remediation worklist for compliance officers.
func (s *ComplianceService) Gaps(ctx context.Context, framework domain.Framework) ([]domain.ComplianceGap, error) {
	principles, mappings, err := s.load(ctx, framework, domain.ReportActiveOnly)
	if err != nil {
		return nil, err
	}

	covered := make(map[int64]struct{})
	for _, m := range mappings {
		covered[m.PrincipleID] = struct{}{}
	}

	var gaps []domain.ComplianceGap
	for i := range principles {
		p := &principles[i]
		if _, ok := covered[p.ID]; ok {
			continue
		}
		gaps = append(gaps, domain.ComplianceGap{
			PrincipleID: p.ID,
			Code:        p.Code,
			FullCode:    p.FullCode(),
			Title:       p.Title,
			Category:    p.Category,
			Description: p.Description,
		})
	}
	return gaps, nil
}

// load fetches a framework's principles (mode-filtered) and the mappings
// that point at them.
func (s *ComplianceService) load(ctx context.Context, framework domain.Framework, mode domain.ReportingMode) ([]domain.Principle, []domain.RiskPrincipleMapping, error) {
	if !framework.Valid() {
		return nil, nil, domain.ErrValidation("unknown framework %q", framework)
	}
	if !mode.Valid() {
		return nil, nil, domain.ErrValidation("unknown reporting mode %q", mode)
	}

	principles, err := s.principles.ListByFramework(ctx, framework)
	if err != nil {
		return nil, nil, err
	}
	if mode == domain.ReportActiveOnly {
		today := s.now()
		active := principles[:0]
		for _, p := range principles {
			if p.Active(today) {
				active = append(active, p)
			}
		}
		principles = active
	}

	mappings, err := s.compliance.ListByFramework(ctx, framework)
	if err != nil {
		return nil, nil, err
	}

	// Drop mappings to principles outside the mode-filtered set so the
	// percentage denominator matches the reported principle set.
	included := make(map[int64]struct{}, len(principles))
	for _, p := range principles {
		included[p.ID] = struct{}{}
	}
	kept := mappings[:0]
	for _, m := range mappings {
		if _, ok := included[m.PrincipleID]; ok {
			kept = append(kept, m)
		}
	}
	return principles, kept, nil
}
