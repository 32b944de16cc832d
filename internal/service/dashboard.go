package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"netros/internal/domain"
)

// Review alerting windows.
const upcomingReviewWindow = 7 * 24 * time.Hour

// Contract expiry warning tiers, tightest first. A contract gets exactly one
// alert, at the tightest tier it falls into.
var contractExpiryTiers = []struct {
	window   time.Duration
	severity domain.AlertSeverity
}{
	{30 * 24 * time.Hour, domain.AlertDanger},
	{60 * 24 * time.Hour, domain.AlertWarning},
	{90 * 24 * time.Hour, domain.AlertInfo},
}

// DashboardSummary is the composed landing-page payload.
type DashboardSummary struct {
	TotalRisks     int64                    `json:"total_risks"`
	OpenRisks      int                      `json:"open_risks"`
	TotalAssets    int64                    `json:"total_assets"`
	TotalActions   int64                    `json:"total_actions"`
	Distribution   domain.BandDistribution  `json:"distribution"`
	ActionProgress domain.ActionProgress    `json:"action_progress"`
	NSMCoverage    *domain.CoverageSummary  `json:"nsm_coverage"`
	EkomCoverage   *domain.CoverageSummary  `json:"ekom_coverage"`
	Alerts         []domain.Alert           `json:"alerts"`
	RecentActivity []domain.AuditEntry      `json:"recent_activity"`
}

// DashboardService composes register state into the landing-page summary and
// its alert feed. Read-only; it runs on the read pool.
type DashboardService struct {
	risks      domain.RiskRepository
	actions    domain.ActionRepository
	assets     domain.AssetRepository
	suppliers  domain.SupplierRepository
	reviews    domain.ReviewRepository
	compliance domain.ComplianceRepository
	covSvc     *ComplianceService
	audit      *AuditService
	logger     *slog.Logger
	now        func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	risks domain.RiskRepository,
	actions domain.ActionRepository,
	assets domain.AssetRepository,
	suppliers domain.SupplierRepository,
	reviews domain.ReviewRepository,
	compliance domain.ComplianceRepository,
	covSvc *ComplianceService,
	audit *AuditService,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		risks:      risks,
		actions:    actions,
		assets:     assets,
		suppliers:  suppliers,
		reviews:    reviews,
		compliance: compliance,
		covSvc:     covSvc,
		audit:      audit,
		logger:     logger.With("component", "dashboard_service"),
		now:        time.Now,
	}
}

// Summary builds the full dashboard payload.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	risks, err := s.risks.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	actions, err := s.actions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.suppliers.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	pendingReviews, err := s.reviews.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	totalAssets, err := s.assets.Count(ctx)
	if err != nil {
		return nil, err
	}

	distribution, err := domain.Distribution(risks, domain.MatrixViewCurrent)
	if err != nil {
		return nil, err
	}

	nsm, err := s.covSvc.Summary(ctx, domain.FrameworkNSM, domain.ReportActiveOnly)
	if err != nil {
		return nil, err
	}
	ekom, err := s.covSvc.Summary(ctx, domain.FrameworkEkom, domain.ReportActiveOnly)
	if err != nil {
		return nil, err
	}

	alerts, err := s.buildAlerts(ctx, risks, actions, suppliers, pendingReviews)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.audit.Recent(ctx, domain.AuditFilter{Page: domain.PageRequest{MaxResults: 10}})
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalRisks:     int64(len(risks)),
		TotalAssets:    totalAssets,
		TotalActions:   int64(len(actions)),
		Distribution:   distribution,
		ActionProgress: actionProgress(actions, s.now()),
		NSMCoverage:    nsm,
		EkomCoverage:   ekom,
		Alerts:         alerts,
		RecentActivity: recent,
	}
	for i := range risks {
		if risks[i].Status.Open() {
			summary.OpenRisks++
		}
	}
	return summary, nil
}

// Alerts generates and orders the alert feed without the rest of the
// dashboard payload.
func (s *DashboardService) Alerts(ctx context.Context) ([]domain.Alert, error) {
	risks, err := s.risks.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	actions, err := s.actions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.suppliers.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	pendingReviews, err := s.reviews.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildAlerts(ctx, risks, actions, suppliers, pendingReviews)
}

// buildAlerts runs every alert rule and orders the result by severity.
// Within a severity, alerts keep the order the rules produced them in.
func (s *DashboardService) buildAlerts(ctx context.Context, risks []domain.Risk, actions []domain.Action, suppliers []domain.Supplier, pendingReviews []domain.Review) ([]domain.Alert, error) {
	today := s.now()
	alerts := []domain.Alert{}

	// Open risks in the high band demand immediate attention.
	for i := range risks {
		r := &risks[i]
		if r.Status.Open() && r.Band() == domain.BandHigh {
			alerts = append(alerts, domain.Alert{
				Severity:   domain.AlertDanger,
				Category:   "high_risk",
				Message:    fmt.Sprintf("Risiko %q har kritisk risikonivå (score %d)", r.Title, r.Score()),
				EntityType: entityRisk,
				EntityID:   r.ID,
			})
		}
	}

	// Overdue mitigation actions.
	for i := range actions {
		a := &actions[i]
		if a.Overdue(today) {
			alerts = append(alerts, domain.Alert{
				Severity:   domain.AlertWarning,
				Category:   "overdue_action",
				Message:    fmt.Sprintf("Tiltak %q er forfalt", a.Title),
				EntityType: entityAction,
				EntityID:   a.ID,
			})
		}
	}

	// Pending reviews: overdue warns, upcoming within the window informs.
	for i := range pendingReviews {
		r := &pendingReviews[i]
		switch {
		case r.Overdue(today):
			alerts = append(alerts, domain.Alert{
				Severity:   domain.AlertWarning,
				Category:   "overdue_review",
				Message:    fmt.Sprintf("Gjennomgang %q er forfalt", r.Title),
				EntityType: entityReview,
				EntityID:   r.ID,
			})
		case r.ScheduledDate != nil && r.ScheduledDate.Sub(today) <= upcomingReviewWindow:
			alerts = append(alerts, domain.Alert{
				Severity:   domain.AlertInfo,
				Category:   "upcoming_review",
				Message:    fmt.Sprintf("Gjennomgang %q er planlagt innen 7 dager", r.Title),
				EntityType: entityReview,
				EntityID:   r.ID,
			})
		}
	}

	// Supplier contract expiry and stale assessments of critical suppliers.
	for i := range suppliers {
		sup := &suppliers[i]
		// Already-expired contracts are out of scope for expiry warnings.
		if sup.ContractExpiry != nil && sup.ContractExpiry.After(today) {
			remaining := sup.ContractExpiry.Sub(today)
			for _, tier := range contractExpiryTiers {
				if remaining <= tier.window {
					days := int(remaining.Hours() / 24)
					alerts = append(alerts, domain.Alert{
						Severity:   tier.severity,
						Category:   "contract_expiry",
						Message:    fmt.Sprintf("Kontrakt med %q utløper om %d dager", sup.Name, days),
						EntityType: entitySupplier,
						EntityID:   sup.ID,
					})
					break
				}
			}
		}
		if sup.NeedsAssessment(today) {
			alerts = append(alerts, domain.Alert{
				Severity:   domain.AlertWarning,
				Category:   "supplier_assessment",
				Message:    fmt.Sprintf("Kritisk leverandør %q mangler oppdatert risikovurdering", sup.Name),
				EntityType: entitySupplier,
				EntityID:   sup.ID,
			})
		}
	}

	// Open risks with no NSM mapping: compliance blind spots.
	nsmMapped, err := s.nsmMappedRisks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range risks {
		r := &risks[i]
		if !r.Status.Open() {
			continue
		}
		if _, ok := nsmMapped[r.ID]; !ok {
			alerts = append(alerts, domain.Alert{
				Severity:   domain.AlertInfo,
				Category:   "missing_nsm_mapping",
				Message:    fmt.Sprintf("Risiko %q mangler kobling til NSM-grunnprinsipper", r.Title),
				EntityType: entityRisk,
				EntityID:   r.ID,
			})
		}
	}

	domain.SortAlerts(alerts)
	return alerts, nil
}

func (s *DashboardService) nsmMappedRisks(ctx context.Context) (map[int64]struct{}, error) {
	mappings, err := s.compliance.ListByFramework(ctx, domain.FrameworkNSM)
	if err != nil {
		return nil, err
	}
	mapped := make(map[int64]struct{}, len(mappings))
	for _, m := range mappings {
		mapped[m.RiskID] = struct{}{}
	}
	return mapped, nil
}

// actionProgress counts actions per lifecycle state.
func actionProgress(actions []domain.Action, today time.Time) domain.ActionProgress {
	var p domain.ActionProgress
	for i := range actions {
		a := &actions[i]
		switch a.Status {
		case domain.ActionStatusPlanned:
			p.Planned++
		case domain.ActionStatusInProgress:
			p.InProgress++
		case domain.ActionStatusDone:
			p.Done++
		case domain.ActionStatusCancelled:
			p.Cancelled++
		}
		if a.Overdue(today) {
			p.Overdue++
		}
		p.Total++
	}
	return p
}
