package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"netros/internal/db"
	"netros/internal/domain"
	"netros/internal/middleware"
)

// RiskService provides CRUD, scoring views, acceptance decisions and
// compliance-mapping replacement for risks. Every mutation writes its audit
// entry in the same transaction.
type RiskService struct {
	writeDB    *sql.DB
	risks      domain.RiskRepository
	principles domain.PrincipleRepository
	compliance domain.ComplianceRepository
	links      domain.LinkRepository
	audit      *AuditService
	logger     *slog.Logger
	now        func() time.Time
}

// NewRiskService creates a new RiskService.
func NewRiskService(
	writeDB *sql.DB,
	risks domain.RiskRepository,
	principles domain.PrincipleRepository,
	compliance domain.ComplianceRepository,
	links domain.LinkRepository,
	audit *AuditService,
	logger *slog.Logger,
) *RiskService {
	return &RiskService{
		writeDB:    writeDB,
		risks:      risks,
		principles: principles,
		compliance: compliance,
		links:      links,
		audit:      audit,
		logger:     logger.With("component", "risk_service"),
		now:        time.Now,
	}
}

// Create validates and persists a new risk.
func (s *RiskService) Create(ctx context.Context, risk *domain.Risk) (*domain.Risk, error) {
	if risk.Status == "" {
		risk.Status = domain.RiskStatusIdentified
	}
	if risk.RiskType == "" {
		risk.RiskType = domain.RiskTypeTechnical
	}
	if err := risk.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Risk
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		created, err = s.risks.WithTx(tx).Create(ctx, risk)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionCreate, entityRisk, &created.ID, nil, riskChangeSet(created))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("risk created", "risk_id", created.ID, "score", created.Score(), "band", created.Band())
	return created, nil
}

// GetByID returns one risk.
func (s *RiskService) GetByID(ctx context.Context, id int64) (*domain.Risk, error) {
	return s.risks.GetByID(ctx, id)
}

// List returns a filtered, paginated page of risks.
func (s *RiskService) List(ctx context.Context, filter domain.RiskFilter) ([]domain.Risk, int64, error) {
	return s.risks.List(ctx, filter)
}

// Update validates and persists the full new state of a risk.
func (s *RiskService) Update(ctx context.Context, risk *domain.Risk) (*domain.Risk, error) {
	if err := risk.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.risks.GetByID(ctx, risk.ID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Risk
	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.risks.WithTx(tx).Update(ctx, risk)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entityRisk, &risk.ID, riskChangeSet(existing), riskChangeSet(updated))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("risk updated", "risk_id", updated.ID, "score", updated.Score())
	return updated, nil
}

// Delete removes a risk and its mapping rows, recording the final state.
func (s *RiskService) Delete(ctx context.Context, id int64) error {
	existing, err := s.risks.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		if err := s.risks.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionDelete, entityRisk, &id, riskChangeSet(existing), nil)
	})
	if err != nil {
		return err
	}

	s.logger.Info("risk deleted", "risk_id", id)
	return nil
}

// Accept records a formal risk-acceptance decision by the authenticated
// actor. The risk moves to accepted and the decision is written as an
// approve entry.
func (s *RiskService) Accept(ctx context.Context, id int64, rationale string, validUntil *time.Time) (*domain.Risk, error) {
	if rationale == "" {
		return nil, domain.ErrValidation("acceptance rationale is required")
	}
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("risk acceptance requires an authenticated actor")
	}

	existing, err := s.risks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.RiskStatusAccepted {
		return nil, domain.ErrConflict("risk %d is already accepted", id)
	}

	next := *existing
	acceptedAt := s.now().UTC()
	next.Status = domain.RiskStatusAccepted
	next.AcceptedBy = &actor
	next.AcceptedAt = &acceptedAt
	next.AcceptanceRationale = &rationale
	next.AcceptanceValidUntil = validUntil

	// Two entries in one transaction: APPROVE records the decision itself,
	// UPDATE records the field changes it caused.
	var updated *domain.Risk
	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.risks.WithTx(tx).Update(ctx, &next)
		if err != nil {
			return err
		}
		decision := domain.ChangeSet{
			"accepted_by":            actor,
			"acceptance_rationale":   rationale,
			"acceptance_valid_until": csTime(validUntil),
		}
		if err := s.audit.Record(ctx, tx, domain.AuditActionApprove, entityRisk, &id, nil, decision); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entityRisk, &id, riskChangeSet(existing), riskChangeSet(updated))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("risk accepted", "risk_id", id, "accepted_by", actor)
	return updated, nil
}

// RevokeAcceptance withdraws a prior acceptance decision. The acceptance
// record is cleared and the risk returns to identified.
func (s *RiskService) RevokeAcceptance(ctx context.Context, id int64) (*domain.Risk, error) {
	existing, err := s.risks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.RiskStatusAccepted {
		return nil, domain.ErrConflict("risk %d is not accepted", id)
	}

	next := *existing
	next.Status = domain.RiskStatusIdentified
	next.AcceptedBy = nil
	next.AcceptedAt = nil
	next.AcceptanceRationale = nil
	next.AcceptanceValidUntil = nil

	var updated *domain.Risk
	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.risks.WithTx(tx).Update(ctx, &next)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entityRisk, &id, riskChangeSet(existing), riskChangeSet(updated))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("risk acceptance revoked", "risk_id", id)
	return updated, nil
}

// Matrix builds the 5×5 grid for the requested view, optionally scoped to a
// project. Risks land in cells in creation order.
func (s *RiskService) Matrix(ctx context.Context, projectID *int64, view domain.MatrixView) (*domain.RiskMatrix, error) {
	risks, err := s.risks.ListAll(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return domain.BuildRiskMatrix(risks, view)
}

// Distribution counts risks per band for the requested view.
func (s *RiskService) Distribution(ctx context.Context, projectID *int64, view domain.MatrixView) (domain.BandDistribution, error) {
	risks, err := s.risks.ListAll(ctx, projectID)
	if err != nil {
		return domain.BandDistribution{}, err
	}
	return domain.Distribution(risks, view)
}

// ReplaceMappings swaps a risk's principle set within one framework. The
// delete and inserts run in one transaction with the audit entry, so a
// concurrent reader never sees a half-replaced set.
func (s *RiskService) ReplaceMappings(ctx context.Context, riskID int64, framework domain.Framework, principleIDs []int64) ([]domain.RiskPrincipleMapping, error) {
	if !framework.Valid() {
		return nil, domain.ErrValidation("unknown framework %q", framework)
	}
	if _, err := s.risks.GetByID(ctx, riskID); err != nil {
		return nil, err
	}
	if err := s.checkFrameworkMembership(ctx, framework, principleIDs); err != nil {
		return nil, err
	}

	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		if err := s.compliance.WithTx(tx).ReplaceRiskMappings(ctx, riskID, framework, principleIDs); err != nil {
			return err
		}
		newValues := domain.ChangeSet{
			"framework":     string(framework),
			"principle_ids": principleIDs,
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entityRisk, &riskID, nil, newValues)
	})
	if err != nil {
		return nil, err
	}

	return s.compliance.ListRiskMappings(ctx, riskID, framework)
}

// checkFrameworkMembership rejects principle IDs that belong to another
// framework or don't exist. A wrong-framework ID would otherwise survive the
// framework-scoped replacement and corrupt coverage reporting.
func (s *RiskService) checkFrameworkMembership(ctx context.Context, framework domain.Framework, principleIDs []int64) error {
	principles, err := s.principles.ListByFramework(ctx, framework)
	if err != nil {
		return fmt.Errorf("list principles: %w", err)
	}
	members := make(map[int64]struct{}, len(principles))
	for _, p := range principles {
		members[p.ID] = struct{}{}
	}
	for _, id := range principleIDs {
		if _, ok := members[id]; !ok {
			return domain.ErrValidation("principle %d does not belong to framework %q", id, framework)
		}
	}
	return nil
}

// ListMappings returns a risk's principle mappings within one framework.
func (s *RiskService) ListMappings(ctx context.Context, riskID int64, framework domain.Framework) ([]domain.RiskPrincipleMapping, error) {
	if !framework.Valid() {
		return nil, domain.ErrValidation("unknown framework %q", framework)
	}
	if _, err := s.risks.GetByID(ctx, riskID); err != nil {
		return nil, err
	}
	return s.compliance.ListRiskMappings(ctx, riskID, framework)
}

// LinkAsset connects a risk to an affected asset.
func (s *RiskService) LinkAsset(ctx context.Context, riskID, assetID int64) error {
	return s.links.LinkRiskAsset(ctx, riskID, assetID)
}

// UnlinkAsset removes a risk↔asset link.
func (s *RiskService) UnlinkAsset(ctx context.Context, riskID, assetID int64) error {
	return s.links.UnlinkRiskAsset(ctx, riskID, assetID)
}

// ListAssets returns the assets a risk affects.
func (s *RiskService) ListAssets(ctx context.Context, riskID int64) ([]domain.Asset, error) {
	if _, err := s.risks.GetByID(ctx, riskID); err != nil {
		return nil, err
	}
	return s.links.ListRiskAssets(ctx, riskID)
}

// LinkAction connects a risk to a mitigation action.
func (s *RiskService) LinkAction(ctx context.Context, riskID, actionID int64) error {
	return s.links.LinkRiskAction(ctx, riskID, actionID)
}

// UnlinkAction removes a risk↔action link.
func (s *RiskService) UnlinkAction(ctx context.Context, riskID, actionID int64) error {
	return s.links.UnlinkRiskAction(ctx, riskID, actionID)
}

// ListActions returns the mitigation actions linked to a risk.
func (s *RiskService) ListActions(ctx context.Context, riskID int64) ([]domain.Action, error) {
	if _, err := s.risks.GetByID(ctx, riskID); err != nil {
		return nil, err
	}
	return s.links.ListRiskActions(ctx, riskID)
}
