package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"netros/internal/db"
	"netros/internal/domain"
)

// ReviewService provides CRUD and completion for risk reviews.
type ReviewService struct {
	writeDB *sql.DB
	reviews domain.ReviewRepository
	risks   domain.RiskRepository
	links   domain.LinkRepository
	audit   *AuditService
	logger  *slog.Logger
	now     func() time.Time
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	writeDB *sql.DB,
	reviews domain.ReviewRepository,
	risks domain.RiskRepository,
	links domain.LinkRepository,
	audit *AuditService,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		writeDB: writeDB,
		reviews: reviews,
		risks:   risks,
		links:   links,
		audit:   audit,
		logger:  logger.With("component", "review_service"),
		now:     time.Now,
	}
}

// Create validates and persists a new review.
func (s *ReviewService) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if review.ReviewType == "" {
		review.ReviewType = domain.ReviewTypePeriodic
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Review
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		created, err = s.reviews.WithTx(tx).Create(ctx, review)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionCreate, entityReview, &created.ID, nil, reviewChangeSet(created))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID returns one review.
func (s *ReviewService) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// List returns a paginated page of reviews.
func (s *ReviewService) List(ctx context.Context, page domain.PageRequest) ([]domain.Review, int64, error) {
	return s.reviews.List(ctx, page)
}

// Update validates and persists the full new state of a review.
func (s *ReviewService) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := review.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.reviews.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Review
	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.reviews.WithTx(tx).Update(ctx, review)
		if err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entityReview, &review.ID, reviewChangeSet(existing), reviewChangeSet(updated))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Complete records the conduction of a review: findings and conclusions are
// stored, the covered risks are linked, and each covered risk gets its
// last-reviewed stamp moved. One transaction covers all of it.
func (s *ReviewService) Complete(ctx context.Context, id int64, findings, conclusions *string, riskIDs []int64) (*domain.Review, error) {
	existing, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Completed() {
		return nil, domain.ErrConflict("review %d is already completed", id)
	}

	conducted := s.now().UTC()
	next := *existing
	next.ConductedDate = &conducted
	next.Findings = findings
	next.Conclusions = conclusions

	var updated *domain.Review
	err = db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		var err error
		updated, err = s.reviews.WithTx(tx).Update(ctx, &next)
		if err != nil {
			return err
		}
		txRisks := s.risks.WithTx(tx)
		txLinks := s.links.WithTx(tx)
		for _, riskID := range riskIDs {
			risk, err := txRisks.GetByID(ctx, riskID)
			if err != nil {
				return err
			}
			if err := txLinks.LinkReviewRisk(ctx, id, riskID); err != nil {
				return err
			}
			risk.LastReviewedAt = &conducted
			if _, err := txRisks.Update(ctx, risk); err != nil {
				return err
			}
		}
		return s.audit.Record(ctx, tx, domain.AuditActionUpdate, entityReview, &id, reviewChangeSet(existing), reviewChangeSet(updated))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("review completed", "review_id", id, "risks", len(riskIDs))
	return updated, nil
}

// ListRisks returns the risks covered by a review.
func (s *ReviewService) ListRisks(ctx context.Context, reviewID int64) ([]domain.Risk, error) {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}
	return s.links.ListReviewRisks(ctx, reviewID)
}

// Delete removes a review, recording the final state.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	existing, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		if err := s.reviews.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.AuditActionDelete, entityReview, &id, reviewChangeSet(existing), nil)
	})
}
