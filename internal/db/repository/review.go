package repository

import (
	"context"
	"database/sql"
	"fmt"

	"netros/internal/db"
	"netros/internal/domain"
)

var _ domain.ReviewRepository = (*ReviewRepo)(nil)

const reviewColumns = `id, title, review_type, scheduled_date, conducted_date,
	next_review_date, conductor, findings, conclusions, created_at, updated_at`

// ReviewRepo implements ReviewRepository backed by SQLite.
type ReviewRepo struct {
	q db.DBTX
}

// NewReviewRepo creates a new ReviewRepo.
func NewReviewRepo(conn *sql.DB) *ReviewRepo {
	return &ReviewRepo{q: conn}
}

// WithTx returns a copy of the repo bound to the transaction.
func (r *ReviewRepo) WithTx(tx *sql.Tx) domain.ReviewRepository {
	return &ReviewRepo{q: tx}
}

// Create inserts a new review and returns the stored row.
func (r *ReviewRepo) Create(ctx context.Context, rev *domain.Review) (*domain.Review, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO reviews (title, review_type, scheduled_date, conducted_date, next_review_date, conductor, findings, conclusions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rev.Title, string(rev.ReviewType), nullTime(rev.ScheduledDate), nullTime(rev.ConductedDate),
		nullTime(rev.NextReviewDate), nullStr(rev.Conductor), nullStr(rev.Findings), nullStr(rev.Conclusions))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("review insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns one review.
func (r *ReviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id)
	rev, err := scanReview(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return rev, nil
}

// List returns a paginated page of reviews, newest first.
func (r *ReviewRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Review, int64, error) {
	var total int64
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	rows, err := r.q.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListPending returns reviews that have not been conducted yet, earliest
// scheduled first. Dashboard input.
func (r *ReviewRepo) ListPending(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+reviewColumns+` FROM reviews
		WHERE conducted_date IS NULL
		ORDER BY scheduled_date IS NULL, scheduled_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	defer rows.Close()
	return collectReviews(rows)
}

// Update writes all mutable fields of the review.
func (r *ReviewRepo) Update(ctx context.Context, rev *domain.Review) (*domain.Review, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE reviews SET
			title = ?, review_type = ?, scheduled_date = ?, conducted_date = ?,
			next_review_date = ?, conductor = ?, findings = ?, conclusions = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		rev.Title, string(rev.ReviewType), nullTime(rev.ScheduledDate), nullTime(rev.ConductedDate),
		nullTime(rev.NextReviewDate), nullStr(rev.Conductor), nullStr(rev.Findings), nullStr(rev.Conclusions),
		rev.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("review %d not found", rev.ID)
	}
	return r.GetByID(ctx, rev.ID)
}

// Delete removes the review; link rows cascade.
func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("review %d not found", id)
	}
	return nil
}

func scanReview(row rowScanner) (*domain.Review, error) {
	var (
		rev                            domain.Review
		reviewType                     string
		conductor, findings, concl     sql.NullString
		scheduled, conducted, nextDate sql.NullTime
	)
	err := row.Scan(&rev.ID, &rev.Title, &reviewType, &scheduled, &conducted,
		&nextDate, &conductor, &findings, &concl, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rev.ReviewType = domain.ReviewType(reviewType)
	rev.ScheduledDate = timePtr(scheduled)
	rev.ConductedDate = timePtr(conducted)
	rev.NextReviewDate = timePtr(nextDate)
	rev.Conductor = strPtr(conductor)
	rev.Findings = strPtr(findings)
	rev.Conclusions = strPtr(concl)
	return &rev, nil
}

func collectReviews(rows *sql.Rows) ([]domain.Review, error) {
	var reviews []domain.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *rev)
	}
	return reviews, rows.Err()
}
