package domain

import "time"

// ReviewType classifies what triggered a risk review.
type ReviewType string

const (
	ReviewTypePeriodic ReviewType = "periodic"
	ReviewTypeIncident ReviewType = "incident"
	ReviewTypeChange   ReviewType = "change"
	ReviewTypeAudit    ReviewType = "audit"
)

var reviewTypeLabels = map[ReviewType]string{
	ReviewTypePeriodic: "Periodisk",
	ReviewTypeIncident: "Hendelsesbasert",
	ReviewTypeChange:   "Endringsbasert",
	ReviewTypeAudit:    "Revisjon",
}

// Valid reports whether t is a known review type.
func (t ReviewType) Valid() bool {
	_, ok := reviewTypeLabels[t]
	return ok
}

// Label returns the Norwegian display label.
func (t ReviewType) Label() string {
	if l, ok := reviewTypeLabels[t]; ok {
		return l
	}
	return "Ukjent"
}

// Review is a periodic or event-driven reassessment of risks.
type Review struct {
	ID             int64
	Title          string
	ReviewType     ReviewType
	ScheduledDate  *time.Time
	ConductedDate  *time.Time
	NextReviewDate *time.Time
	Conductor      *string
	Findings       *string
	Conclusions    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks enum values and the title.
func (r *Review) Validate() error {
	if r.Title == "" {
		return ErrValidation("title is required")
	}
	if !r.ReviewType.Valid() {
		return ErrValidation("unknown review type %q", r.ReviewType)
	}
	return nil
}

// Completed reports whether the review has been conducted.
func (r *Review) Completed() bool {
	return r.ConductedDate != nil
}

// Overdue reports whether the review is scheduled but past due.
func (r *Review) Overdue(today time.Time) bool {
	if r.Completed() || r.ScheduledDate == nil {
		return false
	}
	return r.ScheduledDate.Before(today)
}
