package domain

import "time"

// Project groups risks for reporting and matrix filtering.
type Project struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the name.
func (p *Project) Validate() error {
	if p.Name == "" {
		return ErrValidation("name is required")
	}
	return nil
}
