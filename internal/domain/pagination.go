package domain

// DefaultLimit is the default page size when none is specified.
const DefaultLimit = 50

// MaxLimit is the maximum allowed page size.
const MaxLimit = 500

// PageRequest holds pagination parameters for list operations.
type PageRequest struct {
	MaxResults int
	Skip       int
}

// Limit returns the effective page size, clamped to [1, MaxLimit].
func (p PageRequest) Limit() int {
	if p.MaxResults <= 0 {
		return DefaultLimit
	}
	if p.MaxResults > MaxLimit {
		return MaxLimit
	}
	return p.MaxResults
}

// Offset returns the number of rows to skip, never negative.
func (p PageRequest) Offset() int {
	if p.Skip < 0 {
		return 0
	}
	return p.Skip
}
