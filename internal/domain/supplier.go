package domain

import "time"

// SupplierType classifies a supplier relationship.
type SupplierType string

const (
	SupplierTypeEquipment     SupplierType = "equipment"
	SupplierTypeService       SupplierType = "service"
	SupplierTypeSubcontractor SupplierType = "subcontractor"
)

var supplierTypeLabels = map[SupplierType]string{
	SupplierTypeEquipment:     "Utstyrsleverandør",
	SupplierTypeService:       "Tjenesteleverandør",
	SupplierTypeSubcontractor: "Underleverandør",
}

// Valid reports whether t is a known supplier type.
func (t SupplierType) Valid() bool {
	_, ok := supplierTypeLabels[t]
	return ok
}

// Label returns the Norwegian display label.
func (t SupplierType) Label() string {
	if l, ok := supplierTypeLabels[t]; ok {
		return l
	}
	return "Ukjent"
}

// CriticalSupplierThreshold marks suppliers that require periodic risk
// assessment.
const CriticalSupplierThreshold = 4

// SupplierAssessmentInterval is how recent an assessment must be for a
// critical supplier to avoid a dashboard warning.
const SupplierAssessmentInterval = 365 * 24 * time.Hour

// Supplier is an external party the business depends on.
type Supplier struct {
	ID                int64
	Name              string
	Description       *string
	SupplierType      SupplierType
	Criticality       int // 1-5
	ContactInfo       *string
	ContractReference *string
	ContractExpiry    *time.Time
	LastAssessedAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks enum values and the criticality range.
func (s *Supplier) Validate() error {
	if s.Name == "" {
		return ErrValidation("name is required")
	}
	if !s.SupplierType.Valid() {
		return ErrValidation("unknown supplier type %q", s.SupplierType)
	}
	return ValidateScale("criticality", s.Criticality)
}

// NeedsAssessment reports whether a critical supplier lacks a recent risk
// assessment at the given date.
func (s *Supplier) NeedsAssessment(today time.Time) bool {
	if s.Criticality < CriticalSupplierThreshold {
		return false
	}
	if s.LastAssessedAt == nil {
		return true
	}
	return today.Sub(*s.LastAssessedAt) > SupplierAssessmentInterval
}
