package domain

import "time"

// Framework identifies a regulatory taxonomy.
type Framework string

const (
	FrameworkNSM  Framework = "nsm"
	FrameworkEkom Framework = "ekom"
)

// Valid reports whether f is a known framework.
func (f Framework) Valid() bool {
	return f == FrameworkNSM || f == FrameworkEkom
}

// Label returns the Norwegian display label.
func (f Framework) Label() string {
	switch f {
	case FrameworkNSM:
		return "NSM Grunnprinsipper"
	case FrameworkEkom:
		return "Ekomforskriften"
	}
	return "Ukjent"
}

// Principle is a single clause/obligation from a regulatory framework.
// Reference data: created by the seed process, rarely mutated.
type Principle struct {
	ID          int64
	Framework   Framework
	Code        string
	Category    string
	Title       string
	Description *string
	LegalText   *string // Ekomforskriften paragraphs carry the statute text
	SortOrder   int
	Version     string
	EffectiveDate  *time.Time
	DeprecatedDate *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullCode returns the display code, prefixed for Ekomforskriften.
func (p *Principle) FullCode() string {
	if p.Framework == FrameworkEkom {
		return "Ekomforskriften § " + p.Code
	}
	return p.Code
}

// Deprecated reports whether the principle is past its deprecation date.
func (p *Principle) Deprecated(today time.Time) bool {
	return p.DeprecatedDate != nil && !p.DeprecatedDate.After(today)
}

// Active reports whether the principle is in force: past its effective date
// (or with none) and not deprecated.
func (p *Principle) Active(today time.Time) bool {
	if p.EffectiveDate != nil && p.EffectiveDate.After(today) {
		return false
	}
	return !p.Deprecated(today)
}

// ComplianceStatus is the assessed state of one risk↔principle mapping.
type ComplianceStatus string

const (
	ComplianceCompliant    ComplianceStatus = "compliant"
	CompliancePartial      ComplianceStatus = "partial"
	ComplianceNonCompliant ComplianceStatus = "non_compliant"
	ComplianceNotAssessed  ComplianceStatus = "not_assessed"
)

var complianceStatuses = map[ComplianceStatus]struct{}{
	ComplianceCompliant:    {},
	CompliancePartial:      {},
	ComplianceNonCompliant: {},
	ComplianceNotAssessed:  {},
}

// Valid reports whether s is a known compliance status.
func (s ComplianceStatus) Valid() bool {
	_, ok := complianceStatuses[s]
	return ok
}

// NormalizeCompliance treats an absent status the same as an explicit
// not_assessed. Reporting never distinguishes the two.
func NormalizeCompliance(s *ComplianceStatus) ComplianceStatus {
	if s == nil {
		return ComplianceNotAssessed
	}
	return *s
}

// RiskPrincipleMapping links one risk to one principle. At most one mapping
// exists per (risk, principle) pair; the framework is implied by the
// principle.
type RiskPrincipleMapping struct {
	ID               int64
	RiskID           int64
	PrincipleID      int64
	ComplianceStatus *ComplianceStatus
	Notes            *string
	CreatedAt        time.Time

	// Populated on joined reads.
	PrincipleCode     string
	PrincipleTitle    string
	PrincipleCategory string
}

// ActionPrincipleMapping is a presence-only link between a mitigating action
// and a principle. It never participates in compliance-status rollups.
type ActionPrincipleMapping struct {
	ID          int64
	ActionID    int64
	PrincipleID int64
	Notes       *string
	CreatedAt   time.Time
}
