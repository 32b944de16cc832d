package domain

import "time"

// RiskType classifies the origin of a risk.
type RiskType string

const (
	RiskTypeTechnical      RiskType = "technical"
	RiskTypeOperational    RiskType = "operational"
	RiskTypeOrganisational RiskType = "organisational"
	RiskTypeExternal       RiskType = "external"
	RiskTypeNaturalEvent   RiskType = "natural_event"
)

var riskTypeLabels = map[RiskType]string{
	RiskTypeTechnical:      "Teknisk",
	RiskTypeOperational:    "Operasjonell",
	RiskTypeOrganisational: "Organisatorisk",
	RiskTypeExternal:       "Ekstern",
	RiskTypeNaturalEvent:   "Naturhendelse",
}

// Valid reports whether t is a known risk type.
func (t RiskType) Valid() bool {
	_, ok := riskTypeLabels[t]
	return ok
}

// Label returns the Norwegian display label.
func (t RiskType) Label() string {
	if l, ok := riskTypeLabels[t]; ok {
		return l
	}
	return "Ukjent"
}

// RiskStatus is the lifecycle state of a risk.
type RiskStatus string

const (
	RiskStatusIdentified      RiskStatus = "identified"
	RiskStatusUnderAssessment RiskStatus = "under_assessment"
	RiskStatusAccepted        RiskStatus = "accepted"
	RiskStatusMitigated       RiskStatus = "mitigated"
	RiskStatusTransferred     RiskStatus = "transferred"
	RiskStatusClosed          RiskStatus = "closed"
)

var riskStatusLabels = map[RiskStatus]string{
	RiskStatusIdentified:      "Identifisert",
	RiskStatusUnderAssessment: "Under vurdering",
	RiskStatusAccepted:        "Akseptert",
	RiskStatusMitigated:       "Redusert",
	RiskStatusTransferred:     "Overført",
	RiskStatusClosed:          "Lukket",
}

// Valid reports whether s is a known risk status.
func (s RiskStatus) Valid() bool {
	_, ok := riskStatusLabels[s]
	return ok
}

// Label returns the Norwegian display label.
func (s RiskStatus) Label() string {
	if l, ok := riskStatusLabels[s]; ok {
		return l
	}
	return "Ukjent"
}

// Open reports whether the risk still needs attention. Closed and accepted
// risks are excluded from action-requiring alerts and NSM-gap nudges.
func (s RiskStatus) Open() bool {
	return s != RiskStatusClosed && s != RiskStatusAccepted
}

// Risk is a single entry in the risk register.
type Risk struct {
	ID          int64
	Title       string
	Description *string
	RiskType    RiskType
	ProjectID   *int64

	// Current assessment, always present, each in [1,5].
	Likelihood  int
	Consequence int

	// Post-mitigation target. Both set or both unset.
	TargetLikelihood  *int
	TargetConsequence *int

	Status RiskStatus
	Owner  *string

	VulnerabilityDescription *string
	ThreatDescription        *string
	ExistingControls         *string
	ProposedMeasures         *string

	LastReviewedAt *time.Time
	NextReviewDate *time.Time

	// Acceptance record, populated while Status == accepted.
	AcceptedBy            *string
	AcceptedAt            *time.Time
	AcceptanceRationale   *string
	AcceptanceValidUntil  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// ProjectName is populated on read when the risk belongs to a project.
	ProjectName *string
}

// Score returns the current risk score without re-validating the stored
// values; use Validate before persisting.
func (r *Risk) Score() int {
	return r.Likelihood * r.Consequence
}

// Band returns the band of the current score.
func (r *Risk) Band() Band {
	return BandForScore(r.Score())
}

// TargetScore returns the post-mitigation score and whether it is defined.
// It never falls back to current values.
func (r *Risk) TargetScore() (int, bool) {
	if r.TargetLikelihood == nil || r.TargetConsequence == nil {
		return 0, false
	}
	return *r.TargetLikelihood * *r.TargetConsequence, true
}

// Validate checks the scoring invariants: likelihood/consequence in range,
// targets both-or-neither and in range, known enum values.
func (r *Risk) Validate() error {
	if r.Title == "" {
		return ErrValidation("title is required")
	}
	if !r.RiskType.Valid() {
		return ErrValidation("unknown risk type %q", r.RiskType)
	}
	if !r.Status.Valid() {
		return ErrValidation("unknown risk status %q", r.Status)
	}
	if err := ValidateScale("likelihood", r.Likelihood); err != nil {
		return err
	}
	if err := ValidateScale("consequence", r.Consequence); err != nil {
		return err
	}
	if (r.TargetLikelihood == nil) != (r.TargetConsequence == nil) {
		return ErrValidation("target likelihood and target consequence must be set together")
	}
	if r.TargetLikelihood != nil {
		if err := ValidateScale("target likelihood", *r.TargetLikelihood); err != nil {
			return err
		}
		if err := ValidateScale("target consequence", *r.TargetConsequence); err != nil {
			return err
		}
	}
	return nil
}

// RiskSummary is the compact form placed in matrix cells and dashboards.
type RiskSummary struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ProjectName *string `json:"project_name"`
}

// Summary returns the compact form of the risk.
func (r *Risk) Summary() RiskSummary {
	return RiskSummary{ID: r.ID, Title: r.Title, ProjectName: r.ProjectName}
}

// RiskFilter narrows risk list queries.
type RiskFilter struct {
	ProjectID   *int64
	Status      *RiskStatus
	Likelihood  *int
	Consequence *int
	Page        PageRequest
}
