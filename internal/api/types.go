package api

import (
	"time"

	"netros/internal/domain"
)

// listResponse is the envelope for list endpoints. Total carries the
// unpaginated count when the endpoint paginates.
type listResponse struct {
	Data  any   `json:"data"`
	Total int64 `json:"total,omitempty"`
}

// === Risks ===

type riskResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	RiskType    domain.RiskType `json:"risk_type"`
	TypeLabel   string          `json:"risk_type_label"`
	ProjectID   *int64          `json:"project_id"`
	ProjectName *string         `json:"project_name"`

	Likelihood  int         `json:"likelihood"`
	Consequence int         `json:"consequence"`
	Score       int         `json:"score"`
	Band        domain.Band `json:"band"`
	BandLabel   string      `json:"band_label"`
	BandColor   string      `json:"band_color"`

	TargetLikelihood  *int `json:"target_likelihood"`
	TargetConsequence *int `json:"target_consequence"`
	TargetScore       *int `json:"target_score"`

	Status      domain.RiskStatus `json:"status"`
	StatusLabel string            `json:"status_label"`
	Owner       *string           `json:"owner"`

	VulnerabilityDescription *string `json:"vulnerability_description"`
	ThreatDescription        *string `json:"threat_description"`
	ExistingControls         *string `json:"existing_controls"`
	ProposedMeasures         *string `json:"proposed_measures"`

	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	NextReviewDate *time.Time `json:"next_review_date"`

	AcceptedBy           *string    `json:"accepted_by"`
	AcceptedAt           *time.Time `json:"accepted_at"`
	AcceptanceRationale  *string    `json:"acceptance_rationale"`
	AcceptanceValidUntil *time.Time `json:"acceptance_valid_until"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func riskToAPI(r *domain.Risk) riskResponse {
	band := r.Band()
	resp := riskResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		RiskType:    r.RiskType,
		TypeLabel:   r.RiskType.Label(),
		ProjectID:   r.ProjectID,
		ProjectName: r.ProjectName,

		Likelihood:  r.Likelihood,
		Consequence: r.Consequence,
		Score:       r.Score(),
		Band:        band,
		BandLabel:   band.Label(),
		BandColor:   band.Color(),

		TargetLikelihood:  r.TargetLikelihood,
		TargetConsequence: r.TargetConsequence,

		Status:      r.Status,
		StatusLabel: r.Status.Label(),
		Owner:       r.Owner,

		VulnerabilityDescription: r.VulnerabilityDescription,
		ThreatDescription:        r.ThreatDescription,
		ExistingControls:         r.ExistingControls,
		ProposedMeasures:         r.ProposedMeasures,

		LastReviewedAt: r.LastReviewedAt,
		NextReviewDate: r.NextReviewDate,

		AcceptedBy:           r.AcceptedBy,
		AcceptedAt:           r.AcceptedAt,
		AcceptanceRationale:  r.AcceptanceRationale,
		AcceptanceValidUntil: r.AcceptanceValidUntil,

		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if score, ok := r.TargetScore(); ok {
		resp.TargetScore = &score
	}
	return resp
}

func risksToAPI(risks []domain.Risk) []riskResponse {
	out := make([]riskResponse, len(risks))
	for i := range risks {
		out[i] = riskToAPI(&risks[i])
	}
	return out
}

// riskRequest is the write payload for create and update.
type riskRequest struct {
	Title             string            `json:"title"`
	Description       *string           `json:"description"`
	RiskType          domain.RiskType   `json:"risk_type"`
	ProjectID         *int64            `json:"project_id"`
	Likelihood        int               `json:"likelihood"`
	Consequence       int               `json:"consequence"`
	TargetLikelihood  *int              `json:"target_likelihood"`
	TargetConsequence *int              `json:"target_consequence"`
	Status            domain.RiskStatus `json:"status"`
	Owner             *string           `json:"owner"`

	VulnerabilityDescription *string `json:"vulnerability_description"`
	ThreatDescription        *string `json:"threat_description"`
	ExistingControls         *string `json:"existing_controls"`
	ProposedMeasures         *string `json:"proposed_measures"`
	NextReviewDate           *string `json:"next_review_date"`
}

func (req *riskRequest) toDomain() (*domain.Risk, error) {
	r := &domain.Risk{
		Title:             req.Title,
		Description:       req.Description,
		RiskType:          req.RiskType,
		ProjectID:         req.ProjectID,
		Likelihood:        req.Likelihood,
		Consequence:       req.Consequence,
		TargetLikelihood:  req.TargetLikelihood,
		TargetConsequence: req.TargetConsequence,
		Status:            req.Status,
		Owner:             req.Owner,

		VulnerabilityDescription: req.VulnerabilityDescription,
		ThreatDescription:        req.ThreatDescription,
		ExistingControls:         req.ExistingControls,
		ProposedMeasures:         req.ProposedMeasures,
	}
	if req.NextReviewDate != nil {
		t, err := parseDate(*req.NextReviewDate, "next_review_date")
		if err != nil {
			return nil, err
		}
		r.NextReviewDate = t
	}
	return r, nil
}

// === Audit ===

type auditEntryResponse struct {
	ID          int64              `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Actor       *string            `json:"actor"`
	Action      domain.AuditAction `json:"action"`
	EntityType  string             `json:"entity_type"`
	EntityID    *int64             `json:"entity_id"`
	OldValues   domain.ChangeSet   `json:"old_values,omitempty"`
	NewValues   domain.ChangeSet   `json:"new_values,omitempty"`
	Description *string            `json:"description,omitempty"`
}

func auditEntryToAPI(e domain.AuditEntry) auditEntryResponse {
	return auditEntryResponse{
		ID:          e.ID,
		Timestamp:   e.Timestamp,
		Actor:       e.Actor,
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		OldValues:   e.OldValues,
		NewValues:   e.NewValues,
		Description: e.Description,
	}
}

func auditEntriesToAPI(entries []domain.AuditEntry) []auditEntryResponse {
	out := make([]auditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = auditEntryToAPI(e)
	}
	return out
}

// === Compliance ===

type principleResponse struct {
	ID             int64            `json:"id"`
	Framework      domain.Framework `json:"framework"`
	FrameworkLabel string           `json:"framework_label"`
	Code           string           `json:"code"`
	FullCode       string           `json:"full_code"`
	Category       string           `json:"category"`
	Title          string           `json:"title"`
	Description    *string          `json:"description"`
	LegalText      *string          `json:"legal_text"`
	SortOrder      int              `json:"sort_order"`
	Version        string           `json:"version"`
	EffectiveDate  *time.Time       `json:"effective_date"`
	DeprecatedDate *time.Time       `json:"deprecated_date"`
}

func principleToAPI(p *domain.Principle) principleResponse {
	return principleResponse{
		ID:             p.ID,
		Framework:      p.Framework,
		FrameworkLabel: p.Framework.Label(),
		Code:           p.Code,
		FullCode:       p.FullCode(),
		Category:       p.Category,
		Title:          p.Title,
		Description:    p.Description,
		LegalText:      p.LegalText,
		SortOrder:      p.SortOrder,
		Version:        p.Version,
		EffectiveDate:  p.EffectiveDate,
		DeprecatedDate: p.DeprecatedDate,
	}
}

type mappingResponse struct {
	ID                int64                    `json:"id"`
	RiskID            int64                    `json:"risk_id"`
	PrincipleID       int64                    `json:"principle_id"`
	ComplianceStatus  domain.ComplianceStatus  `json:"compliance_status"`
	Notes             *string                  `json:"notes"`
	PrincipleCode     string                   `json:"principle_code"`
	PrincipleTitle    string                   `json:"principle_title"`
	PrincipleCategory string                   `json:"principle_category"`
	CreatedAt         time.Time                `json:"created_at"`
}

func mappingToAPI(m *domain.RiskPrincipleMapping) mappingResponse {
	return mappingResponse{
		ID:                m.ID,
		RiskID:            m.RiskID,
		PrincipleID:       m.PrincipleID,
		ComplianceStatus:  domain.NormalizeCompliance(m.ComplianceStatus),
		Notes:             m.Notes,
		PrincipleCode:     m.PrincipleCode,
		PrincipleTitle:    m.PrincipleTitle,
		PrincipleCategory: m.PrincipleCategory,
		CreatedAt:         m.CreatedAt,
	}
}

func mappingsToAPI(mappings []domain.RiskPrincipleMapping) []mappingResponse {
	out := make([]mappingResponse, len(mappings))
	for i := range mappings {
		out[i] = mappingToAPI(&mappings[i])
	}
	return out
}

type actionMappingResponse struct {
	ID          int64     `json:"id"`
	ActionID    int64     `json:"action_id"`
	PrincipleID int64     `json:"principle_id"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

func actionMappingToAPI(m *domain.ActionPrincipleMapping) actionMappingResponse {
	return actionMappingResponse{
		ID:          m.ID,
		ActionID:    m.ActionID,
		PrincipleID: m.PrincipleID,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}

// === Actions ===

type actionResponse struct {
	ID            int64                 `json:"id"`
	Title         string                `json:"title"`
	Description   *string               `json:"description"`
	Priority      domain.ActionPriority `json:"priority"`
	PriorityLabel string                `json:"priority_label"`
	Status        domain.ActionStatus   `json:"status"`
	StatusLabel   string                `json:"status_label"`
	DueDate       *time.Time            `json:"due_date"`
	CompletedAt   *time.Time            `json:"completed_at"`
	Assignee      *string               `json:"assignee"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func actionToAPI(a *domain.Action) actionResponse {
	return actionResponse{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		Priority:      a.Priority,
		PriorityLabel: a.Priority.Label(),
		Status:        a.Status,
		StatusLabel:   a.Status.Label(),
		DueDate:       a.DueDate,
		CompletedAt:   a.CompletedAt,
		Assignee:      a.Assignee,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func actionsToAPI(actions []domain.Action) []actionResponse {
	out := make([]actionResponse, len(actions))
	for i := range actions {
		out[i] = actionToAPI(&actions[i])
	}
	return out
}

type actionRequest struct {
	Title       string                `json:"title"`
	Description *string               `json:"description"`
	Priority    domain.ActionPriority `json:"priority"`
	Status      domain.ActionStatus   `json:"status"`
	DueDate     *string               `json:"due_date"`
	Assignee    *string               `json:"assignee"`
}

func (req *actionRequest) toDomain() (*domain.Action, error) {
	a := &domain.Action{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Assignee:    req.Assignee,
	}
	if req.DueDate != nil {
		t, err := parseDate(*req.DueDate, "due_date")
		if err != nil {
			return nil, err
		}
		a.DueDate = t
	}
	return a, nil
}

// === Assets ===

type assetResponse struct {
	ID                int64                `json:"id"`
	Name              string               `json:"name"`
	Description       *string              `json:"description"`
	AssetType         domain.AssetType     `json:"asset_type"`
	Category          domain.AssetCategory `json:"category"`
	Criticality       int                  `json:"criticality"`
	CriticalityLabel  string               `json:"criticality_label"`
	ParentID          *int64               `json:"parent_id"`
	Location          *string              `json:"location"`
	ExternallySourced bool                 `json:"externally_sourced"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

func assetToAPI(a *domain.Asset) assetResponse {
	return assetResponse{
		ID:                a.ID,
		Name:              a.Name,
		Description:       a.Description,
		AssetType:         a.AssetType,
		Category:          a.Category,
		Criticality:       a.Criticality,
		CriticalityLabel:  a.CriticalityLabel(),
		ParentID:          a.ParentID,
		Location:          a.Location,
		ExternallySourced: a.ExternallySourced,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func assetsToAPI(assets []domain.Asset) []assetResponse {
	out := make([]assetResponse, len(assets))
	for i := range assets {
		out[i] = assetToAPI(&assets[i])
	}
	return out
}

type assetRequest struct {
	Name              string               `json:"name"`
	Description       *string              `json:"description"`
	AssetType         domain.AssetType     `json:"asset_type"`
	Category          domain.AssetCategory `json:"category"`
	Criticality       int                  `json:"criticality"`
	ParentID          *int64               `json:"parent_id"`
	Location          *string              `json:"location"`
	ExternallySourced bool                 `json:"externally_sourced"`
}

func (req *assetRequest) toDomain() *domain.Asset {
	return &domain.Asset{
		Name:              req.Name,
		Description:       req.Description,
		AssetType:         req.AssetType,
		Category:          req.Category,
		Criticality:       req.Criticality,
		ParentID:          req.ParentID,
		Location:          req.Location,
		ExternallySourced: req.ExternallySourced,
	}
}

// === Suppliers ===

type supplierResponse struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	Description       *string             `json:"description"`
	SupplierType      domain.SupplierType `json:"supplier_type"`
	TypeLabel         string              `json:"supplier_type_label"`
	Criticality       int                 `json:"criticality"`
	ContactInfo       *string             `json:"contact_info"`
	ContractReference *string             `json:"contract_reference"`
	ContractExpiry    *time.Time          `json:"contract_expiry"`
	LastAssessedAt    *time.Time          `json:"last_assessed_at"`
	NeedsAssessment   bool                `json:"needs_assessment"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func supplierToAPI(s *domain.Supplier, today time.Time) supplierResponse {
	return supplierResponse{
		ID:                s.ID,
		Name:              s.Name,
		Description:       s.Description,
		SupplierType:      s.SupplierType,
		TypeLabel:         s.SupplierType.Label(),
		Criticality:       s.Criticality,
		ContactInfo:       s.ContactInfo,
		ContractReference: s.ContractReference,
		ContractExpiry:    s.ContractExpiry,
		LastAssessedAt:    s.LastAssessedAt,
		NeedsAssessment:   s.NeedsAssessment(today),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func suppliersToAPI(suppliers []domain.Supplier, today time.Time) []supplierResponse {
	out := make([]supplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = supplierToAPI(&suppliers[i], today)
	}
	return out
}

type supplierRequest struct {
	Name              string              `json:"name"`
	Description       *string             `json:"description"`
	SupplierType      domain.SupplierType `json:"supplier_type"`
	Criticality       int                 `json:"criticality"`
	ContactInfo       *string             `json:"contact_info"`
	ContractReference *string             `json:"contract_reference"`
	ContractExpiry    *string             `json:"contract_expiry"`
}

func (req *supplierRequest) toDomain() (*domain.Supplier, error) {
	s := &domain.Supplier{
		Name:              req.Name,
		Description:       req.Description,
		SupplierType:      req.SupplierType,
		Criticality:       req.Criticality,
		ContactInfo:       req.ContactInfo,
		ContractReference: req.ContractReference,
	}
	if req.ContractExpiry != nil {
		t, err := parseDate(*req.ContractExpiry, "contract_expiry")
		if err != nil {
			return nil, err
		}
		s.ContractExpiry = t
	}
	return s, nil
}

// === Reviews ===

type reviewResponse struct {
	ID             int64             `json:"id"`
	Title          string            `json:"title"`
	ReviewType     domain.ReviewType `json:"review_type"`
	TypeLabel      string            `json:"review_type_label"`
	ScheduledDate  *time.Time        `json:"scheduled_date"`
	ConductedDate  *time.Time        `json:"conducted_date"`
	NextReviewDate *time.Time        `json:"next_review_date"`
	Conductor      *string           `json:"conductor"`
	Findings       *string           `json:"findings"`
	Conclusions    *string           `json:"conclusions"`
	Completed      bool              `json:"completed"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func reviewToAPI(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:             r.ID,
		Title:          r.Title,
		ReviewType:     r.ReviewType,
		TypeLabel:      r.ReviewType.Label(),
		ScheduledDate:  r.ScheduledDate,
		ConductedDate:  r.ConductedDate,
		NextReviewDate: r.NextReviewDate,
		Conductor:      r.Conductor,
		Findings:       r.Findings,
		Conclusions:    r.Conclusions,
		Completed:      r.Completed(),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func reviewsToAPI(reviews []domain.Review) []reviewResponse {
	out := make([]reviewResponse, len(reviews))
	for i := range reviews {
		out[i] = reviewToAPI(&reviews[i])
	}
	return out
}

type reviewRequest struct {
	Title          string            `json:"title"`
	ReviewType     domain.ReviewType `json:"review_type"`
	ScheduledDate  *string           `json:"scheduled_date"`
	NextReviewDate *string           `json:"next_review_date"`
	Conductor      *string           `json:"conductor"`
}

func (req *reviewRequest) toDomain() (*domain.Review, error) {
	rev := &domain.Review{
		Title:      req.Title,
		ReviewType: req.ReviewType,
		Conductor:  req.Conductor,
	}
	if req.ScheduledDate != nil {
		t, err := parseDate(*req.ScheduledDate, "scheduled_date")
		if err != nil {
			return nil, err
		}
		rev.ScheduledDate = t
	}
	if req.NextReviewDate != nil {
		t, err := parseDate(*req.NextReviewDate, "next_review_date")
		if err != nil {
			return nil, err
		}
		rev.NextReviewDate = t
	}
	return rev, nil
}

// === Projects ===

type projectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func projectToAPI(p *domain.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// === Documents ===

type documentResponse struct {
	ID          int64             `json:"id"`
	EntityKind  domain.EntityKind `json:"entity_kind"`
	EntityID    int64             `json:"entity_id"`
	Filename    string            `json:"filename"`
	ContentType *string           `json:"content_type"`
	UploadedBy  *string           `json:"uploaded_by"`
	CreatedAt   time.Time         `json:"created_at"`
}

func documentToAPI(d *domain.Document) documentResponse {
	return documentResponse{
		ID:          d.ID,
		EntityKind:  d.EntityKind,
		EntityID:    d.EntityID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
	}
}
