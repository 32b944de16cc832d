// Package service implements the application logic of the risk register:
// scoring, audit, compliance aggregation and dashboard composition on top of
// the domain repositories.
package service

import (
	"time"

	"netros/internal/domain"
)

// Audit entity type tags. One vocabulary shared by writers and readers so
// History lookups never miss entries.
const (
	entityRisk     = "risk"
	entityAction   = "action"
	entityAsset    = "asset"
	entitySupplier = "supplier"
	entityReview   = "review"
	entityProject  = "project"
	entityDocument = "document"
	entityMapping  = "risk_principle_mapping"
)

func csTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func csStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func csInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func csInt64(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}

// riskChangeSet flattens a risk into the audit snapshot format.
func riskChangeSet(r *domain.Risk) domain.ChangeSet {
	return domain.ChangeSet{
		"title":                     r.Title,
		"description":               csStr(r.Description),
		"risk_type":                 string(r.RiskType),
		"project_id":                csInt64(r.ProjectID),
		"likelihood":                r.Likelihood,
		"consequence":               r.Consequence,
		"target_likelihood":         csInt(r.TargetLikelihood),
		"target_consequence":        csInt(r.TargetConsequence),
		"status":                    string(r.Status),
		"owner":                     csStr(r.Owner),
		"vulnerability_description": csStr(r.VulnerabilityDescription),
		"threat_description":        csStr(r.ThreatDescription),
		"existing_controls":         csStr(r.ExistingControls),
		"proposed_measures":         csStr(r.ProposedMeasures),
		"last_reviewed_at":          csTime(r.LastReviewedAt),
		"next_review_date":          csTime(r.NextReviewDate),
		"accepted_by":               csStr(r.AcceptedBy),
		"accepted_at":               csTime(r.AcceptedAt),
		"acceptance_rationale":      csStr(r.AcceptanceRationale),
		"acceptance_valid_until":    csTime(r.AcceptanceValidUntil),
	}
}

func actionChangeSet(a *domain.Action) domain.ChangeSet {
	return domain.ChangeSet{
		"title":        a.Title,
		"description":  csStr(a.Description),
		"priority":     string(a.Priority),
		"status":       string(a.Status),
		"due_date":     csTime(a.DueDate),
		"completed_at": csTime(a.CompletedAt),
		"assignee":     csStr(a.Assignee),
	}
}

func assetChangeSet(a *domain.Asset) domain.ChangeSet {
	return domain.ChangeSet{
		"name":               a.Name,
		"description":        csStr(a.Description),
		"asset_type":         string(a.AssetType),
		"category":           string(a.Category),
		"criticality":        a.Criticality,
		"parent_id":          csInt64(a.ParentID),
		"location":           csStr(a.Location),
		"externally_sourced": a.ExternallySourced,
	}
}

func supplierChangeSet(s *domain.Supplier) domain.ChangeSet {
	return domain.ChangeSet{
		"name":               s.Name,
		"description":        csStr(s.Description),
		"supplier_type":      string(s.SupplierType),
		"criticality":        s.Criticality,
		"contract_reference": csStr(s.ContractReference),
		"contract_expiry":    csTime(s.ContractExpiry),
		"last_assessed_at":   csTime(s.LastAssessedAt),
	}
}

func reviewChangeSet(r *domain.Review) domain.ChangeSet {
	return domain.ChangeSet{
		"title":            r.Title,
		"review_type":      string(r.ReviewType),
		"scheduled_date":   csTime(r.ScheduledDate),
		"conducted_date":   csTime(r.ConductedDate),
		"next_review_date": csTime(r.NextReviewDate),
		"conductor":        csStr(r.Conductor),
	}
}

func projectChangeSet(p *domain.Project) domain.ChangeSet {
	return domain.ChangeSet{
		"name":        p.Name,
		"description": csStr(p.Description),
	}
}

func documentChangeSet(d *domain.Document) domain.ChangeSet {
	return domain.ChangeSet{
		"entity_kind":  string(d.EntityKind),
		"entity_id":    d.EntityID,
		"filename":     d.Filename,
		"content_type": csStr(d.ContentType),
		"uploaded_by":  csStr(d.UploadedBy),
	}
}
