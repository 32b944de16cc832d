// Package api provides HTTP handlers for the risk register REST API.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"netros/internal/domain"
	"netros/internal/service"
)

// Handler holds the service dependencies for all API endpoints.
type Handler struct {
	risks      *service.RiskService
	actions    *service.ActionService
	assets     *service.AssetService
	suppliers  *service.SupplierService
	reviews    *service.ReviewService
	projects   *service.ProjectService
	documents  *service.DocumentService
	compliance *service.ComplianceService
	dashboard  *service.DashboardService
	audit      *service.AuditService
}

// NewHandler creates a Handler with all required service dependencies.
func NewHandler(
	risks *service.RiskService,
	actions *service.ActionService,
	assets *service.AssetService,
	suppliers *service.SupplierService,
	reviews *service.ReviewService,
	projects *service.ProjectService,
	documents *service.DocumentService,
	compliance *service.ComplianceService,
	dashboard *service.DashboardService,
	audit *service.AuditService,
) *Handler {
	return &Handler{
		risks:      risks,
		actions:    actions,
		assets:     assets,
		suppliers:  suppliers,
		reviews:    reviews,
		projects:   projects,
		documents:  documents,
		compliance: compliance,
		dashboard:  dashboard,
		audit:      audit,
	}
}

// Routes returns the router for all API endpoints. Authentication and
// rate-limit middleware are mounted by the caller.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/risks", func(r chi.Router) {
		r.Get("/", h.listRisks)
		r.Post("/", h.createRisk)
		r.Get("/matrix", h.riskMatrix)
		r.Get("/distribution", h.riskDistribution)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getRisk)
			r.Put("/", h.updateRisk)
			r.Delete("/", h.deleteRisk)
			r.Post("/accept", h.acceptRisk)
			r.Post("/revoke-acceptance", h.revokeRiskAcceptance)
			r.Get("/history", h.riskHistory)
			r.Get("/mappings", h.listRiskMappings)
			r.Put("/mappings", h.replaceRiskMappings)
			r.Get("/assets", h.listRiskAssets)
			r.Put("/assets/{assetID}", h.linkRiskAsset)
			r.Delete("/assets/{assetID}", h.unlinkRiskAsset)
			r.Get("/actions", h.listRiskActions)
			r.Put("/actions/{actionID}", h.linkRiskAction)
			r.Delete("/actions/{actionID}", h.unlinkRiskAction)
		})
	})

	r.Route("/actions", func(r chi.Router) {
		r.Get("/", h.listActions)
		r.Post("/", h.createAction)
		r.Get("/progress", h.actionProgress)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getAction)
			r.Put("/", h.updateAction)
			r.Delete("/", h.deleteAction)
			r.Get("/mappings", h.listActionMappings)
		})
	})

	r.Route("/assets", func(r chi.Router) {
		r.Get("/", h.listAssets)
		r.Post("/", h.createAsset)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getAsset)
			r.Put("/", h.updateAsset)
			r.Delete("/", h.deleteAsset)
			r.Get("/children", h.listAssetChildren)
		})
	})

	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", h.listSuppliers)
		r.Post("/", h.createSupplier)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getSupplier)
			r.Put("/", h.updateSupplier)
			r.Delete("/", h.deleteSupplier)
			r.Post("/assessment", h.recordSupplierAssessment)
		})
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.listReviews)
		r.Post("/", h.createReview)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getReview)
			r.Put("/", h.updateReview)
			r.Delete("/", h.deleteReview)
			r.Post("/complete", h.completeReview)
			r.Get("/risks", h.listReviewRisks)
		})
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.listProjects)
		r.Post("/", h.createProject)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getProject)
			r.Put("/", h.updateProject)
			r.Delete("/", h.deleteProject)
		})
	})

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", h.listDocuments)
		r.Post("/", h.createDocument)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getDocument)
			r.Delete("/", h.deleteDocument)
		})
	})

	r.Route("/compliance", func(r chi.Router) {
		r.Post("/mappings", h.createComplianceMapping)
		r.Patch("/mappings/{id}", h.updateComplianceMapping)
		r.Delete("/mappings/{id}", h.deleteComplianceMapping)
		r.Post("/action-mappings", h.createActionMapping)
		r.Delete("/action-mappings/{id}", h.deleteActionMapping)
	})

	r.Route("/frameworks/{framework}", func(r chi.Router) {
		r.Get("/principles", h.listPrinciples)
		r.Get("/summary", h.complianceSummary)
		r.Get("/categories", h.complianceByCategory)
		r.Get("/coverage", h.complianceCoverage)
		r.Get("/gaps", h.complianceGaps)
	})
	r.Get("/principles/{id}", h.getPrinciple)

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/summary", h.dashboardSummary)
		r.Get("/alerts", h.dashboardAlerts)
	})

	r.Route("/audit", func(r chi.Router) {
		r.Get("/", h.recentAudit)
		r.Get("/actors/{actor}", h.actorActivity)
		r.Get("/{entityType}/{entityID}", h.entityHistory)
	})

	return r
}

// --- helpers ---

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders a domain error with the mapped status code.
func writeError(w http.ResponseWriter, err error) {
	code := httpStatusFromDomainError(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, code, errorResponse{Code: code, Message: msg})
}

// decodeJSON parses the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

// idParam parses the named chi URL parameter as an int64 ID.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation("invalid %s %q", name, raw)
	}
	return id, nil
}

// pageFromQuery extracts pagination from max_results/skip query parameters.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{}
	if v := r.URL.Query().Get("max_results"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.MaxResults = n
		}
	}
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.Skip = n
		}
	}
	return p
}

// queryInt64 parses an optional int64 query parameter. A present but
// malformed value returns a validation error.
func queryInt64(r *http.Request, name string) (*int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, domain.ErrValidation("invalid %s %q", name, v)
	}
	return &n, nil
}

// queryInt parses an optional int query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, domain.ErrValidation("invalid %s %q", name, v)
	}
	return &n, nil
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(v, name string) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	return nil, domain.ErrValidation("invalid %s %q", name, v)
}

// frameworkParam parses the framework URL parameter.
func frameworkParam(r *http.Request) (domain.Framework, error) {
	f := domain.Framework(chi.URLParam(r, "framework"))
	if !f.Valid() {
		return "", domain.ErrValidation("unknown framework %q", string(f))
	}
	return f, nil
}

// modeFromQuery parses the optional reporting mode, defaulting to active_only.
func modeFromQuery(r *http.Request) (domain.ReportingMode, error) {
	v := r.URL.Query().Get("mode")
	if v == "" {
		return domain.ReportActiveOnly, nil
	}
	mode := domain.ReportingMode(v)
	if !mode.Valid() {
		return "", domain.ErrValidation("unknown reporting mode %q", v)
	}
	return mode, nil
}

// matrixViewFromQuery parses the optional matrix view, defaulting to current.
func matrixViewFromQuery(r *http.Request) (domain.MatrixView, error) {
	v := r.URL.Query().Get("view")
	switch v {
	case "", string(domain.MatrixViewCurrent):
		return domain.MatrixViewCurrent, nil
	case string(domain.MatrixViewTarget):
		return domain.MatrixViewTarget, nil
	default:
		return "", domain.ErrValidation("unknown matrix view %q", v)
	}
}
