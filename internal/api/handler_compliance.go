package api

import (
	"net/http"

	"netros/internal/domain"
)

func (h *Handler) listPrinciples(w http.ResponseWriter, r *http.Request) {
	framework, err := frameworkParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	principles, err := h.compliance.ListPrinciples(r.Context(), framework)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]principleResponse, len(principles))
	for i := range principles {
		out[i] = principleToAPI(&principles[i])
	}
	writeJSON(w, http.StatusOK, listResponse{Data: out})
}

func (h *Handler) getPrinciple(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.compliance.GetPrinciple(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, principleToAPI(p))
}

type createMappingRequest struct {
	RiskID           int64                    `json:"risk_id"`
	PrincipleID      int64                    `json:"principle_id"`
	ComplianceStatus *domain.ComplianceStatus `json:"compliance_status"`
	Notes            *string                  `json:"notes"`
}

func (h *Handler) createComplianceMapping(w http.ResponseWriter, r *http.Request) {
	var req createMappingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	mapping, err := h.compliance.CreateMapping(r.Context(), &domain.RiskPrincipleMapping{
		RiskID:           req.RiskID,
		PrincipleID:      req.PrincipleID,
		ComplianceStatus: req.ComplianceStatus,
		Notes:            req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappingToAPI(mapping))
}

type updateMappingRequest struct {
	ComplianceStatus *domain.ComplianceStatus `json:"compliance_status"`
	Notes            *string                  `json:"notes"`
}

func (h *Handler) updateComplianceMapping(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateMappingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	mapping, err := h.compliance.UpdateMapping(r.Context(), id, req.ComplianceStatus, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappingToAPI(mapping))
}

func (h *Handler) deleteComplianceMapping(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.compliance.DeleteMapping(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createActionMappingRequest struct {
	ActionID    int64   `json:"action_id"`
	PrincipleID int64   `json:"principle_id"`
	Notes       *string `json:"notes"`
}

func (h *Handler) createActionMapping(w http.ResponseWriter, r *http.Request) {
	var req createActionMappingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	mapping, err := h.compliance.CreateActionMapping(r.Context(), &domain.ActionPrincipleMapping{
		ActionID:    req.ActionID,
		PrincipleID: req.PrincipleID,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, actionMappingToAPI(mapping))
}

func (h *Handler) deleteActionMapping(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.compliance.DeleteActionMapping(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listActionMappings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	mappings, err := h.compliance.ListActionMappings(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]actionMappingResponse, len(mappings))
	for i := range mappings {
		out[i] = actionMappingToAPI(&mappings[i])
	}
	writeJSON(w, http.StatusOK, listResponse{Data: out})
}

func (h *Handler) complianceSummary(w http.ResponseWriter, r *http.Request) {
	framework, err := frameworkParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := modeFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.compliance.Summary(r.Context(), framework, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) complianceByCategory(w http.ResponseWriter, r *http.Request) {
	framework, err := frameworkParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := modeFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	categories, err := h.compliance.ByCategory(r.Context(), framework, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: categories})
}

func (h *Handler) complianceCoverage(w http.ResponseWriter, r *http.Request) {
	framework, err := frameworkParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := modeFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	coverage, err := h.compliance.Coverage(r.Context(), framework, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: coverage})
}

func (h *Handler) complianceGaps(w http.ResponseWriter, r *http.Request) {
	framework, err := frameworkParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	gaps, err := h.compliance.Gaps(r.Context(), framework)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: gaps})
}
