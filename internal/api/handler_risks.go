package api

import (
	"net/http"
	"time"

	"netros/internal/domain"
)

func (h *Handler) createRisk(w http.ResponseWriter, r *http.Request) {
	var req riskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	risk, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := h.risks.Create(r.Context(), risk)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, riskToAPI(created))
}

func (h *Handler) listRisks(w http.ResponseWriter, r *http.Request) {
	filter := domain.RiskFilter{Page: pageFromQuery(r)}

	projectID, err := queryInt64(r, "project_id")
	if err != nil {
		writeError(w, err)
		return
	}
	filter.ProjectID = projectID

	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.RiskStatus(v)
		if !status.Valid() {
			writeError(w, domain.ErrValidation("unknown risk status %q", v))
			return
		}
		filter.Status = &status
	}
	if filter.Likelihood, err = queryInt(r, "likelihood"); err != nil {
		writeError(w, err)
		return
	}
	if filter.Consequence, err = queryInt(r, "consequence"); err != nil {
		writeError(w, err)
		return
	}

	risks, total, err := h.risks.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: risksToAPI(risks), Total: total})
}

func (h *Handler) getRisk(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	risk, err := h.risks.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, riskToAPI(risk))
}

func (h *Handler) updateRisk(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req riskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	risk, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}
	risk.ID = id
	updated, err := h.risks.Update(r.Context(), risk)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, riskToAPI(updated))
}

func (h *Handler) deleteRisk(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.risks.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type acceptRiskRequest struct {
	Rationale  string  `json:"rationale"`
	ValidUntil *string `json:"valid_until"`
}

func (h *Handler) acceptRisk(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req acceptRiskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var validUntil *time.Time
	if req.ValidUntil != nil {
		validUntil, err = parseDate(*req.ValidUntil, "valid_until")
		if err != nil {
			writeError(w, err)
			return
		}
	}
	accepted, err := h.risks.Accept(r.Context(), id, req.Rationale, validUntil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, riskToAPI(accepted))
}

func (h *Handler) revokeRiskAcceptance(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	risk, err := h.risks.RevokeAcceptance(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, riskToAPI(risk))
}

func (h *Handler) riskMatrix(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryInt64(r, "project_id")
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := matrixViewFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	matrix, err := h.risks.Matrix(r.Context(), projectID, view)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matrix)
}

func (h *Handler) riskDistribution(w http.ResponseWriter, r *http.Request) {
	projectID, err := queryInt64(r, "project_id")
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := matrixViewFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	dist, err := h.risks.Distribution(r.Context(), projectID, view)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

func (h *Handler) riskHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.audit.History(r.Context(), "risk", id, pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: auditEntriesToAPI(entries)})
}

func (h *Handler) listRiskMappings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	framework := domain.Framework(r.URL.Query().Get("framework"))
	mappings, err := h.risks.ListMappings(r.Context(), id, framework)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: mappingsToAPI(mappings)})
}

type replaceMappingsRequest struct {
	Framework    domain.Framework `json:"framework"`
	PrincipleIDs []int64          `json:"principle_ids"`
}

func (h *Handler) replaceRiskMappings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req replaceMappingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	mappings, err := h.risks.ReplaceMappings(r.Context(), id, req.Framework, req.PrincipleIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: mappingsToAPI(mappings)})
}

func (h *Handler) listRiskAssets(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	assets, err := h.risks.ListAssets(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: assetsToAPI(assets)})
}

func (h *Handler) linkRiskAsset(w http.ResponseWriter, r *http.Request) {
	riskID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	assetID, err := idParam(r, "assetID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.risks.LinkAsset(r.Context(), riskID, assetID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unlinkRiskAsset(w http.ResponseWriter, r *http.Request) {
	riskID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	assetID, err := idParam(r, "assetID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.risks.UnlinkAsset(r.Context(), riskID, assetID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listRiskActions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actions, err := h.risks.ListActions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: actionsToAPI(actions)})
}

func (h *Handler) linkRiskAction(w http.ResponseWriter, r *http.Request) {
	riskID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actionID, err := idParam(r, "actionID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.risks.LinkAction(r.Context(), riskID, actionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unlinkRiskAction(w http.ResponseWriter, r *http.Request) {
	riskID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actionID, err := idParam(r, "actionID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.risks.UnlinkAction(r.Context(), riskID, actionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
