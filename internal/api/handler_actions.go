package api

import (
	"net/http"

	"netros/internal/domain"
)

func (h *Handler) createAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	action, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := h.actions.Create(r.Context(), action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, actionToAPI(created))
}

func (h *Handler) listActions(w http.ResponseWriter, r *http.Request) {
	filter := domain.ActionFilter{Page: pageFromQuery(r)}

	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.ActionStatus(v)
		if !status.Valid() {
			writeError(w, domain.ErrValidation("unknown action status %q", v))
			return
		}
		filter.Status = &status
	}
	if v := r.URL.Query().Get("priority"); v != "" {
		priority := domain.ActionPriority(v)
		if !priority.Valid() {
			writeError(w, domain.ErrValidation("unknown action priority %q", v))
			return
		}
		filter.Priority = &priority
	}
	riskID, err := queryInt64(r, "risk_id")
	if err != nil {
		writeError(w, err)
		return
	}
	filter.RiskID = riskID

	actions, total, err := h.actions.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: actionsToAPI(actions), Total: total})
}

func (h *Handler) getAction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	action, err := h.actions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionToAPI(action))
}

func (h *Handler) updateAction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	action, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}
	action.ID = id
	updated, err := h.actions.Update(r.Context(), action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionToAPI(updated))
}

func (h *Handler) deleteAction(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.actions.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) actionProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.actions.Progress(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
