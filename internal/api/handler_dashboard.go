package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"netros/internal/domain"
)

func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) dashboardAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.dashboard.Alerts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: alerts})
}

func (h *Handler) recentAudit(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{Page: pageFromQuery(r)}

	if v := r.URL.Query().Get("action"); v != "" {
		action := domain.AuditAction(v)
		if !action.Valid() {
			writeError(w, domain.ErrValidation("unknown audit action %q", v))
			return
		}
		filter.Action = &action
	}
	if v := r.URL.Query().Get("entity_type"); v != "" {
		filter.EntityType = &v
	}

	entries, total, err := h.audit.Recent(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: auditEntriesToAPI(entries), Total: total})
}

func (h *Handler) actorActivity(w http.ResponseWriter, r *http.Request) {
	actor := chi.URLParam(r, "actor")
	if actor == "" {
		writeError(w, domain.ErrValidation("actor is required"))
		return
	}
	entries, err := h.audit.Activity(r.Context(), actor, pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: auditEntriesToAPI(entries)})
}

func (h *Handler) entityHistory(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")
	entityID, err := idParam(r, "entityID")
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.audit.History(r.Context(), entityType, entityID, pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: auditEntriesToAPI(entries)})
}
