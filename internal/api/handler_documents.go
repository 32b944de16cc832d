package api

import (
	"net/http"

	"netros/internal/domain"
)

type documentRequest struct {
	EntityKind  domain.EntityKind `json:"entity_kind"`
	EntityID    int64             `json:"entity_id"`
	Filename    string            `json:"filename"`
	ContentType *string           `json:"content_type"`
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.documents.Create(r.Context(), &domain.Document{
		EntityKind:  req.EntityKind,
		EntityID:    req.EntityID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, documentToAPI(created))
}

// listDocuments requires entity_kind and entity_id query parameters;
// documents are always browsed from their owning entity.
func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	kind := domain.EntityKind(r.URL.Query().Get("entity_kind"))
	entityID, err := queryInt64(r, "entity_id")
	if err != nil {
		writeError(w, err)
		return
	}
	if entityID == nil {
		writeError(w, domain.ErrValidation("entity_id is required"))
		return
	}
	docs, err := h.documents.ListForEntity(r.Context(), kind, *entityID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]documentResponse, len(docs))
	for i := range docs {
		out[i] = documentToAPI(&docs[i])
	}
	writeJSON(w, http.StatusOK, listResponse{Data: out})
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := h.documents.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToAPI(doc))
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.documents.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
