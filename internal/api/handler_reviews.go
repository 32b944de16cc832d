package api

import (
	"net/http"
)

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	review, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := h.reviews.Create(r.Context(), review)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reviewToAPI(created))
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, total, err := h.reviews.List(r.Context(), pageFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: reviewsToAPI(reviews), Total: total})
}

func (h *Handler) getReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	review, err := h.reviews.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewToAPI(review))
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	review, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}
	review.ID = id
	updated, err := h.reviews.Update(r.Context(), review)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewToAPI(updated))
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.reviews.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeReviewRequest struct {
	Findings    *string `json:"findings"`
	Conclusions *string `json:"conclusions"`
	RiskIDs     []int64 `json:"risk_ids"`
}

func (h *Handler) completeReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req completeReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	completed, err := h.reviews.Complete(r.Context(), id, req.Findings, req.Conclusions, req.RiskIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewToAPI(completed))
}

func (h *Handler) listReviewRisks(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	risks, err := h.reviews.ListRisks(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: risksToAPI(risks)})
}
