package api

import (
	"net/http"

	"netros/internal/domain"
)

func (h *Handler) createAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.assets.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assetToAPI(created))
}

func (h *Handler) listAssets(w http.ResponseWriter, r *http.Request) {
	filter := domain.AssetFilter{Page: pageFromQuery(r)}

	if v := r.URL.Query().Get("category"); v != "" {
		category := domain.AssetCategory(v)
		if !category.Valid() {
			writeError(w, domain.ErrValidation("unknown asset category %q", v))
			return
		}
		filter.Category = &category
	}
	parentID, err := queryInt64(r, "parent_id")
	if err != nil {
		writeError(w, err)
		return
	}
	filter.ParentID = parentID

	assets, total, err := h.assets.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: assetsToAPI(assets), Total: total})
}

func (h *Handler) getAsset(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	asset, err := h.assets.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assetToAPI(asset))
}

func (h *Handler) updateAsset(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	asset := req.toDomain()
	asset.ID = id
	updated, err := h.assets.Update(r.Context(), asset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assetToAPI(updated))
}

func (h *Handler) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.assets.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAssetChildren(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	children, err := h.assets.ListChildren(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Data: assetsToAPI(children)})
}
