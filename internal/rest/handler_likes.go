package rest

import "net/http"

func (h *Handler) addLike(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AddLike(r.Context(), r.PathValue("id"), r.PathValue("userId")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeLike(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveLike(r.Context(), r.PathValue("id"), r.PathValue("userId")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getLikeCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.GetLikeCount(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"likes": count})
}

func (h *Handler) hasLiked(w http.ResponseWriter, r *http.Request) {
	liked, err := h.service.HasLiked(r.Context(), r.PathValue("id"), r.PathValue("userId"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}
