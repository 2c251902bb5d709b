package rest

import "net/http"

func (h *Handler) getPropertyTypeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetPropertyTypeStatistics(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type topHostsParams struct {
	Limit int `schema:"limit"`
}

func (h *Handler) getTopHosts(w http.ResponseWriter, r *http.Request) {
	params := topHostsParams{Limit: 10}
	if err := h.decodeQuery(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid limit")
		return
	}
	stats, err := h.service.GetTopHostsByListings(r.Context(), params.Limit)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
