package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"staybase/internal/catalog"
)

type pageParams struct {
	Page int `schema:"page"`
	Size int `schema:"size"`
}

func (h *Handler) getAllListings(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.FindAll(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getListingsPaginated(w http.ResponseWriter, r *http.Request) {
	params := pageParams{Page: 0, Size: 10}
	if err := h.decodeQuery(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid pagination parameters")
		return
	}
	page, err := h.service.FindAllPaginated(r.Context(), params.Page, params.Size)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) getListingsWithReviews(w http.ResponseWriter, r *http.Request) {
	params := pageParams{Page: 0, Size: 10}
	if err := h.decodeQuery(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid pagination parameters")
		return
	}
	page, err := h.service.FindWithReviews(r.Context(), params.Page, params.Size)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) getListingByID(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) createListing(w http.ResponseWriter, r *http.Request) {
	var listing catalog.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid listing body")
		return
	}
	created, err := h.service.Create(r.Context(), &listing)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateListing(w http.ResponseWriter, r *http.Request) {
	var listing catalog.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid listing body")
		return
	}
	listing.ID = r.PathValue("id")
	updated, err := h.service.Replace(r.Context(), &listing)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteListing(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteByID(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createListingsBulk(w http.ResponseWriter, r *http.Request) {
	var ls []catalog.Listing
	if err := json.NewDecoder(r.Body).Decode(&ls); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid listings body")
		return
	}
	if err := h.service.SaveAll(r.Context(), ls); err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("Successfully created %d listings", len(ls)),
		"count":   len(ls),
	})
}

func (h *Handler) deleteByPropertyType(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.DeleteByPropertyType(r.Context(), r.PathValue("propertyType"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}

func (h *Handler) updatePriceByPropertyType(w http.ResponseWriter, r *http.Request) {
	newPrice := r.URL.Query().Get("newPrice")
	if newPrice == "" {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "newPrice is required")
		return
	}
	price, err := catalog.NewMoney(newPrice)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "newPrice is not a valid amount")
		return
	}
	count, err := h.service.UpdatePriceByPropertyType(r.Context(), r.PathValue("propertyType"), price)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
}

func (h *Handler) updateHostResponseTime(w http.ResponseWriter, r *http.Request) {
	responseTime := r.URL.Query().Get("responseTime")
	if responseTime == "" {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "responseTime is required")
		return
	}
	count, err := h.service.UpdateHostResponseTime(r.Context(), r.PathValue("hostId"), responseTime)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
}
