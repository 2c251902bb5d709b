package rest

import (
	"net/http"

	"staybase/internal/catalog"
	"staybase/internal/listings"
)

type customSearchParams struct {
	PropertyType    *string `schema:"propertyType"`
	MinAccommodates *int    `schema:"minAccommodates"`
	MaxPrice        *string `schema:"maxPrice"`
	Country         *string `schema:"country"`
}

func (h *Handler) searchCustom(w http.ResponseWriter, r *http.Request) {
	var params customSearchParams
	if err := h.decodeQuery(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid search parameters")
		return
	}

	criteria := listings.SearchCriteria{
		PropertyType:    params.PropertyType,
		MinAccommodates: params.MinAccommodates,
		Country:         params.Country,
	}
	if params.MaxPrice != nil {
		maxPrice, err := catalog.NewMoney(*params.MaxPrice)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "maxPrice is not a valid amount")
			return
		}
		criteria.MaxPrice = &maxPrice
	}

	result, err := h.service.FindByCustomCriteria(r.Context(), criteria)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type nearSearchParams struct {
	Longitude   *float64 `schema:"longitude"`
	Latitude    *float64 `schema:"latitude"`
	MaxDistance float64  `schema:"maxDistance"`
}

func (h *Handler) searchNear(w http.ResponseWriter, r *http.Request) {
	var params nearSearchParams
	if err := h.decodeQuery(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid location parameters")
		return
	}
	if params.Longitude == nil || params.Latitude == nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "longitude and latitude are required")
		return
	}

	result, err := h.service.FindNearLocation(r.Context(), *params.Longitude, *params.Latitude, params.MaxDistance)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) searchText(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SearchByText(r.Context(), r.URL.Query().Get("searchText"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) searchPriceRange(w http.ResponseWriter, r *http.Request) {
	minPrice, err := catalog.NewMoney(r.URL.Query().Get("minPrice"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "minPrice is not a valid amount")
		return
	}
	maxPrice, err := catalog.NewMoney(r.URL.Query().Get("maxPrice"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "maxPrice is not a valid amount")
		return
	}

	result, err := h.service.FindByPriceRange(r.Context(), minPrice, maxPrice)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) searchSuperhosts(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.FindSuperhostListings(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) searchAvailable(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.FindAvailable(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) searchByPropertyType(w http.ResponseWriter, r *http.Request) {
	h.respondListings(w, r, func() ([]catalog.Listing, error) {
		return h.service.FindByPropertyType(r.Context(), r.PathValue("propertyType"))
	})
}

func (h *Handler) searchByRoomType(w http.ResponseWriter, r *http.Request) {
	h.respondListings(w, r, func() ([]catalog.Listing, error) {
		return h.service.FindByRoomType(r.Context(), r.PathValue("roomType"))
	})
}

func (h *Handler) searchByHostName(w http.ResponseWriter, r *http.Request) {
	h.respondListings(w, r, func() ([]catalog.Listing, error) {
		return h.service.FindByHostName(r.Context(), r.PathValue("hostName"))
	})
}

func (h *Handler) searchByMarket(w http.ResponseWriter, r *http.Request) {
	h.respondListings(w, r, func() ([]catalog.Listing, error) {
		return h.service.FindByMarket(r.Context(), r.PathValue("market"))
	})
}

func (h *Handler) searchByCountry(w http.ResponseWriter, r *http.Request) {
	h.respondListings(w, r, func() ([]catalog.Listing, error) {
		return h.service.FindByCountry(r.Context(), r.PathValue("country"))
	})
}

func (h *Handler) searchByMinimumNights(w http.ResponseWriter, r *http.Request) {
	h.respondListings(w, r, func() ([]catalog.Listing, error) {
		return h.service.FindByMinimumNights(r.Context(), r.PathValue("minimumNights"))
	})
}

func (h *Handler) respondListings(w http.ResponseWriter, r *http.Request, find func() ([]catalog.Listing, error)) {
	result, err := find()
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
