// Package rest maps the listing service onto an HTTP API under
// /api/listings. Transport concerns only; all semantics live in the
// listings package.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"staybase/internal/listings"
	"staybase/internal/storage"
)

type Handler struct {
	service *listings.Service
	decoder *schema.Decoder
}

func NewHandler(service *listings.Service) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &Handler{service: service, decoder: decoder}
}

// RegisterRoutes attaches all endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/listings", h.getAllListings)
	mux.HandleFunc("GET /api/listings/paginated", h.getListingsPaginated)
	mux.HandleFunc("GET /api/listings/with-reviews", h.getListingsWithReviews)
	mux.HandleFunc("GET /api/listings/health", h.healthCheck)
	mux.HandleFunc("GET /api/listings/{id}", h.getListingByID)
	mux.HandleFunc("POST /api/listings", h.createListing)
	mux.HandleFunc("PUT /api/listings/{id}", h.updateListing)
	mux.HandleFunc("DELETE /api/listings/{id}", h.deleteListing)

	mux.HandleFunc("POST /api/listings/bulk", h.createListingsBulk)
	mux.HandleFunc("DELETE /api/listings/property-type/{propertyType}", h.deleteByPropertyType)
	mux.HandleFunc("PATCH /api/listings/price/property-type/{propertyType}", h.updatePriceByPropertyType)
	mux.HandleFunc("PATCH /api/listings/host/{hostId}/response-time", h.updateHostResponseTime)

	mux.HandleFunc("GET /api/listings/search/custom", h.searchCustom)
	mux.HandleFunc("GET /api/listings/search/near", h.searchNear)
	mux.HandleFunc("GET /api/listings/search/text", h.searchText)
	mux.HandleFunc("GET /api/listings/search/price-range", h.searchPriceRange)
	mux.HandleFunc("GET /api/listings/search/superhosts", h.searchSuperhosts)
	mux.HandleFunc("GET /api/listings/search/available", h.searchAvailable)
	mux.HandleFunc("GET /api/listings/search/property-type/{propertyType}", h.searchByPropertyType)
	mux.HandleFunc("GET /api/listings/search/room-type/{roomType}", h.searchByRoomType)
	mux.HandleFunc("GET /api/listings/search/host/{hostName}", h.searchByHostName)
	mux.HandleFunc("GET /api/listings/search/market/{market}", h.searchByMarket)
	mux.HandleFunc("GET /api/listings/search/country/{country}", h.searchByCountry)
	mux.HandleFunc("GET /api/listings/search/min-nights/{minimumNights}", h.searchByMinimumNights)

	mux.HandleFunc("GET /api/listings/stats/property-types", h.getPropertyTypeStats)
	mux.HandleFunc("GET /api/listings/stats/top-hosts", h.getTopHosts)

	mux.HandleFunc("PUT /api/listings/{id}/likes/{userId}", h.addLike)
	mux.HandleFunc("DELETE /api/listings/{id}/likes/{userId}", h.removeLike)
	mux.HandleFunc("GET /api/listings/{id}/likes", h.getLikeCount)
	mux.HandleFunc("GET /api/listings/{id}/likes/{userId}", h.hasLiked)
}

// APIError represents a structured error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeAlreadyInState = "ALREADY_IN_STATE"
	ErrCodeUnavailable    = "UNAVAILABLE"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, APIError{Code: code, Message: message})
}

// handleError maps service errors to stable HTTP responses, so callers can
// tell "nothing to do" from "try again" from "your input was wrong".
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, listings.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, listings.ErrAlreadyLiked), errors.Is(err, listings.ErrNotLiked):
		writeError(w, http.StatusConflict, ErrCodeAlreadyInState, err.Error())
	case errors.Is(err, storage.ErrExists):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, storage.ErrTransient):
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error())
	case errors.Is(err, listings.ErrInconsistent):
		slog.Error("like state inconsistency detected", "error", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}

func (h *Handler) decodeQuery(r *http.Request, dst interface{}) error {
	return h.decoder.Decode(dst, r.URL.Query())
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
