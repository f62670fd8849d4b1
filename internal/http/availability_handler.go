package http

import (
	"net/http"

	"github.com/palermo-rentals/storefront/internal/api"
	"github.com/palermo-rentals/storefront/internal/availability"
)

type AvailabilityHandler struct {
	service *availability.Service
}

func NewAvailabilityHandler(service *availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

type SlotsResponse struct {
	Date  string         `json:"date"`
	Slots []api.TimeSlot `json:"slots"`
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	date := r.URL.Query().Get("date")
	if productID == "" || date == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "productId and date are required")
		return
	}

	slots, err := h.service.Fetch(r.Context(), productID, date)
	if err != nil {
		handleRemoteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SlotsResponse{Date: date, Slots: slots})
}

// Last redisplays the most recent availability query, for returning to the
// picker after navigating away.
func (h *AvailabilityHandler) Last(w http.ResponseWriter, r *http.Request) {
	date, slots := h.service.Last()
	if date == "" {
		respondError(w, http.StatusNotFound, "not_found", "no availability queried yet")
		return
	}
	respondJSON(w, http.StatusOK, SlotsResponse{Date: date, Slots: slots})
}
