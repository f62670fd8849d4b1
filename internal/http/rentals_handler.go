package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RentalCanceler is the slice of the booking API the cancellation proxy
// needs.
type RentalCanceler interface {
	CancelRental(ctx context.Context, rentalID string) (json.RawMessage, error)
	CancelByStorm(ctx context.Context, rentalID string) (json.RawMessage, error)
}

type RentalsHandler struct {
	client RentalCanceler
}

func NewRentalsHandler(client RentalCanceler) *RentalsHandler {
	return &RentalsHandler{client: client}
}

func (h *RentalsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out, err := h.client.CancelRental(r.Context(), id)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *RentalsHandler) CancelByStorm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out, err := h.client.CancelByStorm(r.Context(), id)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}
