package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/palermo-rentals/storefront/internal/api"
	"github.com/palermo-rentals/storefront/internal/checkout"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleRemoteError maps booking-API and checkout failures onto HTTP status
// codes, passing the remote message through untouched.
func handleRemoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrDuplicateIdentity):
		respondError(w, http.StatusConflict, "duplicate_identity", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrMissingReservation):
		respondError(w, http.StatusBadRequest, "missing_reservation", err.Error())
	default:
		var remote *api.RemoteError
		if errors.As(err, &remote) {
			status := http.StatusBadGateway
			if remote.StatusCode >= http.StatusBadRequest {
				status = remote.StatusCode
			}
			respondError(w, status, "remote_error", remote.Message)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
