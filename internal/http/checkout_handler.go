package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/palermo-rentals/storefront/internal/checkout"
	"github.com/palermo-rentals/storefront/internal/session"
)

type CheckoutHandler struct {
	sessions *session.Manager
	flow     *checkout.Flow
	validate *validator.Validate
}

func NewCheckoutHandler(sessions *session.Manager, flow *checkout.Flow) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		flow:     flow,
		validate: validator.New(),
	}
}

type UpdateCustomerRequestDTO struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	DNI      *string `json:"dni"`
	Currency *string `json:"currency"`
}

type PaymentMethodRequestDTO struct {
	Method string `json:"method"`
}

// customerValidation gates submit: identity fields must be filled in and the
// email well-formed before the flow calls the booking API.
type customerValidation struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	DNI   string `validate:"required"`
}

func (h *CheckoutHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.Lock()
	info := sess.Checkout.Info()
	sess.Unlock()
	respondJSON(w, http.StatusOK, info)
}

func (h *CheckoutHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req UpdateCustomerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := sessionFromContext(r.Context())
	sess.Lock()
	defer sess.Unlock()

	err := sess.Checkout.UpdateCustomer(checkout.Update{
		Name:     req.Name,
		Email:    req.Email,
		DNI:      req.DNI,
		Currency: req.Currency,
	})
	if err != nil {
		if errors.Is(err, checkout.ErrUnknownCurrency) {
			respondError(w, http.StatusBadRequest, "invalid_currency", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist session")
		return
	}
	respondJSON(w, http.StatusOK, sess.Checkout.Info())
}

func (h *CheckoutHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req PaymentMethodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := sessionFromContext(r.Context())
	sess.Lock()
	defer sess.Unlock()

	if err := sess.Checkout.SetPaymentMethod(req.Method); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payment_method", err.Error())
		return
	}

	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist session")
		return
	}
	respondJSON(w, http.StatusOK, sess.Checkout.Info())
}

func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.Lock()
	defer sess.Unlock()

	sess.Checkout.Reset()
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist session")
		return
	}
	respondJSON(w, http.StatusOK, sess.Checkout.Info())
}

// Submit runs the whole booking flow for the session's cart.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.Lock()
	defer sess.Unlock()

	info := sess.Checkout.Info()
	validation := customerValidation{Name: info.Name, Email: info.Email, DNI: info.DNI}
	if err := h.validate.Struct(validation); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_customer", err.Error())
		return
	}

	summary, err := h.flow.Submit(r.Context(), sess.Cart, sess.Checkout, sess.Confirmation)
	if err != nil {
		handleRemoteError(w, err)
		return
	}

	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist session")
		return
	}
	respondJSON(w, http.StatusCreated, summary)
}
