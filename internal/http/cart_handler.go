package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/palermo-rentals/storefront/internal/cart"
	"github.com/palermo-rentals/storefront/internal/session"
)

type CartHandler struct {
	sessions *session.Manager
}

func NewCartHandler(sessions *session.Manager) *CartHandler {
	return &CartHandler{sessions: sessions}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type AddItemResponseDTO struct {
	ItemID string       `json:"item_id"`
	Cart   CartResponse `json:"cart"`
}

type UpdatePersonsRequestDTO struct {
	Persons int `json:"persons"`
}

type ReservationRequestDTO struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type CartItemDTO struct {
	cart.LineItem
	Reservation *cart.ReservationDetails `json:"reservation,omitempty"`
}

type CartResponse struct {
	Items       []CartItemDTO `json:"items"`
	ItemCount   int           `json:"item_count"`
	Subtotal    float64       `json:"subtotal"`
	HasDiscount bool          `json:"has_discount"`
	Discount    float64       `json:"discount"`
	Total       float64       `json:"total"`
}

// cartResponse derives the full pricing view; callers hold the session lock.
func cartResponse(c *cart.Cart) CartResponse {
	items := c.Items()
	dtos := make([]CartItemDTO, 0, len(items))
	for _, item := range items {
		dto := CartItemDTO{LineItem: item}
		if details, ok := c.ReservationFor(item.ID); ok {
			dto.Reservation = &details
		}
		dtos = append(dtos, dto)
	}
	return CartResponse{
		Items:       dtos,
		ItemCount:   c.ItemCount(),
		Subtotal:    c.Subtotal(),
		HasDiscount: c.HasDiscount(),
		Discount:    c.Discount(),
		Total:       c.Total(),
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.Lock()
	defer sess.Unlock()
	respondJSON(w, http.StatusOK, cartResponse(sess.Cart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	sess := sessionFromContext(r.Context())
	sess.Lock()
	defer sess.Unlock()

	// The state layer answers both failure modes with a silent absent
	// result; the HTTP surface tells them apart for the UI.
	duplicate := false
	for _, item := range sess.Cart.Items() {
		if item.ProductID == req.ProductID {
			duplicate = true
			break
		}
	}

	itemID, ok := sess.Cart.AddItem(req.ProductID)
	if duplicate {
		respondError(w, http.StatusConflict, "already_in_cart", "product is already in the cart")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist session")
		return
	}
	respondJSON(w, http.StatusCreated, AddItemResponseDTO{
		ItemID: itemID,
		Cart:   cartResponse(sess.Cart),
	})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	sess := sessionFromContext(r.Context())
	sess.Lock()
	defer sess.Unlock()

	sess.Cart.RemoveItem(itemID)
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist session")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(sess.Cart))
}

func (h *CartHandler) UpdatePersons(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	var req UpdatePersonsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := sessionFromContext(r.Context())
	sess.Lock()
	defer sess.Unlock()

	sess.Cart.UpdatePersonCount(itemID, req.Persons)
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist session")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(sess.Cart))
}

func (h *CartHandler) SetReservation(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	var req ReservationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Date == "" {
		respondError(w, http.StatusBadRequest, "invalid_date", "date is required")
		return
	}

	sess := sessionFromContext(r.Context())
	sess.Lock()
	defer sess.Unlock()

	sess.Cart.SetReservationDetails(itemID, cart.ReservationDetails{
		Date:  req.Date,
		Slots: req.Slots,
	})
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist session")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(sess.Cart))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.Lock()
	defer sess.Unlock()

	sess.Cart.Clear()
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to persist session")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(sess.Cart))
}
