package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/palermo-rentals/storefront/internal/catalog"
)

type CatalogHandler struct {
	store *catalog.Store
}

func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

type ProductsResponse struct {
	Products []catalog.Product `json:"products"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ProductsResponse{Products: h.store.Products()})
}

func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, ok := h.store.GetByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Reload replaces the whole catalog from the booking API.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(r.Context()); err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ProductsResponse{Products: h.store.Products()})
}
