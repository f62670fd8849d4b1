package http

import (
	"net/http"

	"github.com/palermo-rentals/storefront/internal/session"
)

type ConfirmationHandler struct {
	sessions *session.Manager
}

func NewConfirmationHandler(sessions *session.Manager) *ConfirmationHandler {
	return &ConfirmationHandler{sessions: sessions}
}

func (h *ConfirmationHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.Lock()
	summary, ok := sess.Confirmation.Get()
	sess.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no confirmed reservation")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *ConfirmationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.Lock()
	sess.Confirmation.Clear()
	sess.Unlock()

	w.WriteHeader(http.StatusNoContent)
}
