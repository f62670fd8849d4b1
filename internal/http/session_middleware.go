package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/palermo-rentals/storefront/internal/session"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "storefront_session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionMiddleware resolves the caller's session from the X-Session-ID
// header or cookie, minting a fresh id when neither is present. The resolved
// session is placed on the request context and the id echoed back.
func SessionMiddleware(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(sessionHeader)
			if id == "" {
				if cookie, err := r.Cookie(sessionCookie); err == nil {
					id = cookie.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			sess, err := manager.Get(r.Context(), id)
			if err != nil {
				respondError(w, http.StatusInternalServerError, "session_error", "failed to resolve session")
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(sessionHeader, id)

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}
