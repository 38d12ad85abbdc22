package auth

import (
	"net/http"

	"github.com/lupa-autoricambi/gestionale/httpx"
	"github.com/lupa-autoricambi/gestionale/internal/apperr"
)

// LoginPath is where unauthenticated browser navigation is sent.
const LoginPath = "/"

// Middleware attaches the session identity to the request context if present.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := m.ParseSession(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession answers 401 JSON when no valid session is attached.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			httpx.WriteError(w, r, apperr.Unauthenticated())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireActor is RequireSession plus an actor id usable for audit attribution.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromContext(r.Context()); !ok {
			httpx.WriteError(w, r, apperr.Unauthenticated())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePage redirects to the login page when no valid session is attached.
func RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
