package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lupa-autoricambi/gestionale/auth"
	"github.com/lupa-autoricambi/gestionale/httpx"
	"github.com/lupa-autoricambi/gestionale/i18n"
	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/internal/services"
)

type AuthHandler struct {
	users    *services.AuthService
	sessions *auth.Manager
}

func NewAuthHandler(users *services.AuthService, sessions *auth.Manager) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginPage renders the login form, or sends a signed-in user to the dashboard.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	render(w, r, "login.html", nil)
}

// Login accepts JSON or a form post. JSON callers get JSON back; browsers are redirected.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	jsonReq := httpx.WantsJSON(r)
	var creds credentials
	if jsonReq {
		if err := decodeBody(r, &creds); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
	} else {
		creds.Username = r.FormValue("username")
		creds.Password = r.FormValue("password")
	}

	user, err := h.users.Authenticate(r.Context(), creds.Username, creds.Password)
	if err == nil {
		err = h.sessions.CreateSession(w, auth.Identity{UserID: user.ID, Username: user.Username})
		if err != nil {
			err = apperr.Internal(err)
		}
	}
	if err != nil {
		if jsonReq {
			httpx.WriteError(w, r, err)
			return
		}
		e := apperr.As(err)
		if e.Kind == apperr.KindInternal {
			log.Error().Err(err).Msg("login failed")
		}
		renderStatus(w, r, httpx.StatusOf(e.Kind), "login.html", map[string]any{
			"Error":         i18n.T(i18n.LangFromContext(r.Context()), e.Code),
			"LoginUsername": creds.Username,
		})
		return
	}

	if jsonReq {
		httpx.JSON(w, http.StatusOK, map[string]string{
			"message":  i18n.T(i18n.LangFromContext(r.Context()), "logged_in"),
			"username": user.Username,
		})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearSession(w)
	if httpx.WantsJSON(r) {
		message(w, r, "logged_out")
		return
	}
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}
