package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lupa-autoricambi/gestionale/auth"
	"github.com/lupa-autoricambi/gestionale/httpx"
	"github.com/lupa-autoricambi/gestionale/i18n"
	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/view"
)

// pathID parses the {id} path value. A malformed id cannot match any row, so it is reported as notFound.
func pathID(r *http.Request, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound(notFound)
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("missing_required_fields", nil)
		}
		return apperr.Validation("invalid_json", nil)
	}
	return nil
}

// actor is the audit identity of the caller, uuid.Nil when absent.
func actor(r *http.Request) uuid.UUID {
	id, _ := auth.ActorFromContext(r.Context())
	return id
}

func message(w http.ResponseWriter, r *http.Request, code string) {
	httpx.JSON(w, http.StatusOK, map[string]string{"message": i18n.T(i18n.LangFromContext(r.Context()), code)})
}

func render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	renderStatus(w, r, http.StatusOK, name, data)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, i18n.T(i18n.LangFromContext(r.Context()), "internal_error"), http.StatusInternalServerError)
	}
}

// renderError shows a failed page load. Missing records become a plain 404.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindNotFound {
		http.NotFound(w, r)
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("page failed")
	http.Error(w, i18n.T(i18n.LangFromContext(r.Context()), "internal_error"), http.StatusInternalServerError)
}
