package httpx

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lupa-autoricambi/gestionale/i18n"
	"github.com/lupa-autoricambi/gestionale/internal/apperr"
)

// StatusOf maps an error kind to its HTTP status.
func StatusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a localized JSON error. Internal errors are logged
// and collapsed into a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.As(err)
	lang := i18n.LangFromContext(r.Context())
	if e.Kind == apperr.KindInternal {
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unhandled error")
		JSONError(w, http.StatusInternalServerError, "internal_error", i18n.T(lang, "internal_error"), nil)
		return
	}
	JSONError(w, StatusOf(e.Kind), e.Code, i18n.Tf(lang, e.Code, e.Args...), e.Details)
}
