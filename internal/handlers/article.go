package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lupa-autoricambi/gestionale/httpx"
	"github.com/lupa-autoricambi/gestionale/internal/export"
	"github.com/lupa-autoricambi/gestionale/internal/services"
)

type ArticleHandler struct {
	articles *services.ArticleService
}

func NewArticleHandler(articles *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, articles)
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ArticleInput
	if err := decodeBody(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	a, err := h.articles.Create(r.Context(), actor(r), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "article_not_found")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var in services.ArticleInput
	if err := decodeBody(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	a, err := h.articles.Update(r.Context(), actor(r), id, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "article_not_found")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.articles.Delete(r.Context(), actor(r), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	message(w, r, "article_deleted")
}

// ExportCSV downloads the whole inventory, honoring the same search filter as List.
func (h *ArticleHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.InventoryFilename(time.Now())+`"`)
	if err := export.WriteInventoryCSV(w, articles); err != nil {
		log.Error().Err(err).Msg("inventory export failed")
	}
}
