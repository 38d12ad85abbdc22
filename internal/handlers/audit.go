package handlers

import (
	"net/http"

	"github.com/lupa-autoricambi/gestionale/httpx"
	"github.com/lupa-autoricambi/gestionale/internal/services"
)

type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List returns the newest audit entries with the acting username.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.audit.Recent(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}
