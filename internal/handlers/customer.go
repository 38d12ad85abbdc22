package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/lupa-autoricambi/gestionale/httpx"
	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/internal/export"
	"github.com/lupa-autoricambi/gestionale/internal/services"
)

type CustomerHandler struct {
	customers *services.CustomerService
	accounts  *services.AccountService
}

func NewCustomerHandler(customers *services.CustomerService, accounts *services.AccountService) *CustomerHandler {
	return &CustomerHandler{customers: customers, accounts: accounts}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer_not_found")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CustomerInput
	if err := decodeBody(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := h.customers.Create(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer_not_found")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var in services.CustomerInput
	if err := decodeBody(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := h.customers.Update(r.Context(), id, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer_not_found")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.customers.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	message(w, r, "customer_deleted")
}

// ReportPDF renders the customer sheet with all accounts and the outstanding total.
func (h *CustomerHandler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer_not_found")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	accounts, err := h.accounts.ListByCustomer(r.Context(), c.ID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	// buffered so a failed render can still answer with a JSON error
	var buf bytes.Buffer
	now := time.Now()
	if err := export.WriteCustomerReport(&buf, c, accounts, now); err != nil {
		httpx.WriteError(w, r, apperr.Internal(err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.CustomerReportFilename(c, now)+`"`)
	_, _ = buf.WriteTo(w)
}
