package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lupa-autoricambi/gestionale/httpx"
	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/internal/services"
)

type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// List returns the accounts of one customer. The customer id is mandatory.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("customerId")
	if raw == "" {
		raw = q.Get("customer_id")
	}
	if raw == "" {
		httpx.WriteError(w, r, apperr.Validation("missing_customer_id", nil))
		return
	}
	customerID, err := uuid.Parse(raw)
	if err != nil {
		// no customer can own a malformed id
		httpx.JSON(w, http.StatusOK, []any{})
		return
	}
	accounts, err := h.accounts.ListByCustomer(r.Context(), customerID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.AccountInput
	if err := decodeBody(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	a, err := h.accounts.Create(r.Context(), actor(r), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

// Pay applies a payment to the account in the path.
func (h *AccountHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "account_not_found")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var in services.PaymentInput
	if err := decodeBody(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	a, err := h.accounts.ApplyPayment(r.Context(), actor(r), id, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}
