package handlers

import (
	"net/http"

	"github.com/lupa-autoricambi/gestionale/internal/services"
)

// PageHandler serves the read-only dashboard pages.
type PageHandler struct {
	articles  *services.ArticleService
	customers *services.CustomerService
	accounts  *services.AccountService
	audit     *services.AuditService
}

func NewPageHandler(articles *services.ArticleService, customers *services.CustomerService, accounts *services.AccountService, audit *services.AuditService) *PageHandler {
	return &PageHandler{articles: articles, customers: customers, accounts: accounts, audit: audit}
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.Count(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	customers, err := h.customers.Count(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render(w, r, "dashboard.html", map[string]any{
		"Stats": map[string]int64{"Articles": articles, "Customers": customers},
	})
}

func (h *PageHandler) Articles(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	articles, err := h.articles.List(r.Context(), search)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render(w, r, "articles.html", map[string]any{"Articles": articles, "Search": search})
}

func (h *PageHandler) Customers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	customers, err := h.customers.List(r.Context(), search)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render(w, r, "customers.html", map[string]any{"Customers": customers, "Search": search})
}

func (h *PageHandler) Customer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer_not_found")
	if err != nil {
		renderError(w, r, err)
		return
	}
	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	accounts, err := h.accounts.ListByCustomer(r.Context(), c.ID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render(w, r, "customer.html", map[string]any{
		"Customer": c,
		"Accounts": accounts,
		"Total":    services.TotalBalance(accounts),
	})
}

func (h *PageHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.audit.Recent(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render(w, r, "audit_log.html", map[string]any{"Entries": entries})
}
