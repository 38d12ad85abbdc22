package main

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/lupa-autoricambi/gestionale/auth"
	"github.com/lupa-autoricambi/gestionale/httpx"
	"github.com/lupa-autoricambi/gestionale/internal/handlers"
	"github.com/lupa-autoricambi/gestionale/internal/middleware"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *handlers.RouterConfig
	handler   http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, routerCfg *handlers.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		db:        db,
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	app.handler = middleware.RequestID(
		middleware.Logger(
			middleware.Recover(
				middleware.SecurityHeaders(
					middleware.Prefs(
						routerCfg.Sessions.Middleware(app.mux))))))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler

	a.mux.HandleFunc("GET /{$}", ah.LoginPage)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("GET /logout", ah.Logout)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("GET /healthz", a.health)

	// ─────────────────────────────────────────────────────────────────────────
	// JSON API: reads need a session, writes need an actor
	// ─────────────────────────────────────────────────────────────────────────
	arh := a.routerCfg.ArticleHandler
	a.mux.Handle("GET /articles", read(arh.List))
	a.mux.Handle("GET /articles/export.csv", read(arh.ExportCSV))
	a.mux.Handle("POST /articles", write(arh.Create))
	a.mux.Handle("PATCH /articles/{id}", write(arh.Update))
	a.mux.Handle("DELETE /articles/{id}", write(arh.Delete))

	ch := a.routerCfg.CustomerHandler
	a.mux.Handle("GET /customers", read(ch.List))
	a.mux.Handle("GET /customers/{id}", read(ch.Get))
	a.mux.Handle("GET /customers/{id}/report.pdf", read(ch.ReportPDF))
	a.mux.Handle("POST /customers", write(ch.Create))
	a.mux.Handle("PATCH /customers/{id}", write(ch.Update))
	a.mux.Handle("DELETE /customers/{id}", write(ch.Delete))

	ach := a.routerCfg.AccountHandler
	a.mux.Handle("GET /accounts", read(ach.List))
	a.mux.Handle("POST /accounts", write(ach.Create))
	a.mux.Handle("PATCH /accounts/{id}", write(ach.Pay))

	a.mux.Handle("GET /audit-log", read(a.routerCfg.AuditHandler.List))

	// ─────────────────────────────────────────────────────────────────────────
	// Dashboard pages
	// ─────────────────────────────────────────────────────────────────────────
	ph := a.routerCfg.PageHandler
	a.mux.Handle("GET /dashboard", page(ph.Dashboard))
	a.mux.Handle("GET /dashboard/articles", page(ph.Articles))
	a.mux.Handle("GET /dashboard/customers", page(ph.Customers))
	a.mux.Handle("GET /dashboard/customers/{id}", page(ph.Customer))
	a.mux.Handle("GET /dashboard/audit-log", page(ph.AuditLog))
}

func read(h http.HandlerFunc) http.Handler {
	return auth.RequireSession(h)
}

func write(h http.HandlerFunc) http.Handler {
	return auth.RequireSession(auth.RequireActor(h))
}

func page(h http.HandlerFunc) http.Handler {
	return auth.RequirePage(h)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
