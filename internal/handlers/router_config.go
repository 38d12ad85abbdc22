package handlers

import (
	"gorm.io/gorm"

	"github.com/lupa-autoricambi/gestionale/auth"
	"github.com/lupa-autoricambi/gestionale/internal/services"
)

// RouterConfig holds the configured handlers for the application router.
type RouterConfig struct {
	Sessions *auth.Manager

	AuthHandler     *AuthHandler
	ArticleHandler  *ArticleHandler
	CustomerHandler *CustomerHandler
	AccountHandler  *AccountHandler
	AuditHandler    *AuditHandler
	PageHandler     *PageHandler
}

// NewRouterConfig wires services and handlers over db.
//
//	cfg := handlers.NewRouterConfig(db, sessions)
//	mux.Handle("GET /articles", auth.RequireSession(http.HandlerFunc(cfg.ArticleHandler.List)))
func NewRouterConfig(db *gorm.DB, sessions *auth.Manager) *RouterConfig {
	articles := services.NewArticleService(db)
	customers := services.NewCustomerService(db)
	accounts := services.NewAccountService(db)
	audit := services.NewAuditService(db)

	return &RouterConfig{
		Sessions:        sessions,
		AuthHandler:     NewAuthHandler(services.NewAuthService(db), sessions),
		ArticleHandler:  NewArticleHandler(articles),
		CustomerHandler: NewCustomerHandler(customers, accounts),
		AccountHandler:  NewAccountHandler(accounts),
		AuditHandler:    NewAuditHandler(audit),
		PageHandler:     NewPageHandler(articles, customers, accounts, audit),
	}
}
