package i18n

import (
	"context"
	"fmt"
	"strings"
)

const DefaultLang = "it"

type ctxKey struct{}

var catalog = map[string]map[string]string{
	"it": {
		"required":                "Obbligatorio",
		"unauthenticated":         "Non autenticato",
		"invalid_credentials":     "Credenziali non valide",
		"missing_credentials":     "Username e password sono obbligatori",
		"missing_required_fields": "Campi obbligatori mancanti",
		"invalid_json":            "Richiesta non valida",
		"invalid_amount":          "L'importo del pagamento deve essere maggiore di zero",
		"missing_customer_id":     "ID cliente mancante",
		"article_code_exists":     "Esiste già un articolo con il codice %s",
		"article_not_found":       "Articolo non trovato",
		"customer_not_found":      "Cliente non trovato",
		"account_not_found":       "Pratica non trovata",
		"customer_has_accounts":   "Impossibile eliminare: questo cliente ha %d pratiche collegate.",
		"internal_error":          "Errore interno del server",
		"logged_out":              "Logout effettuato",
		"logged_in":               "Login effettuato",
		"article_deleted":         "Articolo eliminato",
		"customer_deleted":        "Cliente eliminato",
		"welcome":                 "Benvenuto, %s",
		"nav_articles":            "Magazzino",
		"nav_customers":           "Clienti",
		"nav_audit_log":           "Log modifiche",
		"logout":                  "Esci",
		"login":                   "Accedi",
		"search":                  "Cerca",
		"no_results":              "Nessun risultato",
	},
	"en": {
		"required":                "Required",
		"unauthenticated":         "Not authenticated",
		"invalid_credentials":     "Invalid credentials",
		"missing_credentials":     "Username and password are required",
		"missing_required_fields": "Missing required fields",
		"invalid_json":            "Invalid request body",
		"invalid_amount":          "Payment amount must be greater than zero",
		"missing_customer_id":     "Missing customer id",
		"article_code_exists":     "An article with code %s already exists",
		"article_not_found":       "Article not found",
		"customer_not_found":      "Customer not found",
		"account_not_found":       "Account not found",
		"customer_has_accounts":   "Cannot delete: this customer has %d linked accounts.",
		"internal_error":          "Internal server error",
		"logged_out":              "Logged out",
		"logged_in":               "Logged in",
		"article_deleted":         "Article deleted",
		"customer_deleted":        "Customer deleted",
		"welcome":                 "Welcome, %s",
		"nav_articles":            "Inventory",
		"nav_customers":           "Customers",
		"nav_audit_log":           "Audit log",
		"logout":                  "Log out",
		"login":                   "Log in",
		"search":                  "Search",
		"no_results":              "No results",
	},
}

// T translates code. Unknown languages fall back to Italian, unknown codes to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Tf translates code and formats it with args.
func Tf(lang, code string, args ...any) string {
	if len(args) == 0 {
		return T(lang, code)
	}
	return fmt.Sprintf(T(lang, code), args...)
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if Supported(base) {
			return base
		}
	}
	return DefaultLang
}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
