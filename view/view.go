package view

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lupa-autoricambi/gestionale/auth"
	"github.com/lupa-autoricambi/gestionale/i18n"
)

//go:embed templates/*.html
var templatesFS embed.FS

var tplCache = struct {
	sync.RWMutex
	m map[string]*template.Template
}{m: map[string]*template.Template{}}

// Funcs returns the standard func map including i18n and simple helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.DefaultLang
	if r != nil {
		lang = i18n.LangFromContext(r.Context())
	}
	return template.FuncMap{
		"t":        func(code string) string { return i18n.T(lang, code) },
		"tf":       func(code string, args ...any) string { return i18n.Tf(lang, code, args...) },
		"lang":     func() string { return lang },
		"year":     func() int { return time.Now().Year() },
		"date":     func(t time.Time) string { return t.Local().Format("02/01/2006") },
		"stamp":    func(t time.Time) string { return t.Local().Format("02/01/2006 15:04") },
		"money":    func(d decimal.Decimal) string { return d.StringFixed(2) + " €" },
		"positive": func(d decimal.Decimal) bool { return d.IsPositive() },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
}

// load parses layout.html with the named page, caching the result.
func load(name string) (*template.Template, error) {
	tplCache.RLock()
	t, ok := tplCache.m[name]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}
	t, err := template.New("layout.html").Funcs(Funcs(nil)).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, err
	}
	tplCache.Lock()
	tplCache.m[name] = t
	tplCache.Unlock()
	return t, nil
}

// Render executes the named page inside the layout.
// name should be the filename (e.g., "dashboard.html").
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code. The page is executed
// into a buffer first, so nothing reaches w when the template fails.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	// Ensure data map exists and inject common defaults to avoid template errors.
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		id, loggedIn := auth.IdentityFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
		data["Username"] = id.Username
	}
	base, err := load(name)
	if err != nil {
		return err
	}
	// request-scoped funcs (language) are bound on a clone of the cached template
	t, err := base.Clone()
	if err != nil {
		return err
	}
	t.Funcs(Funcs(r))
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
