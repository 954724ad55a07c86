package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"nutrichef/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"landing", "auth", "dashboard", "preferences", "generator", "saved", "recipe", "waiting", "notfound",
}

var templateFuncs = template.FuncMap{
	"has":   func(values []string, v string) bool { return slices.Contains(values, v) },
	"lines": func(values []string) string { return strings.Join(values, "\n") },
}

// renderer executes the page templates inside the shared layout.
type renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func newRenderer(logger *slog.Logger) (*renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &renderer{pages: pages, logger: logger}, nil
}

type pageData struct {
	Title         string
	Path          string
	State         session.State
	Notifications []session.Notification
	Data          any
}

// page renders a full page and drains the browser's pending notifications into it.
func (rd *renderer) page(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	view := pageData{Title: title, Path: r.URL.Path, Data: data}
	if store := session.FromContext(r.Context()); store != nil {
		view.State = store.State()
		view.Notifications = store.Notifications()
	}
	rd.execute(w, status, name, view)
}

// waiting renders the neutral page shown while the session is still resolving.
// It refreshes itself and leaves notifications queued.
func (rd *renderer) waiting(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Refresh", "1")
	rd.execute(w, http.StatusOK, "waiting", pageData{Title: "Loading", Path: r.URL.Path, State: session.State{Loading: true}})
}

func (rd *renderer) execute(w http.ResponseWriter, status int, name string, view pageData) {
	tmpl, ok := rd.pages[name]
	if !ok {
		rd.logger.Error("unknown template", "template", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		rd.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
