package http

import (
	"errors"
	"log/slog"
	"net/http"

	"nutrichef/internal/auth"
	"nutrichef/internal/session"
)

// PageHandler serves pages that need no backend data.
type PageHandler struct {
	render *renderer
}

func NewPageHandler(render *renderer) *PageHandler {
	return &PageHandler{render: render}
}

// Landing renders the public home page for everyone.
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render.page(w, r, http.StatusOK, "landing", "Home", nil)
}

// NotFound renders the 404 page.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render.page(w, r, http.StatusNotFound, "notfound", "Not found", nil)
}

// currentUser returns the signed-in user. Protected routes guarantee one.
func currentUser(r *http.Request) (*session.Store, *auth.User) {
	store := session.FromContext(r.Context())
	if store == nil {
		return nil, nil
	}
	return store, store.State().User
}

// statusForError maps the auth error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, auth.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrAuthentication), errors.Is(err, auth.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// requireUser sends the browser to the login page when a handler runs without
// a user, which only happens if the route was registered outside the guard.
func requireUser(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*session.Store, *auth.User, bool) {
	store, user := currentUser(r)
	if user == nil {
		logger.Error("handler reached without signed-in user", "path", r.URL.Path)
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return nil, nil, false
	}
	return store, user, true
}
