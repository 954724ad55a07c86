package http

import (
	"log/slog"
	"net/http"

	"nutrichef/internal/auth"
	"nutrichef/internal/redirect"
	"nutrichef/internal/session"
	"nutrichef/internal/websession"
)

// sessionRotator issues a new browser-session ID when the browser signs in,
// so an ID known before sign-in never carries the signed-in session.
type sessionRotator struct {
	storage  websession.Storage
	registry *session.Registry
	secure   bool
	logger   *slog.Logger
}

// rotate moves the access token and the remembered destination to a fresh
// browser session and sets its cookie. Everything else kept for the old ID is dropped.
func (sr *sessionRotator) rotate(w http.ResponseWriter, r *http.Request) {
	oldID := websession.IDFromContext(r.Context())
	if oldID == "" {
		return
	}

	newID, err := websession.Rotate(r.Context(), sr.storage, oldID, auth.AccessTokenKey, redirect.Key)
	if err != nil {
		sr.logger.Error("failed to rotate browser session", "error", err)
		return
	}
	sr.registry.Rotate(r.Context(), oldID, newID)
	websession.SetCookie(w, newID, sr.secure)
}

// forget drops everything kept for the browser session after sign-out.
func (sr *sessionRotator) forget(r *http.Request) {
	sid := websession.IDFromContext(r.Context())
	if sid == "" {
		return
	}
	if err := sr.storage.Drop(r.Context(), sid); err != nil {
		sr.logger.Warn("failed to drop browser session", "error", err)
	}
}
