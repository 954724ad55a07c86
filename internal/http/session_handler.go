package http

import (
	"encoding/json"
	"net/http"
	"time"

	"nutrichef/internal/session"
)

// SessionHandler reports the browser's auth state as JSON for scripts and monitors.
type SessionHandler struct {
	settle time.Duration
}

// NewSessionHandler returns a handler that waits up to settle for a loading store.
func NewSessionHandler(settle time.Duration) *SessionHandler {
	return &SessionHandler{settle: settle}
}

type sessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionStatus struct {
	Authenticated bool         `json:"authenticated"`
	Loading       bool         `json:"loading"`
	User          *sessionUser `json:"user,omitempty"`
	ExpiresAt     *time.Time   `json:"expiresAt,omitempty"`
}

// Status reports whether the browser session is signed in.
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	state := store.Settled(r.Context(), h.settle)
	if !state.Loading && state.Authenticated() {
		state = store.Revalidate(r.Context())
	}
	status := sessionStatus{Authenticated: state.Authenticated(), Loading: state.Loading}
	if state.User != nil {
		status.User = &sessionUser{ID: state.User.ID.String(), Email: state.User.Email}
	}
	if state.Session != nil {
		expiresAt := state.Session.ExpiresAt
		status.ExpiresAt = &expiresAt
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
