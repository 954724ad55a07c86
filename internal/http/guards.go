package http

import (
	"log/slog"
	"net/http"
	"time"

	"nutrichef/internal/redirect"
	"nutrichef/internal/session"
	"nutrichef/internal/websession"
)

const (
	loginPath        = "/auth"
	defaultAfterAuth = "/dashboard"
)

// guards decide whether a page may render for the current browser session.
// Neither guard decides while the session is still loading.
type guards struct {
	storage websession.Storage
	settle  time.Duration
	render  *renderer
	logger  *slog.Logger
}

func (g *guards) memory(r *http.Request) redirect.Memory {
	return redirectMemory(g.storage, r)
}

// redirectMemory binds the post-login destination to the request's browser session.
func redirectMemory(storage websession.Storage, r *http.Request) redirect.Memory {
	return redirect.New(websession.NewScope(storage, websession.IDFromContext(r.Context())))
}

// state waits briefly for the store to settle so a fresh browser session does
// not always see the waiting page. A signed-in session is checked with the
// provider on every guarded request.
func (g *guards) state(r *http.Request) (session.State, bool) {
	store := session.FromContext(r.Context())
	if store == nil {
		return session.State{}, false
	}
	state := store.Settled(r.Context(), g.settle)
	if !state.Loading && state.Authenticated() {
		state = store.Revalidate(r.Context())
	}
	return state, true
}

// hold answers a request that arrived before the session resolved. Pages get
// the self-refreshing waiting page. A form post cannot be replayed by a
// refresh, so the browser goes back to page with a note to resubmit.
func (g *guards) hold(w http.ResponseWriter, r *http.Request, page string) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		g.render.waiting(w, r)
		return
	}
	if store := session.FromContext(r.Context()); store != nil {
		store.Notify(session.Notification{
			Title:       "Not submitted",
			Description: "Your session was still loading. Please submit the form again.",
			Destructive: true,
		})
	}
	http.Redirect(w, r, page, http.StatusSeeOther)
}

// protected admits signed-in users. Anyone else has the requested path
// remembered and is sent to the login page.
func (g *guards) protected(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, ok := g.state(r)
		if !ok {
			g.logger.Error("protected route without session store", "path", r.URL.Path)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if state.Loading {
			g.hold(w, r, r.URL.RequestURI())
			return
		}
		if !state.Authenticated() {
			if err := g.memory(r).Remember(r.Context(), r.URL.RequestURI()); err != nil {
				g.logger.Warn("failed to remember redirect", "path", r.URL.Path, "error", err)
			}
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// public serves signed-out visitors and sends signed-in users on to the
// remembered destination.
func (g *guards) public(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, ok := g.state(r)
		if !ok {
			g.logger.Error("public route without session store", "path", r.URL.Path)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if state.Loading {
			g.hold(w, r, loginPath)
			return
		}
		if state.Authenticated() {
			target, err := g.memory(r).Destination(r.Context(), defaultAfterAuth)
			if err != nil {
				g.logger.Warn("failed to read redirect", "error", err)
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
