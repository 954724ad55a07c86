// Package websession identifies a browser session with a cookie that has no
// Max-Age and keeps small string values scoped to it.
package websession

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
)

// CookieName is the browser-session cookie.
const CookieName = "nutrichef_sid"

const idBytes = 32

type contextKey struct{}

// NewID returns a fresh random browser-session ID.
func NewID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func validID(id string) bool {
	decoded, err := base64.RawURLEncoding.DecodeString(id)
	return err == nil && len(decoded) == idBytes
}

// WithID returns a context carrying the browser-session ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IDFromContext returns the browser-session ID set by Middleware.
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Middleware ensures every request carries a browser-session ID, issuing a
// session cookie when the request has none or an invalid one.
func Middleware(secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cookie, err := r.Cookie(CookieName); err == nil && validID(cookie.Value) {
				id = cookie.Value
			}

			if id == "" {
				var err error
				if id, err = NewID(); err != nil {
					logger.Error("failed to generate browser session id", "error", err)
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				SetCookie(w, id, secure)
			}

			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

// SetCookie sends the browser-session cookie carrying id.
func SetCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
