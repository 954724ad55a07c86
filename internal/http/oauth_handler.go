package http

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nutrichef/internal/auth"
	"nutrichef/internal/redirect"
	"nutrichef/internal/session"
	"nutrichef/internal/websession"
)

// oauthStatePayload holds the CSRF state and optional redirect path.
type oauthStatePayload struct {
	State      string `json:"s"`
	RedirectTo string `json:"r,omitempty"`
}

const (
	oauthStateCookieName = "nutrichef_oauth_state"
	oauthStateCookiePath = "/auth/google"
	oauthStateCookieTTL  = 10 * time.Minute
)

type googleAuthenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GoogleClaims, error)
	IsEmailAllowed(email string) bool
}

type googleSignIn interface {
	SignInWithGoogle(ctx context.Context, claims *auth.GoogleClaims) (*auth.Session, error)
}

// OAuthHandler handles Google sign-in. A successful callback hands the issued
// session to the browser's store, which announces it like a password sign-in.
type OAuthHandler struct {
	google       googleAuthenticator
	authService  googleSignIn
	storage      websession.Storage
	sessions     *sessionRotator
	settle       time.Duration
	logger       *slog.Logger
	secureCookie bool
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(google googleAuthenticator, authService googleSignIn, storage websession.Storage, sessions *sessionRotator, settle time.Duration, env string, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		google:       google,
		authService:  authService,
		storage:      storage,
		sessions:     sessions,
		settle:       settle,
		logger:       logger,
		secureCookie: !strings.EqualFold(env, "development"),
	}
}

// InitiateGoogle handles GET /auth/google
// Redirects the user to Google's OAuth consent screen.
func (h *OAuthHandler) InitiateGoogle(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateState()
	if err != nil {
		h.logger.Error("failed to generate state", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Store state in cookie for CSRF protection
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     oauthStateCookiePath,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthStateCookieTTL.Seconds()),
	})

	payload := oauthStatePayload{State: state}
	if redirectTo := r.URL.Query().Get("redirectTo"); redirect.IsValidPath(redirectTo) {
		payload.RedirectTo = redirectTo
	}

	// Encode state as base64 JSON to avoid delimiter issues
	stateJSON, _ := json.Marshal(payload)
	fullState := base64.RawURLEncoding.EncodeToString(stateJSON)

	http.Redirect(w, r, h.google.AuthURL(fullState), http.StatusTemporaryRedirect)
}

// CallbackGoogle handles GET /auth/google/callback
// Exchanges the authorization code, signs the user in and returns to /auth,
// where the public guard forwards to the remembered destination.
func (h *OAuthHandler) CallbackGoogle(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())

	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil {
		h.logger.Warn("oauth callback: missing state cookie")
		h.fail(w, r, store, "Session expired. Please try again.")
		return
	}

	statePayload, err := decodeOAuthState(r.URL.Query().Get("state"))
	if err != nil {
		h.logger.Warn("oauth callback: invalid state", "error", err)
		h.fail(w, r, store, "Invalid state. Please try again.")
		return
	}

	if subtle.ConstantTimeCompare([]byte(statePayload.State), []byte(stateCookie.Value)) != 1 {
		h.logger.Warn("oauth callback: state mismatch")
		h.fail(w, r, store, "Invalid state. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     oauthStateCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Warn("oauth callback: provider error", "error", errParam)
		h.fail(w, r, store, "Google sign-in was cancelled or failed.")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.fail(w, r, store, "Missing authorization code.")
		return
	}

	claims, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth callback: exchange failed", "error", err)
		h.fail(w, r, store, "Failed to complete authentication.")
		return
	}

	if !claims.EmailVerified {
		h.logger.Warn("oauth callback: email not verified", "email", claims.Email)
		h.fail(w, r, store, "Please verify your Google email address.")
		return
	}

	if !h.google.IsEmailAllowed(claims.Email) {
		h.logger.Warn("oauth callback: email not allowed", "email", claims.Email)
		h.fail(w, r, store, "Your account is not authorized to access this application.")
		return
	}

	issued, err := h.authService.SignInWithGoogle(r.Context(), claims)
	if err != nil {
		var authErr *auth.AuthenticationError
		message := "Failed to create session."
		if errors.As(err, &authErr) {
			message = authErr.Message
		} else {
			h.logger.Error("oauth callback: sign in failed", "error", err)
		}
		h.fail(w, r, store, message)
		return
	}

	if statePayload.RedirectTo != "" {
		if err := redirectMemory(h.storage, r).Remember(r.Context(), statePayload.RedirectTo); err != nil {
			h.logger.Warn("oauth callback: failed to remember redirect", "error", err)
		}
	}

	if err := store.AdoptSession(r.Context(), issued); err != nil {
		h.logger.Error("oauth callback: adopt session failed", "error", err)
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.settle)
	defer cancel()
	_, _ = store.Wait(ctx, func(s session.State) bool { return s.Authenticated() && !s.Loading })

	h.sessions.rotate(w, r)
	h.logger.Info("oauth login successful", "user_id", issued.User.ID, "email", issued.User.Email)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func decodeOAuthState(raw string) (oauthStatePayload, error) {
	var payload oauthStatePayload

	stateBytes, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return payload, err
	}
	if err := json.Unmarshal(stateBytes, &payload); err != nil {
		return payload, err
	}
	if payload.RedirectTo != "" && !redirect.IsValidPath(payload.RedirectTo) {
		payload.RedirectTo = ""
	}
	return payload, nil
}

// fail queues the message for the login page and sends the browser there.
func (h *OAuthHandler) fail(w http.ResponseWriter, r *http.Request, store *session.Store, message string) {
	store.Notify(session.Notification{Title: "Google sign-in failed", Description: message, Destructive: true})
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
