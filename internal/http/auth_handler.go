package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nutrichef/internal/auth"
	"nutrichef/internal/session"
)

type emailConfirmer interface {
	ConfirmEmail(ctx context.Context, token string) (*auth.User, error)
}

// AuthHandler serves the login/sign-up page and the e-mail/password flows.
type AuthHandler struct {
	confirmer     emailConfirmer
	sessions      *sessionRotator
	render        *renderer
	settle        time.Duration
	googleEnabled bool
	logger        *slog.Logger
}

func NewAuthHandler(confirmer emailConfirmer, sessions *sessionRotator, render *renderer, settle time.Duration, googleEnabled bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		confirmer:     confirmer,
		sessions:      sessions,
		render:        render,
		settle:        settle,
		googleEnabled: googleEnabled,
		logger:        logger,
	}
}

type authPage struct {
	Tab           string
	Login         loginForm
	Signup        signupForm
	Errors        fieldErrors
	GoogleEnabled bool
}

func (h *AuthHandler) view(tab string) authPage {
	return authPage{Tab: tab, Errors: fieldErrors{}, GoogleEnabled: h.googleEnabled}
}

// Page handles GET /auth.
func (h *AuthHandler) Page(w http.ResponseWriter, r *http.Request) {
	tab := "login"
	if r.URL.Query().Get("tab") == "signup" {
		tab = "signup"
	}
	h.render.page(w, r, http.StatusOK, "auth", "Sign in", h.view(tab))
}

// SignIn handles POST /auth/sign-in. The user is set by the provider's
// SIGNED_IN notification, so the handler waits briefly for it before moving
// the browser to a new session ID and back through the public guard.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())
	view := h.view("login")

	values, err := parseForm(r)
	if err != nil {
		h.render.page(w, r, http.StatusBadRequest, "auth", "Sign in", view)
		return
	}
	form := parseLoginForm(values)
	view.Login = loginForm{Email: form.Email}

	if errs := form.validate(); errs.any() {
		view.Errors = errs
		h.render.page(w, r, http.StatusUnprocessableEntity, "auth", "Sign in", view)
		return
	}

	if err := store.SignIn(r.Context(), form.Email, form.Password); err != nil {
		if errors.Is(err, auth.ErrProvider) {
			h.logger.Error("sign in failed", "error", err)
		}
		h.render.page(w, r, statusForError(err), "auth", "Sign in", view)
		return
	}

	h.awaitSession(r.Context(), store, true)
	h.sessions.rotate(w, r)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// SignUp handles POST /auth/sign-up. Nothing reaches the provider unless the
// form is valid.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())
	view := h.view("signup")

	values, err := parseForm(r)
	if err != nil {
		h.render.page(w, r, http.StatusBadRequest, "auth", "Sign up", view)
		return
	}
	form := parseSignupForm(values)
	view.Signup = signupForm{Email: form.Email}

	if errs := form.validate(); errs.any() {
		view.Errors = errs
		h.render.page(w, r, http.StatusUnprocessableEntity, "auth", "Sign up", view)
		return
	}

	if err := store.SignUp(r.Context(), form.Email, form.Password); err != nil {
		if errors.Is(err, auth.ErrProvider) {
			h.logger.Error("sign up failed", "error", err)
		}
		h.render.page(w, r, statusForError(err), "auth", "Sign up", view)
		return
	}

	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// SignOut handles POST /auth/sign-out.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())
	if err := store.SignOut(r.Context()); err != nil {
		h.logger.Error("sign out failed", "error", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.awaitSession(r.Context(), store, false)
	h.sessions.forget(r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Confirm handles GET /auth/confirm?token=.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())

	user, err := h.confirmer.ConfirmEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		var validationErr *auth.ValidationError
		message := "Something went wrong. Please try again."
		if errors.As(err, &validationErr) {
			message = validationErr.Message
		} else {
			h.logger.Error("confirm email failed", "error", err)
		}
		store.Notify(session.Notification{Title: "Confirmation failed", Description: message, Destructive: true})
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	h.logger.Info("email confirmed", "user_id", user.ID)
	store.Notify(session.Notification{Title: "Email confirmed", Description: "Your email is confirmed. You can now sign in."})
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// awaitSession waits up to the settle window for the notification that
// follows a successful sign-in or sign-out.
func (h *AuthHandler) awaitSession(ctx context.Context, store *session.Store, signedIn bool) {
	ctx, cancel := context.WithTimeout(ctx, h.settle)
	defer cancel()

	_, err := store.Wait(ctx, func(s session.State) bool {
		return !s.Loading && s.Authenticated() == signedIn
	})
	if err != nil {
		h.logger.Warn("auth notification not observed in time", "signed_in", signedIn)
	}
}
