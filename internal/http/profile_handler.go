package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"nutrichef/internal/profiles"
)

type profileReader interface {
	Get(ctx context.Context, userID uuid.UUID) (profiles.Profile, error)
}

// ProfileHandler serves the dashboard and its profile form.
type ProfileHandler struct {
	profiles profileReader
	render   *renderer
	logger   *slog.Logger
}

func NewProfileHandler(profiles profileReader, render *renderer, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, render: render, logger: logger}
}

type dashboardPage struct {
	Email   string
	Profile profiles.Profile
	Form    profileForm
	Errors  fieldErrors
	Editing bool
}

// Dashboard handles GET /dashboard.
func (h *ProfileHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	_, user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("load profile", "user_id", user.ID, "error", err)
		profile = profiles.Profile{ID: user.ID}
	}

	h.render.page(w, r, http.StatusOK, "dashboard", "Dashboard", dashboardPage{
		Email:   user.Email,
		Profile: profile,
		Form:    profileFormFrom(profile),
		Errors:  fieldErrors{},
		Editing: r.URL.Query().Get("edit") != "",
	})
}

// UpdateProfile handles POST /dashboard.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	store, user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	view := dashboardPage{Email: user.Email, Editing: true, Errors: fieldErrors{}}
	if current, err := h.profiles.Get(r.Context(), user.ID); err == nil {
		view.Profile = current
	}

	values, err := parseForm(r)
	if err != nil {
		h.render.page(w, r, http.StatusBadRequest, "dashboard", "Dashboard", view)
		return
	}
	view.Form = parseProfileForm(values)

	if errs := view.Form.validate(); errs.any() {
		view.Errors = errs
		h.render.page(w, r, http.StatusUnprocessableEntity, "dashboard", "Dashboard", view)
		return
	}

	if _, err := store.UpdateProfile(r.Context(), view.Form.patch()); err != nil {
		status := statusForError(err)
		if errors.Is(err, profiles.ErrValidation) {
			status = http.StatusUnprocessableEntity
		} else if status >= http.StatusInternalServerError {
			h.logger.Error("update profile", "user_id", user.ID, "error", err)
		}
		h.render.page(w, r, status, "dashboard", "Dashboard", view)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
