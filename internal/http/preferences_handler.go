package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"nutrichef/internal/preferences"
	"nutrichef/internal/session"
)

type preferencesService interface {
	Get(ctx context.Context, userID uuid.UUID) (preferences.Preferences, error)
	Save(ctx context.Context, userID uuid.UUID, input preferences.Input) (preferences.Preferences, error)
}

// PreferencesHandler serves the dietary preferences form.
type PreferencesHandler struct {
	service preferencesService
	render  *renderer
	logger  *slog.Logger
}

func NewPreferencesHandler(service preferencesService, render *renderer, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{service: service, render: render, logger: logger}
}

type preferencesPage struct {
	Input          preferences.Input
	Error          string
	DietaryOptions []preferences.Option
	CuisineOptions []preferences.Option
	GoalOptions    []preferences.Option
}

func newPreferencesPage(input preferences.Input) preferencesPage {
	return preferencesPage{
		Input:          input,
		DietaryOptions: preferences.DietaryRestrictionOptions,
		CuisineOptions: preferences.CuisineOptions,
		GoalOptions:    preferences.NutritionalGoalOptions,
	}
}

// Show handles GET /preferences.
func (h *PreferencesHandler) Show(w http.ResponseWriter, r *http.Request) {
	_, user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	prefs, err := h.service.Get(r.Context(), user.ID)
	if err != nil && !errors.Is(err, preferences.ErrNotFound) {
		h.logger.Error("load preferences", "user_id", user.ID, "error", err)
	}

	h.render.page(w, r, http.StatusOK, "preferences", "Preferences", newPreferencesPage(preferences.Input{
		FavoriteFoods:       prefs.FavoriteFoods,
		Allergies:           prefs.Allergies,
		DietaryRestrictions: prefs.DietaryRestrictions,
		CuisinePreferences:  prefs.CuisinePreferences,
		NutritionalGoals:    prefs.NutritionalGoals,
		HealthConditions:    prefs.HealthConditions,
	}))
}

// Save handles POST /preferences and continues to the recipe generator.
func (h *PreferencesHandler) Save(w http.ResponseWriter, r *http.Request) {
	store, user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	values, err := parseForm(r)
	if err != nil {
		h.render.page(w, r, http.StatusBadRequest, "preferences", "Preferences", newPreferencesPage(preferences.Input{}))
		return
	}
	input := parsePreferencesForm(values)

	if _, err := h.service.Save(r.Context(), user.ID, input); err != nil {
		view := newPreferencesPage(input)
		var validationErr *preferences.ValidationError
		if errors.As(err, &validationErr) {
			view.Error = validationErr.Message
			h.render.page(w, r, http.StatusUnprocessableEntity, "preferences", "Preferences", view)
			return
		}
		h.logger.Error("save preferences", "user_id", user.ID, "error", err)
		store.Notify(session.Notification{Title: "Error", Description: "Failed to save preferences. Please try again.", Destructive: true})
		h.render.page(w, r, http.StatusInternalServerError, "preferences", "Preferences", view)
		return
	}

	store.Notify(session.Notification{Title: "Success", Description: "Preferences saved successfully"})
	http.Redirect(w, r, "/recipe-generator", http.StatusSeeOther)
}
