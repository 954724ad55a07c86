package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nutrichef/internal/exporter"
	"nutrichef/internal/preferences"
	"nutrichef/internal/recipes"
	"nutrichef/internal/session"
)

type recipeService interface {
	Generate(ctx context.Context, userID uuid.UUID, req recipes.Request) (recipes.Entry, error)
	List(ctx context.Context, userID uuid.UUID, opts recipes.ListOptions) ([]recipes.Entry, error)
	Cuisines(ctx context.Context, userID uuid.UUID) ([]string, error)
	Get(ctx context.Context, userID, id uuid.UUID) (recipes.Entry, error)
}

type preferencesReader interface {
	Get(ctx context.Context, userID uuid.UUID) (preferences.Preferences, error)
}

// RecipeHandler serves the generator, the saved recipes list and recipe details.
type RecipeHandler struct {
	recipes     recipeService
	preferences preferencesReader
	render      *renderer
	logger      *slog.Logger
}

func NewRecipeHandler(recipes recipeService, prefs preferencesReader, render *renderer, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, preferences: prefs, render: render, logger: logger}
}

type generatorPage struct {
	Request      recipes.Request
	Result       *recipes.Entry
	Error        string
	MealTypes    []string
	Complexities []string
	PrepTimes    []int
	Servings     []int
}

func newGeneratorPage(req recipes.Request) generatorPage {
	return generatorPage{
		Request:      req,
		MealTypes:    recipes.MealTypes,
		Complexities: recipes.Complexities,
		PrepTimes:    recipes.PrepTimes,
		Servings:     recipes.ServingOptions,
	}
}

var preferencesMissing = session.Notification{
	Title:       "Preferences not found",
	Description: "Please set your dietary preferences first.",
	Destructive: true,
}

// Generator handles GET /recipe-generator. Members without saved preferences
// are sent to the preferences form.
func (h *RecipeHandler) Generator(w http.ResponseWriter, r *http.Request) {
	store, user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	if _, err := h.preferences.Get(r.Context(), user.ID); err != nil {
		if errors.Is(err, preferences.ErrNotFound) {
			store.Notify(preferencesMissing)
			http.Redirect(w, r, "/preferences", http.StatusSeeOther)
			return
		}
		h.logger.Error("load preferences", "user_id", user.ID, "error", err)
	}

	h.render.page(w, r, http.StatusOK, "generator", "Recipe Generator", newGeneratorPage(recipes.DefaultRequest()))
}

// Generate handles POST /recipe-generator and shows the saved result.
func (h *RecipeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	store, user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	values, err := parseForm(r)
	if err != nil {
		h.render.page(w, r, http.StatusBadRequest, "generator", "Recipe Generator", newGeneratorPage(recipes.DefaultRequest()))
		return
	}
	req := parseGeneratorForm(values)
	view := newGeneratorPage(req)

	entry, err := h.recipes.Generate(r.Context(), user.ID, req)
	if err != nil {
		var validationErr *recipes.ValidationError
		switch {
		case errors.Is(err, preferences.ErrNotFound):
			store.Notify(preferencesMissing)
			http.Redirect(w, r, "/preferences", http.StatusSeeOther)
		case errors.As(err, &validationErr):
			view.Request = recipes.DefaultRequest()
			view.Error = validationErr.Message
			h.render.page(w, r, http.StatusUnprocessableEntity, "generator", "Recipe Generator", view)
		default:
			h.logger.Error("generate recipe", "user_id", user.ID, "error", err)
			store.Notify(session.Notification{Title: "Error", Description: "Failed to generate recipe. Please try again.", Destructive: true})
			h.render.page(w, r, http.StatusInternalServerError, "generator", "Recipe Generator", view)
		}
		return
	}

	h.logger.Info("recipe generated", "user_id", user.ID, "recipe_id", entry.Recipe.ID, "cuisine", entry.Recipe.CuisineType)
	store.Notify(session.Notification{
		Title:       "Recipe Generated",
		Description: `"` + entry.Recipe.Title + `" has been created based on your preferences.`,
	})
	view.Result = &entry
	h.render.page(w, r, http.StatusOK, "generator", "Recipe Generator", view)
}

type savedPage struct {
	Entries  []recipes.Entry
	Cuisines []string
	Query    string
	Cuisine  string
}

// Saved handles GET /saved-recipes?q=&cuisine=.
func (h *RecipeHandler) Saved(w http.ResponseWriter, r *http.Request) {
	store, user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	query := r.URL.Query()
	view := savedPage{
		Query:   strings.TrimSpace(query.Get("q")),
		Cuisine: strings.TrimSpace(query.Get("cuisine")),
	}

	entries, err := h.recipes.List(r.Context(), user.ID, recipes.ListOptions{Query: view.Query, Cuisine: view.Cuisine})
	if err == nil {
		view.Entries = entries
		view.Cuisines, err = h.recipes.Cuisines(r.Context(), user.ID)
	}
	if err != nil {
		h.logger.Error("list saved recipes", "user_id", user.ID, "error", err)
		store.Notify(session.Notification{Title: "Error", Description: "Failed to load your saved recipes.", Destructive: true})
		h.render.page(w, r, http.StatusInternalServerError, "saved", "Saved Recipes", savedPage{Query: view.Query, Cuisine: view.Cuisine})
		return
	}

	h.render.page(w, r, http.StatusOK, "saved", "Saved Recipes", view)
}

// Export handles GET /saved-recipes/export.csv with the same filters as Saved.
func (h *RecipeHandler) Export(w http.ResponseWriter, r *http.Request) {
	store, user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	query := r.URL.Query()
	entries, err := h.recipes.List(r.Context(), user.ID, recipes.ListOptions{
		Query:   strings.TrimSpace(query.Get("q")),
		Cuisine: strings.TrimSpace(query.Get("cuisine")),
	})
	if err != nil {
		h.logger.Error("export saved recipes", "user_id", user.ID, "error", err)
		store.Notify(session.Notification{Title: "Error", Description: "Failed to export your saved recipes.", Destructive: true})
		http.Redirect(w, r, "/saved-recipes", http.StatusSeeOther)
		return
	}

	filename := "nutrichef-recipes-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Cache-Control", "no-store")

	if err := exporter.NewCSVExporter().Export(w, entries); err != nil {
		h.logger.Error("write recipe export", "user_id", user.ID, "error", err)
	}
}

// Details handles GET /recipe/{id}. Unknown or foreign recipes send the
// member back to the saved list.
func (h *RecipeHandler) Details(w http.ResponseWriter, r *http.Request) {
	store, user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	var entry recipes.Entry
	if err == nil {
		entry, err = h.recipes.Get(r.Context(), user.ID, id)
	}
	if err != nil {
		if !errors.Is(err, recipes.ErrNotFound) {
			h.logger.Warn("load recipe", "user_id", user.ID, "id", chi.URLParam(r, "id"), "error", err)
		}
		store.Notify(session.Notification{Title: "Error", Description: "Failed to load recipe details.", Destructive: true})
		http.Redirect(w, r, "/saved-recipes", http.StatusSeeOther)
		return
	}

	h.render.page(w, r, http.StatusOK, "recipe", entry.Recipe.Title, entry)
}
