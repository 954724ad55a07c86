package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"nutrichef/internal/config"
	"nutrichef/internal/preferences"
	"nutrichef/internal/profiles"
	"nutrichef/internal/recipes"
	"nutrichef/internal/session"
	"nutrichef/internal/websession"
)

// AuthBackend is the part of the auth service the web layer calls directly.
type AuthBackend interface {
	emailConfirmer
	googleSignIn
}

// Dependencies are the services the router wires into handlers.
type Dependencies struct {
	Registry    *session.Registry
	Storage     websession.Storage
	Auth        AuthBackend
	Profiles    *profiles.Service
	Preferences *preferences.Service
	Recipes     *recipes.Service
	// Google is nil when Google sign-in is not configured.
	Google googleAuthenticator
}

// NewRouter wires application routes and middleware using chi.
func NewRouter(cfg config.Config, deps Dependencies, logger *slog.Logger) (http.Handler, error) {
	render, err := newRenderer(logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(newSecurityHeadersMiddleware(cfg.Environment))
	r.Use(newSlogMiddleware(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})

	g := &guards{
		storage: deps.Storage,
		settle:  cfg.GuardSettleTimeout,
		render:  render,
		logger:  logger,
	}
	sessions := &sessionRotator{
		storage:  deps.Storage,
		registry: deps.Registry,
		secure:   !cfg.IsDevelopment(),
		logger:   logger,
	}
	pages := NewPageHandler(render)
	authHandler := NewAuthHandler(deps.Auth, sessions, render, cfg.GuardSettleTimeout, deps.Google != nil, logger)
	profileHandler := NewProfileHandler(deps.Profiles, render, logger)
	preferencesHandler := NewPreferencesHandler(deps.Preferences, render, logger)
	recipeHandler := NewRecipeHandler(deps.Recipes, deps.Preferences, render, logger)
	sessionHandler := NewSessionHandler(cfg.GuardSettleTimeout)

	r.Group(func(r chi.Router) {
		r.Use(websession.Middleware(!cfg.IsDevelopment(), logger))
		r.Use(newStoreMiddleware(deps.Registry))
		r.Use(newBodyLimitMiddleware(maxFormBytes))

		r.Route("/api/session", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   cfg.AllowedOrigins,
				AllowedMethods:   []string{"GET", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
			r.Get("/", sessionHandler.Status)
		})

		r.Get("/", pages.Landing)
		r.Get("/auth/confirm", authHandler.Confirm)
		r.Post("/auth/sign-out", authHandler.SignOut)

		if deps.Google != nil {
			oauthHandler := NewOAuthHandler(deps.Google, deps.Auth, deps.Storage, sessions, cfg.GuardSettleTimeout, cfg.Environment, logger)
			r.Get("/auth/google", oauthHandler.InitiateGoogle)
			r.Get("/auth/google/callback", oauthHandler.CallbackGoogle)
		}

		r.Group(func(r chi.Router) {
			r.Use(g.public)
			r.Get("/auth", authHandler.Page)
			r.Post("/auth/sign-in", authHandler.SignIn)
			r.Post("/auth/sign-up", authHandler.SignUp)
		})

		r.Group(func(r chi.Router) {
			r.Use(g.protected)
			r.Get("/dashboard", profileHandler.Dashboard)
			r.Post("/dashboard", profileHandler.UpdateProfile)
			r.Get("/preferences", preferencesHandler.Show)
			r.Post("/preferences", preferencesHandler.Save)
			r.Get("/recipe-generator", recipeHandler.Generator)
			r.Post("/recipe-generator", recipeHandler.Generate)
			r.Get("/saved-recipes", recipeHandler.Saved)
			r.Get("/saved-recipes/export.csv", recipeHandler.Export)
			r.Get("/recipe/{id}", recipeHandler.Details)
		})

		r.NotFound(pages.NotFound)
	})

	return r, nil
}
