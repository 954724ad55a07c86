package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"nutrichef/internal/auth"
	"nutrichef/internal/config"
	transporthttp "nutrichef/internal/http"
	"nutrichef/internal/platform/logging"
	"nutrichef/internal/preferences"
	"nutrichef/internal/profiles"
	"nutrichef/internal/recipes"
	"nutrichef/internal/session"
	"nutrichef/internal/websession"
)

const janitorInterval = 5 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	repos, cleanupRepos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	if cleanupRepos != nil {
		defer cleanupRepos()
	}

	browserStorage, cleanupStorage, err := buildBrowserStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize browser session storage", "error", err)
		os.Exit(1)
	}
	if cleanupStorage != nil {
		defer cleanupStorage()
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, "nutrichef")
	if err != nil {
		logger.Error("failed to initialize token issuer", "error", err)
		os.Exit(1)
	}
	authSvc := auth.NewService(repos.auth, tokens, auth.Options{
		SessionTTL:  cfg.AuthSessionTTL,
		AutoConfirm: cfg.AutoConfirm,
		ConfirmURL:  cfg.PublicURL + "/auth/confirm",
		Logger:      logger,
	})

	profileSvc := profiles.NewService(repos.profiles)
	preferenceSvc := preferences.NewService(repos.preferences)
	recipeSvc := recipes.NewService(repos.recipes, repos.experts, preferenceSvc, nil)

	registry := session.NewRegistry(func(sid string) *session.Store {
		client := auth.NewClient(authSvc, websession.NewScope(browserStorage, sid))
		return session.NewStore(client, profileSvc, nil, logger.With("component", "session"))
	}, cfg.BrowserSessionTTL)
	defer registry.Close()

	deps := transporthttp.Dependencies{
		Registry:    registry,
		Storage:     browserStorage,
		Auth:        authSvc,
		Profiles:    profileSvc,
		Preferences: preferenceSvc,
		Recipes:     recipeSvc,
	}

	if cfg.OAuthEnabled() {
		google, err := auth.NewGoogleAuthenticator(ctx, auth.GoogleConfig{
			ClientID:       cfg.GoogleClientID,
			ClientSecret:   cfg.GoogleClientSecret,
			RedirectURL:    cfg.GoogleRedirectURL,
			AllowedDomains: cfg.GoogleAllowedDomains,
			AllowedEmails:  cfg.GoogleAllowedEmails,
		})
		if err != nil {
			logger.Error("failed to initialize Google sign-in", "error", err)
			os.Exit(1)
		}
		if !google.HasAllowlist() {
			logger.Warn("Google sign-in has no allowlist; any verified Google account can sign in")
		}
		deps.Google = google
	}

	router, err := transporthttp.NewRouter(cfg, deps, logger)
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go runJanitor(ctx, authSvc, registry, browserStorage, logger)

	go func() {
		logger.Info("NutriChef listening", "addr", srv.Addr, "store", cfg.DataStore, "sessions", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

type sweeper interface {
	Sweep() int
}

// runJanitor periodically drops expired auth sessions, idle stores and, for
// the in-memory storage, expired browser sessions.
func runJanitor(ctx context.Context, authSvc *auth.Service, registry *session.Registry, storage websession.Storage, logger *slog.Logger) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := authSvc.CleanupExpiredSessions(ctx)
			if err != nil {
				logger.Warn("expired session cleanup failed", "error", err)
			}
			stores := registry.Sweep()
			browser := 0
			if s, ok := storage.(sweeper); ok {
				browser = s.Sweep()
			}
			if removed > 0 || stores > 0 || browser > 0 {
				logger.Info("janitor sweep", "auth_sessions", removed, "stores", stores, "browser_sessions", browser)
			}
		}
	}
}
