package main

import (
	"context"
	"log/slog"

	"nutrichef/internal/auth"
	"nutrichef/internal/config"
	"nutrichef/internal/platform/database"
	"nutrichef/internal/platform/migrate"
	"nutrichef/internal/preferences"
	"nutrichef/internal/profiles"
	"nutrichef/internal/recipes"
	"nutrichef/internal/websession"
)

type repositories struct {
	auth        auth.Repository
	profiles    profiles.Repository
	preferences preferences.Repository
	recipes     recipes.Repository
	experts     recipes.ExpertRepository
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func(), error) {
	if cfg.UseInMemoryStore() {
		logger.Info("using in-memory repositories")
		recipeRepo := recipes.NewInMemoryRepository()
		if err := recipes.SeedExperts(ctx, recipeRepo, recipes.DefaultExperts()); err != nil {
			return repositories{}, nil, err
		}
		return repositories{
			auth:        auth.NewInMemoryRepository(),
			profiles:    profiles.NewInMemoryRepository(),
			preferences: preferences.NewInMemoryRepository(),
			recipes:     recipeRepo,
			experts:     recipeRepo,
		}, nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return repositories{}, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	if err := migrate.Apply(ctx, db, logger); err != nil {
		cleanup()
		return repositories{}, nil, err
	}

	logger.Info("connected to postgres")
	recipeRepo := recipes.NewPostgresRepository(db)
	return repositories{
		auth:        auth.NewPostgresRepository(db),
		profiles:    profiles.NewPostgresRepository(db),
		preferences: preferences.NewPostgresRepository(db),
		recipes:     recipeRepo,
		experts:     recipeRepo,
	}, cleanup, nil
}

func buildBrowserStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (websession.Storage, func(), error) {
	if !cfg.UseRedisSessions() {
		logger.Info("using in-memory browser sessions")
		return websession.NewMemoryStorage(cfg.BrowserSessionTTL), nil, nil
	}

	client, err := websession.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to redis", "addr", cfg.RedisAddr)
	return websession.NewRedisStorage(client, cfg.BrowserSessionTTL), func() { _ = client.Close() }, nil
}
