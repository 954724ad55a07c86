package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("AUTH_GOOGLE_CLIENT_ID", "")
	t.Setenv("AUTH_GOOGLE_CLIENT_SECRET", "")
	t.Setenv("AUTH_GOOGLE_REDIRECT_URL", "")
	t.Setenv("AUTH_AUTO_CONFIRM", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("GUARD_SETTLE_TIMEOUT", "")
}

func TestLoadDevelopmentDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if !cfg.UseInMemoryStore() {
		t.Fatal("expected in-memory store by default")
	}
	if cfg.UseRedisSessions() {
		t.Fatal("expected memory browser sessions by default")
	}
	if cfg.JWTSecret == "" {
		t.Fatal("expected development JWT secret fallback")
	}
	if !cfg.AutoConfirm {
		t.Fatal("expected auto confirm in development")
	}
	if cfg.OAuthEnabled() {
		t.Fatal("expected Google sign-in to be disabled")
	}
	if cfg.GuardSettleTimeout != 1500*time.Millisecond {
		t.Fatalf("unexpected settle timeout %s", cfg.GuardSettleTimeout)
	}
	if cfg.HTTPAddress() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.HTTPAddress())
	}
}

func TestLoadRequiresJWTSecretOutsideDevelopment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://nutrichef.example")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when AUTH_JWT_SECRET missing outside development")
	}
	if !strings.Contains(err.Error(), "AUTH_JWT_SECRET is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsWildcardOriginsOutsideDevelopment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", strings.Repeat("s", 40))
	t.Setenv("ALLOWED_ORIGINS", "https://nutrichef.example,*")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when ALLOWED_ORIGINS contains wildcard")
	}
	if !strings.Contains(err.Error(), "cannot contain wildcard") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRequiresAllowedOriginsOutsideDevelopment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", strings.Repeat("s", 40))
	t.Setenv("ALLOWED_ORIGINS", "   ")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when ALLOWED_ORIGINS is empty")
	}
	if !strings.Contains(err.Error(), "must define at least one origin") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRequiresCompleteGoogleSettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AUTH_GOOGLE_CLIENT_ID", "client-id")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for partial Google configuration")
	}
	if !strings.Contains(err.Error(), "must be set together") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRequiresRedisAddress(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when SESSION_STORE is redis without REDIS_ADDR")
	}
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATA_STORE", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATA_STORE is postgres without DATABASE_URL")
	}
}

func TestLoadReadsSecretFromFile(t *testing.T) {
	setBaseEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "jwt")
	if err := os.WriteFile(path, []byte("  file-secret  \n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	t.Setenv("AUTH_JWT_SECRET_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.JWTSecret != "file-secret" {
		t.Fatalf("expected secret from file, got %q", cfg.JWTSecret)
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GUARD_SETTLE_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
