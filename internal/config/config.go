package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the NutriChef web service.
type Config struct {
	Environment    string
	HTTPPort       int
	PublicURL      string
	DatabaseURL    string
	DataStore      string
	SessionStore   string
	RedisAddr      string
	RedisPassword  string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string

	JWTSecret          string
	AuthSessionTTL     time.Duration
	AutoConfirm        bool
	BrowserSessionTTL  time.Duration
	GuardSettleTimeout time.Duration

	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURL    string
	GoogleAllowedDomains []string
	GoogleAllowedEmails  []string
}

const devJWTSecret = "nutrichef-development-secret-do-not-use"

// Load reads configuration from environment variables with sensible defaults for local development.
func Load() (Config, error) {
	databaseURL, err := getEnvOrFile("DATABASE_URL", "/run/secrets/nutrichef_database_url")
	if err != nil {
		return Config{}, err
	}

	jwtSecret, err := getEnvOrFile("AUTH_JWT_SECRET", "/run/secrets/nutrichef_jwt_secret")
	if err != nil {
		return Config{}, err
	}

	googleSecret, err := getEnvOrFile("AUTH_GOOGLE_CLIENT_SECRET", "")
	if err != nil {
		return Config{}, err
	}

	redisPassword, err := getEnvOrFile("REDIS_PASSWORD", "")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment:          strings.ToLower(getEnv("APP_ENV", "development")),
		PublicURL:            strings.TrimSuffix(getEnv("PUBLIC_URL", "http://localhost:8080"), "/"),
		DatabaseURL:          databaseURL,
		DataStore:            strings.ToLower(getEnv("DATA_STORE", "memory")),
		SessionStore:         strings.ToLower(getEnv("SESSION_STORE", "memory")),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        redisPassword,
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:            strings.ToLower(getEnv("LOG_FORMAT", "text")),
		AllowedOrigins:       parseCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:8080")),
		JWTSecret:            strings.TrimSpace(jwtSecret),
		GoogleClientID:       strings.TrimSpace(getEnv("AUTH_GOOGLE_CLIENT_ID", "")),
		GoogleClientSecret:   strings.TrimSpace(googleSecret),
		GoogleRedirectURL:    strings.TrimSpace(getEnv("AUTH_GOOGLE_REDIRECT_URL", "")),
		GoogleAllowedDomains: parseCSV(getEnv("AUTH_GOOGLE_ALLOWED_DOMAINS", "")),
		GoogleAllowedEmails:  parseCSV(getEnv("AUTH_GOOGLE_ALLOWED_EMAILS", "")),
	}

	portValue := getEnv("PORT", getEnv("HTTP_PORT", "8080"))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return Config{}, fmt.Errorf("invalid port %q: %w", portValue, err)
	}
	cfg.HTTPPort = port

	if cfg.AuthSessionTTL, err = getDuration("AUTH_SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.BrowserSessionTTL, err = getDuration("BROWSER_SESSION_TTL", 12*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.GuardSettleTimeout, err = getDuration("GUARD_SETTLE_TIMEOUT", 1500*time.Millisecond); err != nil {
		return Config{}, err
	}

	autoConfirmDefault := "false"
	if cfg.IsDevelopment() {
		autoConfirmDefault = "true"
	}
	if cfg.AutoConfirm, err = strconv.ParseBool(getEnv("AUTH_AUTO_CONFIRM", autoConfirmDefault)); err != nil {
		return Config{}, fmt.Errorf("invalid AUTH_AUTO_CONFIRM: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.DataStore {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATA_STORE is postgres but DATABASE_URL is not set")
		}
	default:
		return fmt.Errorf("unsupported DATA_STORE %q", c.DataStore)
	}

	switch c.SessionStore {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("SESSION_STORE is redis but REDIS_ADDR is not set")
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}

	googleSet := c.GoogleClientID != "" || c.GoogleClientSecret != "" || c.GoogleRedirectURL != ""
	if googleSet && (c.GoogleClientID == "" || c.GoogleClientSecret == "" || c.GoogleRedirectURL == "") {
		return fmt.Errorf("AUTH_GOOGLE_CLIENT_ID, AUTH_GOOGLE_CLIENT_SECRET and AUTH_GOOGLE_REDIRECT_URL must be set together")
	}

	if c.IsDevelopment() {
		return nil
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required outside development")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 32 characters")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS must define at least one origin outside development")
	}
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("ALLOWED_ORIGINS cannot contain wildcard outside development")
		}
	}
	return nil
}

// HTTPAddress returns the address the HTTP server should bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UseInMemoryStore returns true if the in-memory repositories should be used.
func (c Config) UseInMemoryStore() bool {
	return c.DataStore == "memory"
}

// UseRedisSessions returns true if browser-session storage lives in Redis.
func (c Config) UseRedisSessions() bool {
	return c.SessionStore == "redis"
}

// OAuthEnabled reports whether Google sign-in is configured.
func (c Config) OAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// IsDevelopment reports whether the service runs with development defaults.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, raw)
	}
	return value, nil
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvOrFile(key, defaultPath string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	fileKey := key + "_FILE"
	if path := os.Getenv(fileKey); path != "" {
		return readSecret(path, fileKey)
	}

	if defaultPath != "" {
		return readSecret(defaultPath, key)
	}

	return "", nil
}

func readSecret(path, name string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("config: reading %s (%s): %w", name, path, err)
	}

	value := strings.TrimSpace(string(contents))
	if value == "" {
		return "", fmt.Errorf("config: %s (%s) is empty", name, path)
	}
	return value, nil
}
