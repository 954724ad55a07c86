package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"nutrichef/internal/auth"
	"nutrichef/internal/config"
	"nutrichef/internal/preferences"
	"nutrichef/internal/profiles"
	"nutrichef/internal/recipes"
	"nutrichef/internal/session"
	"nutrichef/internal/websession"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testApp is the whole web stack on in-memory stores, driven by a browser-like client.
type testApp struct {
	server      *httptest.Server
	client      *http.Client
	authRepo    *auth.InMemoryRepository
	authService *auth.Service
	storage     *websession.MemoryStorage
	registry    *session.Registry
	preferences *preferences.Service
	recipes     *recipes.Service
}

type appOption func(*Dependencies)

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()
	return newTestAppWithSessionTTL(t, time.Hour, opts...)
}

// newTestAppWithSessionTTL builds the app with sessions that expire after ttl.
func newTestAppWithSessionTTL(t *testing.T, ttl time.Duration, opts ...appOption) *testApp {
	t.Helper()
	logger := discardLogger()

	tokens, err := auth.NewTokenIssuer("test-secret-with-enough-bytes", "nutrichef")
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	authRepo := auth.NewInMemoryRepository()
	authService := auth.NewService(authRepo, tokens, auth.Options{
		SessionTTL:  ttl,
		AutoConfirm: true,
		Logger:      logger,
	})

	profileService := profiles.NewService(profiles.NewInMemoryRepository())
	preferenceService := preferences.NewService(preferences.NewInMemoryRepository())
	recipeRepo := recipes.NewInMemoryRepository()
	if err := recipes.SeedExperts(context.Background(), recipeRepo, recipes.DefaultExperts()); err != nil {
		t.Fatalf("seed experts: %v", err)
	}
	recipeService := recipes.NewService(recipeRepo, recipeRepo, preferenceService, nil)

	storage := websession.NewMemoryStorage(time.Hour)
	registry := session.NewRegistry(func(sid string) *session.Store {
		client := auth.NewClient(authService, websession.NewScope(storage, sid))
		return session.NewStore(client, profileService, nil, logger)
	}, time.Hour)
	t.Cleanup(registry.Close)

	deps := Dependencies{
		Registry:    registry,
		Storage:     storage,
		Auth:        authService,
		Profiles:    profileService,
		Preferences: preferenceService,
		Recipes:     recipeService,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	cfg := config.Config{
		Environment:        "development",
		AllowedOrigins:     []string{"http://localhost:8080"},
		GuardSettleTimeout: 2 * time.Second,
	}
	handler, err := NewRouter(cfg, deps, logger)
	if err != nil {
		t.Fatalf("NewRouter returned error: %v", err)
	}

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{
		server:      server,
		client:      client,
		authRepo:    authRepo,
		authService: authService,
		storage:     storage,
		registry:    registry,
		preferences: preferenceService,
		recipes:     recipeService,
	}
}

type response struct {
	status   int
	location string
	header   http.Header
	body     string
}

func (a *testApp) do(t *testing.T, method, path string, form url.Values) response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, a.server.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		header:   resp.Header,
		body:     string(raw),
	}
}

func (a *testApp) get(t *testing.T, path string) response {
	t.Helper()
	return a.do(t, http.MethodGet, path, nil)
}

func (a *testApp) post(t *testing.T, path string, form url.Values) response {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return a.do(t, http.MethodPost, path, form)
}

// browserSessionID returns the sid cookie the client holds for the app.
func (a *testApp) browserSessionID(t *testing.T) string {
	t.Helper()
	u, _ := url.Parse(a.server.URL)
	for _, c := range a.client.Jar.Cookies(u) {
		if c.Name == websession.CookieName {
			return c.Value
		}
	}
	t.Fatal("browser session cookie not set")
	return ""
}

// plantSessionCookie makes the client present id as its browser session.
func (a *testApp) plantSessionCookie(t *testing.T, id string) {
	t.Helper()
	u, _ := url.Parse(a.server.URL)
	a.client.Jar.SetCookies(u, []*http.Cookie{{Name: websession.CookieName, Value: id, Path: "/"}})
}

// signUpAndIn registers an account and signs the client in.
func (a *testApp) signUpAndIn(t *testing.T, email string) {
	t.Helper()

	resp := a.post(t, "/auth/sign-up", url.Values{
		"email":           {email},
		"password":        {"secret123"},
		"confirmPassword": {"secret123"},
	})
	if resp.status != http.StatusSeeOther {
		t.Fatalf("sign up: expected 303, got %d: %s", resp.status, resp.body)
	}

	resp = a.post(t, "/auth/sign-in", url.Values{"email": {email}, "password": {"secret123"}})
	if resp.status != http.StatusSeeOther || resp.location != "/auth" {
		t.Fatalf("sign in: expected 303 to /auth, got %d %q: %s", resp.status, resp.location, resp.body)
	}
}

// newBrowser returns a client for the same server with its own cookies, as a
// second browser would have.
func (a *testApp) newBrowser(t *testing.T) *testApp {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	other := *a
	other.client = &http.Client{
		Jar:           jar,
		CheckRedirect: a.client.CheckRedirect,
	}
	return &other
}
