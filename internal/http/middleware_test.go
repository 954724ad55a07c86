package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"nutrichef/internal/session"
	"nutrichef/internal/websession"
)

func TestSecurityHeaders(t *testing.T) {
	cases := []struct {
		env      string
		wantHSTS bool
	}{
		{env: "development", wantHSTS: false},
		{env: "production", wantHSTS: true},
	}

	for _, tc := range cases {
		t.Run(tc.env, func(t *testing.T) {
			handler := newSecurityHeadersMiddleware(tc.env)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			for _, header := range []string{"X-Content-Type-Options", "X-Frame-Options", "Referrer-Policy", "Content-Security-Policy"} {
				if rec.Header().Get(header) == "" {
					t.Fatalf("expected %s header", header)
				}
			}
			if got := rec.Header().Get("Strict-Transport-Security") != ""; got != tc.wantHSTS {
				t.Fatalf("HSTS present = %v, want %v", got, tc.wantHSTS)
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/health")
	if resp.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.status)
	}
	if !strings.Contains(resp.body, `"status":"ok"`) {
		t.Fatalf("unexpected body %s", resp.body)
	}
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/does-not-exist")
	if resp.status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.status)
	}
	if !strings.Contains(resp.body, "Oops! Page not found") {
		t.Fatal("expected not found page")
	}
}

func TestLandingIsPublicForEveryone(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/")
	if resp.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.status)
	}

	app.signUpAndIn(t, "cook@nutrichef.example")
	resp = app.get(t, "/")
	if resp.status != http.StatusOK {
		t.Fatalf("expected landing page for signed-in user, got %d", resp.status)
	}
	if !strings.Contains(resp.body, `href="/dashboard"`) {
		t.Fatal("expected signed-in navigation")
	}
}

func TestBrowserSessionCookieIsIssuedOnce(t *testing.T) {
	app := newTestApp(t)

	app.get(t, "/")
	first := app.browserSessionID(t)
	app.get(t, "/auth")
	if second := app.browserSessionID(t); second != first {
		t.Fatalf("expected browser session to be reused, got %q then %q", first, second)
	}
	if app.registry.Len() != 1 {
		t.Fatalf("expected one store, got %d", app.registry.Len())
	}
}

func TestBodyLimitRejectsOversizedForm(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/auth/sign-in", url.Values{
		"email":    {"cook@nutrichef.example"},
		"password": {strings.Repeat("x", maxFormBytes)},
	})
	if resp.status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.status)
	}
}

func TestStoreMiddlewareAttachesBrowserStore(t *testing.T) {
	app := newTestApp(t)

	var store *session.Store
	var sid string
	handler := websession.Middleware(false, discardLogger())(newStoreMiddleware(app.registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store = session.FromContext(r.Context())
		sid = websession.IDFromContext(r.Context())
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if sid == "" {
		t.Fatal("expected browser session id")
	}
	if store == nil {
		t.Fatal("expected store in request context")
	}
	if store != app.registry.Get(context.Background(), sid) {
		t.Fatal("expected the registry's store for the browser session")
	}
}

func TestClientIPFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:8080"
	if got := clientIPFromRequest(req); got != "198.51.100.4" {
		t.Fatalf("expected host only, got %q", got)
	}

	req.RemoteAddr = "198.51.100.4"
	if got := clientIPFromRequest(req); got != "198.51.100.4" {
		t.Fatalf("expected raw address, got %q", got)
	}
}
