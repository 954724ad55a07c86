package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"nutrichef/internal/auth"
	"nutrichef/internal/redirect"
	"nutrichef/internal/websession"
)

func TestSignUpRejectsMismatchedPasswords(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/auth/sign-up", url.Values{
		"email":           {"cook@nutrichef.example"},
		"password":        {"secret123"},
		"confirmPassword": {"secret124"},
	})
	if resp.status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.status)
	}
	if !strings.Contains(resp.body, "Passwords do not match") {
		t.Fatal("expected mismatch message on the form")
	}

	user, err := app.authRepo.FindUserByEmail(context.Background(), "cook@nutrichef.example")
	if err != nil {
		t.Fatalf("FindUserByEmail returned error: %v", err)
	}
	if user != nil {
		t.Fatal("expected no account to be created for an invalid form")
	}
}

func TestSignUpValidatesFields(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/auth/sign-up", url.Values{
		"email":           {"not-an-email"},
		"password":        {"123"},
		"confirmPassword": {"123"},
	})
	if resp.status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.status)
	}
	for _, msg := range []string{"Please enter a valid email address", "Password must be at least 6 characters"} {
		if !strings.Contains(resp.body, msg) {
			t.Fatalf("expected %q in body", msg)
		}
	}
}

func TestSignUpQueuesConfirmationNotice(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/auth/sign-up", url.Values{
		"email":           {"cook@nutrichef.example"},
		"password":        {"secret123"},
		"confirmPassword": {"secret123"},
	})
	if resp.status != http.StatusSeeOther || resp.location != "/auth" {
		t.Fatalf("expected 303 to /auth, got %d %q", resp.status, resp.location)
	}

	resp = app.get(t, "/auth")
	if !strings.Contains(resp.body, "Account created!") {
		t.Fatal("expected account created notification")
	}

	// Notifications are shown once.
	resp = app.get(t, "/auth")
	if strings.Contains(resp.body, "Account created!") {
		t.Fatal("expected notification to be drained after the first render")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	form := url.Values{
		"email":           {"cook@nutrichef.example"},
		"password":        {"secret123"},
		"confirmPassword": {"secret123"},
	}
	app.post(t, "/auth/sign-up", form)

	resp := app.post(t, "/auth/sign-up", form)
	if resp.status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.status)
	}
	if !strings.Contains(resp.body, "User already registered") {
		t.Fatal("expected duplicate account message")
	}
}

func TestSignInWithBadCredentials(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/auth/sign-in", url.Values{
		"email":    {"nobody@nutrichef.example"},
		"password": {"secret123"},
	})
	if resp.status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.status)
	}
	if !strings.Contains(resp.body, "Invalid login credentials") {
		t.Fatal("expected provider message on the page")
	}
	if !strings.Contains(resp.body, "Sign in failed") {
		t.Fatal("expected sign in failed notification")
	}
}

func TestSignInInvalidFormNeverReachesProvider(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/auth/sign-in", url.Values{"email": {"bad"}, "password": {""}})
	if resp.status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.status)
	}
	if strings.Contains(resp.body, "Sign in failed") {
		t.Fatal("expected no provider call for an invalid form")
	}
}

func TestSignOutEndsSession(t *testing.T) {
	app := newTestApp(t)
	app.signUpAndIn(t, "cook@nutrichef.example")

	resp := app.post(t, "/auth/sign-out", nil)
	if resp.status != http.StatusSeeOther || resp.location != "/" {
		t.Fatalf("expected 303 to /, got %d %q", resp.status, resp.location)
	}

	resp = app.get(t, "/dashboard")
	if resp.status != http.StatusSeeOther || resp.location != "/auth" {
		t.Fatalf("expected signed-out visitor to be sent to /auth, got %d %q", resp.status, resp.location)
	}
}

func TestConfirmWithInvalidToken(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/auth/confirm?token=bogus")
	if resp.status != http.StatusSeeOther || resp.location != "/auth" {
		t.Fatalf("expected 303 to /auth, got %d %q", resp.status, resp.location)
	}

	resp = app.get(t, "/auth")
	if !strings.Contains(resp.body, "Confirmation failed") {
		t.Fatal("expected confirmation failure notification")
	}
}

func TestDashboardProfileUpdate(t *testing.T) {
	app := newTestApp(t)
	app.signUpAndIn(t, "cook@nutrichef.example")

	resp := app.post(t, "/dashboard", url.Values{"first_name": {""}, "last_name": {"Ellison"}})
	if resp.status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.status)
	}
	if !strings.Contains(resp.body, "First name is required") {
		t.Fatal("expected first name message")
	}

	resp = app.post(t, "/dashboard", url.Values{"first_name": {"Maya"}, "last_name": {"Ellison"}})
	if resp.status != http.StatusSeeOther || resp.location != "/dashboard" {
		t.Fatalf("expected 303 to /dashboard, got %d %q", resp.status, resp.location)
	}

	resp = app.get(t, "/dashboard")
	if !strings.Contains(resp.body, "Profile updated") {
		t.Fatal("expected profile updated notification")
	}
	if !strings.Contains(resp.body, "Maya") {
		t.Fatal("expected updated name on the dashboard")
	}
}

func TestSignInIssuesNewBrowserSession(t *testing.T) {
	app := newTestApp(t)
	planted, err := websession.NewID()
	if err != nil {
		t.Fatalf("NewID returned error: %v", err)
	}
	app.plantSessionCookie(t, planted)

	app.get(t, "/preferences")
	if app.browserSessionID(t) != planted {
		t.Fatal("expected the planted cookie to be used before sign-in")
	}

	app.signUpAndIn(t, "cook@nutrichef.example")

	rotated := app.browserSessionID(t)
	if rotated == planted {
		t.Fatal("expected sign-in to issue a new browser session id")
	}
	ctx := context.Background()
	for _, key := range []string{auth.AccessTokenKey, redirect.Key} {
		if _, ok, _ := app.storage.Get(ctx, planted, key); ok {
			t.Fatalf("expected %s to be gone from the old browser session", key)
		}
	}

	resp := app.get(t, "/auth")
	if resp.location != "/preferences" {
		t.Fatalf("expected remembered destination to survive rotation, got %q", resp.location)
	}
	if resp := app.get(t, "/preferences"); resp.status != http.StatusOK {
		t.Fatalf("expected signed-in page on the new session, got %d", resp.status)
	}

	attacker := app.newBrowser(t)
	attacker.plantSessionCookie(t, planted)
	resp = attacker.get(t, "/dashboard")
	if resp.status != http.StatusSeeOther || resp.location != "/auth" {
		t.Fatalf("expected the old id to stay signed out, got %d %q", resp.status, resp.location)
	}
}

func TestSignOutDropsBrowserSessionValues(t *testing.T) {
	app := newTestApp(t)
	app.get(t, "/saved-recipes")
	app.signUpAndIn(t, "cook@nutrichef.example")
	sid := app.browserSessionID(t)

	app.post(t, "/auth/sign-out", nil)

	ctx := context.Background()
	for _, key := range []string{auth.AccessTokenKey, redirect.Key} {
		if _, ok, _ := app.storage.Get(ctx, sid, key); ok {
			t.Fatalf("expected %s to be dropped on sign-out", key)
		}
	}
}
