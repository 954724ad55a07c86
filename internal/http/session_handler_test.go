package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nutrichef/internal/websession"
)

func decodeSessionStatus(t *testing.T, body string) sessionStatus {
	t.Helper()
	var status sessionStatus
	if err := json.Unmarshal([]byte(body), &status); err != nil {
		t.Fatalf("decode session status: %v (%s)", err, body)
	}
	return status
}

func TestSessionStatusSignedOut(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/api/session")
	if resp.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.status)
	}
	if got := resp.header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected JSON content type, got %q", got)
	}

	status := decodeSessionStatus(t, resp.body)
	if status.Authenticated || status.Loading || status.User != nil {
		t.Fatalf("expected settled signed-out status, got %+v", status)
	}
}

func TestSessionStatusSignedIn(t *testing.T) {
	app := newTestApp(t)
	app.signUpAndIn(t, "cook@nutrichef.example")

	status := decodeSessionStatus(t, app.get(t, "/api/session").body)
	if !status.Authenticated {
		t.Fatal("expected authenticated status")
	}
	if status.User == nil || status.User.Email != "cook@nutrichef.example" {
		t.Fatalf("unexpected user %+v", status.User)
	}
	if status.ExpiresAt == nil || !status.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", status.ExpiresAt)
	}
}

func TestSessionStatusReportsLoading(t *testing.T) {
	req, _, _ := newLoadingRequest(t, "/api/session")
	rec := httptest.NewRecorder()

	NewSessionHandler(10*time.Millisecond).Status(rec, req)

	status := decodeSessionStatus(t, rec.Body.String())
	if !status.Loading || status.Authenticated {
		t.Fatalf("expected loading status, got %+v", status)
	}
}

func TestSessionStatusWithoutStore(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req = req.WithContext(websession.WithID(req.Context(), "sid"))

	NewSessionHandler(time.Millisecond).Status(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
