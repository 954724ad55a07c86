package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mapStorage struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMapStorage() *mapStorage {
	return &mapStorage{values: make(map[string]string)}
}

func (m *mapStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *mapStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *mapStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.values, key)
	return nil
}

type backendStub struct {
	signUp          func(ctx context.Context, email, password string) (*User, error)
	signIn          func(ctx context.Context, email, password string) (*Session, error)
	validateSession func(ctx context.Context, token string) (*Session, error)
	revokeSession   func(ctx context.Context, token string) error
}

func (b *backendStub) SignUp(ctx context.Context, email, password string) (*User, error) {
	if b.signUp != nil {
		return b.signUp(ctx, email, password)
	}
	return &User{ID: uuid.New(), Email: email}, nil
}

func (b *backendStub) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if b.signIn != nil {
		return b.signIn(ctx, email, password)
	}
	return &Session{ID: uuid.New(), AccessToken: "token", User: User{ID: uuid.New(), Email: email}}, nil
}

func (b *backendStub) ValidateSession(ctx context.Context, token string) (*Session, error) {
	if b.validateSession != nil {
		return b.validateSession(ctx, token)
	}
	return nil, nil
}

func (b *backendStub) RevokeSession(ctx context.Context, token string) error {
	if b.revokeSession != nil {
		return b.revokeSession(ctx, token)
	}
	return nil
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for auth event")
		return ""
	}
}

func TestClientSignInStoresTokenAndEmits(t *testing.T) {
	storage := newMapStorage()
	client := NewClient(&backendStub{}, storage)
	events := make(chan Event, 4)
	sub := client.OnAuthStateChange(func(event Event, _ *Session) { events <- event })
	defer sub.Unsubscribe()

	if err := client.SignInWithPassword(context.Background(), "cook@nutrichef.example", "secret1"); err != nil {
		t.Fatalf("SignInWithPassword returned error: %v", err)
	}
	if event := waitEvent(t, events); event != EventSignedIn {
		t.Fatalf("expected SIGNED_IN, got %s", event)
	}
	if storage.values[AccessTokenKey] != "token" {
		t.Fatalf("expected token to be stored, got %q", storage.values[AccessTokenKey])
	}
}

func TestClientSignInPassesThroughAuthenticationErrors(t *testing.T) {
	backend := &backendStub{
		signIn: func(ctx context.Context, email, password string) (*Session, error) {
			return nil, authenticationErr("Invalid login credentials")
		},
	}
	client := NewClient(backend, newMapStorage())

	err := client.SignInWithPassword(context.Background(), "cook@nutrichef.example", "bad")
	var authError *AuthenticationError
	if !errors.As(err, &authError) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
}

func TestClientSignOutFailureKeepsToken(t *testing.T) {
	storage := newMapStorage()
	storage.values[AccessTokenKey] = "token"
	backend := &backendStub{
		revokeSession: func(ctx context.Context, token string) error {
			return errors.New("network unreachable")
		},
	}
	client := NewClient(backend, storage)
	events := make(chan Event, 4)
	sub := client.OnAuthStateChange(func(event Event, _ *Session) { events <- event })
	defer sub.Unsubscribe()

	err := client.SignOut(context.Background())
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if storage.values[AccessTokenKey] != "token" {
		t.Fatal("expected token to survive a failed sign out")
	}
	select {
	case event := <-events:
		t.Fatalf("expected no event, got %s", event)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestClientSignOutClearsTokenAndEmits(t *testing.T) {
	storage := newMapStorage()
	storage.values[AccessTokenKey] = "token"
	var revoked string
	backend := &backendStub{
		revokeSession: func(ctx context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	client := NewClient(backend, storage)
	events := make(chan Event, 4)
	sub := client.OnAuthStateChange(func(event Event, _ *Session) { events <- event })
	defer sub.Unsubscribe()

	if err := client.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if revoked != "token" {
		t.Fatalf("expected stored token to be revoked, got %q", revoked)
	}
	if _, ok := storage.values[AccessTokenKey]; ok {
		t.Fatal("expected token to be cleared")
	}
	if event := waitEvent(t, events); event != EventSignedOut {
		t.Fatalf("expected SIGNED_OUT, got %s", event)
	}
}

func TestClientGetSessionDropsStaleToken(t *testing.T) {
	storage := newMapStorage()
	storage.values[AccessTokenKey] = "stale"
	client := NewClient(&backendStub{}, storage)

	session, err := client.GetSession(context.Background())
	if err != nil || session != nil {
		t.Fatalf("GetSession returned %v, %v", session, err)
	}
	if _, ok := storage.values[AccessTokenKey]; ok {
		t.Fatal("expected stale token to be removed")
	}
}

func TestClientGetSessionReportsStorageFailure(t *testing.T) {
	storage := newMapStorage()
	storage.err = errors.New("redis: connection refused")
	client := NewClient(&backendStub{}, storage)

	if _, err := client.GetSession(context.Background()); !errors.Is(err, ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestClientSignUpDoesNotEmit(t *testing.T) {
	client := NewClient(&backendStub{}, newMapStorage())
	events := make(chan Event, 1)
	sub := client.OnAuthStateChange(func(event Event, _ *Session) { events <- event })
	defer sub.Unsubscribe()

	if err := client.SignUp(context.Background(), "cook@nutrichef.example", "secret1"); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	select {
	case event := <-events:
		t.Fatalf("expected no event after sign up, got %s", event)
	case <-time.After(20 * time.Millisecond):
	}
}
