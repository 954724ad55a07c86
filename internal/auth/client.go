package auth

import (
	"context"
	"errors"
)

// AccessTokenKey is the browser-session key holding the provider access token.
const AccessTokenKey = "auth.accessToken"

// Provider is the narrow authentication contract the web layer depends on.
type Provider interface {
	SignUp(ctx context.Context, email, password string) error
	SignInWithPassword(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(fn Listener) Subscription
}

// Backend is the server side of the provider.
type Backend interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	ValidateSession(ctx context.Context, token string) (*Session, error)
	RevokeSession(ctx context.Context, token string) error
}

// TokenStorage persists values for one browser session.
type TokenStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Client is the per-browser provider handle: it keeps the access token in the
// browser's storage and announces sign-in and sign-out to its listeners.
type Client struct {
	backend Backend
	storage TokenStorage
	hub     *Hub
}

var _ Provider = (*Client)(nil)

// NewClient binds a backend to one browser session's storage.
func NewClient(backend Backend, storage TokenStorage) *Client {
	return &Client{backend: backend, storage: storage, hub: NewHub()}
}

// SignUp registers a new account. The browser stays signed out.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	_, err := c.backend.SignUp(ctx, email, password)
	return classify("sign up", err)
}

// SignInWithPassword signs in and emits EventSignedIn on success.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) error {
	session, err := c.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		return classify("sign in", err)
	}
	return c.AdoptSession(ctx, session)
}

// AdoptSession stores a session issued elsewhere, such as a Google callback, and emits EventSignedIn.
func (c *Client) AdoptSession(ctx context.Context, session *Session) error {
	if session == nil {
		return providerErr("adopt session", errors.New("nil session"))
	}
	if err := c.storage.Set(ctx, AccessTokenKey, session.AccessToken); err != nil {
		return providerErr("store token", err)
	}
	c.hub.Emit(EventSignedIn, session)
	return nil
}

// SignOut revokes the current session. On a failed revocation the local token
// is kept and no event is emitted.
func (c *Client) SignOut(ctx context.Context) error {
	token, _, err := c.storage.Get(ctx, AccessTokenKey)
	if err != nil {
		return providerErr("load token", err)
	}
	if err := c.backend.RevokeSession(ctx, token); err != nil {
		return providerErr("sign out", err)
	}
	if err := c.storage.Delete(ctx, AccessTokenKey); err != nil {
		return providerErr("clear token", err)
	}
	c.hub.Emit(EventSignedOut, nil)
	return nil
}

// GetSession returns the live session for this browser, or nil. A stale token is discarded.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	token, ok, err := c.storage.Get(ctx, AccessTokenKey)
	if err != nil {
		return nil, providerErr("load token", err)
	}
	if !ok || token == "" {
		return nil, nil
	}

	session, err := c.backend.ValidateSession(ctx, token)
	if err != nil {
		return nil, providerErr("get session", err)
	}
	if session == nil {
		if err := c.storage.Delete(ctx, AccessTokenKey); err != nil {
			return nil, providerErr("clear token", err)
		}
		return nil, nil
	}
	return session, nil
}

// OnAuthStateChange registers fn for sign-in and sign-out events.
func (c *Client) OnAuthStateChange(fn Listener) Subscription {
	return c.hub.Subscribe(fn)
}

// classify keeps validation and authentication errors as they are and marks
// everything else as a provider failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrAuthentication) {
		return err
	}
	return providerErr(op, err)
}
