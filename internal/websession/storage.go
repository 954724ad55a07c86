package websession

import (
	"context"
	"fmt"
)

// Storage keeps string values per browser session.
type Storage interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	Delete(ctx context.Context, sid, key string) error
	// Drop forgets every value of the browser session.
	Drop(ctx context.Context, sid string) error
}

// Scope is a Storage bound to one browser session.
type Scope struct {
	storage Storage
	sid     string
}

// NewScope binds storage to the browser session sid.
func NewScope(storage Storage, sid string) Scope {
	return Scope{storage: storage, sid: sid}
}

// ID returns the bound browser-session ID.
func (s Scope) ID() string { return s.sid }

func (s Scope) Get(ctx context.Context, key string) (string, bool, error) {
	return s.storage.Get(ctx, s.sid, key)
}

func (s Scope) Set(ctx context.Context, key, value string) error {
	return s.storage.Set(ctx, s.sid, key, value)
}

func (s Scope) Delete(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, s.sid, key)
}

// Rotate moves the named keys of the browser session oldID to a fresh ID and
// drops everything else kept for oldID.
func Rotate(ctx context.Context, storage Storage, oldID string, keys ...string) (string, error) {
	newID, err := NewID()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	for _, key := range keys {
		value, ok, err := storage.Get(ctx, oldID, key)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := storage.Set(ctx, newID, key, value); err != nil {
			return "", fmt.Errorf("copy %s: %w", key, err)
		}
	}

	if err := storage.Drop(ctx, oldID); err != nil {
		return "", fmt.Errorf("drop session: %w", err)
	}
	return newID, nil
}
