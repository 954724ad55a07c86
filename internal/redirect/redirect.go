// Package redirect remembers where a signed-out visitor was heading so the
// login flow can send them back there.
package redirect

import (
	"context"
	"net/url"
	"strings"
)

// Key is the browser-session key holding the remembered path.
const Key = "redirectAfterLogin"

// KeyValue is the browser-session storage the memory writes to.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Memory stores at most one pending destination per browser session.
type Memory struct {
	kv KeyValue
}

// New binds a Memory to one browser session's storage.
func New(kv KeyValue) Memory {
	return Memory{kv: kv}
}

// Remember records path as the post-login destination. Unsafe paths are ignored.
func (m Memory) Remember(ctx context.Context, path string) error {
	if !IsValidPath(path) {
		return nil
	}
	return m.kv.Set(ctx, Key, path)
}

// Destination returns the remembered path, or fallback when none is stored.
// The value is left in place.
func (m Memory) Destination(ctx context.Context, fallback string) (string, error) {
	path, ok, err := m.kv.Get(ctx, Key)
	if err != nil {
		return fallback, err
	}
	if !ok || !IsValidPath(path) {
		return fallback, nil
	}
	return path, nil
}

// Clear forgets the remembered path.
func (m Memory) Clear(ctx context.Context) error {
	return m.kv.Delete(ctx, Key)
}

// IsValidPath reports whether path is a safe same-origin relative redirect:
// it starts with a single "/" and has no scheme or host, even after decoding.
func IsValidPath(path string) bool {
	if path == "" {
		return false
	}

	// Decode to catch encoded bypass attempts like /%2f%2f
	decoded, err := url.QueryUnescape(path)
	if err != nil {
		return false
	}

	if !strings.HasPrefix(decoded, "/") || strings.HasPrefix(decoded, "//") || strings.HasPrefix(decoded, "/\\") {
		return false
	}

	parsed, err := url.Parse(decoded)
	if err != nil {
		return false
	}
	return parsed.Scheme == "" && parsed.Host == ""
}
