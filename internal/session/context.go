package session

import "context"

type contextKey struct{}

// WithStore returns a context carrying the browser's store.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, store)
}

// FromContext returns the store attached by WithStore, or nil.
func FromContext(ctx context.Context) *Store {
	store, _ := ctx.Value(contextKey{}).(*Store)
	return store
}
