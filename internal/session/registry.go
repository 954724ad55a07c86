package session

import (
	"context"
	"sync"
	"time"
)

// Factory builds the store for a browser session.
type Factory func(sid string) *Store

// Registry keeps one Store per browser session.
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*Store
	factory Factory
	idle    time.Duration
	now     func() time.Time
}

// NewRegistry creates a registry whose stores are evicted after idle without use.
func NewRegistry(factory Factory, idle time.Duration) *Registry {
	return &Registry{
		stores:  make(map[string]*Store),
		factory: factory,
		idle:    idle,
		now:     time.Now,
	}
}

// Get returns the initialized store for sid, creating it on first use.
func (r *Registry) Get(ctx context.Context, sid string) *Store {
	r.mu.Lock()
	store, ok := r.stores[sid]
	if !ok {
		store = r.factory(sid)
		r.stores[sid] = store
	}
	now := r.now()
	r.mu.Unlock()

	store.Touch(now)
	store.Initialize(ctx)
	return store
}

// Rotate replaces the store of oldSID with a fresh one for newSID. Queued
// notifications move to the new store and the old one is closed.
func (r *Registry) Rotate(ctx context.Context, oldSID, newSID string) *Store {
	r.mu.Lock()
	old := r.stores[oldSID]
	delete(r.stores, oldSID)
	r.mu.Unlock()

	store := r.Get(ctx, newSID)
	if old != nil {
		for _, n := range old.Notifications() {
			store.Notify(n)
		}
		old.Close()
	}
	return store
}

// Sweep closes and forgets stores idle for longer than the idle window.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var stale []*Store
	for sid, store := range r.stores {
		if store.idleSince().Before(cutoff) {
			stale = append(stale, store)
			delete(r.stores, sid)
		}
	}
	r.mu.Unlock()

	for _, store := range stale {
		store.Close()
	}
	return len(stale)
}

// Len reports the number of live stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Close closes every store.
func (r *Registry) Close() {
	r.mu.Lock()
	stores := r.stores
	r.stores = make(map[string]*Store)
	r.mu.Unlock()

	for _, store := range stores {
		store.Close()
	}
}
