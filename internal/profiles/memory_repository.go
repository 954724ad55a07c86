package profiles

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository stores profiles in an in-process map, ideal for local development or tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]Profile
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[uuid.UUID]Profile)}
}

// Get returns the profile of userID.
func (r *InMemoryRepository) Get(_ context.Context, userID uuid.UUID) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.data[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return profile, nil
}

// Upsert applies the patch to the stored profile, creating it if needed.
func (r *InMemoryRepository) Upsert(_ context.Context, userID uuid.UUID, patch Patch, at time.Time) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.data[userID]
	if !ok {
		profile = Profile{ID: userID, CreatedAt: at}
	}
	profile = patch.Apply(profile)
	profile.UpdatedAt = at
	r.data[userID] = profile
	return profile, nil
}
