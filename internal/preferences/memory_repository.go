package preferences

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository stores preferences in an in-process map keyed by user.
type InMemoryRepository struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID]Preferences
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byUser: make(map[uuid.UUID]Preferences)}
}

func (r *InMemoryRepository) FindByUser(_ context.Context, userID uuid.UUID) (Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.byUser[userID]
	if !ok {
		return Preferences{}, ErrNotFound
	}
	return clonePreferences(prefs), nil
}

func (r *InMemoryRepository) Create(_ context.Context, prefs Preferences) (Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[prefs.UserID] = clonePreferences(prefs)
	return prefs, nil
}

func (r *InMemoryRepository) Update(_ context.Context, prefs Preferences) (Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byUser[prefs.UserID]
	if !ok || existing.ID != prefs.ID {
		return Preferences{}, ErrNotFound
	}
	r.byUser[prefs.UserID] = clonePreferences(prefs)
	return prefs, nil
}

func clonePreferences(p Preferences) Preferences {
	p.FavoriteFoods = slices.Clone(p.FavoriteFoods)
	p.Allergies = slices.Clone(p.Allergies)
	p.DietaryRestrictions = slices.Clone(p.DietaryRestrictions)
	p.CuisinePreferences = slices.Clone(p.CuisinePreferences)
	p.NutritionalGoals = slices.Clone(p.NutritionalGoals)
	p.HealthConditions = slices.Clone(p.HealthConditions)
	return p
}
