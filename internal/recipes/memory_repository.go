package recipes

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository keeps recipes and experts in process memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	recipes map[uuid.UUID]Recipe
	experts map[uuid.UUID]Expert
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		recipes: make(map[uuid.UUID]Recipe),
		experts: make(map[uuid.UUID]Expert),
	}
}

func (r *InMemoryRepository) Create(_ context.Context, recipe Recipe) (Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recipes[recipe.ID] = cloneRecipe(recipe)
	return recipe, nil
}

func (r *InMemoryRepository) Get(_ context.Context, userID, id uuid.UUID) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, ok := r.recipes[id]
	if !ok || recipe.UserID != userID {
		return Entry{}, ErrNotFound
	}
	return r.entryLocked(recipe), nil
}

func (r *InMemoryRepository) List(_ context.Context, userID uuid.UUID, opts ListOptions) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0)
	for _, recipe := range r.recipes {
		if recipe.UserID != userID || !opts.Matches(recipe) {
			continue
		}
		entries = append(entries, r.entryLocked(recipe))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Recipe.CreatedAt.After(entries[j].Recipe.CreatedAt)
	})
	return entries, nil
}

func (r *InMemoryRepository) Cuisines(_ context.Context, userID uuid.UUID) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, recipe := range r.recipes {
		if recipe.UserID == userID && recipe.CuisineType != "" {
			seen[recipe.CuisineType] = struct{}{}
		}
	}

	cuisines := make([]string, 0, len(seen))
	for cuisine := range seen {
		cuisines = append(cuisines, cuisine)
	}
	sort.Strings(cuisines)
	return cuisines, nil
}

func (r *InMemoryRepository) RecentExperts(_ context.Context, limit int) ([]Expert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	experts := make([]Expert, 0, len(r.experts))
	for _, expert := range r.experts {
		experts = append(experts, expert)
	}
	sort.Slice(experts, func(i, j int) bool {
		return experts[i].CreatedAt.After(experts[j].CreatedAt)
	})
	if limit > 0 && len(experts) > limit {
		experts = experts[:limit]
	}
	return experts, nil
}

func (r *InMemoryRepository) CreateExpert(_ context.Context, expert Expert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.experts[expert.ID]; !exists {
		r.experts[expert.ID] = expert
	}
	return nil
}

func (r *InMemoryRepository) entryLocked(recipe Recipe) Entry {
	entry := Entry{Recipe: cloneRecipe(recipe)}
	if recipe.ExpertID != nil {
		if expert, ok := r.experts[*recipe.ExpertID]; ok {
			entry.Expert = &expert
		}
	}
	return entry
}

func cloneRecipe(r Recipe) Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	r.Instructions = slices.Clone(r.Instructions)
	if r.ExpertID != nil {
		id := *r.ExpertID
		r.ExpertID = &id
	}
	return r
}
