package recipes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"nutrichef/internal/preferences"
)

type prefsStub struct {
	getFn func(ctx context.Context, userID uuid.UUID) (preferences.Preferences, error)
}

func (s prefsStub) Get(ctx context.Context, userID uuid.UUID) (preferences.Preferences, error) {
	return s.getFn(ctx, userID)
}

func savedPrefs(cuisines ...string) prefsStub {
	return prefsStub{getFn: func(context.Context, uuid.UUID) (preferences.Preferences, error) {
		return preferences.Preferences{CuisinePreferences: cuisines}, nil
	}}
}

func newTestService(t *testing.T, prefs PreferencesReader) (*Service, *InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	if err := SeedExperts(context.Background(), repo, DefaultExperts()); err != nil {
		t.Fatalf("seed experts: %v", err)
	}
	return NewService(repo, repo, prefs, &Generator{intn: firstPick}), repo
}

func TestGenerateSavesRecipeWithExpert(t *testing.T) {
	svc, _ := newTestService(t, savedPrefs("indian"))
	ctx := context.Background()
	userID := uuid.New()

	req := DefaultRequest()
	req.PrepTime = 45
	entry, err := svc.Generate(ctx, userID, req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if entry.Recipe.PrepTime != 45 || entry.Recipe.CookTime != 22 {
		t.Fatalf("unexpected timings prep=%d cook=%d", entry.Recipe.PrepTime, entry.Recipe.CookTime)
	}
	if entry.Expert == nil || entry.Recipe.ExpertID == nil || *entry.Recipe.ExpertID != entry.Expert.ID {
		t.Fatalf("expected the recipe to be credited to its expert, got %+v", entry)
	}
	// the newest seeded expert comes first
	if entry.Expert.Name != "Lena Vogel" {
		t.Fatalf("expected newest expert, got %q", entry.Expert.Name)
	}

	stored, err := svc.Get(ctx, userID, entry.Recipe.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.Expert == nil || stored.Recipe.Title != entry.Recipe.Title {
		t.Fatalf("unexpected stored entry %+v", stored)
	}
}

func TestGenerateRequiresPreferences(t *testing.T) {
	svc, _ := newTestService(t, prefsStub{getFn: func(context.Context, uuid.UUID) (preferences.Preferences, error) {
		return preferences.Preferences{}, preferences.ErrNotFound
	}})

	_, err := svc.Generate(context.Background(), uuid.New(), DefaultRequest())
	if !errors.Is(err, preferences.ErrNotFound) {
		t.Fatalf("expected preferences.ErrNotFound, got %v", err)
	}
}

func TestGenerateRequiresExperts(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, repo, savedPrefs(), &Generator{intn: firstPick})

	_, err := svc.Generate(context.Background(), uuid.New(), DefaultRequest())
	if !errors.Is(err, ErrNoExperts) {
		t.Fatalf("expected ErrNoExperts, got %v", err)
	}
}

func TestGenerateRejectsUnknownOptions(t *testing.T) {
	svc, _ := newTestService(t, savedPrefs())

	req := DefaultRequest()
	req.Servings = 3
	if _, err := svc.Generate(context.Background(), uuid.New(), req); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListFiltersAndScopesByUser(t *testing.T) {
	svc, repo := newTestService(t, savedPrefs())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	fixtures := []Recipe{
		{ID: uuid.New(), UserID: owner, Title: "Greek Salad", Description: "Fresh", CuisineType: "mediterranean", CreatedAt: base},
		{ID: uuid.New(), UserID: owner, Title: "Butter Chicken", Description: "Rich curry", CuisineType: "indian", CreatedAt: base.Add(time.Hour)},
		{ID: uuid.New(), UserID: owner, Title: "Vegetable Curry", Description: "Aromatic", CuisineType: "indian", CreatedAt: base.Add(2 * time.Hour)},
		{ID: uuid.New(), UserID: other, Title: "Curry for someone else", CuisineType: "thai", CreatedAt: base},
	}
	for _, recipe := range fixtures {
		if _, err := repo.Create(ctx, recipe); err != nil {
			t.Fatalf("create fixture: %v", err)
		}
	}

	all, err := svc.List(ctx, owner, ListOptions{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 3 || all[0].Recipe.Title != "Vegetable Curry" {
		t.Fatalf("expected three recipes newest first, got %+v", all)
	}

	curries, err := svc.List(ctx, owner, ListOptions{Query: " CURRY "})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(curries) != 2 {
		t.Fatalf("expected title and description matches, got %d", len(curries))
	}

	mediterranean, err := svc.List(ctx, owner, ListOptions{Cuisine: "mediterranean"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(mediterranean) != 1 {
		t.Fatalf("expected one mediterranean recipe, got %d", len(mediterranean))
	}

	cuisines, err := svc.Cuisines(ctx, owner)
	if err != nil {
		t.Fatalf("Cuisines returned error: %v", err)
	}
	if len(cuisines) != 2 || cuisines[0] != "indian" || cuisines[1] != "mediterranean" {
		t.Fatalf("unexpected cuisines %v", cuisines)
	}

	if _, err := svc.Get(ctx, other, fixtures[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's recipe, got %v", err)
	}
}

func TestJSONColumnsRoundTripThroughScan(t *testing.T) {
	value, err := Ingredients{{Name: "Basil", Amount: "1 handful", Emoji: "🌿"}}.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}

	var scanned Ingredients
	if err := scanned.Scan([]byte(value.(string))); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(scanned) != 1 || scanned[0].Name != "Basil" {
		t.Fatalf("unexpected scanned value %+v", scanned)
	}

	var info NutritionInfo
	if err := info.Scan(42); err == nil {
		t.Fatal("expected unsupported type error")
	}
}
