package recipes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nutrichef/internal/preferences"
)

// recentExpertPool is how many of the newest experts a recipe may be credited to.
const recentExpertPool = 5

// PreferencesReader loads the generator's input preferences.
type PreferencesReader interface {
	Get(ctx context.Context, userID uuid.UUID) (preferences.Preferences, error)
}

// Service generates, saves and reads recipes for one user at a time.
type Service struct {
	repo    Repository
	experts ExpertRepository
	prefs   PreferencesReader
	gen     *Generator
	now     func() time.Time
}

// NewService wires a Service. A nil generator uses NewGenerator.
func NewService(repo Repository, experts ExpertRepository, prefs PreferencesReader, gen *Generator) *Service {
	if gen == nil {
		gen = NewGenerator()
	}
	return &Service{
		repo:    repo,
		experts: experts,
		prefs:   prefs,
		gen:     gen,
		now:     time.Now,
	}
}

// Generate creates a recipe from the user's saved preferences and stores it.
// It returns preferences.ErrNotFound when the user has not saved preferences.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, req Request) (Entry, error) {
	if err := req.Validate(); err != nil {
		return Entry{}, err
	}

	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return Entry{}, err
	}

	experts, err := s.experts.RecentExperts(ctx, recentExpertPool)
	if err != nil {
		return Entry{}, fmt.Errorf("load experts: %w", err)
	}
	if len(experts) == 0 {
		return Entry{}, ErrNoExperts
	}
	expert := s.gen.PickExpert(experts)

	recipe := s.gen.Generate(prefs, expert)
	now := s.now().UTC()
	recipe.ID = uuid.New()
	recipe.UserID = userID
	recipe.PrepTime = req.PrepTime
	recipe.CookTime = req.PrepTime / 2
	recipe.ExpertID = &expert.ID
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	saved, err := s.repo.Create(ctx, recipe)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Recipe: saved, Expert: &expert}, nil
}

// List returns the user's saved recipes, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]Entry, error) {
	opts.Query = strings.TrimSpace(opts.Query)
	opts.Cuisine = strings.TrimSpace(opts.Cuisine)
	return s.repo.List(ctx, userID, opts)
}

// Cuisines returns the distinct cuisines among the user's recipes.
func (s *Service) Cuisines(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.repo.Cuisines(ctx, userID)
}

// Get returns one of the user's recipes with its expert.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (Entry, error) {
	return s.repo.Get(ctx, userID, id)
}
