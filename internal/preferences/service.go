package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxListItems  = 50
	maxItemLength = 100
)

// Service validates and persists preferences.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get returns the user's saved preferences or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (Preferences, error) {
	return s.repo.FindByUser(ctx, userID)
}

// Save replaces the user's preferences, creating the row on first save.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, input Input) (Preferences, error) {
	if userID == uuid.Nil {
		return Preferences{}, &ValidationError{Message: "user is required"}
	}

	lists := []struct {
		name   string
		values *[]string
		allow  []Option
	}{
		{"favorite foods", &input.FavoriteFoods, nil},
		{"allergies", &input.Allergies, nil},
		{"dietary restrictions", &input.DietaryRestrictions, DietaryRestrictionOptions},
		{"cuisine preferences", &input.CuisinePreferences, CuisineOptions},
		{"nutritional goals", &input.NutritionalGoals, NutritionalGoalOptions},
		{"health conditions", &input.HealthConditions, nil},
	}
	for _, list := range lists {
		cleaned, err := normalizeList(list.name, *list.values, list.allow)
		if err != nil {
			return Preferences{}, err
		}
		*list.values = cleaned
	}

	now := s.now().UTC()
	existing, err := s.repo.FindByUser(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		return s.repo.Create(ctx, Preferences{
			ID:                  uuid.New(),
			UserID:              userID,
			FavoriteFoods:       input.FavoriteFoods,
			Allergies:           input.Allergies,
			DietaryRestrictions: input.DietaryRestrictions,
			CuisinePreferences:  input.CuisinePreferences,
			NutritionalGoals:    input.NutritionalGoals,
			HealthConditions:    input.HealthConditions,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	case err != nil:
		return Preferences{}, err
	}

	existing.FavoriteFoods = input.FavoriteFoods
	existing.Allergies = input.Allergies
	existing.DietaryRestrictions = input.DietaryRestrictions
	existing.CuisinePreferences = input.CuisinePreferences
	existing.NutritionalGoals = input.NutritionalGoals
	existing.HealthConditions = input.HealthConditions
	existing.UpdatedAt = now
	return s.repo.Update(ctx, existing)
}

// normalizeList trims entries, drops blanks and case-insensitive duplicates,
// and checks values against allow when it is non-nil.
func normalizeList(name string, values []string, allow []Option) ([]string, error) {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, dup := seen[key]; dup {
			continue
		}
		if utf8.RuneCountInString(value) > maxItemLength {
			return nil, &ValidationError{Message: fmt.Sprintf("%s entries must be at most %d characters", name, maxItemLength)}
		}
		if allow != nil && !allowed(allow, value) {
			return nil, &ValidationError{Message: fmt.Sprintf("unknown %s option %q", name, value)}
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	if len(out) > maxListItems {
		return nil, &ValidationError{Message: fmt.Sprintf("too many %s", name)}
	}
	return out, nil
}

func allowed(options []Option, value string) bool {
	for _, option := range options {
		if option.ID == value {
			return true
		}
	}
	return false
}
