package profiles

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxFieldLength = 500

// Service validates and persists profile changes.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get returns the user's profile, or an empty profile when none was saved yet.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (Profile, error) {
	profile, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Profile{ID: userID}, nil
	}
	return profile, err
}

// Update applies a partial update; unset fields keep their stored values.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, patch Patch) (Profile, error) {
	if userID == uuid.Nil {
		return Profile{}, &ValidationError{Message: "user is required"}
	}

	patch = Patch{
		FirstName:          trimmed(patch.FirstName),
		LastName:           trimmed(patch.LastName),
		Phone:              trimmed(patch.Phone),
		DietaryPreferences: trimmed(patch.DietaryPreferences),
		HealthGoals:        trimmed(patch.HealthGoals),
	}
	if err := validatePatch(patch); err != nil {
		return Profile{}, err
	}

	if patch.Empty() {
		return s.Get(ctx, userID)
	}
	return s.repo.Upsert(ctx, userID, patch, s.now().UTC())
}

func validatePatch(patch Patch) error {
	if patch.FirstName != nil && *patch.FirstName == "" {
		return &ValidationError{Message: "First name is required"}
	}
	if patch.LastName != nil && *patch.LastName == "" {
		return &ValidationError{Message: "Last name is required"}
	}
	for _, value := range []*string{patch.FirstName, patch.LastName, patch.Phone, patch.DietaryPreferences, patch.HealthGoals} {
		if value != nil && utf8.RuneCountInString(*value) > maxFieldLength {
			return &ValidationError{Message: "Profile fields must be at most 500 characters"}
		}
	}
	return nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
