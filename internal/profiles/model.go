package profiles

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user has no profile row yet.
var ErrNotFound = errors.New("profile not found")

// ErrValidation is returned when input validation fails.
var ErrValidation = errors.New("validation error")

// ValidationError wraps a validation message so callers can distinguish
// client errors from internal failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Profile holds the member's personal details. ID equals the auth user ID.
type Profile struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	FirstName          string    `db:"first_name" json:"firstName"`
	LastName           string    `db:"last_name" json:"lastName"`
	Phone              string    `db:"phone" json:"phone"`
	DietaryPreferences string    `db:"dietary_preferences" json:"dietaryPreferences"`
	HealthGoals        string    `db:"health_goals" json:"healthGoals"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// DisplayName returns "First Last", or "" when neither is set.
func (p Profile) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

// Patch lists the profile fields to change. Nil fields are left untouched.
type Patch struct {
	FirstName          *string
	LastName           *string
	Phone              *string
	DietaryPreferences *string
	HealthGoals        *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil &&
		p.DietaryPreferences == nil && p.HealthGoals == nil
}

// Apply returns a copy of profile with the patch applied.
func (p Patch) Apply(profile Profile) Profile {
	if p.FirstName != nil {
		profile.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		profile.LastName = *p.LastName
	}
	if p.Phone != nil {
		profile.Phone = *p.Phone
	}
	if p.DietaryPreferences != nil {
		profile.DietaryPreferences = *p.DietaryPreferences
	}
	if p.HealthGoals != nil {
		profile.HealthGoals = *p.HealthGoals
	}
	return profile
}
