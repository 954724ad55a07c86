package preferences

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the user has not saved preferences yet.
var ErrNotFound = errors.New("preferences not found")

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

// Preferences captures a member's dietary profile. There is at most one row per user.
type Preferences struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"userId"`
	FavoriteFoods       []string  `json:"favoriteFoods"`
	Allergies           []string  `json:"allergies"`
	DietaryRestrictions []string  `json:"dietaryRestrictions"`
	CuisinePreferences  []string  `json:"cuisinePreferences"`
	NutritionalGoals    []string  `json:"nutritionalGoals"`
	HealthConditions    []string  `json:"healthConditions"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Has reports whether the dietary restrictions include id.
func (p Preferences) Has(restriction string) bool {
	for _, r := range p.DietaryRestrictions {
		if r == restriction {
			return true
		}
	}
	return false
}

// Input is the full set of lists submitted by the preferences form.
type Input struct {
	FavoriteFoods       []string
	Allergies           []string
	DietaryRestrictions []string
	CuisinePreferences  []string
	NutritionalGoals    []string
	HealthConditions    []string
}

// Option is a selectable checkbox value.
type Option struct {
	ID    string
	Label string
}

var DietaryRestrictionOptions = []Option{
	{ID: "vegetarian", Label: "Vegetarian"},
	{ID: "vegan", Label: "Vegan"},
	{ID: "gluten-free", Label: "Gluten-Free"},
	{ID: "dairy-free", Label: "Dairy-Free"},
	{ID: "keto", Label: "Keto"},
	{ID: "paleo", Label: "Paleo"},
}

var CuisineOptions = []Option{
	{ID: "italian", Label: "Italian"},
	{ID: "mexican", Label: "Mexican"},
	{ID: "chinese", Label: "Chinese"},
	{ID: "indian", Label: "Indian"},
	{ID: "thai", Label: "Thai"},
	{ID: "mediterranean", Label: "Mediterranean"},
	{ID: "japanese", Label: "Japanese"},
	{ID: "french", Label: "French"},
	{ID: "american", Label: "American"},
}

var NutritionalGoalOptions = []Option{
	{ID: "weight-loss", Label: "Weight Loss"},
	{ID: "muscle-gain", Label: "Muscle Gain"},
	{ID: "maintain-weight", Label: "Maintain Weight"},
	{ID: "improve-energy", Label: "Improve Energy"},
	{ID: "heart-health", Label: "Heart Health"},
	{ID: "diabetes-management", Label: "Diabetes Management"},
}
