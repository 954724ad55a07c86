package recipes

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a recipe or expert does not exist for the caller.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when generator input is invalid.
	ErrValidation = errors.New("validation error")
	// ErrNoExperts is returned when no nutrition expert is available to sign a recipe.
	ErrNoExperts = errors.New("no nutrition experts available")
)

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

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Emoji  string `json:"emoji"`
}

type Instruction struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
}

// NutritionInfo holds per-serving values; macros are grams.
type NutritionInfo struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
	Fiber    int `json:"fiber"`
}

// Ingredients is stored as a JSON array column.
type Ingredients []Ingredient

// Instructions is stored as a JSON array column.
type Instructions []Instruction

func (i Ingredients) Value() (driver.Value, error) {
	return jsonValue(i)
}

func (i *Ingredients) Scan(src any) error {
	return jsonScan(src, i)
}

func (i Instructions) Value() (driver.Value, error) {
	return jsonValue(i)
}

func (i *Instructions) Scan(src any) error {
	return jsonScan(src, i)
}

func (n NutritionInfo) Value() (driver.Value, error) {
	return jsonValue(n)
}

func (n *NutritionInfo) Scan(src any) error {
	return jsonScan(src, n)
}

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src any, dst any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// Recipe is a generated recipe saved for one user.
type Recipe struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"userId"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Ingredients   Ingredients   `json:"ingredients"`
	Instructions  Instructions  `json:"instructions"`
	NutritionInfo NutritionInfo `json:"nutritionInfo"`
	CuisineType   string        `json:"cuisineType"`
	PrepTime      int           `json:"prepTime"`
	CookTime      int           `json:"cookTime"`
	ExpertID      *uuid.UUID    `json:"expertId,omitempty"`
	YoutubeLink   string        `json:"youtubeLink,omitempty"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// TotalTime returns prep plus cook minutes.
func (r Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// Expert is a nutrition professional credited on generated recipes.
type Expert struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Title          string    `json:"title" db:"title"`
	Bio            string    `json:"bio" db:"bio"`
	Specialization string    `json:"specialization" db:"specialization"`
	ImageURL       string    `json:"imageUrl" db:"image_url"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Entry pairs a recipe with its expert, which may be nil.
type Entry struct {
	Recipe Recipe  `json:"recipe"`
	Expert *Expert `json:"expert,omitempty"`
}

// ListOptions narrows a user's saved recipes.
type ListOptions struct {
	// Query matches title or description case-insensitively.
	Query   string
	Cuisine string
}

// Matches reports whether r passes the filters.
func (o ListOptions) Matches(r Recipe) bool {
	if o.Cuisine != "" && r.CuisineType != o.Cuisine {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(o.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Description), q)
}

// Request carries the generator form values.
type Request struct {
	MealType   string
	Complexity string
	PrepTime   int
	Servings   int
}

// DefaultRequest mirrors the generator form defaults.
func DefaultRequest() Request {
	return Request{MealType: "main", Complexity: "medium", PrepTime: 30, Servings: 2}
}

var (
	MealTypes      = []string{"breakfast", "lunch", "dinner", "main", "side", "dessert", "snack"}
	Complexities   = []string{"easy", "medium", "hard"}
	PrepTimes      = []int{15, 30, 45, 60, 90, 120}
	ServingOptions = []int{1, 2, 4, 6, 8}
)

// Validate checks every field against the offered options.
func (r Request) Validate() error {
	if !contains(MealTypes, r.MealType) {
		return &ValidationError{Message: fmt.Sprintf("unknown meal type %q", r.MealType)}
	}
	if !contains(Complexities, r.Complexity) {
		return &ValidationError{Message: fmt.Sprintf("unknown complexity %q", r.Complexity)}
	}
	if !contains(PrepTimes, r.PrepTime) {
		return &ValidationError{Message: fmt.Sprintf("unsupported prep time %d", r.PrepTime)}
	}
	if !contains(ServingOptions, r.Servings) {
		return &ValidationError{Message: fmt.Sprintf("unsupported servings %d", r.Servings)}
	}
	return nil
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
