package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"nutrichef/internal/auth"
	"nutrichef/internal/preferences"
	"nutrichef/internal/profiles"
	"nutrichef/internal/recipes"
)

// fieldErrors maps a form field name to its message.
type fieldErrors map[string]string

func (e fieldErrors) any() bool {
	return len(e) > 0
}

type loginForm struct {
	Email    string
	Password string
}

func parseLoginForm(values url.Values) loginForm {
	return loginForm{
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
}

func (f loginForm) validate() fieldErrors {
	errs := fieldErrors{}
	if !auth.ValidEmail(auth.NormalizeEmail(f.Email)) {
		errs["email"] = "Please enter a valid email address"
	}
	if len(f.Password) < auth.MinPasswordLength {
		errs["password"] = "Password must be at least 6 characters"
	}
	return errs
}

type signupForm struct {
	Email           string
	Password        string
	ConfirmPassword string
}

func parseSignupForm(values url.Values) signupForm {
	return signupForm{
		Email:           strings.TrimSpace(values.Get("email")),
		Password:        values.Get("password"),
		ConfirmPassword: values.Get("confirmPassword"),
	}
}

// validate mirrors the login rules and adds the confirmation check. A form
// that fails here never reaches the auth provider.
func (f signupForm) validate() fieldErrors {
	errs := loginForm{Email: f.Email, Password: f.Password}.validate()
	if len(f.ConfirmPassword) < auth.MinPasswordLength {
		errs["confirmPassword"] = "Password must be at least 6 characters"
	} else if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs
}

type profileForm struct {
	FirstName          string
	LastName           string
	Phone              string
	DietaryPreferences string
	HealthGoals        string
}

func parseProfileForm(values url.Values) profileForm {
	return profileForm{
		FirstName:          strings.TrimSpace(values.Get("first_name")),
		LastName:           strings.TrimSpace(values.Get("last_name")),
		Phone:              strings.TrimSpace(values.Get("phone")),
		DietaryPreferences: strings.TrimSpace(values.Get("dietary_preferences")),
		HealthGoals:        strings.TrimSpace(values.Get("health_goals")),
	}
}

func profileFormFrom(p profiles.Profile) profileForm {
	return profileForm{
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Phone:              p.Phone,
		DietaryPreferences: p.DietaryPreferences,
		HealthGoals:        p.HealthGoals,
	}
}

func (f profileForm) validate() fieldErrors {
	errs := fieldErrors{}
	if f.FirstName == "" {
		errs["first_name"] = "First name is required"
	}
	if f.LastName == "" {
		errs["last_name"] = "Last name is required"
	}
	return errs
}

func (f profileForm) patch() profiles.Patch {
	return profiles.Patch{
		FirstName:          &f.FirstName,
		LastName:           &f.LastName,
		Phone:              &f.Phone,
		DietaryPreferences: &f.DietaryPreferences,
		HealthGoals:        &f.HealthGoals,
	}
}

// parsePreferencesForm reads checkbox groups as repeated values and free-text
// lists as one entry per line.
func parsePreferencesForm(values url.Values) preferences.Input {
	return preferences.Input{
		FavoriteFoods:       splitLines(values.Get("favorite_foods")),
		Allergies:           splitLines(values.Get("allergies")),
		DietaryRestrictions: values["dietary_restrictions"],
		CuisinePreferences:  values["cuisine_preferences"],
		NutritionalGoals:    values["nutritional_goals"],
		HealthConditions:    splitLines(values.Get("health_conditions")),
	}
}

func splitLines(value string) []string {
	lines := strings.FieldsFunc(value, func(r rune) bool { return r == '\n' || r == '\r' })
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseGeneratorForm fills missing fields with the form defaults.
func parseGeneratorForm(values url.Values) recipes.Request {
	req := recipes.DefaultRequest()
	if v := strings.TrimSpace(values.Get("mealType")); v != "" {
		req.MealType = v
	}
	if v := strings.TrimSpace(values.Get("complexity")); v != "" {
		req.Complexity = v
	}
	if raw := strings.TrimSpace(values.Get("prepTime")); raw != "" {
		req.PrepTime = atoiOrZero(raw)
	}
	if raw := strings.TrimSpace(values.Get("servings")); raw != "" {
		req.Servings = atoiOrZero(raw)
	}
	return req
}

// atoiOrZero returns 0 for malformed input so validation rejects it.
func atoiOrZero(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

func parseForm(r *http.Request) (url.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}
