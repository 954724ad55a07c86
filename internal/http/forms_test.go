package http

import (
	"net/url"
	"reflect"
	"testing"

	"nutrichef/internal/recipes"
)

func TestSignupFormValidate(t *testing.T) {
	cases := []struct {
		name string
		form signupForm
		want fieldErrors
	}{
		{
			name: "valid",
			form: signupForm{Email: "cook@nutrichef.example", Password: "secret123", ConfirmPassword: "secret123"},
			want: fieldErrors{},
		},
		{
			name: "mismatch",
			form: signupForm{Email: "cook@nutrichef.example", Password: "secret123", ConfirmPassword: "secret321"},
			want: fieldErrors{"confirmPassword": "Passwords do not match"},
		},
		{
			name: "short confirmation",
			form: signupForm{Email: "cook@nutrichef.example", Password: "secret123", ConfirmPassword: "abc"},
			want: fieldErrors{"confirmPassword": "Password must be at least 6 characters"},
		},
		{
			name: "everything wrong",
			form: signupForm{Email: "cook", Password: "abc", ConfirmPassword: ""},
			want: fieldErrors{
				"email":           "Please enter a valid email address",
				"password":        "Password must be at least 6 characters",
				"confirmPassword": "Password must be at least 6 characters",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.form.validate(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("validate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProfileFormValidate(t *testing.T) {
	form := parseProfileForm(url.Values{"first_name": {"  "}, "last_name": {" Ellison "}})
	errs := form.validate()
	if errs["first_name"] != "First name is required" {
		t.Fatalf("expected first name error, got %v", errs)
	}
	if _, ok := errs["last_name"]; ok {
		t.Fatal("expected trimmed last name to pass")
	}
	if got := *form.patch().LastName; got != "Ellison" {
		t.Fatalf("expected trimmed value in patch, got %q", got)
	}
}

func TestParsePreferencesForm(t *testing.T) {
	input := parsePreferencesForm(url.Values{
		"favorite_foods":       {"tomatoes\r\n\n  basil  \n"},
		"dietary_restrictions": {"vegan", "gluten-free"},
	})

	if !reflect.DeepEqual(input.FavoriteFoods, []string{"tomatoes", "basil"}) {
		t.Fatalf("unexpected favorite foods %q", input.FavoriteFoods)
	}
	if !reflect.DeepEqual(input.DietaryRestrictions, []string{"vegan", "gluten-free"}) {
		t.Fatalf("unexpected restrictions %q", input.DietaryRestrictions)
	}
	if len(input.Allergies) != 0 {
		t.Fatalf("expected no allergies, got %q", input.Allergies)
	}
}

func TestParseGeneratorForm(t *testing.T) {
	if got := parseGeneratorForm(url.Values{}); got != recipes.DefaultRequest() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	got := parseGeneratorForm(url.Values{"mealType": {"dinner"}, "prepTime": {"15"}, "servings": {"many"}})
	if got.MealType != "dinner" || got.PrepTime != 15 {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.Servings != 0 {
		t.Fatalf("expected malformed servings to become 0, got %d", got.Servings)
	}
	if err := got.Validate(); err == nil {
		t.Fatal("expected malformed request to fail validation")
	}
}
