package recipes

import (
	"math/rand/v2"
	"strings"

	"nutrichef/internal/preferences"
)

// Generator fills a recipe from the cuisine template table.
type Generator struct {
	intn func(n int) int
}

// NewGenerator returns a Generator drawing from the shared math/rand source.
func NewGenerator() *Generator {
	return &Generator{intn: rand.IntN}
}

// PickExpert returns one of experts at random. experts must not be empty.
func (g *Generator) PickExpert(experts []Expert) Expert {
	return experts[g.intn(len(experts))]
}

// Generate builds the content of a recipe for prefs, credited to expert.
// Timing, ownership and identifiers are left to the caller.
func (g *Generator) Generate(prefs preferences.Preferences, expert Expert) Recipe {
	cuisines := prefs.CuisinePreferences
	if len(cuisines) == 0 {
		cuisines = fallbackCuisines
	}
	cuisine := cuisines[g.intn(len(cuisines))]

	// A vegan choice also rules out meat, even without "vegetarian" selected.
	vegan := prefs.Has("vegan")
	table := templatesFor(diet{vegetarian: vegan || prefs.Has("vegetarian"), vegan: vegan})
	candidates, ok := table[cuisine]
	if !ok {
		candidates = table[defaultCuisine]
	}
	tmpl := candidates[g.intn(len(candidates))]

	instructions := make(Instructions, 0, len(tmpl.instructions))
	for i, step := range tmpl.instructions {
		instructions = append(instructions, Instruction{Step: i + 1, Description: step})
	}

	return Recipe{
		Title:         expert.Name + "'s " + tmpl.title,
		Description:   tmpl.description,
		Ingredients:   withoutAllergens(tmpl.ingredients, prefs.Allergies),
		Instructions:  instructions,
		NutritionInfo: tmpl.nutrition,
		CuisineType:   cuisine,
		YoutubeLink:   tmpl.youtube,
		ImageURL:      tmpl.image,
	}
}

// withoutAllergens drops every ingredient whose name contains an allergy, ignoring case.
func withoutAllergens(ingredients []Ingredient, allergies []string) Ingredients {
	out := make(Ingredients, 0, len(ingredients))
	for _, ingredient := range ingredients {
		name := strings.ToLower(ingredient.Name)
		blocked := false
		for _, allergy := range allergies {
			allergy = strings.ToLower(strings.TrimSpace(allergy))
			if allergy != "" && strings.Contains(name, allergy) {
				blocked = true
				break
			}
		}
		if !blocked {
			out = append(out, ingredient)
		}
	}
	return out
}
