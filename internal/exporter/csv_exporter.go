package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"nutrichef/internal/recipes"
)

// SchemaVersion identifies the CSV export format version.
// Increment it when columns are added or their meaning changes.
const SchemaVersion = "1"

var csvColumns = []string{
	"schemaVersion",
	"title",
	"description",
	"cuisineType",
	"prepTime",
	"cookTime",
	"totalTime",
	"calories",
	"protein",
	"carbs",
	"fat",
	"fiber",
	"ingredients",
	"instructions",
	"expert",
	"youtubeLink",
	"imageUrl",
	"createdAt",
}

// CSVExporter writes saved recipes as CSV.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes a header row followed by one row per entry.
func (e *CSVExporter) Export(w io.Writer, entries []recipes.Entry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range entries {
		if err := writer.Write(e.entryToRow(entry)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (e *CSVExporter) entryToRow(entry recipes.Entry) []string {
	recipe := entry.Recipe
	row := make([]string, len(csvColumns))

	row[0] = SchemaVersion
	row[1] = recipe.Title
	row[2] = recipe.Description
	row[3] = recipe.CuisineType
	row[4] = strconv.Itoa(recipe.PrepTime)
	row[5] = strconv.Itoa(recipe.CookTime)
	row[6] = strconv.Itoa(recipe.TotalTime())
	row[7] = strconv.Itoa(recipe.NutritionInfo.Calories)
	row[8] = strconv.Itoa(recipe.NutritionInfo.Protein)
	row[9] = strconv.Itoa(recipe.NutritionInfo.Carbs)
	row[10] = strconv.Itoa(recipe.NutritionInfo.Fat)
	row[11] = strconv.Itoa(recipe.NutritionInfo.Fiber)
	row[12] = formatIngredients(recipe.Ingredients)
	row[13] = formatInstructions(recipe.Instructions)
	if entry.Expert != nil {
		row[14] = entry.Expert.Name
	}
	row[15] = recipe.YoutubeLink
	row[16] = recipe.ImageURL
	row[17] = formatTime(recipe.CreatedAt)

	return row
}

// formatIngredients joins ingredients as "amount name" separated by semicolons.
func formatIngredients(ingredients recipes.Ingredients) string {
	parts := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		parts = append(parts, strings.TrimSpace(ingredient.Amount+" "+ingredient.Name))
	}
	return strings.Join(parts, "; ")
}

func formatInstructions(instructions recipes.Instructions) string {
	parts := make([]string, 0, len(instructions))
	for _, step := range instructions {
		parts = append(parts, strconv.Itoa(step.Step)+". "+step.Description)
	}
	return strings.Join(parts, " ")
}

// formatTime formats a time to RFC3339 string.
func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
