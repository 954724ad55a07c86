package exporter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"nutrichef/internal/recipes"
)

func sampleEntry() recipes.Entry {
	return recipes.Entry{
		Recipe: recipes.Recipe{
			ID:          uuid.New(),
			Title:       "Lena Vogel's Greek Salad, \"Village\" Style",
			Description: "Crisp vegetables,\nbriny feta",
			Ingredients: recipes.Ingredients{
				{Name: "tomatoes", Amount: "3"},
				{Name: "feta", Amount: "200g"},
			},
			Instructions: recipes.Instructions{
				{Step: 1, Description: "Chop."},
				{Step: 2, Description: "Toss."},
			},
			NutritionInfo: recipes.NutritionInfo{Calories: 320, Protein: 12, Carbs: 14, Fat: 24, Fiber: 4},
			CuisineType:   "mediterranean",
			PrepTime:      15,
			CookTime:      7,
			CreatedAt:     time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
		},
		Expert: &recipes.Expert{Name: "Lena Vogel"},
	}
}

func TestExportWritesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVExporter().Export(&buf, []recipes.Entry{sampleEntry()}); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one row, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(csvColumns, ",") {
		t.Fatalf("unexpected header %v", records[0])
	}

	row := map[string]string{}
	for i, column := range csvColumns {
		row[column] = records[1][i]
	}

	want := map[string]string{
		"schemaVersion": SchemaVersion,
		"title":         "Lena Vogel's Greek Salad, \"Village\" Style",
		"description":   "Crisp vegetables,\nbriny feta",
		"totalTime":     "22",
		"calories":      "320",
		"ingredients":   "3 tomatoes; 200g feta",
		"instructions":  "1. Chop. 2. Toss.",
		"expert":        "Lena Vogel",
		"createdAt":     "2026-03-01T12:00:00Z",
	}
	for column, value := range want {
		if row[column] != value {
			t.Fatalf("%s = %q, want %q", column, row[column], value)
		}
	}
}

func TestExportWithoutExpertOrEntries(t *testing.T) {
	entry := sampleEntry()
	entry.Expert = nil
	entry.Recipe.CreatedAt = time.Time{}

	var buf bytes.Buffer
	if err := NewCSVExporter().Export(&buf, []recipes.Entry{entry}); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	records, _ := csv.NewReader(&buf).ReadAll()
	if records[1][14] != "" || records[1][17] != "" {
		t.Fatalf("expected empty expert and createdAt, got %q and %q", records[1][14], records[1][17])
	}

	buf.Reset()
	if err := NewCSVExporter().Export(&buf, nil); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 1 {
		t.Fatalf("expected only the header, got %d lines", lines)
	}
}
