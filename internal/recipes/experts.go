package recipes

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultExperts is the roster seeded into empty stores. The Postgres seed migration
// inserts the same rows.
func DefaultExperts() []Expert {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	experts := []Expert{
		{
			ID:             uuid.MustParse("6f1c2d8e-1b7a-4c61-9a55-2f1e9b1d0a01"),
			Name:           "Dr. Maya Ellison",
			Title:          "Registered Dietitian",
			Bio:            "Maya designs balanced weekly menus for busy families and has coached over a thousand clients.",
			Specialization: "Family nutrition",
			ImageURL:       "https://images.unsplash.com/photo-1559839734-2b71ea197ec2" + imageParams,
		},
		{
			ID:             uuid.MustParse("6f1c2d8e-1b7a-4c61-9a55-2f1e9b1d0a02"),
			Name:           "Chef Rafael Ortega",
			Title:          "Culinary Nutritionist",
			Bio:            "Rafael trained in Mexico City and Lyon before turning to plant-forward cooking.",
			Specialization: "Plant-based cuisine",
			ImageURL:       "https://images.unsplash.com/photo-1577219491135-ce391730fb2c" + imageParams,
		},
		{
			ID:             uuid.MustParse("6f1c2d8e-1b7a-4c61-9a55-2f1e9b1d0a03"),
			Name:           "Priya Raman",
			Title:          "Sports Nutrition Coach",
			Bio:            "Priya works with endurance athletes on fuelling strategies that hold up on race day.",
			Specialization: "Performance and muscle gain",
			ImageURL:       "https://images.unsplash.com/photo-1594824476967-48c8b964273f" + imageParams,
		},
		{
			ID:             uuid.MustParse("6f1c2d8e-1b7a-4c61-9a55-2f1e9b1d0a04"),
			Name:           "Dr. Samuel Okafor",
			Title:          "Clinical Nutritionist",
			Bio:            "Samuel focuses on heart health and blood sugar management through everyday meals.",
			Specialization: "Heart health and diabetes management",
			ImageURL:       "https://images.unsplash.com/photo-1612349317150-e413f6a5b16d" + imageParams,
		},
		{
			ID:             uuid.MustParse("6f1c2d8e-1b7a-4c61-9a55-2f1e9b1d0a05"),
			Name:           "Lena Vogel",
			Title:          "Mediterranean Diet Specialist",
			Bio:            "Lena brings slow, seasonal Mediterranean cooking to weeknight kitchens.",
			Specialization: "Mediterranean diet",
			ImageURL:       "https://images.unsplash.com/photo-1580489944761-15a19d654956" + imageParams,
		},
	}
	for i := range experts {
		experts[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		experts[i].UpdatedAt = experts[i].CreatedAt
	}
	return experts
}

// SeedExperts inserts experts, skipping rows that already exist.
func SeedExperts(ctx context.Context, repo ExpertRepository, experts []Expert) error {
	for _, expert := range experts {
		if err := repo.CreateExpert(ctx, expert); err != nil {
			return err
		}
	}
	return nil
}
