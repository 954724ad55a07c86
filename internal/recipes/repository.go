package recipes

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists saved recipes. Every read is scoped by user.
type Repository interface {
	Create(ctx context.Context, recipe Recipe) (Recipe, error)
	Get(ctx context.Context, userID, id uuid.UUID) (Entry, error)
	List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]Entry, error)
	Cuisines(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ExpertRepository reads the shared nutrition_experts table.
type ExpertRepository interface {
	RecentExperts(ctx context.Context, limit int) ([]Expert, error)
	CreateExpert(ctx context.Context, expert Expert) error
}
