package preferences

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists preferences scoped by user.
type Repository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (Preferences, error)
	Create(ctx context.Context, prefs Preferences) (Preferences, error)
	Update(ctx context.Context, prefs Preferences) (Preferences, error)
}
