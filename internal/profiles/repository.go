package profiles

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists profiles. Every call is scoped to one user ID.
type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (Profile, error)
	// Upsert creates the row on first use and otherwise changes only the patched columns.
	Upsert(ctx context.Context, userID uuid.UUID, patch Patch, at time.Time) (Profile, error)
}
