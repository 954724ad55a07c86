package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists profiles to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const profileColumns = `
    id,
    COALESCE(first_name, '') AS first_name,
    COALESCE(last_name, '') AS last_name,
    COALESCE(phone, '') AS phone,
    COALESCE(dietary_preferences, '') AS dietary_preferences,
    COALESCE(health_goals, '') AS health_goals,
    created_at,
    updated_at`

// Get returns the profile of userID.
func (r *PostgresRepository) Get(ctx context.Context, userID uuid.UUID) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var profile Profile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// Upsert inserts the profile or updates the patched columns. NULL parameters
// keep the stored value.
func (r *PostgresRepository) Upsert(ctx context.Context, userID uuid.UUID, patch Patch, at time.Time) (Profile, error) {
	query := `
INSERT INTO profiles (id, first_name, last_name, phone, dietary_preferences, health_goals, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (id) DO UPDATE SET
    first_name = COALESCE(EXCLUDED.first_name, profiles.first_name),
    last_name = COALESCE(EXCLUDED.last_name, profiles.last_name),
    phone = COALESCE(EXCLUDED.phone, profiles.phone),
    dietary_preferences = COALESCE(EXCLUDED.dietary_preferences, profiles.dietary_preferences),
    health_goals = COALESCE(EXCLUDED.health_goals, profiles.health_goals),
    updated_at = EXCLUDED.updated_at
RETURNING ` + profileColumns

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query,
		userID,
		patch.FirstName,
		patch.LastName,
		patch.Phone,
		patch.DietaryPreferences,
		patch.HealthGoals,
		at,
	)
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}
