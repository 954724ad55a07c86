package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository persists preferences to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type preferencesRow struct {
	ID                  uuid.UUID      `db:"id"`
	UserID              uuid.UUID      `db:"user_id"`
	FavoriteFoods       pq.StringArray `db:"favorite_foods"`
	Allergies           pq.StringArray `db:"allergies"`
	DietaryRestrictions pq.StringArray `db:"dietary_restrictions"`
	CuisinePreferences  pq.StringArray `db:"cuisine_preferences"`
	NutritionalGoals    pq.StringArray `db:"nutritional_goals"`
	HealthConditions    pq.StringArray `db:"health_conditions"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (r preferencesRow) toPreferences() Preferences {
	return Preferences{
		ID:                  r.ID,
		UserID:              r.UserID,
		FavoriteFoods:       []string(r.FavoriteFoods),
		Allergies:           []string(r.Allergies),
		DietaryRestrictions: []string(r.DietaryRestrictions),
		CuisinePreferences:  []string(r.CuisinePreferences),
		NutritionalGoals:    []string(r.NutritionalGoals),
		HealthConditions:    []string(r.HealthConditions),
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

const preferencesColumns = `
    id,
    user_id,
    COALESCE(favorite_foods, '{}') AS favorite_foods,
    COALESCE(allergies, '{}') AS allergies,
    COALESCE(dietary_restrictions, '{}') AS dietary_restrictions,
    COALESCE(cuisine_preferences, '{}') AS cuisine_preferences,
    COALESCE(nutritional_goals, '{}') AS nutritional_goals,
    COALESCE(health_conditions, '{}') AS health_conditions,
    created_at,
    updated_at`

func (r *PostgresRepository) FindByUser(ctx context.Context, userID uuid.UUID) (Preferences, error) {
	query := `SELECT ` + preferencesColumns + ` FROM user_preferences WHERE user_id = $1`

	var row preferencesRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preferences{}, ErrNotFound
		}
		return Preferences{}, fmt.Errorf("find preferences: %w", err)
	}
	return row.toPreferences(), nil
}

func (r *PostgresRepository) Create(ctx context.Context, prefs Preferences) (Preferences, error) {
	const query = `
INSERT INTO user_preferences (
    id, user_id, favorite_foods, allergies, dietary_restrictions,
    cuisine_preferences, nutritional_goals, health_conditions, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		prefs.ID,
		prefs.UserID,
		pq.StringArray(prefs.FavoriteFoods),
		pq.StringArray(prefs.Allergies),
		pq.StringArray(prefs.DietaryRestrictions),
		pq.StringArray(prefs.CuisinePreferences),
		pq.StringArray(prefs.NutritionalGoals),
		pq.StringArray(prefs.HealthConditions),
		prefs.CreatedAt,
		prefs.UpdatedAt,
	)
	if err != nil {
		return Preferences{}, fmt.Errorf("create preferences: %w", err)
	}
	return prefs, nil
}

func (r *PostgresRepository) Update(ctx context.Context, prefs Preferences) (Preferences, error) {
	const query = `
UPDATE user_preferences SET
    favorite_foods = $3,
    allergies = $4,
    dietary_restrictions = $5,
    cuisine_preferences = $6,
    nutritional_goals = $7,
    health_conditions = $8,
    updated_at = $9
WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		prefs.ID,
		prefs.UserID,
		pq.StringArray(prefs.FavoriteFoods),
		pq.StringArray(prefs.Allergies),
		pq.StringArray(prefs.DietaryRestrictions),
		pq.StringArray(prefs.CuisinePreferences),
		pq.StringArray(prefs.NutritionalGoals),
		pq.StringArray(prefs.HealthConditions),
		prefs.UpdatedAt,
	)
	if err != nil {
		return Preferences{}, fmt.Errorf("update preferences: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return Preferences{}, ErrNotFound
	}
	return prefs, nil
}
