package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists recipes and experts to Postgres.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type recipeRow struct {
	ID            uuid.UUID      `db:"id"`
	UserID        uuid.UUID      `db:"user_id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	Ingredients   Ingredients    `db:"ingredients"`
	Instructions  Instructions   `db:"instructions"`
	NutritionInfo NutritionInfo  `db:"nutrition_info"`
	CuisineType   string         `db:"cuisine_type"`
	PrepTime      int            `db:"prep_time"`
	CookTime      int            `db:"cook_time"`
	ExpertID      uuid.NullUUID  `db:"expert_id"`
	YoutubeLink   string         `db:"youtube_link"`
	ImageURL      string         `db:"image_url"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	ExpertName    sql.NullString `db:"expert_name"`
	ExpertTitle   sql.NullString `db:"expert_title"`
	ExpertBio     sql.NullString `db:"expert_bio"`
	ExpertSpec    sql.NullString `db:"expert_specialization"`
	ExpertImage   sql.NullString `db:"expert_image_url"`
	ExpertCreated sql.NullTime   `db:"expert_created_at"`
	ExpertUpdated sql.NullTime   `db:"expert_updated_at"`
}

func (r recipeRow) toEntry() Entry {
	recipe := Recipe{
		ID:            r.ID,
		UserID:        r.UserID,
		Title:         r.Title,
		Description:   r.Description,
		Ingredients:   r.Ingredients,
		Instructions:  r.Instructions,
		NutritionInfo: r.NutritionInfo,
		CuisineType:   r.CuisineType,
		PrepTime:      r.PrepTime,
		CookTime:      r.CookTime,
		YoutubeLink:   r.YoutubeLink,
		ImageURL:      r.ImageURL,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}

	entry := Entry{Recipe: recipe}
	if r.ExpertID.Valid {
		id := r.ExpertID.UUID
		entry.Recipe.ExpertID = &id
		if r.ExpertName.Valid {
			entry.Expert = &Expert{
				ID:             id,
				Name:           r.ExpertName.String,
				Title:          r.ExpertTitle.String,
				Bio:            r.ExpertBio.String,
				Specialization: r.ExpertSpec.String,
				ImageURL:       r.ExpertImage.String,
				CreatedAt:      r.ExpertCreated.Time,
				UpdatedAt:      r.ExpertUpdated.Time,
			}
		}
	}
	return entry
}

const recipeSelect = `
SELECT
    r.id, r.user_id, r.title, COALESCE(r.description, '') AS description,
    COALESCE(r.ingredients, '[]'::jsonb) AS ingredients,
    COALESCE(r.instructions, '[]'::jsonb) AS instructions,
    COALESCE(r.nutrition_info, '{}'::jsonb) AS nutrition_info,
    COALESCE(r.cuisine_type, '') AS cuisine_type,
    COALESCE(r.prep_time, 0) AS prep_time,
    COALESCE(r.cook_time, 0) AS cook_time,
    r.expert_id,
    COALESCE(r.youtube_link, '') AS youtube_link,
    COALESCE(r.image_url, '') AS image_url,
    r.created_at, r.updated_at,
    e.name AS expert_name,
    e.title AS expert_title,
    e.bio AS expert_bio,
    e.specialization AS expert_specialization,
    e.image_url AS expert_image_url,
    e.created_at AS expert_created_at,
    e.updated_at AS expert_updated_at
FROM saved_recipes r
LEFT JOIN nutrition_experts e ON e.id = r.expert_id`

func (r *PostgresRepository) Create(ctx context.Context, recipe Recipe) (Recipe, error) {
	const query = `
INSERT INTO saved_recipes (
    id, user_id, title, description, ingredients, instructions, nutrition_info,
    cuisine_type, prep_time, cook_time, expert_id, youtube_link, image_url, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	var expertID uuid.NullUUID
	if recipe.ExpertID != nil {
		expertID = uuid.NullUUID{UUID: *recipe.ExpertID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		recipe.ID,
		recipe.UserID,
		recipe.Title,
		recipe.Description,
		recipe.Ingredients,
		recipe.Instructions,
		recipe.NutritionInfo,
		recipe.CuisineType,
		recipe.PrepTime,
		recipe.CookTime,
		expertID,
		recipe.YoutubeLink,
		recipe.ImageURL,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)
	if err != nil {
		return Recipe{}, fmt.Errorf("create recipe: %w", err)
	}
	return recipe, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id uuid.UUID) (Entry, error) {
	query := recipeSelect + ` WHERE r.id = $1 AND r.user_id = $2`

	var row recipeRow
	if err := r.db.GetContext(ctx, &row, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("get recipe: %w", err)
	}
	return row.toEntry(), nil
}

func (r *PostgresRepository) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]Entry, error) {
	clauses := []string{"r.user_id = $1"}
	args := []any{userID}

	if cuisine := strings.TrimSpace(opts.Cuisine); cuisine != "" {
		args = append(args, cuisine)
		clauses = append(clauses, fmt.Sprintf("r.cuisine_type = $%d", len(args)))
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		clauses = append(clauses, fmt.Sprintf("(r.title ILIKE $%d OR r.description ILIKE $%d)", len(args), len(args)))
	}

	query := recipeSelect + ` WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY r.created_at DESC`

	var rows []recipeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

func (r *PostgresRepository) Cuisines(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const query = `
SELECT DISTINCT cuisine_type
FROM saved_recipes
WHERE user_id = $1 AND cuisine_type IS NOT NULL AND cuisine_type <> ''
ORDER BY cuisine_type`

	var cuisines []string
	if err := r.db.SelectContext(ctx, &cuisines, query, userID); err != nil {
		return nil, fmt.Errorf("list cuisines: %w", err)
	}
	return cuisines, nil
}

func (r *PostgresRepository) RecentExperts(ctx context.Context, limit int) ([]Expert, error) {
	const query = `
SELECT id, name, COALESCE(title, '') AS title, COALESCE(bio, '') AS bio,
       COALESCE(specialization, '') AS specialization, COALESCE(image_url, '') AS image_url,
       created_at, updated_at
FROM nutrition_experts
ORDER BY created_at DESC
LIMIT $1`

	var experts []Expert
	if err := r.db.SelectContext(ctx, &experts, query, limit); err != nil {
		return nil, fmt.Errorf("list experts: %w", err)
	}
	return experts, nil
}

func (r *PostgresRepository) CreateExpert(ctx context.Context, expert Expert) error {
	const query = `
INSERT INTO nutrition_experts (id, name, title, bio, specialization, image_url, created_at, updated_at)
VALUES (:id, :name, :title, :bio, :specialization, :image_url, :created_at, :updated_at)
ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.NamedExecContext(ctx, query, expert); err != nil {
		return fmt.Errorf("create expert: %w", err)
	}
	return nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
