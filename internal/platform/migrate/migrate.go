package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"nutrichef/migrations"
)

// baselineVersion is the app schema migration. Databases that already carry the
// app tables from the hosted backend start from it instead of replaying it.
const (
	baselineVersion int64 = 1
	baselineTable         = "saved_recipes"
)

// Apply runs any pending SQL migrations bundled with the binary.
func Apply(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	goose.SetBaseFS(migrations.Files)
	goose.SetLogger(gooseSlogLogger{logger: logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: set goose dialect: %w", err)
	}

	if err := bootstrapBaseline(ctx, gooseVersions{db: db.DB}, logger); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		return fmt.Errorf("migrate: goose up: %w", err)
	}

	return nil
}

// versionStore is what the baseline check needs from the database.
type versionStore interface {
	TableExists(ctx context.Context, name string) (bool, error)
	// Version creates the goose version table if needed and returns the applied version.
	Version(ctx context.Context) (int64, error)
	Stamp(ctx context.Context, version int64) error
}

// bootstrapBaseline marks the app schema as applied when its tables already
// exist but goose has never run against the database.
func bootstrapBaseline(ctx context.Context, store versionStore, logger *slog.Logger) error {
	exists, err := store.TableExists(ctx, baselineTable)
	if err != nil {
		return fmt.Errorf("migrate: check app tables: %w", err)
	}
	if !exists {
		return nil
	}

	current, err := store.Version(ctx)
	if err != nil {
		return fmt.Errorf("migrate: check goose version: %w", err)
	}
	if current != 0 {
		return nil
	}

	if err := store.Stamp(ctx, baselineVersion); err != nil {
		return fmt.Errorf("migrate: set baseline: %w", err)
	}
	if logger != nil {
		logger.Info("goose baseline recorded", "version", baselineVersion, "table", baselineTable)
	}
	return nil
}

// gooseVersions reads and writes goose's version table on db.
type gooseVersions struct {
	db *sql.DB
}

func (g gooseVersions) TableExists(ctx context.Context, name string) (bool, error) {
	schema, table := splitTableName(name)
	query := `SELECT EXISTS (SELECT 1 FROM pg_tables WHERE schemaname = current_schema() AND tablename = $1)`
	args := []any{table}
	if schema != "" {
		query = `SELECT EXISTS (SELECT 1 FROM pg_tables WHERE schemaname = $2 AND tablename = $1)`
		args = append(args, schema)
	}

	var exists bool
	if err := g.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (g gooseVersions) Version(ctx context.Context) (int64, error) {
	if _, err := goose.EnsureDBVersionContext(ctx, g.db); err != nil {
		return 0, fmt.Errorf("ensure goose table: %w", err)
	}
	return goose.GetDBVersionContext(ctx, g.db)
}

func (g gooseVersions) Stamp(ctx context.Context, version int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (version_id, is_applied) VALUES ($1, TRUE)`, goose.TableName())
	_, err := g.db.ExecContext(ctx, query, version)
	return err
}

func splitTableName(name string) (string, string) {
	schema, table, found := strings.Cut(name, ".")
	if !found {
		return "", name
	}
	return schema, table
}
