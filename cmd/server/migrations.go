package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/vocabloom/vocabloom-api/internal/platform/postgres"
)

// MigrationTableName is the goose bookkeeping table.
const MigrationTableName = "schema_migrations"

// runMigrations applies all pending schema migrations from the embedded
// migration files. It is safe to call on every startup; goose skips
// migrations that are already applied.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	migrationLogger := logger.With("component", "migrations")

	goose.SetBaseFS(postgres.MigrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	goose.SetTableName(MigrationTableName)

	before, err := goose.GetDBVersion(db)
	if err != nil {
		migrationLogger.Warn("Failed to read current migration version", "error", err)
	} else {
		migrationLogger.Info("Current database migration version", "version", before)
	}

	migrationLogger.Info("Applying pending migrations")
	if err := goose.Up(db, postgres.MigrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	after, err := goose.GetDBVersion(db)
	if err == nil {
		migrationLogger.Info("Migrations applied", "version", after)
	}

	return nil
}
