package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/gradaid/gradaid-api/internal/platform/postgres"
)

// handleMigrations runs a single goose command against the embedded
// migrations. It is invoked by the -migrate flag.
func handleMigrations(ctx context.Context, db *sql.DB, migrateCmd string, logger *slog.Logger) error {
	files, err := postgres.MigrationFiles()
	if err != nil {
		return err
	}
	logger.Info("Executing migrations",
		"command", migrateCmd,
		"available", len(files))

	return postgres.Migrate(ctx, db, migrateCmd, logger)
}
