package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// EnsureSchema creates the users and api_execution_logs tables when they do
// not exist yet. Every statement is IF NOT EXISTS, so running it against an
// already provisioned database changes nothing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(schemaFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded schema: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations,
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return fmt.Errorf("failed to prepare schema provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
