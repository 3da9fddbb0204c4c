// Package migrations embeds the goose SQL migrations of the local store, one
// directory per dialect, and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/passy1977/pocket-web-backend/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed sqlite3/*.sql postgres/*.sql
var Migrations embed.FS

// Up applies every pending migration for the dialect. It is idempotent.
func Up(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	gooseDialect, dir := goose.DialectSQLite3, "sqlite3"
	if dialect == dbx.Postgres {
		gooseDialect, dir = goose.DialectPostgres, "postgres"
	}

	fsys, err := fs.Sub(Migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations for %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
