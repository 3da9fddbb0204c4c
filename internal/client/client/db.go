package client

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/passy1977/pocket-web-backend/internal/client/migrations"
	"github.com/passy1977/pocket-web-backend/internal/client/repositories/fields"
	"github.com/passy1977/pocket-web-backend/internal/client/repositories/groupfields"
	"github.com/passy1977/pocket-web-backend/internal/client/repositories/groups"
	"github.com/passy1977/pocket-web-backend/internal/client/repositories/metadata"
	"github.com/passy1977/pocket-web-backend/internal/dbx"
)

// Repositories bundles the storage collaborators sharing one database.
type Repositories struct {
	DB      *sql.DB
	Dialect dbx.Dialect

	Groups      groups.Repository
	GroupFields groupfields.Repository
	Fields      fields.Repository
	Metadata    metadata.Repository
}

// NewRepositories binds every repository to db. DB stays nil when db is a
// transaction.
func NewRepositories(db dbx.DBTX, dialect dbx.Dialect) *Repositories {
	r := &Repositories{
		Dialect:     dialect,
		Groups:      groups.NewSQLRepository(db, dialect),
		GroupFields: groupfields.NewSQLRepository(db, dialect),
		Fields:      fields.NewSQLRepository(db, dialect),
		Metadata:    metadata.NewSQLRepository(db, dialect),
	}
	if sqlDB, ok := db.(*sql.DB); ok {
		r.DB = sqlDB
	}
	return r
}

func RunMigrations(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	return migrations.Up(ctx, db, dialect)
}

// InitDatabase opens the local store with the given driver ("sqlite" or
// "pgx"), applies the migrations and returns the repositories.
func InitDatabase(ctx context.Context, driver, dsn string) (*Repositories, error) {
	dialect, err := dbx.ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == dbx.SQLite {
		// single writer
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewRepositories(db, dialect), nil
}

// InTx runs fn with repositories bound to one transaction. Without an
// underlying *sql.DB, fn runs on r directly.
func (r *Repositories) InTx(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	if r.DB == nil {
		return fn(ctx, r)
	}
	return dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewRepositories(tx, r.Dialect))
	})
}

func (r *Repositories) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
