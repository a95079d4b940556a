package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded goose migrations for dialect ("postgres" or "sqlite")
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	var gooseDialect goose.Dialect
	switch dialect {
	case DriverPostgres:
		gooseDialect = goose.DialectPostgres
	case DriverSQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("%s: %q", ErrMsgUnsupportedDialect, dialect)
	}

	fsys, err := fs.Sub(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLoadMigrations, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLoadMigrations, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToApplyMigrations, err)
	}

	log := slog.Default()
	if len(results) == 0 {
		log.Info(LogMsgMigrationsUpToDate, "dialect", dialect)
	}
	for _, r := range results {
		log.Info(LogMsgMigrationApplied, "dialect", dialect, "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// MigratePool applies the PostgreSQL migrations through a pgx pool
func MigratePool(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return Migrate(ctx, db, DriverPostgres)
}
