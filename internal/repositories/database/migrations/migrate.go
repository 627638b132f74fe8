// Package migrations creates the expenses schema on first start. The embedded
// migrations only ever create what is missing.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// RunSQLite applies the sqlite migrations to the database file at dbPath.
// It uses its own connection; the migrate driver closes it when done.
func RunSQLite(dbPath string) error {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		migrateDB.Close()
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	return run("sqlite", "sqlite", driver)
}

// RunPostgres applies the postgres migrations using the pgx stdlib driver.
func RunPostgres(databaseURL string) error {
	migrateDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	if err := migrateDB.Ping(); err != nil {
		migrateDB.Close()
		return fmt.Errorf("ping migration database: %w", err)
	}

	driver, err := postgres.WithInstance(migrateDB, &postgres.Config{})
	if err != nil {
		migrateDB.Close()
		return fmt.Errorf("create postgres driver: %w", err)
	}
	return run("postgres", "postgres", driver)
}

func run(dir, databaseName string, driver database.Driver) error {
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		driver.Close()
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, databaseName, driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", upErr)
	}
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		slog.Info("No new migrations to apply.", slog.String("database", databaseName))
	} else {
		slog.Info("Database migrations applied successfully.", slog.String("database", databaseName))
	}
	return nil
}
