// migrate.go applies the preferences schema with golang-migrate.
//
// Migrations live in migrations/ as numbered up/down SQL pairs. The migrate
// library records the applied version in a schema_migrations table.
package database

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // File source driver
)

// RunMigrations applies all pending migrations found under migrationsPath.
func (db *DB) RunMigrations(migrationsPath string) error {
	source, err := sourceURL(migrationsPath)
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Println("📦 Database: no new migrations to apply")
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		version, dirty, _ := m.Version()
		log.Printf("📦 Database: migrated to version %d (dirty: %v)", version, dirty)
	}
	return nil
}

// sourceURL turns a directory into a file:// source URL that golang-migrate
// accepts regardless of the working directory.
func sourceURL(migrationsPath string) (string, error) {
	if migrationsPath == "" {
		return "", fmt.Errorf("migrations path is empty")
	}
	abs, err := filepath.Abs(migrationsPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve migrations path %q: %w", migrationsPath, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}
