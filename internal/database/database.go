// Package database stores viewer preferences in PostgreSQL.
//
// Go Pattern: We use the `sqlx` package which extends Go's standard `database/sql`
// with convenient features like scanning rows into structs. You write raw SQL,
// and sqlx maps columns onto `db:"..."` struct tags.
//
// Go's database/sql has built-in connection pooling: you create one *sql.DB
// (or *sqlx.DB) at startup and share it across your entire application.
// It's safe for concurrent use by multiple goroutines.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver; the underscore import runs its init()

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
)

// DB wraps the sqlx database connection with our application-specific methods.
// Go Pattern: Embedding (*sqlx.DB) gives us all of sqlx's methods automatically,
// plus we can add our own.
type DB struct {
	*sqlx.DB
}

// New creates a new database connection with connection pooling configured.
func New(databaseURL string) (*DB, error) {
	// sqlx.Connect both opens the connection and pings the database
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Preference reads are tiny and infrequent; a small pool is plenty.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	return &DB{db}, nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Name identifies the store in health output.
func (db *DB) Name() string {
	return "postgres"
}

// --- Preference Operations ---

// GetPreference returns the stored value for (visitorID, key).
// found is false when nothing has been saved yet.
func (db *DB) GetPreference(ctx context.Context, visitorID, key string) (value string, found bool, err error) {
	var p models.Preference
	err = db.GetContext(ctx, &p,
		`SELECT visitor_id, key, value, updated_at FROM preferences WHERE visitor_id = $1 AND key = $2`,
		visitorID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return p.Value, true, nil
}

// SetPreference inserts or replaces the value for (visitorID, key).
func (db *DB) SetPreference(ctx context.Context, visitorID, key, value string) error {
	query := `
		INSERT INTO preferences (visitor_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (visitor_id, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := db.ExecContext(ctx, query, visitorID, key, value); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}

// DeleteVisitorPreferences removes everything stored for a visitor.
func (db *DB) DeleteVisitorPreferences(ctx context.Context, visitorID string) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM preferences WHERE visitor_id = $1`, visitorID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete preferences: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
