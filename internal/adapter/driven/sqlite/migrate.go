package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtySchema is returned when a previous reviews migration failed halfway.
var ErrDirtySchema = errors.New("reviews schema is dirty")

// RunMigrations brings the reviews table up to the newest embedded schema and
// returns the resulting schema version. Calling it on an up-to-date database
// is a no-op.
func RunMigrations(db *sql.DB) (uint, error) {
	m, err := newReviewsMigrator(db)
	if err != nil {
		return 0, err
	}

	if version, dirty, err := m.Version(); err == nil && dirty {
		return version, fmt.Errorf("reviews schema version %d: %w", version, ErrDirtySchema)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply reviews schema migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read reviews schema version: %w", err)
	}
	return version, nil
}

func newReviewsMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded reviews migrations: %w", err)
	}

	target, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("attach reviews database to migrator: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", target)
	if err != nil {
		return nil, fmt.Errorf("create reviews migrator: %w", err)
	}
	return m, nil
}
