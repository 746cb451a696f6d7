package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"finance-tracker/internal/log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// migrate brings the schema up to date.
//
// SQLite migrates through the open connection because an in-memory database
// exists only on that connection; the migrate instance is not closed since
// closing the sqlite driver closes the shared *sql.DB. Postgres migrates over
// a separate connection that is closed afterwards.
func (db *DB) migrate(dsn string) error {
	var (
		driver database.Driver
		err    error
	)
	switch db.dialect {
	case SQLite:
		driver, err = sqlite.WithInstance(db.conn, &sqlite.Config{})
	case Postgres:
		migrateDB, openErr := sql.Open("postgres", dsn)
		if openErr != nil {
			return fmt.Errorf("open migration database: %w", openErr)
		}
		defer migrateDB.Close()
		driver, err = postgres.WithInstance(migrateDB, &postgres.Config{})
	}
	if err != nil {
		return fmt.Errorf("create %s driver: %w", db.dialect, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+db.dialect)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.dialect, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if db.dialect == Postgres {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	db.log.Info("Schema migrated",
		log.FieldOperation, log.OpMigrate,
		log.FieldStore, db.dialect,
		"version", version,
		"dirty", dirty)
	return nil
}
