// Package migration provides a Tasklet that applies pending schema
// migrations via golang-migrate/migrate, then finishes. It satisfies
// engine.Tasklet so it can be wired as a step alongside chunk steps in the
// same job, e.g. to prepare a destination table before a chunk step writes
// to it.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/sboussekeyt/spring-batch-rs/batcherr"
	"github.com/sboussekeyt/spring-batch-rs/engine"
	"github.com/sboussekeyt/spring-batch-rs/model"
)

// Tasklet applies every pending "up" migration found under migrationsPath
// in migrationFS against db, using dbType to select the golang-migrate
// database driver ("mysql", "postgres", or "sqlite").
type Tasklet struct {
	name           string
	db             *sql.DB
	dbType         string
	migrationFS    fs.FS
	migrationsPath string
}

func New(name string, db *sql.DB, dbType string, migrationFS fs.FS, migrationsPath string) *Tasklet {
	return &Tasklet{
		name:           name,
		db:             db,
		dbType:         dbType,
		migrationFS:    migrationFS,
		migrationsPath: migrationsPath,
	}
}

func (t *Tasklet) databaseDriver() (database.Driver, error) {
	switch t.dbType {
	case "mysql":
		return migratemysql.WithInstance(t.db, &migratemysql.Config{})
	case "postgres":
		return migratepostgres.WithInstance(t.db, &migratepostgres.Config{})
	case "sqlite":
		return migratesqlite.WithInstance(t.db, &migratesqlite.Config{})
	default:
		return nil, fmt.Errorf("migration: unsupported database type %q", t.dbType)
	}
}

// Execute implements engine.Tasklet. It runs synchronously to completion and
// always returns Finished (or an error); it never returns Continuable, since
// "apply all pending migrations" is a single unit of work.
func (t *Tasklet) Execute(ctx context.Context, view model.StepExecutionView) (engine.RepeatStatus, error) {
	sourceDriver, err := iofs.New(t.migrationFS, t.migrationsPath)
	if err != nil {
		return engine.Finished, batcherr.New(batcherr.TaskletError, t.name, fmt.Errorf("source driver: %w", err))
	}
	dbDriver, err := t.databaseDriver()
	if err != nil {
		return engine.Finished, batcherr.New(batcherr.TaskletError, t.name, err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, t.dbType, dbDriver)
	if err != nil {
		return engine.Finished, batcherr.New(batcherr.TaskletError, t.name, fmt.Errorf("migrate instance: %w", err))
	}
	// Only the source driver is closed: closing m or dbDriver would also
	// close db, which the caller owns and may use after Execute returns.
	defer sourceDriver.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return engine.Finished, batcherr.New(batcherr.TaskletError, t.name, fmt.Errorf("migrate up: %w", err))
	}
	return engine.Finished, nil
}

var _ engine.Tasklet = (*Tasklet)(nil)
