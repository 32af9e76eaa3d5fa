// Package database opens the SQL databases backing sqlkv and applies the embedded migrations.
package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"
	_ "modernc.org/sqlite"

	"github.com/trezcool/feedesk/core"
	appfs "github.com/trezcool/feedesk/fs"
)

// Drivers
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about
	sqlx.BindDriver(SQLite, sqlx.QUESTION)
}

// Dialect returns the goose dialect of a driver.
func Dialect(driver string) string {
	if driver == SQLite {
		return "sqlite3"
	}
	return driver
}

// Open connects to the database configured by conf.Storage and waits for it to be ready.
func Open(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	driver := conf.Storage.Driver
	if driver != Postgres && driver != SQLite {
		return nil, errors.Errorf("unsupported SQL driver %q", driver)
	}
	db, err := sqlx.Open(driver, conf.Storage.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == SQLite {
		db.SetMaxOpenConns(1) // one writer at a time
	}
	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping cancelled")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate applies every pending migration.
func Migrate(db *sqlx.DB) error {
	return Run("up", db)
}

// Run executes a goose command (up, down, status, redo, version...) against the embedded migrations.
func Run(cmd string, db *sqlx.DB, args ...string) error {
	if err := goose.SetDialect(Dialect(db.DriverName())); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.RunFS(cmd, db.DB, appfs.FS, "migrations", args...); err != nil {
		return errors.Wrapf(err, "migrating database (%s)", cmd)
	}
	return nil
}
