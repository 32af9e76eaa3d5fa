// Package kv opens the KVStore provider selected by the configuration.
package kv

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/storage/database"
	"github.com/trezcool/feedesk/storage/kv/memkv"
	"github.com/trezcool/feedesk/storage/kv/rediskv"
	"github.com/trezcool/feedesk/storage/kv/sqlkv"
)

// Drivers
const (
	Memory   = "memory"
	Redis    = "redis"
	SQLite   = database.SQLite
	Postgres = database.Postgres
)

// Open returns the provider of conf.Storage.Driver. SQL databases are migrated before use.
func Open(ctx context.Context, conf *core.Config) (core.KVCloser, error) {
	sconf := conf.Storage
	switch sconf.Driver {
	case Memory, "":
		return memkv.Open(int(sconf.QuotaBytes)), nil
	case Redis:
		db, err := rediskv.Open(ctx, sconf.RedisAddr, sconf.RedisPassword, sconf.RedisDB, sconf.Namespace+"_*")
		if err != nil {
			return nil, errors.Wrap(err, "opening redis")
		}
		return db, nil
	case SQLite, Postgres:
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlkv.New(db, sconf.QuotaBytes), nil
	}
	return nil, errors.Errorf("unknown storage driver %q", sconf.Driver)
}
