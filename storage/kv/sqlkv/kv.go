// Package sqlkv stores the collections in the kv_entries table of a SQL database (sqlite or postgres).
package sqlkv

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
)

type DB struct {
	db    *sqlx.DB
	quota int64
}

var _ core.KVCloser = (*DB)(nil)

// New wraps a migrated database. quota caps the total size of stored values; <= 0 disables it.
func New(db *sqlx.DB, quota int64) *DB {
	return &DB{db: db, quota: quota}
}

// SQL returns the underlying database, eg. to run migrations.
func (kv *DB) SQL() *sqlx.DB { return kv.db }

type entry struct {
	ID        string    `db:"id"`
	Data      string    `db:"data"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (kv *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data string
	err := kv.db.GetContext(ctx, &data, kv.db.Rebind(`SELECT data FROM kv_entries WHERE id = ?`), key)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "selecting %q", key)
	}
	return []byte(data), true, nil
}

func (kv *DB) Set(ctx context.Context, key string, value []byte) error {
	tx, err := kv.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if kv.quota > 0 {
		var used int64
		q := tx.Rebind(`SELECT COALESCE(SUM(LENGTH(data)), 0) FROM kv_entries WHERE id <> ?`)
		if err := tx.GetContext(ctx, &used, q, key); err != nil {
			return errors.Wrap(err, "computing used space")
		}
		if used+int64(len(value)) > kv.quota {
			return core.ErrQuotaExceeded
		}
	}

	e := entry{ID: key, Data: string(value), UpdatedAt: core.NowFunc().UTC()}
	q := `INSERT INTO kv_entries (id, data, updated_at) VALUES (:id, :data, :updated_at)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	if _, err := tx.NamedExecContext(ctx, q, e); err != nil {
		return errors.Wrapf(err, "upserting %q", key)
	}
	return errors.Wrap(tx.Commit(), "committing")
}

func (kv *DB) Delete(ctx context.Context, key string) error {
	_, err := kv.db.ExecContext(ctx, kv.db.Rebind(`DELETE FROM kv_entries WHERE id = ?`), key)
	return errors.Wrapf(err, "deleting %q", key)
}

func (kv *DB) Keys(ctx context.Context) ([]string, error) {
	ord := core.KVOrdering{Field: "id", Ascending: true}
	var keys []string
	if err := kv.db.SelectContext(ctx, &keys, `SELECT id FROM kv_entries ORDER BY `+ord.String()); err != nil {
		return nil, errors.Wrap(err, "listing keys")
	}
	return keys, nil
}

// Entries lists the stored keys with their size and last write time, for the admin CLI.
func (kv *DB) Entries(ctx context.Context, ord core.KVOrdering) ([]EntryInfo, error) {
	switch ord.Field {
	case "id", "updated_at", "size":
	default:
		return nil, errors.Errorf("cannot order entries by %q", ord.Field)
	}
	var infos []EntryInfo
	q := `SELECT id, LENGTH(data) AS size, updated_at FROM kv_entries ORDER BY ` + ord.String()
	if err := kv.db.SelectContext(ctx, &infos, q); err != nil {
		return nil, errors.Wrap(err, "listing entries")
	}
	return infos, nil
}

type EntryInfo struct {
	Key       string    `db:"id"`
	Size      int64     `db:"size"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (kv *DB) Close() error {
	return kv.db.Close()
}
