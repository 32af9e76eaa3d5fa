// Package rediskv keeps the collections as plain redis strings.
package rediskv

import (
	"context"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
)

type DB struct {
	client *redis.Client
	match  string
}

var _ core.KVCloser = (*DB)(nil)

// Open connects to redis and checks the connection. Keys lists only the keys matching match ("*" when empty).
func Open(ctx context.Context, addr, password string, dbIndex int, match string) (*DB, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbIndex,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", addr)
	}
	return New(client, match), nil
}

func New(client *redis.Client, match string) *DB {
	if match == "" {
		match = "*"
	}
	return &DB{client: client, match: match}
}

func (db *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := db.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "GET %s", key)
	}
	return data, true, nil
}

func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	if err := db.client.Set(ctx, key, value, 0).Err(); err != nil {
		if isOOM(err) {
			return errors.Wrap(core.ErrQuotaExceeded, err.Error())
		}
		return errors.Wrapf(err, "SET %s", key)
	}
	return nil
}

func (db *DB) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(db.client.Del(ctx, key).Err(), "DEL %s", key)
}

func (db *DB) Keys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := db.client.Scan(ctx, cursor, db.match, 100).Result()
		if err != nil {
			return nil, errors.Wrap(err, "SCAN")
		}
		keys = append(keys, batch...)
		if cursor = next; cursor == 0 {
			break
		}
	}
	return keys, nil
}

func (db *DB) Close() error {
	return db.client.Close()
}

// isOOM reports a write rejected by maxmemory.
func isOOM(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM ")
}
