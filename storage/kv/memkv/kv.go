// Package memkv is an in-process core.KVStore with a fixed byte quota, the shape of browser local storage.
package memkv

import (
	"context"
	"sort"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/trezcool/feedesk/core"
)

// DefaultQuota mirrors the usual 5MB per-origin limit of browsers.
const DefaultQuota = 5 << 20

type DB struct {
	sync.Mutex
	c     *cache.Cache
	quota int
	used  int
}

var _ core.KVStore = (*DB)(nil)

// Open returns an empty store. quota is the maximum total size of keys plus values; <= 0 disables it.
func Open(quota int) *DB {
	return &DB{
		c:     cache.New(cache.NoExpiration, 0),
		quota: quota,
	}
}

func (db *DB) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := db.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	data := v.([]byte)
	return append([]byte(nil), data...), true, nil
}

func (db *DB) Set(_ context.Context, key string, value []byte) error {
	db.Lock()
	defer db.Unlock()

	used := db.used + len(key) + len(value)
	if old, ok := db.c.Get(key); ok {
		used -= len(key) + len(old.([]byte))
	}
	if db.quota > 0 && used > db.quota {
		return core.ErrQuotaExceeded
	}
	db.c.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	db.used = used
	return nil
}

func (db *DB) Delete(_ context.Context, key string) error {
	db.Lock()
	defer db.Unlock()

	if old, ok := db.c.Get(key); ok {
		db.used -= len(key) + len(old.([]byte))
		db.c.Delete(key)
	}
	return nil
}

func (db *DB) Keys(_ context.Context) ([]string, error) {
	items := db.c.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Used is the number of bytes currently counted against the quota.
func (db *DB) Used() int {
	db.Lock()
	defer db.Unlock()
	return db.used
}

func (db *DB) Close() error {
	db.c.Flush()
	return nil
}
