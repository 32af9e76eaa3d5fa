package sqlkv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/storage/database"
)

func openTestDB(t *testing.T, quota int64) *DB {
	t.Helper()

	conf := &core.Config{Storage: core.StorageConfig{
		Driver: database.SQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}}
	db, err := database.Open(context.Background(), conf)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	kv := New(db, quota)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestDB(t *testing.T) {
	ctx := context.Background()
	kv := openTestDB(t, 0)

	_, ok, err := kv.Get(ctx, "ns_students")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "ns_students", []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, "ns_students", []byte(`[{"id":"ST001"}]`)))
	require.NoError(t, kv.Set(ctx, "ns_fees", []byte(`[]`)))

	v, ok, err := kv.Get(ctx, "ns_students")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"ST001"}]`, string(v))

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ns_fees", "ns_students"}, keys)

	infos, err := kv.Entries(ctx, core.KVOrdering{Field: "size"})
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "ns_students", infos[0].Key)

	_, err = kv.Entries(ctx, core.KVOrdering{Field: "data; DROP TABLE kv_entries"})
	assert.Error(t, err)

	require.NoError(t, kv.Delete(ctx, "ns_students"))
	require.NoError(t, kv.Delete(ctx, "ns_students"))
	_, ok, err = kv.Get(ctx, "ns_students")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDB_quota(t *testing.T) {
	ctx := context.Background()
	kv := openTestDB(t, 8)

	require.NoError(t, kv.Set(ctx, "a", []byte("12345")))
	require.NoError(t, kv.Set(ctx, "a", []byte("12345678")), "a replaced value does not count twice")

	err := kv.Set(ctx, "b", []byte("1"))
	assert.True(t, core.IsQuotaExceeded(err))

	_, ok, err := kv.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}
