package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/storage/kv/memkv"
	"github.com/trezcool/feedesk/storage/kv/sqlkv"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		db, err := Open(ctx, &core.Config{Storage: core.StorageConfig{Driver: Memory, QuotaBytes: 64}})
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		assert.IsType(t, &memkv.DB{}, db)
		assert.True(t, core.IsQuotaExceeded(db.Set(ctx, "k", make([]byte, 128))))
	})

	t.Run("sqlite", func(t *testing.T) {
		conf := &core.Config{Storage: core.StorageConfig{Driver: SQLite, DSN: filepath.Join(t.TempDir(), "kv.db")}}
		db, err := Open(ctx, conf)
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		assert.IsType(t, &sqlkv.DB{}, db)

		require.NoError(t, db.Set(ctx, "feedesk_v1_students", []byte(`[]`)))
		v, ok, err := db.Get(ctx, "feedesk_v1_students")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[]`, string(v))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, &core.Config{Storage: core.StorageConfig{Driver: "floppy"}})
		assert.EqualError(t, err, `unknown storage driver "floppy"`)
	})
}
