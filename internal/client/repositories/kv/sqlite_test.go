package kv

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	s, db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "wms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return s, db
}

func TestSQLite_SetAndGet(t *testing.T) {
	s, _ := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", `{"a":1}`))

	v, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, v)
}

func TestSQLite_GetAbsent(t *testing.T) {
	s, _ := openTestSQLite(t)

	v, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	s, _ := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "old"))
	require.NoError(t, s.Set(ctx, "k", "new"))

	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestSQLite_DeleteIsIdempotent(t *testing.T) {
	s, _ := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "x", "1"))
	require.NoError(t, s.Delete(ctx, "x"))
	require.NoError(t, s.Delete(ctx, "x"))

	_, ok, err := s.Get(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLite_SetAll(t *testing.T) {
	s, _ := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SetAll(ctx, map[string]string{"a": "1", "b": "2"}))

	for k, want := range map[string]string{"a": "1", "b": "2"} {
		v, ok, err := s.Get(ctx, k)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
}

func TestSQLite_MigrationsAreIdempotent(t *testing.T) {
	_, db := openTestSQLite(t)
	require.NoError(t, RunMigrations(context.Background(), db))
}

func TestSQLite_ErrorsWrapped(t *testing.T) {
	s, db := openTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := s.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[k]")

	err = s.Set(ctx, "k", "v")
	require.ErrorContains(t, err, "failed to set kv[k]")

	err = s.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete kv[k]")
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wms.db")
	ctx := context.Background()

	s, db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "persist", "yes"))
	require.NoError(t, db.Close())

	s2, db2, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db2.Close()

	v, ok, err := s2.Get(ctx, "persist")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "yes", v)
}
