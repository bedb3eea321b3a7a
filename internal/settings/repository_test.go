package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/dbx"
	"github.com/dmitrijs2005/guardian/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE settings (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(dbx.Direct(setupDB(t)))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k1", []byte{0x01, 0x02}))

	v, err := r.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, v)
}

func TestGet_NotExists_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(dbx.Direct(setupDB(t)))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	r := NewSQLiteRepository(dbx.Direct(setupDB(t)))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestListDeleteClear(t *testing.T) {
	r := NewSQLiteRepository(dbx.Direct(setupDB(t)))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "b", []byte{0xBB, 0xCC}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, []byte{0xBB, 0xCC}, m["b"])

	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "a"))
	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(dbx.Direct(db))
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get setting[k]")

	err = r.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set setting[k]")

	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list settings")
}

func TestEngineBacked_ClosedEngine(t *testing.T) {
	ctx := context.Background()
	e, err := store.Open(ctx, store.Options{Path: store.MemoryPath})
	require.NoError(t, err)
	r := NewSQLiteRepository(e)

	require.NoError(t, r.Set(ctx, "session", []byte("7")))
	v, err := r.Get(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, []byte("7"), v)

	require.NoError(t, e.Close())

	_, err = r.Get(ctx, "session")
	require.ErrorIs(t, err, common.ErrEngineClosed)
	require.ErrorIs(t, r.Set(ctx, "session", []byte("8")), common.ErrEngineClosed)
	_, err = r.List(ctx)
	require.ErrorIs(t, err, common.ErrEngineClosed)
}
