package groupfields

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/passy1977/pocket-web-backend/internal/client/migrations"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "pocket.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db, dbx.SQLite))
	return db
}

func mustPersist(t *testing.T, r *SQLRepository, gf *models.GroupField) int64 {
	t.Helper()
	id, err := r.Persist(context.Background(), gf)
	require.NoError(t, err)
	gf.ID = id
	return id
}

func TestPersistAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := mustPersist(t, r, &models.GroupField{GroupID: 3, Title: "Password", IsHidden: true})

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Password", got.Title)
	assert.Equal(t, int64(3), got.GroupID)
	assert.True(t, got.IsHidden)

	got.Title = "PIN"
	id2 := mustPersist(t, r, got)
	require.Equal(t, id, id2)

	got, err = r.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "PIN", got.Title)
}

func TestList_FiltersByParentAndTitle(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	mustPersist(t, r, &models.GroupField{GroupID: 1, Title: "Username"})
	mustPersist(t, r, &models.GroupField{GroupID: 1, Title: "Password"})
	mustPersist(t, r, &models.GroupField{GroupID: 2, Title: "Url"})

	list, err := r.List(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Username", list[0].Title)

	list, err = r.List(ctx, models.NoParent, "pass")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Password", list[0].Title)
}

func TestDelete_TombstoneAndPhysical(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	local := mustPersist(t, r, &models.GroupField{GroupID: 1, Title: "Local"})
	remote := mustPersist(t, r, &models.GroupField{GroupID: 1, Title: "Remote", ServerID: 12, Synchronized: true})

	require.NoError(t, r.Delete(ctx, local))
	require.NoError(t, r.Delete(ctx, remote))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pocket_group_fields`).Scan(&n))
	require.Equal(t, 1, n, "only the server-known row survives as a tombstone")

	_, err := r.Get(ctx, remote)
	require.ErrorIs(t, err, common.ErrNotFound)

	count, err := r.CountByParentID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestDeleteByParentID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	mustPersist(t, r, &models.GroupField{GroupID: 5, Title: "A"})
	mustPersist(t, r, &models.GroupField{GroupID: 5, Title: "B"})
	keep := mustPersist(t, r, &models.GroupField{GroupID: 6, Title: "C"})

	require.NoError(t, r.DeleteByParentID(ctx, 5))

	all, err := r.List(ctx, models.NoParent, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep, all[0].ID)
}

func TestMarkSynchronizedAndServerLookup(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := mustPersist(t, r, &models.GroupField{GroupID: 1, Title: "Username"})
	require.NoError(t, r.MarkSynchronized(ctx, &models.GroupField{ID: id, ServerID: 70, ServerGroupID: 40}))

	got, err := r.GetByServerID(ctx, 70)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(40), got.ServerGroupID)
	assert.True(t, got.Synchronized)

	pending, err := r.ListUnsynchronized(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}
