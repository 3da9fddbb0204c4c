package fields

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

func mustPersist(t *testing.T, r *SQLRepository, f *models.Field) int64 {
	t.Helper()
	id, err := r.Persist(context.Background(), f)
	require.NoError(t, err)
	f.ID = id
	return id
}

func TestPersistAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := mustPersist(t, r, &models.Field{GroupID: 2, GroupFieldID: 9, Title: "User", Value: "alice"})

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Value)
	assert.Equal(t, int64(9), got.GroupFieldID)
	assert.NotZero(t, got.TimestampCreation)
}

func TestList_SearchSkipsHiddenValues(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	mustPersist(t, r, &models.Field{GroupID: 1, Title: "User", Value: "secretive-bob"})
	mustPersist(t, r, &models.Field{GroupID: 1, Title: "Password", Value: "secret", IsHidden: true})
	mustPersist(t, r, &models.Field{GroupID: 1, Title: "Secret question", Value: "dog", IsHidden: true})

	found, err := r.List(ctx, models.NoParent, "SECRET")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "User", found[0].Title)
	assert.Equal(t, "Secret question", found[1].Title)

	all, err := r.List(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestGroupFieldScopedOperations(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	mustPersist(t, r, &models.Field{GroupID: 1, GroupFieldID: 10, Title: "A"})
	mustPersist(t, r, &models.Field{GroupID: 2, GroupFieldID: 10, Title: "B"})
	other := mustPersist(t, r, &models.Field{GroupID: 1, GroupFieldID: 11, Title: "C"})

	list, err := r.ListByGroupFieldID(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, r.DeleteByGroupFieldID(ctx, 10))

	list, err = r.ListByGroupFieldID(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = r.Get(ctx, other)
	require.NoError(t, err)
}

func TestDeleteAndCount(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	a := mustPersist(t, r, &models.Field{GroupID: 4, Title: "A"})
	mustPersist(t, r, &models.Field{GroupID: 4, Title: "B", ServerID: 8, Synchronized: true})

	n, err := r.CountByParentID(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, r.Delete(ctx, a))
	_, err = r.Get(ctx, a)
	require.ErrorIs(t, err, common.ErrNotFound)

	n, err = r.CountByParentID(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, r.DeleteByParentID(ctx, 4))
	n, err = r.CountByParentID(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestMarkSynchronizedStoresServerLinks(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := mustPersist(t, r, &models.Field{GroupID: 1, GroupFieldID: 2, Title: "User"})
	require.NoError(t, r.MarkSynchronized(ctx, &models.Field{ID: id, ServerID: 100, ServerGroupID: 10, ServerGroupFieldID: 20}))

	got, err := r.GetByServerID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ServerGroupID)
	assert.Equal(t, int64(20), got.ServerGroupFieldID)
	assert.True(t, got.Synchronized)
}
