package groups

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

func mustPersist(t *testing.T, r *SQLRepository, g *models.Group) int64 {
	t.Helper()
	id, err := r.Persist(context.Background(), g)
	require.NoError(t, err)
	g.ID = id
	return id
}

func TestPersist_InsertAssignsIDAndGetReadsBack(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	g := &models.Group{ID: 0, UserID: 7, Title: "Bank", Icon: "", Note: "main account"}
	id := mustPersist(t, r, g)
	require.Greater(t, id, int64(0))

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bank", got.Title)
	assert.Equal(t, "main account", got.Note)
	assert.Equal(t, int64(7), got.UserID)
	assert.False(t, got.Synchronized)
	assert.NotZero(t, got.TimestampCreation)
}

func TestPersist_NegativeIDIsNew(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	id := mustPersist(t, r, &models.Group{ID: -5, Title: "Temp"})
	require.Greater(t, id, int64(0))
}

func TestPersist_UpdateIsIdempotentOnID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	g := &models.Group{Title: "Bank"}
	id1 := mustPersist(t, r, g)
	id2 := mustPersist(t, r, g)
	require.Equal(t, id1, id2)

	g.Title = "Bank 2"
	id3 := mustPersist(t, r, g)
	require.Equal(t, id1, id3)

	got, err := r.Get(ctx, id1)
	require.NoError(t, err)
	require.Equal(t, "Bank 2", got.Title)

	all, err := r.List(ctx, models.NoParent, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestGet_MissingReturnsNotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	_, err := r.Get(context.Background(), 999)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestList_ParentSearchAndOrder(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	bank := mustPersist(t, r, &models.Group{Title: "Bank"})
	mustPersist(t, r, &models.Group{Title: "Mail", Note: "personal inbox"})
	mustPersist(t, r, &models.Group{Title: "Savings", GroupID: bank})

	top, err := r.List(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Bank", top[0].Title)
	assert.Equal(t, "Mail", top[1].Title)

	children, err := r.List(ctx, bank, "")
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Savings", children[0].Title)

	found, err := r.List(ctx, models.NoParent, "INBOX")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mail", found[0].Title)

	all, err := r.List(ctx, models.NoParent, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	none, err := r.List(ctx, 12345, "")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestDelete_PhysicalForLocalOnlyRows(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id := mustPersist(t, r, &models.Group{Title: "Local"})
	require.NoError(t, r.Delete(ctx, id))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pocket_groups WHERE id=?`, id).Scan(&n))
	require.Equal(t, 0, n)
}

func TestDelete_TombstonesServerKnownRows(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := mustPersist(t, r, &models.Group{Title: "Remote", ServerID: 55, Synchronized: true})
	require.NoError(t, r.Delete(ctx, id))

	_, err := r.Get(ctx, id)
	require.ErrorIs(t, err, common.ErrNotFound)

	pending, err := r.ListUnsynchronized(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].Deleted)
	assert.Equal(t, int64(55), pending[0].ServerID)
}

func TestDelete_MissingIsNoop(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	require.NoError(t, r.Delete(context.Background(), 4242))
}

func TestDeleteByParentIDAndCount(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	parent := mustPersist(t, r, &models.Group{Title: "Parent"})
	mustPersist(t, r, &models.Group{Title: "A", GroupID: parent})
	mustPersist(t, r, &models.Group{Title: "B", GroupID: parent})

	n, err := r.CountByParentID(ctx, parent)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, r.DeleteByParentID(ctx, parent))

	n, err = r.CountByParentID(ctx, parent)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	_, err = r.Get(ctx, parent)
	require.NoError(t, err, "parent itself is untouched")
}

func TestSyncSupport(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := mustPersist(t, r, &models.Group{Title: "Bank"})

	pending, err := r.ListUnsynchronized(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, r.MarkSynchronized(ctx, &models.Group{ID: id, ServerID: 900, ServerGroupID: 0}))

	pending, err = r.ListUnsynchronized(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)

	got, err := r.GetByServerID(ctx, 900)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.True(t, got.Synchronized)

	_, err = r.GetByServerID(ctx, 0)
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, r.Purge(ctx, id))
	_, err = r.GetByServerID(ctx, 900)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestRepositoryWorksInsideTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	var id int64
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		id, err = NewSQLiteRepository(tx).Persist(ctx, &models.Group{Title: "InTx"})
		return err
	})
	require.NoError(t, err)

	_, err = NewSQLiteRepository(db).Get(ctx, id)
	require.NoError(t, err)
}
