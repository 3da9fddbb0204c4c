package facade

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/passy1977/pocket-web-backend/internal/client/migrations"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/client/repositories/fields"
	"github.com/passy1977/pocket-web-backend/internal/client/repositories/groups"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/dbx"
	"github.com/passy1977/pocket-web-backend/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type ownerID int64

func (o ownerID) UserID() int64 { return int64(o) }

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "pocket.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db, dbx.SQLite))
	return db
}

// failingGroups fails every call it overrides; the rest panic through the
// nil embedded interface.
type failingGroups struct {
	groups.Repository
}

var errBoom = errors.New("boom")

func (failingGroups) List(context.Context, int64, string) ([]*models.Group, error) {
	return nil, errBoom
}
func (failingGroups) Get(context.Context, int64) (*models.Group, error) { return nil, errBoom }
func (failingGroups) Persist(context.Context, *models.Group) (int64, error) {
	return 0, errBoom
}
func (failingGroups) Delete(context.Context, int64) error           { return errBoom }
func (failingGroups) DeleteByParentID(context.Context, int64) error { return errBoom }
func (failingGroups) CountByParentID(context.Context, int64) (int, error) {
	return 0, errBoom
}

func TestPersist_NewGroupGetsIDOwnerAndDirtyFlag(t *testing.T) {
	f := NewGroups(ownerID(42), groups.NewSQLiteRepository(setupDB(t)), logging.Nop())
	ctx := context.Background()

	g := &models.Group{ID: 0, Title: "Bank", Synchronized: true}
	id, st := f.Persist(ctx, g)
	require.Equal(t, common.StatReady, st)
	require.Greater(t, id, int64(0))
	assert.Equal(t, id, g.ID)
	assert.Equal(t, int64(42), g.UserID)
	assert.False(t, g.Synchronized)

	got, ok := f.Get(ctx, id)
	require.True(t, ok)
	assert.Equal(t, "Bank", got.Title)
	assert.Equal(t, "", got.Icon)
	assert.Equal(t, "", got.Note)
	assert.False(t, got.Synchronized)
}

func TestPersist_IdempotentOnAssignedID(t *testing.T) {
	f := NewGroups(ownerID(1), groups.NewSQLiteRepository(setupDB(t)), logging.Nop())
	ctx := context.Background()

	g := &models.Group{Title: "Bank"}
	id1, st := f.Persist(ctx, g)
	require.Equal(t, common.StatReady, st)
	id2, st := f.Persist(ctx, g)
	require.Equal(t, common.StatReady, st)
	assert.Equal(t, id1, id2)
	assert.Len(t, f.List(ctx, models.NoParent, ""), 1)
}

func TestPersist_NegativeIDTreatedAsNew(t *testing.T) {
	f := NewGroups(ownerID(1), groups.NewSQLiteRepository(setupDB(t)), logging.Nop())

	g := &models.Group{ID: -3, Title: "Staged"}
	id, st := f.Persist(context.Background(), g)
	require.Equal(t, common.StatReady, st)
	assert.Greater(t, id, int64(0))
}

func TestPersist_InvalidArgumentsNeverTouchStorage(t *testing.T) {
	f := NewGroups(ownerID(1), failingGroups{}, logging.Nop())
	ctx := context.Background()

	_, st := f.Persist(ctx, nil)
	assert.Equal(t, common.StatError, st)

	_, st = f.Persist(ctx, &models.Group{Title: ""})
	assert.Equal(t, common.StatError, st)
}

func TestStorageFailuresBecomeStatuses(t *testing.T) {
	f := NewGroups(ownerID(1), failingGroups{}, logging.Nop())
	ctx := context.Background()

	_, st := f.Persist(ctx, &models.Group{Title: "Bank"})
	assert.Equal(t, common.StatError, st)
	assert.Equal(t, common.StatError, f.Delete(ctx, 1))
	assert.Equal(t, common.StatError, f.DeleteByParent(ctx, 1))

	list := f.List(ctx, 0, "")
	require.NotNil(t, list)
	assert.Empty(t, list)

	_, ok := f.Get(ctx, 1)
	assert.False(t, ok)

	children, st := f.Children(ctx, 1)
	assert.Equal(t, common.StatError, st)
	assert.NotNil(t, children)

	assert.Equal(t, -1, f.CountChildren(ctx, &models.Group{ID: 1, Title: "x"}))
}

func TestNilFacadeIsSafe(t *testing.T) {
	var f *Groups
	ctx := context.Background()

	assert.NotNil(t, f.List(ctx, 0, ""))
	_, ok := f.Get(ctx, 1)
	assert.False(t, ok)
	_, st := f.Persist(ctx, &models.Group{Title: "x"})
	assert.Equal(t, common.StatError, st)
	assert.Equal(t, common.StatError, f.Delete(ctx, 1))
	assert.Equal(t, -1, f.CountChildren(ctx, &models.Group{ID: 1}))
}

func TestCountChildren_DistinguishesInvalidFromZero(t *testing.T) {
	db := setupDB(t)
	gf := NewGroups(ownerID(1), groups.NewSQLiteRepository(db), logging.Nop())
	ff := NewFields(ownerID(1), fields.NewSQLiteRepository(db), logging.Nop())
	ctx := context.Background()

	parent := &models.Group{Title: "Bank"}
	_, st := gf.Persist(ctx, parent)
	require.Equal(t, common.StatReady, st)

	assert.Equal(t, -1, ff.CountChildren(ctx, nil))
	assert.Equal(t, 0, ff.CountChildren(ctx, parent))

	_, st = ff.Persist(ctx, &models.Field{GroupID: parent.ID, Title: "password", Value: "secret"})
	require.Equal(t, common.StatReady, st)
	assert.Equal(t, 1, ff.CountChildren(ctx, parent))

	var nilFields *Fields
	assert.Equal(t, -1, nilFields.CountChildren(ctx, parent))
}

func TestDelete_MissingIDIsNoop(t *testing.T) {
	f := NewGroups(ownerID(1), groups.NewSQLiteRepository(setupDB(t)), logging.Nop())
	assert.Equal(t, common.StatReady, f.Delete(context.Background(), 999))
}

func TestFields_GroupFieldScope(t *testing.T) {
	f := NewFields(ownerID(1), fields.NewSQLiteRepository(setupDB(t)), logging.Nop())
	ctx := context.Background()

	_, st := f.Persist(ctx, &models.Field{GroupID: 1, GroupFieldID: 5, Title: "user", Value: "bob"})
	require.Equal(t, common.StatReady, st)
	_, st = f.Persist(ctx, &models.Field{GroupID: 1, GroupFieldID: 6, Title: "pin", Value: "1234"})
	require.Equal(t, common.StatReady, st)

	require.Len(t, f.ListByGroupField(ctx, 5), 1)
	require.Equal(t, common.StatReady, f.DeleteByGroupField(ctx, 5))
	assert.Empty(t, f.ListByGroupField(ctx, 5))

	children, st := f.Children(ctx, 1)
	require.Equal(t, common.StatReady, st)
	assert.Len(t, children, 1)
}
