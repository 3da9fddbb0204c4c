// Package facade wraps a typed storage collaborator with the public contract
// of the core: storage failures never cross this boundary as errors. Mutations
// report a common.Stat, reads fall back to empty results, and every failure
// is logged under the facade's component tag.
package facade

import (
	"context"
	"errors"

	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/logging"
)

const (
	TagGroup      = "facade.group"
	TagGroupField = "facade.group_field"
	TagField      = "facade.field"
)

// Store is the storage collaborator of one entity kind.
type Store[E models.Entity] interface {
	List(ctx context.Context, parentID int64, search string) ([]E, error)
	Get(ctx context.Context, id int64) (E, error)
	Persist(ctx context.Context, e E) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByParentID(ctx context.Context, parentID int64) error
	CountByParentID(ctx context.Context, parentID int64) (int, error)
}

// Owner supplies the id of the acting user.
type Owner interface {
	UserID() int64
}

type Facade[E models.Entity] struct {
	owner Owner
	store Store[E]
	log   logging.Logger
}

func New[E models.Entity](owner Owner, store Store[E], logger logging.Logger, tag string) *Facade[E] {
	return &Facade[E]{
		owner: owner,
		store: store,
		log:   logging.Component(logger, tag),
	}
}

func (f *Facade[E]) usable() bool {
	return f != nil && f.store != nil
}

// List returns the live rows under parentID matching search. Pass
// models.NoParent to ignore the parent. The result is never nil.
func (f *Facade[E]) List(ctx context.Context, parentID int64, search string) []E {
	if !f.usable() {
		return []E{}
	}
	rows, err := f.store.List(ctx, parentID, search)
	if err != nil {
		f.log.Error(ctx, "list failed", "parent_id", parentID, "error", err)
		return []E{}
	}
	if rows == nil {
		return []E{}
	}
	return rows
}

// Get reports false for missing or tombstoned rows and for storage failures.
func (f *Facade[E]) Get(ctx context.Context, id int64) (E, bool) {
	var zero E
	if !f.usable() {
		return zero, false
	}
	e, err := f.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			f.log.Error(ctx, "get failed", "id", id, "error", err)
		}
		return zero, false
	}
	return e, true
}

// Persist writes e as a dirty row owned by the acting user. New entities
// (id <= 0) get their id from storage; in every case the id returned by
// storage is copied back into e.
func (f *Facade[E]) Persist(ctx context.Context, e E) (int64, common.Stat) {
	if !f.usable() || e.IsNull() {
		return 0, common.StatError
	}
	if err := models.Validate(e); err != nil {
		f.log.Warn(ctx, "rejected invalid entity", "error", err)
		return 0, common.StatError
	}

	if models.IsNew(e.EntityID()) {
		e.SetEntityID(0)
	}
	if f.owner != nil {
		e.SetOwner(f.owner.UserID())
	}
	e.MarkDirty()

	id, err := f.store.Persist(ctx, e)
	if err != nil {
		f.log.Error(ctx, "persist failed", "id", e.EntityID(), "error", err)
		return 0, common.StatError
	}
	e.SetEntityID(id)
	return id, common.StatReady
}

// Delete removes the row; deleting an unknown id succeeds.
func (f *Facade[E]) Delete(ctx context.Context, id int64) common.Stat {
	if !f.usable() {
		return common.StatError
	}
	if err := f.store.Delete(ctx, id); err != nil {
		f.log.Error(ctx, "delete failed", "id", id, "error", err)
		return common.StatError
	}
	return common.StatReady
}

// DeleteByParent physically removes every row under parentID.
func (f *Facade[E]) DeleteByParent(ctx context.Context, parentID int64) common.Stat {
	if !f.usable() {
		return common.StatError
	}
	if err := f.store.DeleteByParentID(ctx, parentID); err != nil {
		f.log.Error(ctx, "delete by parent failed", "parent_id", parentID, "error", err)
		return common.StatError
	}
	return common.StatReady
}

// Children is List without a search filter that also reports failures.
func (f *Facade[E]) Children(ctx context.Context, parentID int64) ([]E, common.Stat) {
	if !f.usable() {
		return []E{}, common.StatError
	}
	rows, err := f.store.List(ctx, parentID, "")
	if err != nil {
		f.log.Error(ctx, "list children failed", "parent_id", parentID, "error", err)
		return []E{}, common.StatError
	}
	if rows == nil {
		rows = []E{}
	}
	return rows, common.StatReady
}

// CountChildren counts the live rows whose parent is the given group. It
// returns -1 when the facade or the parent is missing, and also when the
// count cannot be read.
func (f *Facade[E]) CountChildren(ctx context.Context, parent *models.Group) int {
	if !f.usable() || parent == nil {
		return -1
	}
	n, err := f.store.CountByParentID(ctx, parent.ID)
	if err != nil {
		f.log.Error(ctx, "count children failed", "parent_id", parent.ID, "error", err)
		return -1
	}
	return n
}
