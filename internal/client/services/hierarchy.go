package services

import (
	"context"

	"github.com/passy1977/pocket-web-backend/internal/client/client"
	"github.com/passy1977/pocket-web-backend/internal/client/facade"
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/client/session"
	"github.com/passy1977/pocket-web-backend/internal/client/showlist"
	"github.com/passy1977/pocket-web-backend/internal/client/syncer"
	"github.com/passy1977/pocket-web-backend/internal/common"
	"github.com/passy1977/pocket-web-backend/internal/logging"
)

// SyncPolicy selects what a mutation does after its local write.
type SyncPolicy int

const (
	// SyncQuiet pushes but reports the local status.
	SyncQuiet SyncPolicy = iota
	// SyncReport pushes and reports the remote status.
	SyncReport
	// SyncSkip only writes locally.
	SyncSkip
)

type Syncer interface {
	Sync(ctx context.Context) common.Stat
}

// Copier performs server-side copy/move of groups and fields.
type Copier interface {
	CopyGroup(ctx context.Context, user *models.User, srcID, dstID int64, move bool) error
	CopyField(ctx context.Context, user *models.User, srcID, dstID int64, move bool) error
	Status() common.Stat
}

type UserSource interface {
	User() *models.User
}

// Hierarchy composes the group, group field and field facades. It decorates
// groups with their has-child flag, cascades deletes top-down and drives the
// edit session of one group through the show list.
type Hierarchy struct {
	users       UserSource
	groups      *facade.Groups
	groupFields *facade.GroupFields
	fields      *facade.Fields
	syncer      Syncer
	copier      Copier
	show        *showlist.ShowList
	log         logging.Logger
}

func NewHierarchy(users UserSource, groups *facade.Groups, groupFields *facade.GroupFields, fields *facade.Fields,
	syncer Syncer, copier Copier, logger logging.Logger) *Hierarchy {
	return &Hierarchy{
		users:       users,
		groups:      groups,
		groupFields: groupFields,
		fields:      fields,
		syncer:      syncer,
		copier:      copier,
		show:        showlist.New(),
		log:         logging.Component(logger, "hierarchy"),
	}
}

// NewSessionHierarchy wires a Hierarchy for one session on top of the local
// repositories and the remote client.
func NewSessionHierarchy(sess *session.Session, repos *client.Repositories, c client.Client, logger logging.Logger) *Hierarchy {
	return NewHierarchy(sess,
		facade.NewGroups(sess, repos.Groups, logger),
		facade.NewGroupFields(sess, repos.GroupFields, logger),
		facade.NewFields(sess, repos.Fields, logger),
		syncer.New(sess, c, c.Timeouts(), logger),
		c,
		logger,
	)
}

// after runs the sync step of a mutation whose local write returned local.
func (h *Hierarchy) after(ctx context.Context, policy SyncPolicy, local common.Stat) common.Stat {
	if !local.IsSuccess() || policy == SyncSkip || h.syncer == nil {
		return local
	}
	remote := h.syncer.Sync(ctx)
	if policy == SyncReport {
		return remote
	}
	if !remote.IsSuccess() {
		h.log.Warn(ctx, "sync after local write failed", "status", remote.String())
	}
	return local
}

// Sync pushes pending local changes.
func (h *Hierarchy) Sync(ctx context.Context) common.Stat {
	if h.syncer == nil {
		return common.StatError
	}
	return h.syncer.Sync(ctx)
}

func (h *Hierarchy) decorate(ctx context.Context, g *models.Group) {
	groups := h.groups.CountChildren(ctx, g)
	fields := h.fields.CountChildren(ctx, g)
	g.HasChild = max(groups, 0)+max(fields, 0) > 0
}

// ListWithChildFlag lists the groups under parentID matching search, each
// with HasChild set. The result is never nil.
func (h *Hierarchy) ListWithChildFlag(ctx context.Context, parentID int64, search string) []*models.Group {
	list := h.groups.List(ctx, parentID, search)
	for _, g := range list {
		h.decorate(ctx, g)
	}
	return list
}

func (h *Hierarchy) GetGroup(ctx context.Context, id int64) (*models.Group, bool) {
	g, ok := h.groups.Get(ctx, id)
	if !ok {
		return nil, false
	}
	h.decorate(ctx, g)
	return g, true
}

func (h *Hierarchy) ListGroupFields(ctx context.Context, groupID int64) []*models.GroupField {
	return h.groupFields.List(ctx, groupID, "")
}

func (h *Hierarchy) ListFields(ctx context.Context, groupID int64, search string) []*models.Field {
	return h.fields.List(ctx, groupID, search)
}

func (h *Hierarchy) GetField(ctx context.Context, id int64) (*models.Field, bool) {
	return h.fields.Get(ctx, id)
}

func (h *Hierarchy) GetGroupField(ctx context.Context, id int64) (*models.GroupField, bool) {
	return h.groupFields.Get(ctx, id)
}

// PersistGroup writes g locally as a dirty row owned by the session user
// and then syncs according to policy. g.ID is updated in place.
func (h *Hierarchy) PersistGroup(ctx context.Context, g *models.Group, policy SyncPolicy) common.Stat {
	if h.createsCycle(ctx, g) {
		return common.StatError
	}
	_, st := h.groups.Persist(ctx, g)
	return h.after(ctx, policy, st)
}

func (h *Hierarchy) PersistGroupField(ctx context.Context, gf *models.GroupField, policy SyncPolicy) common.Stat {
	_, st := h.groupFields.Persist(ctx, gf)
	if st.IsSuccess() {
		gf.NewInsertion = false
	}
	return h.after(ctx, policy, st)
}

func (h *Hierarchy) PersistField(ctx context.Context, f *models.Field, policy SyncPolicy) common.Stat {
	_, st := h.fields.Persist(ctx, f)
	return h.after(ctx, policy, st)
}

// createsCycle reports whether g.GroupID is g itself or one of its
// descendants.
func (h *Hierarchy) createsCycle(ctx context.Context, g *models.Group) bool {
	if g == nil || models.IsNew(g.ID) {
		return false
	}
	seen := make(map[int64]struct{})
	for id := g.GroupID; id > 0; {
		if id == g.ID {
			h.log.Warn(ctx, "group cannot be its own ancestor", "id", g.ID, "parent", g.GroupID)
			return true
		}
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
		parent, ok := h.groups.Get(ctx, id)
		if !ok {
			return false
		}
		id = parent.GroupID
	}
	return false
}

type cascadeStep struct {
	name string
	run  func() common.Stat
}

// runSaga runs steps in order and stops at the first failure, which is
// logged by name. Steps already done are not undone.
func (h *Hierarchy) runSaga(ctx context.Context, id int64, steps []cascadeStep) common.Stat {
	for _, s := range steps {
		if st := s.run(); !st.IsSuccess() {
			h.log.Error(ctx, "cascade delete stopped", "id", id, "step", s.name, "status", st.String())
			return common.StatError
		}
	}
	return common.StatReady
}

// deleteGroupTree deletes nested groups depth first, then the categories,
// the fields and finally the group itself. Groups already in visited are
// skipped, so a parent cycle in storage cannot recurse forever.
func (h *Hierarchy) deleteGroupTree(ctx context.Context, id int64, visited map[int64]struct{}) common.Stat {
	visited[id] = struct{}{}
	children, st := h.groups.Children(ctx, id)
	if !st.IsSuccess() {
		h.log.Error(ctx, "cascade delete stopped", "id", id, "step", "child groups", "status", st.String())
		return common.StatError
	}
	for _, c := range children {
		if _, seen := visited[c.ID]; seen {
			continue
		}
		if st := h.deleteGroupTree(ctx, c.ID, visited); !st.IsSuccess() {
			return st
		}
	}

	return h.runSaga(ctx, id, []cascadeStep{
		{"group fields", func() common.Stat { return h.groupFields.DeleteByParent(ctx, id) }},
		{"fields", func() common.Stat { return h.fields.DeleteByParent(ctx, id) }},
		{"group", func() common.Stat { return h.groups.Delete(ctx, id) }},
	})
}

// DeleteGroup removes g with everything below it.
func (h *Hierarchy) DeleteGroup(ctx context.Context, g *models.Group, policy SyncPolicy) common.Stat {
	if g == nil || models.IsNew(g.ID) {
		return common.StatError
	}
	return h.after(ctx, policy, h.deleteGroupTree(ctx, g.ID, make(map[int64]struct{})))
}

func (h *Hierarchy) DeleteField(ctx context.Context, id int64, policy SyncPolicy) common.Stat {
	return h.after(ctx, policy, h.fields.Delete(ctx, id))
}

func (h *Hierarchy) deleteGroupField(ctx context.Context, id int64) common.Stat {
	return h.runSaga(ctx, id, []cascadeStep{
		{"fields", func() common.Stat { return h.fields.DeleteByGroupField(ctx, id) }},
		{"group field", func() common.Stat { return h.groupFields.Delete(ctx, id) }},
	})
}

// DeleteGroupField removes a category and its fields.
func (h *Hierarchy) DeleteGroupField(ctx context.Context, id int64, policy SyncPolicy) common.Stat {
	return h.after(ctx, policy, h.deleteGroupField(ctx, id))
}

func (h *Hierarchy) CountChildGroups(ctx context.Context, g *models.Group) int {
	return h.groups.CountChildren(ctx, g)
}

func (h *Hierarchy) CountChildGroupFields(ctx context.Context, g *models.Group) int {
	return h.groupFields.CountChildren(ctx, g)
}

func (h *Hierarchy) CountChildFields(ctx context.Context, g *models.Group) int {
	return h.fields.CountChildren(ctx, g)
}

// CountChildren counts the nested groups and fields of g, or returns -1
// when g is nil or a count fails. Childless groups give 0.
func (h *Hierarchy) CountChildren(ctx context.Context, g *models.Group) int {
	groups := h.CountChildGroups(ctx, g)
	fields := h.CountChildFields(ctx, g)
	if groups < 0 || fields < 0 {
		return -1
	}
	return groups + fields
}

// BeginEdit starts the edit session of g, loading its categories into the
// show list. A new group starts with an empty list.
func (h *Hierarchy) BeginEdit(ctx context.Context, g *models.Group) common.Stat {
	if g == nil {
		return common.StatError
	}
	h.show.Clear()
	if models.IsNew(g.ID) {
		return common.StatReady
	}
	gfs, st := h.groupFields.Children(ctx, g.ID)
	if !st.IsSuccess() {
		return st
	}
	for _, gf := range gfs {
		h.show.Add(gf)
	}
	return common.StatReady
}

// AddGroupField stages a new category with a temporary negative id.
func (h *Hierarchy) AddGroupField(title string, hidden bool) (*models.GroupField, bool) {
	gf := &models.GroupField{
		ID:           h.show.NextTempID(),
		Title:        title,
		IsHidden:     hidden,
		NewInsertion: true,
	}
	if !h.show.Add(gf) {
		return nil, false
	}
	return gf, true
}

func (h *Hierarchy) RemoveGroupField(id int64) {
	h.show.Remove(id)
}

func (h *Hierarchy) Staged() []*models.GroupField {
	return h.show.Items()
}

// CommitEdit persists g and its staged categories, deletes the categories
// removed from the show list and syncs once. The show list is kept on a
// local failure, and on a failed push under SyncReport, so the edit can be
// retried. Committed entries carry their stored ids by then.
func (h *Hierarchy) CommitEdit(ctx context.Context, g *models.Group, policy SyncPolicy) common.Stat {
	if h.createsCycle(ctx, g) {
		return common.StatError
	}
	if _, st := h.groups.Persist(ctx, g); !st.IsSuccess() {
		return st
	}

	existing, st := h.groupFields.Children(ctx, g.ID)
	if !st.IsSuccess() {
		return st
	}
	for _, gf := range existing {
		if _, kept := h.show.Get(gf.ID); kept {
			continue
		}
		if st := h.deleteGroupField(ctx, gf.ID); !st.IsSuccess() {
			return st
		}
	}

	for _, gf := range h.show.Items() {
		tmp := gf.ID
		gf.GroupID = g.ID
		if gf.NewInsertion {
			gf.ID = 0
		}
		if _, st := h.groupFields.Persist(ctx, gf); !st.IsSuccess() {
			gf.ID = tmp
			return st
		}
		if gf.NewInsertion {
			gf.NewInsertion = false
			h.show.Remove(tmp)
			h.show.Add(gf)
		}
	}

	st = h.after(ctx, policy, common.StatReady)
	if policy != SyncReport || st.IsSuccess() {
		h.show.Clear()
	}
	return st
}

func (h *Hierarchy) CancelEdit() {
	h.show.Clear()
}

func (h *Hierarchy) copy(ctx context.Context, policy SyncPolicy, call func(*models.User) error) common.Stat {
	if h.copier == nil || h.users == nil {
		return common.StatError
	}
	user := h.users.User()
	if user == nil {
		return common.StatUserNotFound
	}
	defer user.Wipe()

	if err := call(user); err != nil {
		h.log.Warn(ctx, "copy failed", "error", err)
		return h.copier.Status()
	}
	return h.after(ctx, policy, common.StatOK)
}

// CopyGroup copies (move: relocates) group srcID under group dstID.
func (h *Hierarchy) CopyGroup(ctx context.Context, srcID, dstID int64, move bool, policy SyncPolicy) common.Stat {
	return h.copy(ctx, policy, func(u *models.User) error {
		return h.copier.CopyGroup(ctx, u, srcID, dstID, move)
	})
}

// CopyField copies (move: relocates) field srcID into group dstID.
func (h *Hierarchy) CopyField(ctx context.Context, srcID, dstID int64, move bool, policy SyncPolicy) common.Stat {
	return h.copy(ctx, policy, func(u *models.User) error {
		return h.copier.CopyField(ctx, u, srcID, dstID, move)
	})
}
