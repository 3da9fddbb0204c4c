package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/passy1977/pocket-web-backend/internal/client/models"
	"github.com/passy1977/pocket-web-backend/internal/common"
	pb "github.com/passy1977/pocket-web-backend/internal/proto"
)

// errMapID reports a server row whose parent has no local counterpart.
var errMapID = errors.New("cannot map server id to a local row")

// collect gathers every row not yet acknowledged by the server.
func collect(ctx context.Context, repos *Repositories, user *models.User) (*pb.SendDataRequest, error) {
	gs, err := repos.Groups.ListUnsynchronized(ctx)
	if err != nil {
		return nil, err
	}
	gfs, err := repos.GroupFields.ListUnsynchronized(ctx)
	if err != nil {
		return nil, err
	}
	fs, err := repos.Fields.ListUnsynchronized(ctx)
	if err != nil {
		return nil, err
	}
	return &pb.SendDataRequest{
		User:        UserToProto(user),
		Groups:      mapAll(gs, GroupToProto),
		GroupFields: mapAll(gfs, GroupFieldToProto),
		Fields:      mapAll(fs, FieldToProto),
	}, nil
}

// reconcile applies a SendData response to the local store. Acknowledged
// rows (LocalID > 0) get their server ids, acknowledged tombstones are purged
// and rows originating on the server are upserted with their parents
// resolved by server id. Groups go first, so that categories and fields can
// find them.
func reconcile(ctx context.Context, repos *Repositories, resp *pb.SendDataResponse) error {
	if err := reconcileGroups(ctx, repos, resp.Groups); err != nil {
		return err
	}
	for _, p := range resp.GroupFields {
		if err := reconcileGroupField(ctx, repos, p); err != nil {
			return err
		}
	}
	for _, p := range resp.Fields {
		if err := reconcileField(ctx, repos, p); err != nil {
			return err
		}
	}
	return nil
}

// localGroupID resolves a server group id; 0 stays the top level.
func localGroupID(ctx context.Context, repos *Repositories, serverGroupID int64) (int64, error) {
	if serverGroupID == 0 {
		return 0, nil
	}
	g, err := repos.Groups.GetByServerID(ctx, serverGroupID)
	if errors.Is(err, common.ErrNotFound) {
		return 0, fmt.Errorf("%w: group %d", errMapID, serverGroupID)
	}
	if err != nil {
		return 0, err
	}
	return g.ID, nil
}

func reconcileGroups(ctx context.Context, repos *Repositories, in []*pb.Group) error {
	pending := make([]*pb.Group, 0, len(in))
	for _, p := range in {
		if p.LocalID > 0 {
			if err := ackGroup(ctx, repos, p); err != nil {
				return err
			}
			continue
		}
		pending = append(pending, p)
	}

	// Server groups may reference each other in any order: retry until no
	// more progress is made.
	for len(pending) > 0 {
		var next []*pb.Group
		for _, p := range pending {
			err := upsertGroup(ctx, repos, p)
			if errors.Is(err, errMapID) {
				next = append(next, p)
				continue
			}
			if err != nil {
				return err
			}
		}
		if len(next) == len(pending) {
			return fmt.Errorf("%w: group %d", errMapID, next[0].ID)
		}
		pending = next
	}
	return nil
}

func ackGroup(ctx context.Context, repos *Repositories, p *pb.Group) error {
	if p.Deleted {
		return repos.Groups.Purge(ctx, p.LocalID)
	}
	return repos.Groups.MarkSynchronized(ctx, GroupFromProto(p))
}

func upsertGroup(ctx context.Context, repos *Repositories, p *pb.Group) error {
	existing, err := repos.Groups.GetByServerID(ctx, p.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if p.Deleted {
		if existing != nil {
			return repos.Groups.Purge(ctx, existing.ID)
		}
		return nil
	}

	parent, err := localGroupID(ctx, repos, p.GroupID)
	if err != nil {
		return err
	}
	g := GroupFromProto(p)
	g.GroupID = parent
	if existing != nil {
		g.ID = existing.ID
	}
	_, err = repos.Groups.Persist(ctx, g)
	return err
}

func reconcileGroupField(ctx context.Context, repos *Repositories, p *pb.GroupField) error {
	if p.LocalID > 0 {
		if p.Deleted {
			return repos.GroupFields.Purge(ctx, p.LocalID)
		}
		return repos.GroupFields.MarkSynchronized(ctx, GroupFieldFromProto(p))
	}

	existing, err := repos.GroupFields.GetByServerID(ctx, p.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if p.Deleted {
		if existing != nil {
			return repos.GroupFields.Purge(ctx, existing.ID)
		}
		return nil
	}

	parent, err := localGroupID(ctx, repos, p.GroupID)
	if err != nil {
		return err
	}
	gf := GroupFieldFromProto(p)
	gf.GroupID = parent
	if existing != nil {
		gf.ID = existing.ID
	}
	_, err = repos.GroupFields.Persist(ctx, gf)
	return err
}

func reconcileField(ctx context.Context, repos *Repositories, p *pb.Field) error {
	if p.LocalID > 0 {
		if p.Deleted {
			return repos.Fields.Purge(ctx, p.LocalID)
		}
		return repos.Fields.MarkSynchronized(ctx, FieldFromProto(p))
	}

	existing, err := repos.Fields.GetByServerID(ctx, p.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if p.Deleted {
		if existing != nil {
			return repos.Fields.Purge(ctx, existing.ID)
		}
		return nil
	}

	group, err := localGroupID(ctx, repos, p.GroupID)
	if err != nil {
		return err
	}
	var groupField int64
	if p.GroupFieldID != 0 {
		gf, err := repos.GroupFields.GetByServerID(ctx, p.GroupFieldID)
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: group field %d", errMapID, p.GroupFieldID)
		}
		if err != nil {
			return err
		}
		groupField = gf.ID
	}

	f := FieldFromProto(p)
	f.GroupID = group
	f.GroupFieldID = groupField
	if existing != nil {
		f.ID = existing.ID
	}
	_, err = repos.Fields.Persist(ctx, f)
	return err
}
