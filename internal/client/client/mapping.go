package client

import (
	"github.com/passy1977/pocket-web-backend/internal/client/models"
	pb "github.com/passy1977/pocket-web-backend/internal/proto"
)

// The mapping functions below copy every field and have no side effects.
// Rows coming from the server are by definition synchronized.

func UserToProto(u *models.User) *pb.User {
	if u == nil {
		return nil
	}
	return &pb.User{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		Status:              int32(u.Status),
		TimestampLastUpdate: u.TimestampLastUpdate,
	}
}

// UserFromProto never carries a password; callers attach it.
func UserFromProto(p *pb.User) *models.User {
	if p == nil {
		return nil
	}
	return &models.User{
		ID:                  p.ID,
		Email:               p.Email,
		Name:                p.Name,
		Status:              models.UserStatus(p.Status),
		TimestampLastUpdate: p.TimestampLastUpdate,
	}
}

func GroupToProto(g *models.Group) *pb.Group {
	if g == nil {
		return nil
	}
	return &pb.Group{
		ID:                g.ServerID,
		LocalID:           g.ID,
		UserID:            g.UserID,
		GroupID:           g.ServerGroupID,
		LocalGroupID:      g.GroupID,
		Title:             g.Title,
		Icon:              g.Icon,
		Note:              g.Note,
		IsHidden:          g.IsHidden,
		Deleted:           g.Deleted,
		TimestampCreation: g.TimestampCreation,
	}
}

func GroupFromProto(p *pb.Group) *models.Group {
	if p == nil {
		return nil
	}
	return &models.Group{
		ID:                p.LocalID,
		ServerID:          p.ID,
		UserID:            p.UserID,
		GroupID:           p.LocalGroupID,
		ServerGroupID:     p.GroupID,
		Title:             p.Title,
		Icon:              p.Icon,
		Note:              p.Note,
		IsHidden:          p.IsHidden,
		Synchronized:      true,
		Deleted:           p.Deleted,
		TimestampCreation: p.TimestampCreation,
	}
}

func GroupFieldToProto(gf *models.GroupField) *pb.GroupField {
	if gf == nil {
		return nil
	}
	return &pb.GroupField{
		ID:                gf.ServerID,
		LocalID:           gf.ID,
		UserID:            gf.UserID,
		GroupID:           gf.ServerGroupID,
		LocalGroupID:      gf.GroupID,
		Title:             gf.Title,
		IsHidden:          gf.IsHidden,
		Deleted:           gf.Deleted,
		TimestampCreation: gf.TimestampCreation,
	}
}

func GroupFieldFromProto(p *pb.GroupField) *models.GroupField {
	if p == nil {
		return nil
	}
	return &models.GroupField{
		ID:                p.LocalID,
		ServerID:          p.ID,
		UserID:            p.UserID,
		GroupID:           p.LocalGroupID,
		ServerGroupID:     p.GroupID,
		Title:             p.Title,
		IsHidden:          p.IsHidden,
		Synchronized:      true,
		Deleted:           p.Deleted,
		TimestampCreation: p.TimestampCreation,
	}
}

func FieldToProto(f *models.Field) *pb.Field {
	if f == nil {
		return nil
	}
	return &pb.Field{
		ID:                f.ServerID,
		LocalID:           f.ID,
		UserID:            f.UserID,
		GroupID:           f.ServerGroupID,
		LocalGroupID:      f.GroupID,
		GroupFieldID:      f.ServerGroupFieldID,
		LocalGroupFieldID: f.GroupFieldID,
		Title:             f.Title,
		Value:             f.Value,
		IsHidden:          f.IsHidden,
		Deleted:           f.Deleted,
		TimestampCreation: f.TimestampCreation,
	}
}

func FieldFromProto(p *pb.Field) *models.Field {
	if p == nil {
		return nil
	}
	return &models.Field{
		ID:                 p.LocalID,
		ServerID:           p.ID,
		UserID:             p.UserID,
		GroupID:            p.LocalGroupID,
		ServerGroupID:      p.GroupID,
		GroupFieldID:       p.LocalGroupFieldID,
		ServerGroupFieldID: p.GroupFieldID,
		Title:              p.Title,
		Value:              p.Value,
		IsHidden:           p.IsHidden,
		Synchronized:       true,
		Deleted:            p.Deleted,
		TimestampCreation:  p.TimestampCreation,
	}
}

func mapAll[M, P any](in []M, f func(M) P) []P {
	out := make([]P, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
