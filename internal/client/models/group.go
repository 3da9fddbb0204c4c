package models

// Group is a top-level secret container, e.g. one service or site.
type Group struct {
	ID            int64
	ServerID      int64
	UserID        int64
	GroupID       int64 // parent group, 0 for top level
	ServerGroupID int64
	Title         string `validate:"required"`
	Icon          string
	Note          string
	IsHidden      bool
	Synchronized  bool
	Deleted       bool

	// TimestampCreation is the creation time in unix seconds.
	TimestampCreation int64

	// HasChild is computed at read time and never stored.
	HasChild bool
}

func (g *Group) EntityID() int64 { return g.ID }
func (g *Group) SetEntityID(id int64) { g.ID = id }
func (g *Group) ParentID() int64 { return g.GroupID }
func (g *Group) SetOwner(userID int64) { g.UserID = userID }
func (g *Group) MarkDirty() { g.Synchronized = false }
func (g *Group) IsNull() bool { return g == nil || g.Title == "" }

func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}
