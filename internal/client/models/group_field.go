package models

// GroupField is a named category inside a Group ("login", "notes", ...).
type GroupField struct {
	ID            int64
	ServerID      int64
	UserID        int64
	GroupID       int64
	ServerGroupID int64
	Title         string `validate:"required"`
	IsHidden      bool
	Synchronized  bool
	Deleted       bool

	TimestampCreation int64

	// NewInsertion marks a category created in the UI and not yet persisted.
	// It is never stored.
	NewInsertion bool
}

func (gf *GroupField) EntityID() int64 { return gf.ID }
func (gf *GroupField) SetEntityID(id int64) { gf.ID = id }
func (gf *GroupField) ParentID() int64 { return gf.GroupID }
func (gf *GroupField) SetOwner(userID int64) { gf.UserID = userID }
func (gf *GroupField) MarkDirty() { gf.Synchronized = false }
func (gf *GroupField) IsNull() bool { return gf == nil || gf.Title == "" }

func (gf *GroupField) Clone() *GroupField {
	if gf == nil {
		return nil
	}
	c := *gf
	return &c
}
