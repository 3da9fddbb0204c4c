package models

// Field is a leaf secret. A Field without a title is the null object and is
// never persisted.
type Field struct {
	ID                 int64
	ServerID           int64
	UserID             int64
	GroupID            int64
	ServerGroupID      int64
	GroupFieldID       int64
	ServerGroupFieldID int64
	Title              string `validate:"required"`
	Value              string
	IsHidden           bool
	Synchronized       bool
	Deleted            bool

	TimestampCreation int64
}

func (f *Field) EntityID() int64 { return f.ID }
func (f *Field) SetEntityID(id int64) { f.ID = id }
func (f *Field) ParentID() int64 { return f.GroupID }
func (f *Field) SetOwner(userID int64) { f.UserID = userID }
func (f *Field) MarkDirty() { f.Synchronized = false }
func (f *Field) IsNull() bool { return f == nil || f.Title == "" }

func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// String masks the value of hidden fields. Visible values are printed as is.
func (f *Field) String() string {
	if f.IsNull() {
		return "<null field>"
	}
	if f.IsHidden {
		return f.Title + ": ********"
	}
	return f.Title + ": " + f.Value
}
