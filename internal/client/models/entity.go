package models

// Entity is implemented by the pointer types of the storable entities
// (*Group, *GroupField, *Field). It gives generic code access to identity,
// parent linkage and the dirty flag without knowing the concrete type.
type Entity interface {
	EntityID() int64
	SetEntityID(id int64)
	// ParentID is the id of the Group owning the entity.
	ParentID() int64
	SetOwner(userID int64)
	// MarkDirty flags the entity as not yet acknowledged by the server.
	MarkDirty()
	IsNull() bool
}

// NoParent selects rows regardless of their parent linkage.
const NoParent int64 = -1

// IsNew reports whether id denotes a row that storage has not assigned yet.
func IsNew(id int64) bool {
	return id <= 0
}
