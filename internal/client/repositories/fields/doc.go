// Package fields provides the local persistence layer for Field rows, the
// leaf secrets. A field belongs to a Group (group_id, its parent linkage) and
// to a GroupField (group_field_id). Deletion follows the same rules as
// package groups: server-known rows are tombstoned, the rest removed.
package fields
