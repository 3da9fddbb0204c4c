// Package groupfields provides the local persistence layer for GroupField
// rows, the named categories inside a Group. The parent of a group field is
// its group_id. See package groups for the shared deletion rules.
package groupfields
