// Package groups provides the local persistence layer for Group rows.
//
// # Overview
//
// Repository is the typed storage collaborator used by the Group facade and
// by the sync client. SQLRepository implements it over dbx.DBTX (either
// *sql.DB or *sql.Tx) with statements built by squirrel, so the same code
// serves SQLite and Postgres.
//
// # Deletion
//
// Delete tombstones rows the server already knows (server_id > 0) and
// removes the others physically. DeleteByParentID and Purge always remove
// rows physically.
//
// # Parent linkage
//
// A Group's parent is its group_id (0 = top level). List with a negative
// parent id (models.NoParent) ignores the linkage.
package groups
