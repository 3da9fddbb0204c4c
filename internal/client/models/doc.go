// Package models defines the pocket entities: Group, GroupField, Field and
// User, plus the Device configuration that binds a local install to the
// server.
//
// # Identity
//
// Every entity carries a local id and a server_id. A local id <= 0 means the
// entity has never been persisted; storage assigns a fresh id on first
// persist. server_id stays 0 until the server acknowledges the row.
//
// # Hierarchy
//
// Group 1→N GroupField 1→N Field, linked through group_id and group_field_id.
// Groups nest through their own group_id; 0 means top level.
//
// # Sync flags
//
// Synchronized is true only once the server has acknowledged the current
// version of a row. Deleted marks a tombstone kept until the server has seen
// the deletion.
package models
