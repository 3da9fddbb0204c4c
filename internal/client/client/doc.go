// Package client contains the client-side collaborators of the pocket core.
//
// # Overview
//
// The package provides:
//  1. The Client interface: the authenticated exchange with the remote store
//     (login, logout, push of local changes, password change, copy/move,
//     export/import and heartbeat).
//  2. A gRPC implementation (GRPCClient) that injects the access token and
//     device id through an interceptor, bounds every call with the configured
//     timeouts and records the status of the last call.
//  3. SendData reconciliation: unsynchronized rows are pushed and the server
//     answer is applied to the local store in one transaction.
//  4. Local store bootstrap (InitDatabase, RunMigrations) for SQLite or
//     Postgres with embedded goose migrations.
//
// # Error Handling
//
// Transport conditions are exposed as sentinel errors (ErrUnavailable,
// ErrUnauthorized); faults carrying a pocket status are returned as
// *RemoteError, which matches ErrRemoteFault. Status always reports the
// numbered status of the last call, NO_NETWORK for timeouts and unreachable
// servers.
package client
