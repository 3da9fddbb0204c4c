// Package cli provides the interactive pocket command-line client.
//
// It wires configuration, local storage, the remote client and the services,
// then runs a REPL over the group hierarchy of the logged-in user. Typical
// flow: register the device once, log in, browse with groups/cd/up/show,
// edit locally and let every change be pushed to the server.
//
// Key features:
//   - Register / Login / Logout / Passwd
//   - Browse groups and fields, add and remove them, edit categories
//   - Sync, Export and Import of the whole vault
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// The cobra root command in root.go builds the App from configuration.
package cli
