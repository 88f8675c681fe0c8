// Package cli provides the interactive wincal command-line client.
//
// It wires configuration, the local store, the remote client, and an
// interactive REPL that works offline. Typical flow: restore the previous
// session, start the connectivity monitor and the background sync, and
// execute user commands.
//
// Key features:
//   - Login / Logout with an identity token
//   - Add / Edit / Delete drink records (interactive forms)
//   - List / Show records, list or grid layout
//   - Manual sync on top of the periodic one
//
// The REPL is started via App.Root(ctx), which blocks until the user
// exits. See App, runREPL, and the sync package for details.
package cli
