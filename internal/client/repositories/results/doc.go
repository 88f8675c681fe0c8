// Package results implements the local store of water-intake records:
// a SQLite table scoped by owner, with one-shot queries, pending-state
// queries for the reconciler, and a reactive Watch subscription for the
// UI layer.
package results
