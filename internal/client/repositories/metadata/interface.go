// Package metadata is the process-wide key-value store: it holds the
// signed-in-user snapshot and the layout preference. The sync core only
// cares that the owner id it reads from here scopes every query.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyUser   = "user"   // JSON-encoded models.User snapshot
	KeyLayout = "layout" // "list" or "grid"
)

type Repository interface {
	// Get returns the value for key, or nil if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
