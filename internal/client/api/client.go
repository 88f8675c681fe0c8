// Package api implements the authenticated remote client for the
// water-results service. A client instance is bound to a single owner id
// at construction; the id travels as a request header on every call.
// Switching users means discarding the client and constructing a new one.
package api

import (
	"context"

	"github.com/dzaky3022/wincal/internal/client/models"
)

// Client is the CRUD surface the reconciler talks to. Every call can fail
// with a transient error class (timeout, DNS, generic I/O) or a
// non-transient one (validation, auth, not-found); use IsTransient to
// tell them apart.
type Client interface {
	// Create pushes a new record and returns the server's version with
	// its assigned id and timestamps. image is the staged blob, nil when
	// the record has none.
	Create(ctx context.Context, rec *models.WaterResult, image []byte) (*models.WaterResultDto, error)

	// List returns every record the bound owner has on the server.
	List(ctx context.Context) ([]models.WaterResultDto, error)

	// Get returns a single record by server id.
	Get(ctx context.Context, id string) (*models.WaterResultDto, error)

	// Update pushes local edits for an existing record. rec.DeleteImage
	// asks the server to drop its stored image.
	Update(ctx context.Context, rec *models.WaterResult, image []byte) (*models.WaterResultDto, error)

	// Delete removes the record on the server.
	Delete(ctx context.Context, id string) error
}
