package results

import (
	"context"

	"github.com/dzaky3022/wincal/internal/client/models"
)

// Repository describes the durable, owner-scoped table of water results.
// Implementations never touch the network; the reconciler is the only
// caller of the pending queries.
type Repository interface {
	// InsertOrReplace upserts a record by id. Used both for local creation
	// and for adopting server-provided records.
	InsertOrReplace(ctx context.Context, r *models.WaterResult) error

	// Adopt atomically replaces the row oldID with r, which carries a new
	// primary key. Used when the server assigns a record its final id.
	Adopt(ctx context.Context, oldID string, r *models.WaterResult) error

	// Update rewrites an existing record and reports the affected row count.
	Update(ctx context.Context, r *models.WaterResult) (int64, error)

	// Delete removes the row entirely (hard delete) and reports the
	// affected row count. Soft deletion is an Update that sets the
	// tombstone.
	Delete(ctx context.Context, id string) (int64, error)

	// GetByID returns a record (tombstoned ones included) or
	// common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.WaterResult, error)

	// ListByOwner returns the owner's visible records, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.WaterResult, error)

	// Watch returns a stream that emits the owner's current visible
	// snapshot immediately and again after every mutation, until ctx is
	// cancelled.
	Watch(ctx context.Context, ownerID string) <-chan []*models.WaterResult

	// ListPending returns every record in the given pending state,
	// regardless of owner visibility (tombstoned rows included).
	ListPending(ctx context.Context, state models.SyncState) ([]*models.WaterResult, error)

	// DeleteAllByOwner wipes all of the owner's rows and reports how many
	// were removed.
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}
