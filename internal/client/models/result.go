// Package models defines the water-result record, its synchronization
// state, and the wire DTOs exchanged with the remote service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncState is the pending-operation state of a record. Exactly one state
// holds at a time, which makes the "at most one dirty flag" rule structural
// instead of an assertion over independent booleans.
type SyncState int

const (
	// StateClean: local state is known identical to the remote state.
	StateClean SyncState = iota
	// StatePendingCreate: exists only locally, never pushed.
	StatePendingCreate
	// StatePendingUpdate: exists remotely but has unpushed local edits.
	StatePendingUpdate
	// StatePendingDelete: tombstoned locally, deletion not yet pushed.
	StatePendingDelete
)

func (s SyncState) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StatePendingCreate:
		return "pending-create"
	case StatePendingUpdate:
		return "pending-update"
	case StatePendingDelete:
		return "pending-delete"
	default:
		return "unknown"
	}
}

// Pending reports whether the record still has an unpushed local operation.
func (s SyncState) Pending() bool { return s != StateClean }

// WaterResult is one water-intake calculation, the entity synchronized
// between the local store and the remote service.
//
// ID is a client-generated UUID until the first successful create, after
// which the server-assigned id replaces it (under a new row, since the
// primary key changes). OwnerID is set at creation and never changes.
type WaterResult struct {
	ID          string
	OwnerID     string
	Title       string
	Description string

	RoomTemp      float64
	TempUnit      TempUnit
	Weight        float64
	WeightUnit    WeightUnit
	ActivityLevel ActivityLevel
	DrinkAmount   float64
	WaterUnit     WaterUnit
	ResultValue   float64
	Percentage    float64
	Gender        Gender

	// ImageURL is the server-hosted image, LocalImagePath the staged blob
	// awaiting upload. DeleteImage asks the server to drop its copy on the
	// next update push.
	ImageURL       string
	LocalImagePath string
	DeleteImage    bool

	CreatedAt time.Time
	UpdatedAt time.Time

	State SyncState
	// Deleted is the soft-delete marker; a deleted row stays hidden from
	// normal queries until the remote deletion is confirmed.
	Deleted bool
}

// NewWaterResult returns a record owned by uid with a fresh client id,
// flagged for creation on the server.
func NewWaterResult(uid string) *WaterResult {
	now := time.Now().UTC()
	return &WaterResult{
		ID:        uuid.NewString(),
		OwnerID:   uid,
		CreatedAt: now,
		UpdatedAt: now,
		State:     StatePendingCreate,
	}
}

// Synced reports whether the record is fully converged with the server.
func (w *WaterResult) Synced() bool { return w.State == StateClean && !w.Deleted }
