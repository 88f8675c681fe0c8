// Package sync schedules reconciliation passes: a Worker runs one
// attempt through its precondition checks and retry policy, a Manager
// owns the periodic loop, the connectivity trigger and manual syncs.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dzaky3022/wincal/internal/client/api"
	"github.com/dzaky3022/wincal/internal/client/models"
	"github.com/dzaky3022/wincal/internal/logging"
)

// ErrOffline marks an attempt that was skipped because the connectivity
// probe reported no network.
var ErrOffline = errors.New("network unavailable")

// Status is the outward-facing state of a sync attempt.
type Status string

const (
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is what a sync attempt reports back to the UI layer.
type Result struct {
	Status      Status
	Message     string
	SyncedCount int
	Err         error
	// Transient reports whether the failure is worth another attempt
	// later; permanent failures (auth, validation) are not.
	Transient bool
}

// Syncer is the reconciliation surface the worker drives.
type Syncer interface {
	Refresh(ctx context.Context) (int, error)
	HasPendingItems(ctx context.Context) (bool, error)
}

// Session answers whether somebody is signed in.
type Session interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Network is the connectivity surface the scheduler consults.
type Network interface {
	Check(ctx context.Context) bool
	Subscribe() (<-chan bool, func())
}

// WorkerOptions tune the retry policy of a single attempt.
type WorkerOptions struct {
	// BackoffMin is the first retry delay; subsequent delays grow
	// exponentially from it.
	BackoffMin time.Duration
	// MaxRuntime bounds the whole attempt, retries included.
	MaxRuntime time.Duration
}

func (o *WorkerOptions) setDefaults() {
	if o.BackoffMin <= 0 {
		o.BackoffMin = time.Second
	}
	if o.MaxRuntime <= 0 {
		o.MaxRuntime = 2 * time.Minute
	}
}

// Worker runs one sync attempt: check the session, check the network,
// then reconcile with exponential backoff on transient errors.
type Worker struct {
	syncer  Syncer
	session Session
	net     Network
	opts    WorkerOptions
	log     logging.Logger
}

func NewWorker(syncer Syncer, session Session, net Network, opts WorkerOptions, log logging.Logger) *Worker {
	opts.setDefaults()
	return &Worker{
		syncer:  syncer,
		session: session,
		net:     net,
		opts:    opts,
		log:     log.With("component", "sync"),
	}
}

// Run executes one attempt and never returns until it has either
// succeeded, exhausted its runtime budget, or hit a permanent error.
func (w *Worker) Run(ctx context.Context) Result {
	if _, err := w.session.CurrentUser(ctx); err != nil {
		return Result{Status: StatusFailed, Message: "sign in to sync", Err: err}
	}

	if !w.net.Check(ctx) {
		return Result{Status: StatusFailed, Message: "no connection", Err: ErrOffline, Transient: true}
	}

	ctx, cancel := context.WithTimeout(ctx, w.opts.MaxRuntime)
	defer cancel()

	var count int
	backoff := retry.WithMaxDuration(w.opts.MaxRuntime, retry.NewExponential(w.opts.BackoffMin))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		// Connectivity can drop between retries, so every attempt goes
		// back through the network check before touching the server.
		if !w.net.Check(ctx) {
			w.log.Debug(ctx, "network lost between retries, backing off")
			return retry.RetryableError(ErrOffline)
		}
		n, err := w.syncer.Refresh(ctx)
		count = n
		if err == nil {
			return nil
		}
		if api.IsTransient(err) {
			w.log.Debug(ctx, "transient sync failure, backing off", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		msg := "sync failed"
		transient := api.IsTransient(err)
		if errors.Is(err, ErrOffline) {
			msg = "no connection"
			transient = true
		}
		return Result{
			Status:      StatusFailed,
			Message:     msg,
			SyncedCount: count,
			Err:         err,
			Transient:   transient,
		}
	}

	msg := "everything is up to date"
	if count > 0 {
		msg = fmt.Sprintf("synced %d record(s)", count)
	}
	return Result{Status: StatusSuccess, Message: msg, SyncedCount: count}
}
