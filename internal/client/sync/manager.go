package sync

import (
	"context"
	"sync"
	"time"

	"github.com/dzaky3022/wincal/internal/logging"
)

// Manager drives the worker on a schedule. It fires on a fixed interval
// while the network is up, immediately when connectivity returns, and on
// demand via SyncNow/ManualSync. Attempts run strictly one at a time;
// triggers arriving mid-run coalesce into at most one follow-up.
type Manager struct {
	worker   *Worker
	net      Network
	interval time.Duration
	log      logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	trigger chan struct{}
	results chan Result
}

func NewManager(worker *Worker, net Network, interval time.Duration, log logging.Logger) *Manager {
	return &Manager{
		worker:   worker,
		net:      net,
		interval: interval,
		log:      log.With("component", "sync-manager"),
		trigger:  make(chan struct{}, 1),
		results:  make(chan Result, 4),
	}
}

// Results streams attempt outcomes the UI should surface. Routine
// background passes that synced nothing are not reported. The channel is
// never closed; when nobody is draining it, the oldest outcome is
// dropped.
func (m *Manager) Results() <-chan Result {
	return m.results
}

// Start launches the scheduling loop. Calling Start on a running manager
// is a no-op.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)

	online, unsubscribe := m.net.Subscribe()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer unsubscribe()
		m.loop(ctx, online)
	}()
}

// Stop cancels any in-flight attempt and waits for the loop to exit.
// Used on sign-out: the next identity gets a fresh manager.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	m.wg.Wait()
}

// SyncNow requests an immediate background attempt. Requests arriving
// while one is already queued collapse into it.
func (m *Manager) SyncNow() {
	select {
	case m.trigger <- struct{}{}:
	default:
	}
}

// ManualSync runs an attempt right away on the caller's goroutine and
// reports every phase, including the initial syncing state, regardless
// of how much was synced.
func (m *Manager) ManualSync(ctx context.Context) Result {
	m.notify(Result{Status: StatusSyncing, Message: "syncing..."})
	res := m.worker.Run(ctx)
	m.notify(res)
	return res
}

func (m *Manager) loop(ctx context.Context, online <-chan bool) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.net.Check(ctx) {
				m.log.Debug(ctx, "skipping periodic sync, offline")
				continue
			}
			m.runOnce(ctx)
		case up, ok := <-online:
			if !ok {
				return
			}
			if up {
				m.log.Info(ctx, "connectivity restored, syncing")
				m.runOnce(ctx)
			}
		case <-m.trigger:
			m.runOnce(ctx)
		}
	}
}

// runOnce executes a background attempt. Only outcomes worth the user's
// attention are pushed to Results: a pass that synced records, or a
// permanent failure. Transient failures just wait for the next trigger.
func (m *Manager) runOnce(ctx context.Context) {
	res := m.worker.Run(ctx)
	switch {
	case res.Status == StatusSuccess && res.SyncedCount == 0:
		m.log.Debug(ctx, "background sync pass, nothing to do")
	case res.Status == StatusFailed && res.Transient:
		m.log.Warn(ctx, "background sync failed, will retry on next trigger", "error", res.Err)
	default:
		m.notify(res)
	}
}

func (m *Manager) notify(r Result) {
	for {
		select {
		case m.results <- r:
			return
		default:
			select {
			case <-m.results:
			default:
			}
		}
	}
}
