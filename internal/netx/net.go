// Package netx provides the process-wide connectivity signal: a Monitor
// that periodically probes the network and fans out reachability
// transitions to subscribers, plus a synchronous point-in-time check.
package netx

import (
	"context"
	"net"
	"sync"
	"time"
)

// Probe reports nil when the network is reachable.
type Probe func(ctx context.Context) error

// DialProbe probes by opening (and immediately closing) a TCP connection
// to addr, e.g. "1.1.1.1:443".
func DialProbe(addr string, timeout time.Duration) Probe {
	return func(ctx context.Context) error {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

// Monitor polls a Probe and exposes the latest result as a boolean
// signal. Subscribers receive a value on every transition; readers that
// never subscribed can poll Connected.
type Monitor struct {
	probe    Probe
	interval time.Duration

	mu     sync.Mutex
	online bool
	subs   map[chan bool]struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMonitor(probe Probe, interval time.Duration) *Monitor {
	return &Monitor{
		probe:    probe,
		interval: interval,
		subs:     make(map[chan bool]struct{}),
	}
}

// Start runs the first probe synchronously so Connected is meaningful
// immediately, then polls in the background until Stop or ctx
// cancellation. Calling Start twice is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	m.set(m.probe(ctx) == nil)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.set(m.probe(ctx) == nil)
			}
		}
	}()
}

// Stop cancels polling and waits for the poll loop to exit. The last
// known state remains readable.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
		m.wg.Wait()
	}
}

// Connected returns the last observed state. Before Start it is false.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Check probes right now, updates the shared state, and returns the
// result. Usable when a reactive subscription is unavailable.
func (m *Monitor) Check(ctx context.Context) bool {
	ok := m.probe(ctx) == nil
	m.set(ok)
	return ok
}

// Subscribe returns a channel receiving the state after every
// transition and a cancel function that must be called when done. A slow
// subscriber sees the latest state, not a backlog.
func (m *Monitor) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		delete(m.subs, ch)
		m.mu.Unlock()
	}
	return ch, cancel
}

func (m *Monitor) set(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.online == online {
		return
	}
	m.online = online
	for ch := range m.subs {
		select {
		case ch <- online:
		default:
			// replace the unconsumed value with the latest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- online:
			default:
			}
		}
	}
}

// Process-wide default, mirroring "initialize once at startup, tear down
// once at shutdown". Reading before Initialize reports disconnected.
var (
	defaultMu sync.Mutex
	defaultM  *Monitor
)

// Initialize installs m as the process default and starts it.
func Initialize(ctx context.Context, m *Monitor) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultM != nil {
		defaultM.Stop()
	}
	defaultM = m
	m.Start(ctx)
}

// Cleanup stops and removes the process default.
func Cleanup() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultM != nil {
		defaultM.Stop()
		defaultM = nil
	}
}

// Connected reads the process default; false when uninitialized.
func Connected() bool {
	defaultMu.Lock()
	m := defaultM
	defaultMu.Unlock()
	if m == nil {
		return false
	}
	return m.Connected()
}
