package results

import (
	"context"
	"sync"

	"github.com/dzaky3022/wincal/internal/client/models"
)

// notifier fans out "something changed" signals to Watch subscriptions.
// Signals are coalesced: a subscriber that has not consumed the previous
// signal does not accumulate more.
type notifier struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[chan struct{}]struct{})}
}

func (n *notifier) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

func (n *notifier) unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.subs, ch)
	n.mu.Unlock()
}

func (n *notifier) broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Watch emits the owner's current visible snapshot immediately, then a
// fresh snapshot after every mutation of the table. The channel is closed
// when ctx is cancelled. Slow consumers see coalesced updates (always the
// latest snapshot), never a backlog.
func (r *SQLiteRepository) Watch(ctx context.Context, ownerID string) <-chan []*models.WaterResult {
	out := make(chan []*models.WaterResult, 1)
	signals := r.hub.subscribe()

	go func() {
		defer close(out)
		defer r.hub.unsubscribe(signals)

		push := func() {
			snapshot, err := r.ListByOwner(ctx, ownerID)
			if err != nil {
				// Query failures here are almost always ctx cancellation;
				// the next signal retries.
				return
			}
			// Replace an unconsumed snapshot instead of blocking.
			select {
			case <-out:
			default:
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
			}
		}

		push()
		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				push()
			}
		}
	}()

	return out
}
