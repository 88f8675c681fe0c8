package results

import (
	"context"
	"testing"
	"time"

	"github.com/dzaky3022/wincal/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvSnapshot(t *testing.T, ch <-chan []*models.WaterResult) []*models.WaterResult {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "watch channel closed unexpectedly")
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestWatch_EmitsInitialSnapshot(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, r.InsertOrReplace(ctx, sample("a", "u1", models.StateClean)))

	ch := r.Watch(ctx, "u1")
	snap := recvSnapshot(t, ch)
	require.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0].ID)
}

func TestWatch_ReEmitsOnMutation(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := r.Watch(ctx, "u1")
	assert.Empty(t, recvSnapshot(t, ch))

	require.NoError(t, r.InsertOrReplace(ctx, sample("a", "u1", models.StatePendingCreate)))

	// Eventually a snapshot containing the new row arrives. Intermediate
	// snapshots may be coalesced away.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if len(snap) == 1 && snap[0].ID == "a" {
				return
			}
		case <-deadline:
			t.Fatal("never observed the inserted row")
		}
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx, cancel := context.WithCancel(context.Background())

	ch := r.Watch(ctx, "u1")
	recvSnapshot(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			// a final in-flight snapshot is fine; the next read must close
			_, ok = <-ch
			assert.False(t, ok)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel did not close after cancel")
	}
}

func TestWatch_MultipleSubscribers(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1 := r.Watch(ctx, "u1")
	ch2 := r.Watch(ctx, "u1")
	recvSnapshot(t, ch1)
	recvSnapshot(t, ch2)

	require.NoError(t, r.InsertOrReplace(ctx, sample("a", "u1", models.StateClean)))

	for _, ch := range []<-chan []*models.WaterResult{ch1, ch2} {
		deadline := time.After(2 * time.Second)
	wait:
		for {
			select {
			case snap := <-ch:
				if len(snap) == 1 {
					break wait
				}
			case <-deadline:
				t.Fatal("subscriber missed the mutation")
			}
		}
	}
}
