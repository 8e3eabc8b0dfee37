package catchup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/mediarr/internal/extract"
	"github.com/vmunix/mediarr/internal/library"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testItem(id int64) *library.Item {
	return &library.Item{ID: id, Kind: library.KindEpisode, Title: "ep"}
}

// waitFor polls until cond returns true or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestQueue_ProcessesEntries(t *testing.T) {
	var processed atomic.Int64
	q := newQueue(TaskMediaInfo, QueueConfig{Workers: 2}, func(ctx context.Context, item *library.Item) error {
		processed.Add(1)
		return nil
	}, discardLogger())
	q.Start(context.Background())
	defer q.Stop()

	for i := int64(1); i <= 5; i++ {
		assert.True(t, q.Enqueue(testItem(i)))
	}

	waitFor(t, func() bool { return processed.Load() == 5 })

	stats := q.Stats()
	assert.Equal(t, uint64(5), stats.Processed)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 0, stats.InFlight)
}

func TestQueue_EnqueueBeforeStartRefused(t *testing.T) {
	q := newQueue(TaskMediaInfo, QueueConfig{}, func(ctx context.Context, item *library.Item) error {
		return nil
	}, discardLogger())
	assert.False(t, q.Enqueue(testItem(1)))
}

func TestQueue_IdempotentDedup(t *testing.T) {
	release := make(chan struct{})
	var invocations atomic.Int64
	q := newQueue(TaskMediaInfo, QueueConfig{Workers: 1}, func(ctx context.Context, item *library.Item) error {
		invocations.Add(1)
		<-release
		return nil
	}, discardLogger())
	q.Start(context.Background())
	defer q.Stop()

	// First enqueue wins, concurrent duplicates are no-ops.
	require.True(t, q.Enqueue(testItem(42)))

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if q.Enqueue(testItem(42)) {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(0), accepted.Load())

	close(release)
	waitFor(t, func() bool { return q.Stats().Processed == 1 })
	assert.Equal(t, int64(1), invocations.Load())

	// After completion the item may be enqueued again.
	assert.True(t, q.Enqueue(testItem(42)))
}

func TestQueue_DedupWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	q := newQueue(TaskFingerprint, QueueConfig{Workers: 1}, func(ctx context.Context, item *library.Item) error {
		close(started)
		<-release
		return nil
	}, discardLogger())
	q.Start(context.Background())
	defer q.Stop()

	require.True(t, q.Enqueue(testItem(7)))
	<-started

	// In-flight, not just pending, still blocks duplicates.
	assert.False(t, q.Enqueue(testItem(7)))
	close(release)
}

func TestQueue_BoundedBacklogDropsOldest(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var seen []int64
	q := newQueue(TaskMediaInfo, QueueConfig{Workers: 1, Capacity: 2}, func(ctx context.Context, item *library.Item) error {
		<-release
		mu.Lock()
		seen = append(seen, item.ID)
		mu.Unlock()
		return nil
	}, discardLogger())
	q.Start(context.Background())

	// Item 1 goes in-flight; 2 and 3 fill the backlog; 4 evicts 2.
	require.True(t, q.Enqueue(testItem(1)))
	waitFor(t, func() bool { return q.Stats().InFlight == 1 })
	require.True(t, q.Enqueue(testItem(2)))
	require.True(t, q.Enqueue(testItem(3)))
	require.True(t, q.Enqueue(testItem(4)))

	assert.Equal(t, uint64(1), q.Stats().Dropped)

	// The evicted item is no longer active and may re-enter later.
	assert.Equal(t, 2, q.Stats().Pending)

	close(release)
	waitFor(t, func() bool { return q.Stats().Processed == 3 })
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{1, 3, 4}, seen)
}

func TestQueue_StopDrainsInFlight(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	var finished atomic.Int64
	q := newQueue(TaskMediaInfo, QueueConfig{Workers: 2}, func(ctx context.Context, item *library.Item) error {
		started <- struct{}{}
		<-release
		finished.Add(1)
		return nil
	}, discardLogger())
	q.Start(context.Background())

	require.True(t, q.Enqueue(testItem(1)))
	require.True(t, q.Enqueue(testItem(2)))
	require.True(t, q.Enqueue(testItem(3))) // stays pending, discarded on Stop
	<-started
	<-started

	done := make(chan struct{})
	go func() {
		q.Stop()
		close(done)
	}()

	// Stop must wait for the two in-flight entries.
	select {
	case <-done:
		t.Fatal("Stop returned while entries were in-flight")
	case <-time.After(50 * time.Millisecond):
	}

	// New work is refused while stopping.
	assert.False(t, q.Enqueue(testItem(4)))

	close(release)
	<-done

	assert.Equal(t, int64(2), finished.Load())
	stats := q.Stats()
	assert.Equal(t, uint64(2), stats.Processed)
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, 0, stats.Pending)
}

func TestQueue_TransientFailureRetriedThenDropped(t *testing.T) {
	var attempts atomic.Int64
	q := newQueue(TaskMediaInfo, QueueConfig{
		Workers:      1,
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
	}, func(ctx context.Context, item *library.Item) error {
		attempts.Add(1)
		return errors.New("disk busy")
	}, discardLogger())
	q.Start(context.Background())
	defer q.Stop()

	require.True(t, q.Enqueue(testItem(1)))

	waitFor(t, func() bool { return q.Stats().Failed == 1 })
	assert.Equal(t, int64(3), attempts.Load())
	assert.Equal(t, uint64(2), q.Stats().Retried)

	// Entry is fully settled, so the item can be enqueued again.
	assert.True(t, q.Enqueue(testItem(1)))
}

func TestQueue_TransientFailureEventuallySucceeds(t *testing.T) {
	var attempts atomic.Int64
	q := newQueue(TaskMediaInfo, QueueConfig{
		Workers:      1,
		MaxAttempts:  5,
		RetryBackoff: time.Millisecond,
	}, func(ctx context.Context, item *library.Item) error {
		if attempts.Add(1) < 3 {
			return errors.New("temporary lock")
		}
		return nil
	}, discardLogger())
	q.Start(context.Background())
	defer q.Stop()

	require.True(t, q.Enqueue(testItem(1)))

	waitFor(t, func() bool { return q.Stats().Processed == 1 })
	assert.Equal(t, int64(3), attempts.Load())
}

func TestQueue_PermanentFailureNotRetried(t *testing.T) {
	var attempts atomic.Int64
	q := newQueue(TaskMediaInfo, QueueConfig{Workers: 1, MaxAttempts: 5}, func(ctx context.Context, item *library.Item) error {
		attempts.Add(1)
		return extract.ErrItemGone
	}, discardLogger())
	q.Start(context.Background())
	defer q.Stop()

	require.True(t, q.Enqueue(testItem(1)))

	waitFor(t, func() bool { return q.Stats().Failed == 1 })
	assert.Equal(t, int64(1), attempts.Load())
	assert.Equal(t, uint64(0), q.Stats().Retried)
}

func TestQueue_StopCancelsScheduledRetries(t *testing.T) {
	var attempts atomic.Int64
	q := newQueue(TaskMediaInfo, QueueConfig{
		Workers:      1,
		MaxAttempts:  3,
		RetryBackoff: time.Hour, // retry would fire far in the future
	}, func(ctx context.Context, item *library.Item) error {
		attempts.Add(1)
		return errors.New("flaky")
	}, discardLogger())
	q.Start(context.Background())

	require.True(t, q.Enqueue(testItem(1)))
	waitFor(t, func() bool { return q.Stats().Retried == 1 })

	q.Stop()
	assert.Equal(t, int64(1), attempts.Load())
}
