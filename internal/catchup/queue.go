package catchup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/mediarr/internal/extract"
	"github.com/vmunix/mediarr/internal/library"
)

// Processor runs one unit of work for a queue entry. It wraps the matching
// extraction collaborator.
type Processor func(ctx context.Context, item *library.Item) error

// QueueConfig sizes one catch-up queue.
type QueueConfig struct {
	Workers      int           // fixed worker pool size
	Capacity     int           // backlog bound; 0 means unbounded
	MaxAttempts  int           // total tries per entry, including the first
	RetryBackoff time.Duration // base backoff, doubled per retry
}

func (c QueueConfig) withDefaults() QueueConfig {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = time.Second
	}
	return c
}

// Entry is one queued unit of work. Entries exist only after the dispatch
// rules have passed scope checks; the queue itself never filters.
type Entry struct {
	ID         uuid.UUID
	Kind       TaskKind
	Item       *library.Item
	Attempts   int
	EnqueuedAt time.Time
}

// Stats is a point-in-time snapshot of queue counters.
type Stats struct {
	Kind      TaskKind `json:"kind"`
	Workers   int      `json:"workers"`
	Pending   int      `json:"pending"`
	InFlight  int      `json:"in_flight"`
	Processed uint64   `json:"processed"`
	Retried   uint64   `json:"retried"`
	Failed    uint64   `json:"failed"`
	Dropped   uint64   `json:"dropped"`
}

// Queue is a single-task work queue with a fixed worker pool, an idempotent
// enqueue guard, and bounded retry with backoff. Enqueue never blocks: a
// bounded backlog sheds its oldest entry instead of applying backpressure to
// the event producer.
type Queue struct {
	kind   TaskKind
	cfg    QueueConfig
	proc   Processor
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	backlog []*Entry
	// active holds item IDs that are pending or in-flight for this task
	// kind, including entries waiting on a retry timer.
	active   map[int64]struct{}
	retries  map[uuid.UUID]*pendingRetry
	closed   bool
	started  bool
	inFlight int

	processed uint64
	retried   uint64
	failed    uint64
	dropped   uint64

	wg  sync.WaitGroup
	ctx context.Context
}

func newQueue(kind TaskKind, cfg QueueConfig, proc Processor, logger *slog.Logger) *Queue {
	q := &Queue{
		kind:   kind,
		cfg:    cfg.withDefaults(),
		proc:   proc,
		logger: logger.With("queue", string(kind)),
		active:  make(map[int64]struct{}),
		retries: make(map[uuid.UUID]*pendingRetry),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Start launches the worker pool. The context is used for extraction calls;
// Stop does not cancel it, so in-flight work runs to completion.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	q.closed = false
	q.ctx = ctx

	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// Enqueue adds an item unless an entry for it is already pending or
// in-flight. Returns false when deduplicated or when the queue is closed.
func (q *Queue) Enqueue(item *library.Item) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || !q.started {
		return false
	}
	if _, dup := q.active[item.ID]; dup {
		return false
	}

	if q.cfg.Capacity > 0 && len(q.backlog) >= q.cfg.Capacity {
		oldest := q.backlog[0]
		q.backlog = q.backlog[1:]
		delete(q.active, oldest.Item.ID)
		q.dropped++
		q.logger.Warn("backlog full, dropping oldest entry",
			"entry_id", oldest.ID,
			"item_id", oldest.Item.ID)
	}

	entry := &Entry{
		ID:         uuid.New(),
		Kind:       q.kind,
		Item:       item,
		Attempts:   0,
		EnqueuedAt: time.Now(),
	}
	q.active[item.ID] = struct{}{}
	q.backlog = append(q.backlog, entry)
	q.cond.Signal()
	return true
}

// Stop closes the intake, discards the pending backlog and any scheduled
// retries, and waits for in-flight entries to finish. No entry is ever
// abandoned mid-processing.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started || q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true

	for id, r := range q.retries {
		r.timer.Stop()
		delete(q.retries, id)
		delete(q.active, r.itemID)
		q.dropped++
	}
	for _, entry := range q.backlog {
		delete(q.active, entry.Item.ID)
		q.dropped++
	}
	q.backlog = nil

	q.cond.Broadcast()
	q.mu.Unlock()

	q.wg.Wait()

	q.mu.Lock()
	q.started = false
	q.mu.Unlock()
}

// Stats returns current counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Kind:      q.kind,
		Workers:   q.cfg.Workers,
		Pending:   len(q.backlog),
		InFlight:  q.inFlight,
		Processed: q.processed,
		Retried:   q.retried,
		Failed:    q.failed,
		Dropped:   q.dropped,
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		for len(q.backlog) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.backlog) == 0 {
			// closed and drained
			q.mu.Unlock()
			return
		}
		entry := q.backlog[0]
		q.backlog = q.backlog[1:]
		q.inFlight++
		q.mu.Unlock()

		entry.Attempts++
		err := q.proc(q.ctx, entry.Item)
		q.finish(entry, err)
	}
}

// finish settles an entry after one processing attempt.
func (q *Queue) finish(entry *Entry, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inFlight--

	switch {
	case err == nil:
		q.processed++
		delete(q.active, entry.Item.ID)

	case extract.IsPermanent(err):
		q.failed++
		delete(q.active, entry.Item.ID)
		q.logger.Warn("permanent extraction failure, dropping entry",
			"entry_id", entry.ID,
			"item_id", entry.Item.ID,
			"attempts", entry.Attempts,
			"error", err)

	case entry.Attempts >= q.cfg.MaxAttempts:
		q.failed++
		delete(q.active, entry.Item.ID)
		q.logger.Warn("retries exhausted, dropping entry",
			"entry_id", entry.ID,
			"item_id", entry.Item.ID,
			"attempts", entry.Attempts,
			"error", err)

	default:
		q.retried++
		backoff := q.cfg.RetryBackoff << (entry.Attempts - 1)
		q.logger.Info("transient extraction failure, scheduling retry",
			"entry_id", entry.ID,
			"item_id", entry.Item.ID,
			"attempt", entry.Attempts,
			"backoff", backoff,
			"error", err)
		q.scheduleRetryLocked(entry, backoff)
	}
}

type pendingRetry struct {
	timer  *time.Timer
	itemID int64
}

// scheduleRetryLocked re-queues an entry after a delay. The item stays in
// the active set throughout, so duplicate enqueues remain no-ops while a
// retry is pending. Callers must hold q.mu.
func (q *Queue) scheduleRetryLocked(entry *Entry, delay time.Duration) {
	if q.closed {
		delete(q.active, entry.Item.ID)
		q.dropped++
		return
	}
	r := &pendingRetry{itemID: entry.Item.ID}
	r.timer = time.AfterFunc(delay, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		// Stop may have settled this entry already.
		if _, ok := q.retries[entry.ID]; !ok {
			return
		}
		delete(q.retries, entry.ID)
		q.backlog = append(q.backlog, entry)
		q.cond.Signal()
	})
	q.retries[entry.ID] = r
}
