package catchup

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vmunix/mediarr/internal/extract"
	"github.com/vmunix/mediarr/internal/library"
)

// Extractors bundles the per-task collaborators the queues delegate to.
type Extractors struct {
	MediaInfo   extract.MediaInfoExtractor
	Fingerprint extract.Fingerprinter
	IntroSkip   extract.IntroSkipDetector
}

// ManagerConfig sizes the three queues.
type ManagerConfig struct {
	MediaInfo   QueueConfig
	Fingerprint QueueConfig
	IntroSkip   QueueConfig
}

// Manager owns one queue per task kind and mirrors the catch-up on/off
// switch: Initialize starts all pools, Stop drains them. The manager is safe
// to start and stop repeatedly as settings change.
type Manager struct {
	logger *slog.Logger

	mu      sync.Mutex
	queues  map[TaskKind]*Queue
	running bool
}

// NewManager builds the per-task queues around the extraction collaborators.
func NewManager(cfg ManagerConfig, ext Extractors, logger *slog.Logger) *Manager {
	m := &Manager{
		logger: logger,
		queues: make(map[TaskKind]*Queue, len(AllTasks)),
	}
	m.queues[TaskMediaInfo] = newQueue(TaskMediaInfo, cfg.MediaInfo,
		func(ctx context.Context, item *library.Item) error {
			return ext.MediaInfo.ExtractMediaInfo(ctx, item)
		}, logger)
	m.queues[TaskFingerprint] = newQueue(TaskFingerprint, cfg.Fingerprint,
		func(ctx context.Context, item *library.Item) error {
			return ext.Fingerprint.ComputeFingerprint(ctx, item)
		}, logger)
	m.queues[TaskIntroSkip] = newQueue(TaskIntroSkip, cfg.IntroSkip,
		func(ctx context.Context, item *library.Item) error {
			return ext.IntroSkip.DetectIntroCredits(ctx, item)
		}, logger)
	return m
}

// Initialize starts all worker pools. Idempotent.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	for _, q := range m.queues {
		q.Start(ctx)
	}
	m.running = true
	m.logger.Info("catch-up queues started")
}

// Stop drains all queues: in-flight entries finish, the pending backlog is
// discarded. Idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, q := range m.queues {
		wg.Add(1)
		go func(q *Queue) {
			defer wg.Done()
			q.Stop()
		}(q)
	}
	wg.Wait()
	m.logger.Info("catch-up queues stopped")
}

// Running reports whether the pools are accepting work.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Enqueue routes an item to the queue for the given task kind. Returns false
// when the manager is stopped, the kind is unknown, or the entry was
// deduplicated.
func (m *Manager) Enqueue(kind TaskKind, item *library.Item) bool {
	m.mu.Lock()
	q, ok := m.queues[kind]
	running := m.running
	m.mu.Unlock()
	if !ok || !running {
		return false
	}
	return q.Enqueue(item)
}

// Stats returns per-queue snapshots in stable task order.
func (m *Manager) Stats() []Stats {
	out := make([]Stats, 0, len(AllTasks))
	for _, k := range AllTasks {
		out = append(out, m.queues[k].Stats())
	}
	return out
}
