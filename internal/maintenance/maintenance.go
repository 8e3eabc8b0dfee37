// Package maintenance runs scheduled housekeeping: pruning old entries from
// the event log and sweeping media-info sidecars whose items are gone.
package maintenance

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vmunix/mediarr/internal/library"
)

// EventPruner removes persisted events older than the given age.
type EventPruner interface {
	Prune(olderThan time.Duration) (int64, error)
}

// SidecarStore lists and deletes media-info sidecar files.
type SidecarStore interface {
	List() ([]int64, error)
	Delete(itemID int64) error
}

// ItemSource checks whether a catalog item still exists.
type ItemSource interface {
	GetItem(id int64) (*library.Item, error)
}

// Config holds the schedules and retention window.
type Config struct {
	EventRetention time.Duration
	PruneSchedule  string // cron expression
	SweepSchedule  string // cron expression
}

// Maintenance owns the cron engine and the registered jobs.
type Maintenance struct {
	cfg      Config
	cron     *cron.Cron
	events   EventPruner
	sidecars SidecarStore
	items    ItemSource
	logger   *slog.Logger
}

// New creates the maintenance scheduler. The sidecar sweep is skipped when
// sidecars is nil (media-info persistence disabled).
func New(cfg Config, events EventPruner, sidecars SidecarStore, items ItemSource, logger *slog.Logger) *Maintenance {
	if logger == nil {
		logger = slog.Default()
	}
	return &Maintenance{
		cfg:      cfg,
		cron:     cron.New(),
		events:   events,
		sidecars: sidecars,
		items:    items,
		logger:   logger,
	}
}

// Schedule registers the jobs. Returns an error on a bad cron expression.
func (m *Maintenance) Schedule() error {
	if m.events != nil && m.cfg.EventRetention > 0 {
		if _, err := m.cron.AddFunc(m.cfg.PruneSchedule, m.pruneEvents); err != nil {
			return fmt.Errorf("schedule event prune: %w", err)
		}
	}
	if m.sidecars != nil {
		if _, err := m.cron.AddFunc(m.cfg.SweepSchedule, m.sweepSidecars); err != nil {
			return fmt.Errorf("schedule sidecar sweep: %w", err)
		}
	}
	return nil
}

// Start begins running scheduled jobs.
func (m *Maintenance) Start() {
	m.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish.
func (m *Maintenance) Stop() {
	<-m.cron.Stop().Done()
}

func (m *Maintenance) pruneEvents() {
	removed, err := m.events.Prune(m.cfg.EventRetention)
	if err != nil {
		m.logger.Error("event prune failed", "error", err)
		return
	}
	if removed > 0 {
		m.logger.Info("pruned events", "removed", removed, "retention", m.cfg.EventRetention)
	}
}

// sweepSidecars deletes sidecar files whose catalog item no longer exists.
func (m *Maintenance) sweepSidecars() {
	ids, err := m.sidecars.List()
	if err != nil {
		m.logger.Error("sidecar sweep failed", "error", err)
		return
	}

	var removed int
	for _, id := range ids {
		_, err := m.items.GetItem(id)
		if err == nil {
			continue
		}
		if !errors.Is(err, library.ErrNotFound) {
			m.logger.Error("sidecar sweep lookup failed", "item_id", id, "error", err)
			continue
		}
		if err := m.sidecars.Delete(id); err != nil {
			m.logger.Error("orphan sidecar delete failed", "item_id", id, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		m.logger.Info("swept orphan sidecars", "removed", removed)
	}
}
