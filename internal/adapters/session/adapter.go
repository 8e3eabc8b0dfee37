// Package session provides an adapter that polls a media-server session
// monitor and emits PlaybackStarted events for newly observed sessions.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmunix/mediarr/internal/events"
	"github.com/vmunix/mediarr/internal/library"
)

// Session is one active playback session as reported by the monitor.
type Session struct {
	ID     string
	Title  string
	UserID int64
	ItemID int64 // catalog item ID when the monitor knows it, else 0
}

// Source lists the sessions currently playing.
type Source interface {
	ActiveSessions(ctx context.Context) ([]Session, error)
}

// TitleResolver maps a reported display title to a catalog item.
type TitleResolver interface {
	ResolveTitle(title string) (library.Match, error)
}

// Adapter polls the session source and publishes one PlaybackStarted event
// per session. Sessions are tracked by ID so a long-running playback is
// announced exactly once.
type Adapter struct {
	source   Source
	bus      *events.Bus
	resolver TitleResolver
	interval time.Duration
	minScore float64
	logger   *slog.Logger

	// Session IDs already announced, kept until the session disappears.
	seen map[string]struct{}
}

// New creates a session adapter. minScore is the lowest title-match score
// accepted when the monitor does not report a catalog item ID.
func New(bus *events.Bus, source Source, resolver TitleResolver, interval time.Duration, minScore float64, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		source:   source,
		bus:      bus,
		resolver: resolver,
		interval: interval,
		minScore: minScore,
		logger:   logger,
		seen:     make(map[string]struct{}),
	}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "session"
}

// Start begins polling at the configured interval.
// It runs until the context is canceled.
func (a *Adapter) Start(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	// Poll immediately on start
	a.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.poll(ctx)
		}
	}
}

// poll fetches active sessions and announces ones not seen before.
func (a *Adapter) poll(ctx context.Context) {
	sessions, err := a.source.ActiveSessions(ctx)
	if err != nil {
		a.logger.Error("failed to list sessions", "error", err)
		return
	}

	active := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		active[s.ID] = struct{}{}
		if _, done := a.seen[s.ID]; done {
			continue
		}
		a.announce(ctx, s)
	}

	// Forget sessions that ended so a replay announces again.
	for id := range a.seen {
		if _, ok := active[id]; !ok {
			delete(a.seen, id)
		}
	}
}

// announce resolves the session to a catalog item and publishes the event.
func (a *Adapter) announce(ctx context.Context, s Session) {
	itemID := s.ItemID
	if itemID == 0 {
		match, err := a.resolver.ResolveTitle(s.Title)
		if err != nil {
			a.logger.Error("title resolution failed",
				"session_id", s.ID,
				"title", s.Title,
				"error", err)
			return
		}
		if match.Item == nil || match.Score < a.minScore {
			// Keep the session marked so we don't re-resolve every poll.
			a.seen[s.ID] = struct{}{}
			a.logger.Debug("session title did not resolve",
				"session_id", s.ID,
				"title", s.Title,
				"score", match.Score)
			return
		}
		itemID = match.Item.ID
		a.logger.Debug("session title resolved",
			"session_id", s.ID,
			"title", s.Title,
			"item_id", itemID,
			"confidence", match.Confidence.String())
	}

	evt := &events.PlaybackStarted{
		BaseEvent: events.NewBaseEvent(events.EventPlaybackStarted, events.EntitySession, itemID),
		SessionID: s.ID,
		ItemID:    itemID,
		UserID:    s.UserID,
	}
	if err := a.bus.Publish(ctx, evt); err != nil {
		a.logger.Error("failed to publish PlaybackStarted event",
			"session_id", s.ID,
			"error", err)
		return
	}
	a.seen[s.ID] = struct{}{}

	a.logger.Info("playback started",
		"session_id", s.ID,
		"item_id", itemID,
		"user_id", s.UserID)
}
