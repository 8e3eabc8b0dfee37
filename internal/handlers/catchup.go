// internal/handlers/catchup.go
package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vmunix/mediarr/internal/catchup"
	"github.com/vmunix/mediarr/internal/events"
	"github.com/vmunix/mediarr/internal/library"
)

// CatchupHandler feeds library, user, and session events into the dispatch
// engine. It is the only bus consumer for those event types; the engine
// itself never touches the bus.
type CatchupHandler struct {
	*BaseHandler
	engine  *catchup.Engine
	library *library.Store
}

// NewCatchupHandler creates a catch-up handler.
func NewCatchupHandler(bus *events.Bus, engine *catchup.Engine, lib *library.Store, logger *slog.Logger) *CatchupHandler {
	return &CatchupHandler{
		BaseHandler: NewBaseHandler(bus, logger),
		engine:      engine,
		library:     lib,
	}
}

// Name returns the handler name.
func (h *CatchupHandler) Name() string {
	return "catchup"
}

// Start begins processing events. Each event is handled synchronously here,
// but the engine hands all slow work to queues or background tasks, so the
// loop keeps up with the bus.
func (h *CatchupHandler) Start(ctx context.Context) error {
	added := h.Bus().Subscribe(events.EventItemAdded, 100)
	updated := h.Bus().Subscribe(events.EventItemUpdated, 100)
	removed := h.Bus().Subscribe(events.EventItemRemoved, 100)
	userData := h.Bus().Subscribe(events.EventUserDataSaved, 100)
	userCreated := h.Bus().Subscribe(events.EventUserCreated, 16)
	userDeleted := h.Bus().Subscribe(events.EventUserDeleted, 16)
	userConfig := h.Bus().Subscribe(events.EventUserConfigUpdated, 16)
	playback := h.Bus().Subscribe(events.EventPlaybackStarted, 100)

	for {
		select {
		case e := <-added:
			if e == nil {
				return nil // Channel closed
			}
			h.handleItemAdded(ctx, e.(*events.ItemAdded))
		case e := <-updated:
			if e == nil {
				return nil
			}
			h.handleItemUpdated(ctx, e.(*events.ItemUpdated))
		case e := <-removed:
			if e == nil {
				return nil
			}
			h.handleItemRemoved(ctx, e.(*events.ItemRemoved))
		case e := <-userData:
			if e == nil {
				return nil
			}
			h.handleUserDataSaved(ctx, e.(*events.UserDataSaved))
		case e := <-userCreated:
			if e == nil {
				return nil
			}
			h.engine.HandleUserCreated(ctx)
		case e := <-userDeleted:
			if e == nil {
				return nil
			}
			h.engine.HandleUserDeleted(ctx)
		case e := <-userConfig:
			if e == nil {
				return nil
			}
			h.engine.HandleUserConfigUpdated(ctx, e.(*events.UserConfigUpdated).IsAdministrator)
		case e := <-playback:
			if e == nil {
				return nil
			}
			h.handlePlaybackStarted(ctx, e.(*events.PlaybackStarted))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *CatchupHandler) handleItemAdded(ctx context.Context, e *events.ItemAdded) {
	item, ok := h.lookupItem(e.ItemID, "item added")
	if !ok {
		return
	}
	h.engine.HandleItemAdded(ctx, item)
}

func (h *CatchupHandler) handleItemUpdated(ctx context.Context, e *events.ItemUpdated) {
	item, ok := h.lookupItem(e.ItemID, "item updated")
	if !ok {
		return
	}
	h.engine.HandleItemUpdated(ctx, item, e.Reasons)
}

func (h *CatchupHandler) handleItemRemoved(ctx context.Context, e *events.ItemRemoved) {
	// The catalog row is gone; reconstruct the reference from the event.
	h.engine.HandleItemRemoved(ctx, &library.Item{
		ID:   e.ItemID,
		Kind: library.ItemKind(e.Kind),
	})
}

func (h *CatchupHandler) handleUserDataSaved(ctx context.Context, e *events.UserDataSaved) {
	if !e.IsFavorite {
		return
	}
	item, ok := h.lookupItem(e.ItemID, "user data saved")
	if !ok {
		return
	}
	h.engine.HandleUserDataSaved(ctx, item, true)
}

func (h *CatchupHandler) handlePlaybackStarted(ctx context.Context, e *events.PlaybackStarted) {
	item, ok := h.lookupItem(e.ItemID, "playback started")
	if !ok {
		return
	}
	h.engine.HandlePlaybackStarted(ctx, item)
}

// lookupItem fetches the item an event refers to. A missing row is normal
// when the item was removed before the event drained; anything else is
// logged. Errors never propagate back toward the producer.
func (h *CatchupHandler) lookupItem(id int64, event string) (*library.Item, bool) {
	item, err := h.library.GetItem(id)
	if err != nil {
		if !errors.Is(err, library.ErrNotFound) {
			h.Logger().Warn("item lookup failed", "event", event, "item_id", id, "error", err)
		}
		return nil, false
	}
	return item, true
}
