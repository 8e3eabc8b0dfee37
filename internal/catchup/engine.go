package catchup

import (
	"context"
	"log/slog"

	"github.com/vmunix/mediarr/internal/events"
	"github.com/vmunix/mediarr/internal/library"
)

// Enqueuer is the queue surface the engine dispatches into. Implemented by
// Manager.
type Enqueuer interface {
	Running() bool
	Enqueue(kind TaskKind, item *library.Item) bool
}

// Notifier delivers favorites-update notifications.
type Notifier interface {
	SendFavoritesUpdate(ctx context.Context, item *library.Item) error
}

// PeopleRefresher refreshes people metadata for a series.
type PeopleRefresher interface {
	UpdateSeriesPeople(seriesID int64) error
}

// UserCache is the cached-user-list collaborator.
type UserCache interface {
	Refresh(ctx context.Context) error
	RefreshAdminViews(ctx context.Context) error
}

// MarkerSource answers whether a season already has intro/credits markers.
type MarkerSource interface {
	SeasonHasMarkers(seriesID int64, season int) (bool, error)
}

// SidecarDeleter removes a persisted media-info side file.
type SidecarDeleter interface {
	Delete(itemID int64) error
}

// Engine is the dispatch rules engine: it maps incoming library, user, and
// session events onto queue entries and collaborator calls. All handlers
// return quickly; anything slow goes to a queue or the background runner,
// and collaborator errors are logged rather than surfaced to the producer.
type Engine struct {
	scope      *Holder
	queues     Enqueuer
	notifier   Notifier
	people     PeopleRefresher
	users      UserCache
	markers    MarkerSource
	sidecars   SidecarDeleter
	background *Background
	logger     *slog.Logger
}

// NewEngine wires the dispatch engine to its collaborators.
func NewEngine(scope *Holder, queues Enqueuer, notifier Notifier, people PeopleRefresher,
	users UserCache, markers MarkerSource, sidecars SidecarDeleter,
	background *Background, logger *slog.Logger) *Engine {
	return &Engine{
		scope:      scope,
		queues:     queues,
		notifier:   notifier,
		people:     people,
		users:      users,
		markers:    markers,
		sidecars:   sidecars,
		background: background,
		logger:     logger,
	}
}

// HandleItemAdded dispatches catch-up work for a freshly added item and
// emits the favorites-update notification for movie, series, and episode
// entities. The notification is independent of catch-up mode.
func (e *Engine) HandleItemAdded(ctx context.Context, item *library.Item) {
	switch item.Kind {
	case library.KindMovie, library.KindSeries, library.KindEpisode:
		e.background.Go("favorites-update", func(ctx context.Context) error {
			return e.notifier.SendFavoritesUpdate(ctx, item)
		})
	}

	sc := e.scope.Current()
	if !sc.CatchupEnabled || !e.queues.Running() {
		return
	}
	if !item.Kind.IsPlayable() {
		return
	}
	e.dispatch(sc, item, false)
}

// HandleItemUpdated triggers a people-metadata refresh when a series or
// season was touched by a metadata download or import.
func (e *Engine) HandleItemUpdated(ctx context.Context, item *library.Item, reasons []events.UpdateReason) {
	sc := e.scope.Current()
	if !sc.EnhancePeople {
		return
	}
	if !events.HasReason(reasons, events.ReasonMetadataDownload) &&
		!events.HasReason(reasons, events.ReasonMetadataImport) {
		return
	}

	var seriesID int64
	switch {
	case item.Kind == library.KindSeries:
		seriesID = item.ID
	case item.Kind == library.KindSeason && item.SeasonNumber != nil && *item.SeasonNumber > 0 && item.SeriesID != nil:
		seriesID = *item.SeriesID
	default:
		return
	}

	if err := e.people.UpdateSeriesPeople(seriesID); err != nil {
		e.logger.Warn("people refresh failed", "series_id", seriesID, "error", err)
	}
}

// HandleItemRemoved cleans up the persisted media-info side file for
// playable items when persistence is enabled.
func (e *Engine) HandleItemRemoved(ctx context.Context, item *library.Item) {
	sc := e.scope.Current()
	if !sc.PersistMediaInfo || !item.Kind.IsPlayable() {
		return
	}
	itemID := item.ID
	e.background.Go("sidecar-delete", func(context.Context) error {
		return e.sidecars.Delete(itemID)
	})
}

// HandleUserDataSaved dispatches catch-up work when an item is marked as a
// favorite. The fingerprint branch additionally accepts series items here.
func (e *Engine) HandleUserDataSaved(ctx context.Context, item *library.Item, isFavorite bool) {
	if !isFavorite {
		return
	}
	sc := e.scope.Current()
	if !sc.CatchupEnabled || !e.queues.Running() {
		return
	}
	e.dispatch(sc, item, true)
}

// HandleUserCreated refreshes the cached user list.
func (e *Engine) HandleUserCreated(ctx context.Context) {
	if err := e.users.Refresh(ctx); err != nil {
		e.logger.Warn("user cache refresh failed", "error", err)
	}
}

// HandleUserDeleted refreshes the cached user list.
func (e *Engine) HandleUserDeleted(ctx context.Context) {
	if err := e.users.Refresh(ctx); err != nil {
		e.logger.Warn("user cache refresh failed", "error", err)
	}
}

// HandleUserConfigUpdated refreshes admin-ordered views when the
// administrator flag changed.
func (e *Engine) HandleUserConfigUpdated(ctx context.Context, isAdministrator bool) {
	if !isAdministrator {
		return
	}
	if err := e.users.RefreshAdminViews(ctx); err != nil {
		e.logger.Warn("admin view refresh failed", "error", err)
	}
}

// HandlePlaybackStarted gives actively watched items a catch-up pass outside
// the add/update path.
func (e *Engine) HandlePlaybackStarted(ctx context.Context, item *library.Item) {
	sc := e.scope.Current()
	if !sc.CatchupEnabled || !e.queues.Running() {
		return
	}
	if !item.Kind.IsPlayable() {
		return
	}
	e.dispatch(sc, item, false)
}

// dispatch applies the catch-up decision table to one item. When favorite is
// set the fingerprint branch widens to series items; otherwise it applies to
// episodes only. The fingerprint branch short-circuits everything else for
// the event: episode identity must be resolved before other enrichment is
// worth doing.
func (e *Engine) dispatch(sc *Scope, item *library.Item, favorite bool) {
	if e.fingerprintWanted(sc, item, favorite) {
		e.enqueue(TaskFingerprint, item)
		return
	}

	if sc.IsTaskEnabled(TaskMediaInfo) && (sc.ExclusiveExtract || item.IsShortcut) && item.Kind.IsPlayable() {
		e.enqueue(TaskMediaInfo, item)
	}

	if sc.IsTaskEnabled(TaskIntroSkip) && sc.LibraryInScope(item.LibraryName, TaskIntroSkip) && item.Kind.IsVideo() {
		if !item.HasMediaInfo {
			// Intro-skip needs media info; redirect to the prerequisite.
			e.enqueue(TaskMediaInfo, item)
		} else if item.Kind == library.KindEpisode && item.SeriesID != nil && item.SeasonNumber != nil {
			has, err := e.markers.SeasonHasMarkers(*item.SeriesID, *item.SeasonNumber)
			if err != nil {
				e.logger.Warn("season marker lookup failed",
					"item_id", item.ID, "error", err)
				return
			}
			if has {
				e.enqueue(TaskIntroSkip, item)
			}
		}
	}
}

func (e *Engine) fingerprintWanted(sc *Scope, item *library.Item, favorite bool) bool {
	if !sc.IsTaskEnabled(TaskFingerprint) || !sc.FingerprintUnlocked {
		return false
	}
	if !sc.LibraryInScope(item.LibraryName, TaskFingerprint) {
		return false
	}
	if favorite {
		return item.Kind == library.KindEpisode || item.Kind == library.KindSeries
	}
	return item.Kind == library.KindEpisode
}

func (e *Engine) enqueue(kind TaskKind, item *library.Item) {
	if e.queues.Enqueue(kind, item) {
		e.logger.Debug("enqueued catch-up task",
			"task", string(kind), "item_id", item.ID, "title", item.Title)
	}
}
