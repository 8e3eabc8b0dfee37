// internal/handlers/catchup_test.go
package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/mediarr/internal/catchup"
	"github.com/vmunix/mediarr/internal/events"
	"github.com/vmunix/mediarr/internal/library"
	"github.com/vmunix/mediarr/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

type recordingQueues struct {
	mu       sync.Mutex
	enqueued []catchup.TaskKind
	items    []int64
}

func (r *recordingQueues) Running() bool { return true }

func (r *recordingQueues) Enqueue(kind catchup.TaskKind, item *library.Item) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enqueued = append(r.enqueued, kind)
	r.items = append(r.items, item.ID)
	return true
}

func (r *recordingQueues) snapshot() []catchup.TaskKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]catchup.TaskKind(nil), r.enqueued...)
}

type noopNotifier struct{}

func (noopNotifier) SendFavoritesUpdate(context.Context, *library.Item) error { return nil }

type noopUsers struct{}

func (noopUsers) Refresh(context.Context) error           { return nil }
func (noopUsers) RefreshAdminViews(context.Context) error { return nil }

type recordingSidecars struct {
	mu      sync.Mutex
	deleted []int64
}

func (r *recordingSidecars) Delete(itemID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, itemID)
	return nil
}

func (r *recordingSidecars) snapshot() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.deleted...)
}

type catchupFixture struct {
	bus      *events.Bus
	db       *sql.DB
	store    *library.Store
	queues   *recordingQueues
	sidecars *recordingSidecars
	handler  *CatchupHandler
	cancel   context.CancelFunc
	done     chan error
}

func setupCatchupHandler(t *testing.T, sc *catchup.Scope) *catchupFixture {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	db := setupTestDB(t)
	store := library.NewStore(db)
	bus := events.NewBus(nil, logger)
	t.Cleanup(func() { _ = bus.Close() })

	queues := &recordingQueues{}
	sidecars := &recordingSidecars{}
	background := catchup.NewBackground(1000, 100, logger)
	t.Cleanup(background.Close)

	engine := catchup.NewEngine(catchup.NewHolder(sc), queues, noopNotifier{}, store,
		noopUsers{}, store, sidecars, background, logger)

	h := NewCatchupHandler(bus, engine, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &catchupFixture{
		bus:      bus,
		db:       db,
		store:    store,
		queues:   queues,
		sidecars: sidecars,
		handler:  h,
		cancel:   cancel,
		done:     done,
	}
}

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

func fullScope() *catchup.Scope {
	return &catchup.Scope{
		CatchupEnabled:      true,
		EnabledTasks:        catchup.NewTaskSet(catchup.AllTasks...),
		FingerprintUnlocked: true,
	}
}

func TestCatchupHandler_ItemAddedEnqueuesFingerprint(t *testing.T) {
	f := setupCatchupHandler(t, fullScope())
	ctx := context.Background()

	seriesID := int64(1)
	ep := &library.Item{Kind: library.KindEpisode, Title: "Pilot", LibraryName: "TV",
		SeriesID: &seriesID, SeasonNumber: intPtr(1)}
	require.NoError(t, f.store.AddItem(ep))

	require.NoError(t, f.bus.Publish(ctx, &events.ItemAdded{
		BaseEvent: events.NewBaseEvent(events.EventItemAdded, events.EntityItem, ep.ID),
		ItemID:    ep.ID,
	}))

	waitFor(t, func() bool { return len(f.queues.snapshot()) == 1 })
	assert.Equal(t, []catchup.TaskKind{catchup.TaskFingerprint}, f.queues.snapshot())
}

func TestCatchupHandler_ItemAddedMissingRowIgnored(t *testing.T) {
	f := setupCatchupHandler(t, fullScope())
	ctx := context.Background()

	require.NoError(t, f.bus.Publish(ctx, &events.ItemAdded{
		BaseEvent: events.NewBaseEvent(events.EventItemAdded, events.EntityItem, 9999),
		ItemID:    9999,
	}))

	// Give the handler a moment; nothing should be enqueued.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, f.queues.snapshot())
}

func TestCatchupHandler_ItemUpdatedStampsSeriesPeople(t *testing.T) {
	sc := fullScope()
	sc.EnhancePeople = true
	f := setupCatchupHandler(t, sc)
	ctx := context.Background()

	series := &library.Item{Kind: library.KindSeries, Title: "Show", LibraryName: "TV"}
	require.NoError(t, f.store.AddItem(series))

	require.NoError(t, f.bus.Publish(ctx, &events.ItemUpdated{
		BaseEvent: events.NewBaseEvent(events.EventItemUpdated, events.EntityItem, series.ID),
		ItemID:    series.ID,
		Reasons:   []events.UpdateReason{events.ReasonMetadataDownload},
	}))

	// The stamp lands synchronously in the handler loop; poll the row.
	waitFor(t, func() bool {
		var stamped bool
		err := f.db.QueryRow(
			`SELECT people_refreshed_at IS NOT NULL FROM items WHERE id = ?`, series.ID).Scan(&stamped)
		return err == nil && stamped
	})
}

func TestCatchupHandler_ItemRemovedDeletesSidecar(t *testing.T) {
	sc := fullScope()
	sc.PersistMediaInfo = true
	f := setupCatchupHandler(t, sc)
	ctx := context.Background()

	require.NoError(t, f.bus.Publish(ctx, &events.ItemRemoved{
		BaseEvent: events.NewBaseEvent(events.EventItemRemoved, events.EntityItem, 7),
		ItemID:    7,
		Kind:      string(library.KindMovie),
	}))

	waitFor(t, func() bool { return len(f.sidecars.snapshot()) == 1 })
	assert.Equal(t, []int64{7}, f.sidecars.snapshot())
}

func TestCatchupHandler_FavoriteDispatches(t *testing.T) {
	f := setupCatchupHandler(t, fullScope())
	ctx := context.Background()

	series := &library.Item{Kind: library.KindSeries, Title: "Show", LibraryName: "TV"}
	require.NoError(t, f.store.AddItem(series))

	require.NoError(t, f.bus.Publish(ctx, &events.UserDataSaved{
		BaseEvent:  events.NewBaseEvent(events.EventUserDataSaved, events.EntityItem, series.ID),
		UserID:     1,
		ItemID:     series.ID,
		IsFavorite: true,
	}))

	waitFor(t, func() bool { return len(f.queues.snapshot()) == 1 })
	assert.Equal(t, []catchup.TaskKind{catchup.TaskFingerprint}, f.queues.snapshot())
}

func TestCatchupHandler_PlaybackStartedDispatches(t *testing.T) {
	sc := fullScope()
	sc.EnabledTasks = catchup.NewTaskSet(catchup.TaskIntroSkip)
	f := setupCatchupHandler(t, sc)
	ctx := context.Background()

	series := &library.Item{Kind: library.KindSeries, Title: "Show", LibraryName: "TV"}
	require.NoError(t, f.store.AddItem(series))
	require.NoError(t, f.store.SetSeasonMarkers(series.ID, 1, true))

	ep := &library.Item{Kind: library.KindEpisode, Title: "Pilot", LibraryName: "TV",
		SeriesID: &series.ID, SeasonNumber: intPtr(1), HasMediaInfo: true}
	require.NoError(t, f.store.AddItem(ep))

	require.NoError(t, f.bus.Publish(ctx, &events.PlaybackStarted{
		BaseEvent: events.NewBaseEvent(events.EventPlaybackStarted, events.EntitySession, 1),
		SessionID: "s1",
		ItemID:    ep.ID,
		UserID:    1,
	}))

	waitFor(t, func() bool { return len(f.queues.snapshot()) == 1 })
	assert.Equal(t, []catchup.TaskKind{catchup.TaskIntroSkip}, f.queues.snapshot())
}

func intPtr(v int) *int { return &v }
