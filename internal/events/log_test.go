package events

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/mediarr/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	return db
}

func TestEventLog_Append(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	e := &ItemAdded{BaseEvent: NewBaseEvent(EventItemAdded, EntityItem, 1), ItemID: 1}

	id, err := log.Append(e)
	require.NoError(t, err)
	assert.Positive(t, id)

	events, err := log.ForEntity(EntityItem, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Payload, `"item_id":1`)
	assert.Equal(t, EventItemAdded, events[0].EventType)
	assert.Equal(t, EntityItem, events[0].EntityType)
	assert.Equal(t, int64(1), events[0].EntityID)
}

func TestEventLog_Since(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	start := time.Now().Add(-time.Hour)

	e1 := &ItemAdded{BaseEvent: NewBaseEvent(EventItemAdded, EntityItem, 1), ItemID: 1}
	e2 := &ItemRemoved{BaseEvent: NewBaseEvent(EventItemRemoved, EntityItem, 2), ItemID: 2}

	_, err := log.Append(e1)
	require.NoError(t, err)
	_, err = log.Append(e2)
	require.NoError(t, err)

	events, err := log.Since(start)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	assert.Equal(t, EventItemAdded, events[0].EventType)
	assert.Equal(t, EventItemRemoved, events[1].EventType)
}

func TestEventLog_Recent(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	for i := 0; i < 5; i++ {
		e := &ItemAdded{BaseEvent: NewBaseEvent(EventItemAdded, EntityItem, int64(i+1)), ItemID: int64(i + 1)}
		_, err := log.Append(e)
		require.NoError(t, err)
	}

	events, err := log.Recent(3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
	// Newest first
	assert.Equal(t, int64(5), events[0].EntityID)
	assert.Equal(t, int64(4), events[1].EntityID)
	assert.Equal(t, int64(3), events[2].EntityID)
}

func TestEventLog_Prune(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	_, err := db.Exec(`
		INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		EventItemAdded, EntityItem, 1, `{"item_id":1}`, time.Now().Add(-100*24*time.Hour),
	)
	require.NoError(t, err)

	e := &ItemAdded{BaseEvent: NewBaseEvent(EventItemAdded, EntityItem, 2), ItemID: 2}
	_, err = log.Append(e)
	require.NoError(t, err)

	count, err := log.Prune(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	events, err := log.Since(time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].EntityID)
}

func TestEventLog_ForEntity(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	for i, id := range []int64{1, 2, 1} {
		e := &ItemUpdated{BaseEvent: NewBaseEvent(EventItemUpdated, EntityItem, id), ItemID: id}
		_, err := log.Append(e)
		require.NoError(t, err, "append %d", i)
	}

	events, err := log.ForEntity(EntityItem, 1)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = log.ForEntity(EntityItem, 2)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventLog_PayloadRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	e := &ItemUpdated{
		BaseEvent: NewBaseEvent(EventItemUpdated, EntityItem, 7),
		ItemID:    7,
		Reasons:   []UpdateReason{ReasonMetadataDownload},
	}
	_, err := log.Append(e)
	require.NoError(t, err)

	raw, err := log.ForEntity(EntityItem, 7)
	require.NoError(t, err)
	require.Len(t, raw, 1)

	decoded, err := DefaultRegistry().Unmarshal(raw[0])
	require.NoError(t, err)

	updated, ok := decoded.(*ItemUpdated)
	require.True(t, ok)
	assert.Equal(t, int64(7), updated.ItemID)
	assert.True(t, HasReason(updated.Reasons, ReasonMetadataDownload))
	assert.False(t, HasReason(updated.Reasons, ReasonMetadataImport))
}

func TestEventLog_AppendMany(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	for i := 0; i < 3; i++ {
		e := &PlaybackStarted{
			BaseEvent: NewBaseEvent(EventPlaybackStarted, EntitySession, int64(i)),
			SessionID: fmt.Sprintf("session-%d", i),
			ItemID:    int64(i),
		}
		_, err := log.Append(e)
		require.NoError(t, err)
	}

	events, err := log.Since(time.Time{})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}
