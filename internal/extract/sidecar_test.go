package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidecarStore_RoundTrip(t *testing.T) {
	store := NewSidecarStore(t.TempDir())

	info := &MediaInfo{
		Container:   "matroska,webm",
		DurationSec: 1800,
		Streams:     []Stream{{Index: 0, CodecName: "h264", CodecType: "video"}},
	}
	require.NoError(t, store.Write(42, info))

	got, err := store.Read(42)
	require.NoError(t, err)
	assert.Equal(t, info.Container, got.Container)
	require.Len(t, got.Streams, 1)
	assert.Equal(t, "h264", got.Streams[0].CodecName)
}

func TestSidecarStore_Read_Missing(t *testing.T) {
	store := NewSidecarStore(t.TempDir())
	_, err := store.Read(99)
	assert.Error(t, err)
}

func TestSidecarStore_Delete(t *testing.T) {
	store := NewSidecarStore(t.TempDir())

	require.NoError(t, store.Write(7, &MediaInfo{Container: "mp4"}))
	require.NoError(t, store.Delete(7))
	_, err := store.Read(7)
	assert.Error(t, err)

	// Deleting twice is fine
	assert.NoError(t, store.Delete(7))
}

func TestSidecarStore_List(t *testing.T) {
	store := NewSidecarStore(t.TempDir())

	ids, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.Write(1, &MediaInfo{Container: "mp4"}))
	require.NoError(t, store.Write(2, &MediaInfo{Container: "mkv"}))

	ids, err = store.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}
