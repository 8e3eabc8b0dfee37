package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Status(t *testing.T) {
	srv := mockServer(t, "/api/v1/status", StatusResponse{
		Status: "ok",
		Catchup: CatchupStatus{
			Enabled: true,
			Running: true,
			Tasks:   []string{"mediainfo", "fingerprint", "introskip"},
			Queues: []QueueStats{
				{Kind: "mediainfo", Workers: 4, Pending: 2, Processed: 17},
				{Kind: "fingerprint", Workers: 1},
				{Kind: "introskip", Workers: 2, Dropped: 1},
			},
		},
		Items: 321,
		Users: 4,
	})

	client := NewClient(srv.URL)
	resp, err := client.Status()
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Catchup.Enabled)
	require.Len(t, resp.Catchup.Queues, 3)
	assert.Equal(t, uint64(17), resp.Catchup.Queues[0].Processed)
	assert.Equal(t, uint64(1), resp.Catchup.Queues[2].Dropped)
	assert.Equal(t, 321, resp.Items)
}

func TestClient_Status_ServerError(t *testing.T) {
	srv := mockError(t, http.StatusInternalServerError, "boom")

	client := NewClient(srv.URL)
	_, err := client.Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_Events(t *testing.T) {
	srv := mockServer(t, "/api/v1/events", ListEventsResponse{
		Items: []EventResponse{
			{ID: 2, EventType: "item.added", EntityType: "item", EntityID: 9},
			{ID: 1, EventType: "playback.started", EntityType: "session", EntityID: 9},
		},
		Total: 2,
	})

	client := NewClient(srv.URL)
	resp, err := client.Events(20)
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "item.added", resp.Items[0].EventType)
}

func TestClient_ItemEvents(t *testing.T) {
	srv := mockServer(t, "/api/v1/items/7/events", ListEventsResponse{Total: 0})

	client := NewClient(srv.URL)
	resp, err := client.ItemEvents(7)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
}

func TestClient_Items_Filters(t *testing.T) {
	srv := mockServer(t, "/api/v1/items", ListItemsResponse{
		Items: []ItemResponse{{ID: 1, Kind: "episode", Title: "Pilot", Library: "TV"}},
		Total: 1,
	})

	client := NewClient(srv.URL)
	resp, err := client.Items("episode", "TV", 50)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Pilot", resp.Items[0].Title)
}

func TestClient_Item(t *testing.T) {
	srv := mockServer(t, "/api/v1/items/42", ItemResponse{
		ID: 42, Kind: "movie", Title: "Heat", Library: "Movies", HasMediaInfo: true,
	})

	client := NewClient(srv.URL)
	resp, err := client.Item(42)
	require.NoError(t, err)
	assert.Equal(t, "Heat", resp.Title)
	assert.True(t, resp.HasMediaInfo)
}

func TestClient_Users(t *testing.T) {
	srv := mockServer(t, "/api/v1/users", ListUsersResponse{
		Items: []UserResponse{
			{ID: 2, Name: "amy", IsAdministrator: true},
			{ID: 1, Name: "zoe"},
		},
	})

	client := NewClient(srv.URL)
	resp, err := client.Users()
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].IsAdministrator)
}
